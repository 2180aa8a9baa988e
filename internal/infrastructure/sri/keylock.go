package sri

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// DefaultLockStale antigüedad a partir de la cual un candado de archivo se da por
// abandonado (proceso caído sin liberar).
const DefaultLockStale = 10 * time.Minute

const lockPollInterval = 50 * time.Millisecond

// KeyLocker serializa operaciones sobre una misma clave de acceso (submit, checkStatus,
// reintento de contingencia). Las entradas se liberan cuando nadie las usa.
//
// Con WithLockDir además toma un archivo <dir>/<clave>.lock, así la API y el cron de
// contingencia se excluyen aunque corran en procesos distintos.
type KeyLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock

	dir   string
	stale time.Duration
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// KeyLockerOption configura el locker.
type KeyLockerOption func(*KeyLocker)

// WithLockDir activa el candado de archivo en dir. stale <= 0 desactiva la recuperación
// de candados abandonados.
func WithLockDir(dir string, stale time.Duration) KeyLockerOption {
	return func(l *KeyLocker) {
		l.dir = dir
		l.stale = stale
	}
}

// NewKeyLocker crea un locker vacío.
func NewKeyLocker(opts ...KeyLockerOption) *KeyLocker {
	l := &KeyLocker{locks: make(map[string]*keyLock)}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Lock espera el candado de key o la cancelación de ctx. La función devuelta libera
// el candado y es segura de llamar una sola vez.
func (l *KeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl)
		return nil, ctx.Err()
	}

	path, err := l.lockFile(ctx, key)
	if err != nil {
		<-kl.ch
		l.release(key, kl)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if path != "" {
				_ = os.Remove(path)
			}
			<-kl.ch
			l.release(key, kl)
		})
	}, nil
}

// lockFile crea el archivo de candado en exclusiva; sin dir no hace nada.
func (l *KeyLocker) lockFile(ctx context.Context, key string) (string, error) {
	if l.dir == "" {
		return "", nil
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("sri: directorio de candados: %w", err)
	}
	path := filepath.Join(l.dir, key+".lock")
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, _ = f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
			_ = f.Close()
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("sri: candado %s: %w", key, err)
		}
		if l.stale > 0 {
			if info, statErr := os.Stat(path); statErr == nil && time.Since(info.ModTime()) > l.stale {
				_ = os.Remove(path)
				continue
			}
		}
		if err := WaitContext(ctx, lockPollInterval); err != nil {
			return "", err
		}
	}
}

func (l *KeyLocker) release(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// Len cantidad de claves con candado vivo.
func (l *KeyLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
