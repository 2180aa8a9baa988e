package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-sri/internal/domain"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/storage"
)

const clave = "1501202401179001234500110010010000000011234567810"

func TestFileStore_EnsureDirs(t *testing.T) {
	root := t.TempDir()
	s := storage.NewFileStore(root)
	require.NoError(t, s.EnsureDirs())
	for _, st := range storage.Stages {
		info, err := os.Stat(filepath.Join(root, string(st)))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestFileStore_WriteReadCopyRemove(t *testing.T) {
	s := storage.NewFileStore(t.TempDir())

	path, err := s.Write(storage.StageFirmados, clave, []byte("<factura/>"))
	require.NoError(t, err)
	assert.Equal(t, s.Path(storage.StageFirmados, clave), path)
	assert.Equal(t, clave+".xml", filepath.Base(path))
	assert.True(t, s.Exists(storage.StageFirmados, clave))

	data, err := s.Read(storage.StageFirmados, clave)
	require.NoError(t, err)
	assert.Equal(t, "<factura/>", string(data))

	_, err = s.Copy(storage.StageFirmados, storage.StageEnviados, clave)
	require.NoError(t, err)
	assert.True(t, s.Exists(storage.StageEnviados, clave))
	assert.True(t, s.Exists(storage.StageFirmados, clave), "copiar no mueve")

	require.NoError(t, s.Remove(storage.StageEnviados, clave))
	assert.False(t, s.Exists(storage.StageEnviados, clave))
	require.NoError(t, s.Remove(storage.StageEnviados, clave), "borrar dos veces no falla")
}

func TestFileStore_ReadInexistente(t *testing.T) {
	s := storage.NewFileStore(t.TempDir())
	_, err := s.Read(storage.StageAutorizados, clave)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFileStore_NombreInvalido(t *testing.T) {
	s := storage.NewFileStore(t.TempDir())
	_, err := s.Write(storage.StageGenerados, "../fuera", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestFileStore_ListIgnoraTemporales(t *testing.T) {
	s := storage.NewFileStore(t.TempDir())
	for _, n := range []string{"b", "a", "c"} {
		_, err := s.Write(storage.StageContingencia, n, []byte(n))
		require.NoError(t, err)
	}
	dir := filepath.Dir(s.Path(storage.StageContingencia, "a"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".a.123.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("x"), 0o644))

	names, err := s.List(storage.StageContingencia)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	vacio, err := s.List(storage.StageRechazados)
	require.NoError(t, err)
	assert.Empty(t, vacio)
}

func TestFileStore_EscriturasConcurrentesNoCorrompen(t *testing.T) {
	s := storage.NewFileStore(t.TempDir())
	payloads := []string{"<a>uno</a>", "<a>dos</a>", "<a>tres</a>", "<a>cuatro</a>"}

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			_, err := s.Write(storage.StageAutorizados, clave, []byte(p))
			assert.NoError(t, err)
		}(payloads[i%len(payloads)])
	}
	wg.Wait()

	data, err := s.Read(storage.StageAutorizados, clave)
	require.NoError(t, err)
	assert.Contains(t, payloads, string(data))

	names, err := s.List(storage.StageAutorizados)
	require.NoError(t, err)
	assert.Equal(t, []string{clave}, names)
}
