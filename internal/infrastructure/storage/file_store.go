// Package storage persiste los artefactos XML por etapa del ciclo de vida del comprobante.
// Cada artefacto es un archivo UTF-8 `<claveAcceso>.xml` dentro del directorio de su etapa.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/facturacion-sri/internal/domain"
)

// Stage directorio de una etapa.
type Stage string

const (
	StageGenerados     Stage = "generados"
	StageFirmados      Stage = "firmados"
	StageEnviados      Stage = "enviados"
	StageAutorizados   Stage = "autorizados"
	StageNoAutorizados Stage = "no_autorizados"
	StageRechazados    Stage = "rechazados"
	StageContingencia  Stage = "contingencia"
)

// Stages todas las etapas, en el orden en que un comprobante las recorre.
var Stages = []Stage{
	StageGenerados,
	StageFirmados,
	StageEnviados,
	StageAutorizados,
	StageNoAutorizados,
	StageRechazados,
	StageContingencia,
}

const extension = ".xml"

// Store operaciones sobre artefactos que consumen el transporte y el orquestador.
type Store interface {
	Path(stage Stage, name string) string
	Write(stage Stage, name string, data []byte) (string, error)
	Read(stage Stage, name string) ([]byte, error)
	Exists(stage Stage, name string) bool
	Copy(from, to Stage, name string) (string, error)
	Remove(stage Stage, name string) error
	List(stage Stage) ([]string, error)
}

// FileStore almacén en disco. Las escrituras son atómicas (temporal + rename), por lo
// que un lector nunca observa un archivo a medio escribir.
type FileStore struct {
	root string
}

// NewFileStore crea el almacén bajo root. No toca el disco; ver EnsureDirs.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Root directorio base.
func (s *FileStore) Root() string { return s.root }

// LockDir directorio de candados por clave, compartido por los procesos que usan el almacén.
func (s *FileStore) LockDir() string { return filepath.Join(s.root, ".locks") }

// EnsureDirs crea los directorios de todas las etapas.
func (s *FileStore) EnsureDirs() error {
	for _, st := range Stages {
		if err := os.MkdirAll(s.dir(st), 0o755); err != nil {
			return fmt.Errorf("storage: crear %s: %w", st, err)
		}
	}
	return nil
}

func (s *FileStore) dir(stage Stage) string {
	return filepath.Join(s.root, string(stage))
}

// Path ruta del artefacto name (clave de acceso u otro nombre sin extensión).
func (s *FileStore) Path(stage Stage, name string) string {
	return filepath.Join(s.dir(stage), name+extension)
}

// Write guarda data de forma atómica y devuelve la ruta final.
func (s *FileStore) Write(stage Stage, name string, data []byte) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: nombre de artefacto %q", domain.ErrInvalidInput, name)
	}
	dir := s.dir(stage)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: crear %s: %w", stage, err)
	}
	final := s.Path(stage, name)
	tmp := filepath.Join(dir, "."+name+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: temporal %s: %w", stage, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("storage: escribir %s/%s: %w", stage, name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("storage: sync %s/%s: %w", stage, name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("storage: cerrar %s/%s: %w", stage, name, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("storage: renombrar %s/%s: %w", stage, name, err)
	}
	return final, nil
}

// Read lee el artefacto; si no existe devuelve un error que envuelve domain.ErrNotFound.
func (s *FileStore) Read(stage Stage, name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(stage, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, stage, name)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: leer %s/%s: %w", stage, name, err)
	}
	return data, nil
}

// Exists indica si el artefacto está presente.
func (s *FileStore) Exists(stage Stage, name string) bool {
	info, err := os.Stat(s.Path(stage, name))
	return err == nil && info.Mode().IsRegular()
}

// Copy copia el artefacto entre etapas y devuelve la ruta destino.
func (s *FileStore) Copy(from, to Stage, name string) (string, error) {
	data, err := s.Read(from, name)
	if err != nil {
		return "", err
	}
	return s.Write(to, name, data)
}

// Remove borra el artefacto. Borrar algo inexistente no es error.
func (s *FileStore) Remove(stage Stage, name string) error {
	err := os.Remove(s.Path(stage, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: borrar %s/%s: %w", stage, name, err)
	}
	return nil
}

// List nombres (sin extensión) de los artefactos de la etapa, ordenados.
// Los temporales de escrituras en curso se ignoran.
func (s *FileStore) List(stage Stage) ([]string, error) {
	entries, err := os.ReadDir(s.dir(stage))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: listar %s: %w", stage, err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(n, extension))
	}
	sort.Strings(names)
	return names, nil
}

var _ Store = (*FileStore)(nil)
