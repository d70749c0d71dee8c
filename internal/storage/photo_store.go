package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "hyphema-tracker/internal/errors"

	"github.com/google/uuid"
)

// PhotoStore writes uploaded eye photos into a managed directory and hands
// out stable references to them. Names are derived from the original file
// name plus a random suffix so concurrent uploads of the same file never
// overwrite one another.
type PhotoStore struct {
	dir string
}

func NewPhotoStore(dir string) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeStorage, apperrors.CodeFileIO,
			fmt.Sprintf("failed to create upload directory %s", dir))
	}
	return &PhotoStore{dir: dir}, nil
}

// Dir returns the managed upload directory.
func (s *PhotoStore) Dir() string {
	return s.dir
}

// Save durably writes the photo bytes and returns the stored file name and
// its absolute path. O_EXCL guarantees an existing file is never replaced.
func (s *PhotoStore) Save(fileName string, data []byte) (string, string, error) {
	name := disambiguate(fileName)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		// A uuid collision is effectively impossible; surviving one means
		// something else owns the name.
		return "", "", apperrors.New(apperrors.ErrorTypeStorage, apperrors.CodeFileConflict,
			fmt.Sprintf("photo %s already exists", name))
	}
	if err != nil {
		return "", "", apperrors.Wrap(err, apperrors.ErrorTypeStorage, apperrors.CodeFileIO,
			fmt.Sprintf("failed to create photo file %s", name))
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", "", apperrors.Wrap(err, apperrors.ErrorTypeStorage, apperrors.CodeFileIO,
			fmt.Sprintf("failed to write photo file %s", name))
	}
	if err := f.Close(); err != nil {
		return "", "", apperrors.Wrap(err, apperrors.ErrorTypeStorage, apperrors.CodeFileIO,
			fmt.Sprintf("failed to close photo file %s", name))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", apperrors.Wrap(err, apperrors.ErrorTypeStorage, apperrors.CodeFileIO,
			"failed to resolve photo path")
	}
	return name, abs, nil
}

// Open returns the raw bytes of a previously stored photo.
func (s *PhotoStore) Open(fileName string) ([]byte, error) {
	path, err := s.resolve(fileName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.New(apperrors.ErrorTypeNotFound, apperrors.CodePhotoNotFound,
			fmt.Sprintf("photo %s not found", fileName))
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeStorage, apperrors.CodeFileIO,
			fmt.Sprintf("failed to read photo %s", fileName))
	}
	return data, nil
}

// resolve maps a retrieval name onto the upload directory, rejecting any
// name that would escape it.
func (s *PhotoStore) resolve(fileName string) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) || strings.HasPrefix(fileName, ".") {
		return "", apperrors.NewValidationError("filename", "must be a plain file name")
	}
	return filepath.Join(s.dir, fileName), nil
}

// disambiguate keeps the sanitized original base name recognizable and
// appends a uuid fragment before the extension.
func disambiguate(fileName string) string {
	base := filepath.Base(fileName)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, stem)
	if stem == "" {
		stem = "photo"
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return stem + "_" + suffix + ext
}
