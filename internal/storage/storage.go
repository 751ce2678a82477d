// Package storage keeps uploaded document files on local disk or in object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound        = errors.New("stored file not found")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrInvalidKey      = errors.New("invalid storage key")
)

// Store saves and retrieves file bodies by key.
type Store interface {
	// Save writes r under a fresh key derived from suggestedName and returns the key.
	Save(ctx context.Context, r io.Reader, suggestedName string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a backend.
type Config struct {
	Driver    string
	LocalPath string
	Bucket    string
	Region    string
	AccessID  string
	AccessKey string
}

func New(cfg Config, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "local", "":
		return NewLocalStore(cfg.LocalPath)
	case "cos":
		return NewCOSStore(cfg, logger)
	case "oss":
		return NewOSSStore(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

var contentTypes = map[string]string{
	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".doc":  "application/vnd.ms-word",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".csv":  "text/csv",
}

// ContentType maps a file name to its MIME type by extension.
func ContentType(name string) string {
	if ct, ok := contentTypes[extension(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Allowed reports whether uploads with this name are accepted.
func Allowed(name string) bool {
	_, ok := contentTypes[extension(name)]
	return ok
}

// NewKey returns a collision-free key keeping the extension of name.
func NewKey(name string) (string, error) {
	if !Allowed(name) {
		return "", ErrUnsupportedType
	}
	return uuid.New().String() + extension(name), nil
}

// validKey rejects anything but a bare file name.
func validKey(key string) error {
	if key == "" || key != path.Base(key) || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return ErrInvalidKey
	}
	return nil
}

func extension(name string) string {
	return strings.ToLower(path.Ext(strings.ReplaceAll(name, `\`, "/")))
}
