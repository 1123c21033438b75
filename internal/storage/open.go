package storage

import (
	"context"

	"github.com/sirupsen/logrus"

	serrors "github.com/sachi/sachi-go/internal/errors"
)

// Options select and configure a backend
type Options struct {
	Type        string // "sqlite" or "postgres"
	LocalPath   string
	PostgresDSN string
	Logger      logrus.FieldLogger
}

// Open returns the store described by opts
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Type {
	case "", "sqlite":
		return NewSQLiteStore(opts.LocalPath, opts.Logger)
	case "postgres":
		return NewPostgresStore(ctx, opts.PostgresDSN, opts.Logger)
	default:
		return nil, serrors.ConfigErrorf("unknown storage type %q", opts.Type)
	}
}
