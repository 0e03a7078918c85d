package persistence

import (
	"context"

	"valeod/internal/providers"
	"valeod/internal/structures"
)

// NewStorage selects the backend at process start. An unreachable database
// is a configuration-time failure and therefore fatal; the flat-file backend
// has no precondition beyond a writable path.
func NewStorage(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) (Storage, error) {
	if conf.Storage.Backend == "postgres" {
		logger.Infof(providers.TypeApp, "Using PostgreSQL storage backend")
		return NewPostgresStorage(context.Background(), conf.Storage.DatabaseURL, logger)
	}
	logger.Infof(providers.TypeApp, "Using flat-file storage backend at %s", conf.Storage.FilePath)
	return NewFileStorage(conf.Storage.FilePath, compressor, logger), nil
}
