package persistence

import (
	"context"
	"os"

	"valeod/internal/models"
	"valeod/internal/providers"
)

// FileStorage keeps the whole mapping set in one zstd-compressed JSON
// snapshot. Writes go through a temp file and rename, so the last complete
// snapshot stays authoritative if a save dies halfway.
type FileStorage struct {
	path       string
	compressor CompressorInterface
	logger     providers.Logger
}

func NewFileStorage(path string, compressor CompressorInterface, logger providers.Logger) *FileStorage {
	return &FileStorage{
		path:       path,
		compressor: compressor,
		logger:     logger,
	}
}

func (fs *FileStorage) Backend() string {
	return "file"
}

func (fs *FileStorage) LoadAll(_ context.Context) map[string]*models.ChatMapping {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if !os.IsNotExist(err) {
			fs.logger.Errorf(providers.TypeApp, "Failed to read mapping file %s: %s", fs.path, err)
		}
		return map[string]*models.ChatMapping{}
	}

	// Snapshots written before compression was introduced are plain JSON.
	if isZstd(data) {
		data, err = fs.compressor.Decompress(data)
		if err != nil {
			fs.logger.Errorf(providers.TypeApp, "Failed to decompress mapping file %s: %s", fs.path, err)
			return map[string]*models.ChatMapping{}
		}
	}

	mappings, err := models.DecodeMappingSet(data)
	if err != nil {
		fs.logger.Errorf(providers.TypeApp, "Corrupt mapping file %s: %s", fs.path, err)
		return map[string]*models.ChatMapping{}
	}
	return mappings
}

func (fs *FileStorage) SaveAll(_ context.Context, mappings map[string]*models.ChatMapping) error {
	jsonData, err := models.EncodeMappingSet(mappings)
	if err != nil {
		return err
	}
	data, err := fs.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fs.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fs.path)
}
