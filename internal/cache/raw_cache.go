package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parcelhealth/parcelhealth-api/internal/properties"
)

// Key derives a stable cache key from arbitrary parameters.
func Key(params ...interface{}) string {
	var keyData string
	for _, param := range params {
		keyData += fmt.Sprintf("%v_", param)
	}
	h := sha1.New()
	h.Write([]byte(keyData))
	return hex.EncodeToString(h.Sum(nil))
}

// RawFileCache stores opaque payloads (downloaded scene TIFFs) as plain
// files so GDAL can open them in place.
type RawFileCache struct {
	cacheDir string
	ext      string
}

func NewRawFileCache(subDir, ext string) *RawFileCache {
	return &RawFileCache{
		cacheDir: filepath.Join(properties.RootPath(), "data", subDir),
		ext:      ext,
	}
}

// Path returns the on-disk location for a key, whether or not it exists.
func (rc *RawFileCache) Path(key string) string {
	return filepath.Join(rc.cacheDir, key+rc.ext)
}

func (rc *RawFileCache) Has(key string) bool {
	info, err := os.Stat(rc.Path(key))
	return err == nil && info.Size() > 0
}

func (rc *RawFileCache) Set(key string, data []byte) (string, error) {
	if err := os.MkdirAll(rc.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %v", err)
	}

	path := rc.Path(key)
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp cache file: %v", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return "", fmt.Errorf("failed to rename temp cache file: %v", err)
	}
	return path, nil
}
