package utils

import "sync"

var gdalMu sync.Mutex

// ExecuteWithGDALLock serializes GDAL dataset access; the underlying
// library is not safe for concurrent calls on shared handles.
func ExecuteWithGDALLock(fn func()) {
	gdalMu.Lock()
	defer gdalMu.Unlock()
	fn()
}
