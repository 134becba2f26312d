package config

import "sync"

// MesherSettings holds meshing configuration
type MesherSettings struct {
	mu          sync.RWMutex
	chunkWidth  int
	chunkHeight int
	workers     int
	naive       bool
	shading     bool
	intensity   float32
	minShade    float32
	smoothing   float32
}

var globalMesherSettings = &MesherSettings{
	chunkWidth:  16,
	chunkHeight: 64,
	workers:     4,
	shading:     true,
	intensity:   0.15,
	minShade:    0.35,
	smoothing:   2.5,
}

// GetChunkSize returns the horizontal edge and the height of a chunk in voxels
func GetChunkSize() (width, height int) {
	globalMesherSettings.mu.RLock()
	defer globalMesherSettings.mu.RUnlock()
	return globalMesherSettings.chunkWidth, globalMesherSettings.chunkHeight
}

// SetChunkSize sets the chunk size
func SetChunkSize(width, height int) {
	globalMesherSettings.mu.Lock()
	defer globalMesherSettings.mu.Unlock()
	globalMesherSettings.chunkWidth = clamp(width, 1, 256)
	globalMesherSettings.chunkHeight = clamp(height, 1, 512)
}

// GetWorkers returns the number of mesh workers
func GetWorkers() int {
	globalMesherSettings.mu.RLock()
	defer globalMesherSettings.mu.RUnlock()
	return globalMesherSettings.workers
}

// SetWorkers sets the number of mesh workers
func SetWorkers(n int) {
	globalMesherSettings.mu.Lock()
	defer globalMesherSettings.mu.Unlock()
	globalMesherSettings.workers = clamp(n, 1, 64)
}

// GetNaive returns whether every face is emitted without culling
func GetNaive() bool {
	globalMesherSettings.mu.RLock()
	defer globalMesherSettings.mu.RUnlock()
	return globalMesherSettings.naive
}

// SetNaive toggles naive meshing
func SetNaive(enabled bool) {
	globalMesherSettings.mu.Lock()
	defer globalMesherSettings.mu.Unlock()
	globalMesherSettings.naive = enabled
}

// GetShading returns whether shading is on and its intensity, floor and
// smoothing exponent
func GetShading() (enabled bool, intensity, minShade, smoothing float32) {
	globalMesherSettings.mu.RLock()
	defer globalMesherSettings.mu.RUnlock()
	s := globalMesherSettings
	return s.shading, s.intensity, s.minShade, s.smoothing
}

// SetShading sets the shading parameters
func SetShading(enabled bool, intensity, minShade, smoothing float32) {
	globalMesherSettings.mu.Lock()
	defer globalMesherSettings.mu.Unlock()
	s := globalMesherSettings
	s.shading = enabled
	s.intensity = clamp(intensity, 0, 1)
	s.minShade = clamp(minShade, 0, 1)
	// Below 1 the curve would brighten crowded corners
	s.smoothing = clamp(smoothing, 1, 8)
}

func clamp[T int | float32](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
