package config

import "sync"

// WorldGenSettings are the knobs of the terrain generator. Read them through
// the package functions; the generator takes a snapshot when it is built.
type WorldGenSettings struct {
	mu       sync.RWMutex
	seed     int64
	seaLevel int
	caves    bool
}

var globalWorldGenSettings = &WorldGenSettings{
	seed:     1,
	seaLevel: 24,
	caves:    true,
}

// GetSeed returns the seed the height and cave noise is derived from.
func GetSeed() int64 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.seed
}

func SetSeed(seed int64) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.seed = seed
}

// GetSeaLevel returns the height around which columns get a sand surface.
func GetSeaLevel() int {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.seaLevel
}

// SetSeaLevel changes the sea level. Negative levels are clamped to 0.
func SetSeaLevel(level int) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.seaLevel = max(level, 0)
}

// GetCaves reports whether the generator carves caves below the surface.
func GetCaves() bool {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.caves
}

func SetCaves(enabled bool) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.caves = enabled
}
