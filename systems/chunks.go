package systems

import (
	"math"
	"slices"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
)

// ChunkCoord addresses a chunk.
type ChunkCoord struct {
	X, Y int
}

// Key returns the packed key for the coordinate.
func (c ChunkCoord) Key() components.ChunkKey {
	return components.MakeChunkKey(c.X, c.Y)
}

// ChunkManager tracks which chunks are loaded and decides which to load or
// unload as the camera moves. It never touches entities itself; the caller
// generates and removes entities for the chunks it reports.
type ChunkManager struct {
	size            float64
	baseLoadRadius  int
	loadExtraBuffer int
	unloadBuffer    int

	loaded map[components.ChunkKey]struct{}
}

// NewChunkManager creates an empty chunk manager.
func NewChunkManager(cfg config.ChunkConfig) *ChunkManager {
	return &ChunkManager{
		size:            cfg.Size,
		baseLoadRadius:  cfg.BaseLoadRadius,
		loadExtraBuffer: cfg.LoadExtraBuffer,
		unloadBuffer:    cfg.UnloadBuffer,
		loaded:          make(map[components.ChunkKey]struct{}),
	}
}

// LoadRadius returns the Chebyshev radius, in chunks, that must be loaded
// around the camera chunk for the given view radius.
func (m *ChunkManager) LoadRadius(viewRadius float64) int {
	r := int(math.Ceil(viewRadius/m.size)) + m.loadExtraBuffer
	if r < m.baseLoadRadius {
		return m.baseLoadRadius
	}
	return r
}

// UnloadRadius returns the radius beyond which loaded chunks are dropped.
// The gap to LoadRadius is the hysteresis band that prevents thrashing.
func (m *ChunkManager) UnloadRadius(viewRadius float64) int {
	return m.LoadRadius(viewRadius) + m.unloadBuffer
}

// ChunksToLoad returns the chunks around the camera that are not yet loaded,
// in row-major order.
func (m *ChunkManager) ChunksToLoad(camX, camY, viewRadius float64) []ChunkCoord {
	ccx, ccy := ChunkCoordsAt(camX, camY, m.size)
	r := m.LoadRadius(viewRadius)

	var out []ChunkCoord
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c := ChunkCoord{X: ccx + dx, Y: ccy + dy}
			if _, ok := m.loaded[c.Key()]; !ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// ChunksToUnload returns loaded chunks farther than UnloadRadius from the
// camera chunk, sorted by key.
func (m *ChunkManager) ChunksToUnload(camX, camY, viewRadius float64) []components.ChunkKey {
	ccx, ccy := ChunkCoordsAt(camX, camY, m.size)
	r := m.UnloadRadius(viewRadius)

	var out []components.ChunkKey
	for key := range m.loaded {
		cx, cy := key.Coords()
		if chebyshev(cx-ccx, cy-ccy) > r {
			out = append(out, key)
		}
	}
	slices.Sort(out)
	return out
}

// MarkLoaded records a chunk as loaded.
func (m *ChunkManager) MarkLoaded(c ChunkCoord) {
	m.loaded[c.Key()] = struct{}{}
}

// MarkUnloaded records a chunk as unloaded.
func (m *ChunkManager) MarkUnloaded(key components.ChunkKey) {
	delete(m.loaded, key)
}

// IsLoaded reports whether a chunk is loaded.
func (m *ChunkManager) IsLoaded(key components.ChunkKey) bool {
	_, ok := m.loaded[key]
	return ok
}

// Len returns the number of loaded chunks.
func (m *ChunkManager) Len() int {
	return len(m.loaded)
}

// Loaded returns the loaded chunk keys, sorted.
func (m *ChunkManager) Loaded() []components.ChunkKey {
	out := make([]components.ChunkKey, 0, len(m.loaded))
	for key := range m.loaded {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}

// Reset forgets every loaded chunk.
func (m *ChunkManager) Reset() {
	clear(m.loaded)
}

func chebyshev(dx, dy int) int {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}
