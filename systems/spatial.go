// Package systems provides the simulation systems: world generation, chunk
// lifecycle, entity storage, spatial indexing and physics.
package systems

import (
	"math"

	"github.com/pthm-cable/blobworld/components"
)

// HashItem is an entity registered in the spatial hash.
type HashItem struct {
	Seq  uint64 // unique entity sequence number
	Blob components.Blob
}

type pairKey struct {
	lo, hi uint64
}

// SpatialHash is an unbounded uniform grid for broad-phase collision.
// Cells are keyed by packed integer coordinates so the world has no edges.
// Buckets are reused across frames to avoid per-frame allocation.
type SpatialHash struct {
	cellSize float64
	invCell  float64

	cells   map[int64]int // cell key -> bucket index
	buckets [][]HashItem
	used    int
	items   int

	seen map[pairKey]struct{}
}

// NewSpatialHash creates a spatial hash with the given cell size.
func NewSpatialHash(cellSize float64) *SpatialHash {
	return &SpatialHash{
		cellSize: cellSize,
		invCell:  1 / cellSize,
		cells:    make(map[int64]int, 256),
		seen:     make(map[pairKey]struct{}, 256),
	}
}

// CellSize returns the grid cell size.
func (h *SpatialHash) CellSize() float64 {
	return h.cellSize
}

// Clear removes all items while keeping bucket capacity.
func (h *SpatialHash) Clear() {
	clear(h.cells)
	for i := 0; i < h.used; i++ {
		h.buckets[i] = h.buckets[i][:0]
	}
	h.used = 0
	h.items = 0
}

// Insert registers an item in every cell overlapped by the bounding box of a
// circle of radius blob.Radius+margin.
func (h *SpatialHash) Insert(item HashItem, margin float64) {
	x, y := item.Blob.Pos.X, item.Blob.Pos.Y
	ext := item.Blob.Body.Radius + margin
	minCX := int(math.Floor((x - ext) * h.invCell))
	maxCX := int(math.Floor((x + ext) * h.invCell))
	minCY := int(math.Floor((y - ext) * h.invCell))
	maxCY := int(math.Floor((y + ext) * h.invCell))

	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := h.bucket(cellKey(cx, cy))
			h.buckets[idx] = append(h.buckets[idx], item)
		}
	}
	h.items++
}

// Len returns the number of inserted items.
func (h *SpatialHash) Len() int {
	return h.items
}

// Cells returns the number of occupied cells.
func (h *SpatialHash) Cells() int {
	return h.used
}

// EachPair calls fn once for every unordered pair of items sharing at least
// one cell. Pairs are visited in a deterministic order given the insertion order.
func (h *SpatialHash) EachPair(fn func(a, b HashItem)) {
	clear(h.seen)
	for i := 0; i < h.used; i++ {
		bucket := h.buckets[i]
		for j := 0; j < len(bucket); j++ {
			for k := j + 1; k < len(bucket); k++ {
				a, b := bucket[j], bucket[k]
				key := pairKey{lo: a.Seq, hi: b.Seq}
				if key.lo > key.hi {
					key.lo, key.hi = key.hi, key.lo
				}
				if _, dup := h.seen[key]; dup {
					continue
				}
				h.seen[key] = struct{}{}
				fn(a, b)
			}
		}
	}
}

// bucket returns the bucket index for a cell, allocating one if needed.
func (h *SpatialHash) bucket(key int64) int {
	if idx, ok := h.cells[key]; ok {
		return idx
	}
	idx := h.used
	if idx == len(h.buckets) {
		h.buckets = append(h.buckets, make([]HashItem, 0, 8))
	}
	h.used++
	h.cells[key] = idx
	return idx
}

// cellKey packs cell coordinates into a map key.
func cellKey(cx, cy int) int64 {
	return int64(int32(cx))<<32 | int64(uint32(int32(cy)))
}
