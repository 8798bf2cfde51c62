package systems

import (
	"math"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/blobworld/components"
)

// EntityStore owns every simulated entity in an ECS world and maintains the
// per-frame spatial hash used for collision candidates.
//
// Blob views returned by the store alias component storage and must not be
// held across AddChunk, RemoveChunk, RemoveWhere, SpawnPlayer or Clear.
type EntityStore struct {
	world *ecs.World

	chunkMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Tag,
		components.ChunkRef,
	]
	playerMapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Tag,
	]
	filter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Tag,
	]
	chunkRefMap *ecs.Map1[components.ChunkRef]

	player    ecs.Entity
	hasPlayer bool
	nextSeq   uint64

	// Entities created per chunk; handles may be stale after absorption.
	byChunk map[components.ChunkKey][]ecs.Entity

	hash     *SpatialHash
	blobs    []components.Blob
	toRemove []ecs.Entity
	visible  []visibleItem
}

type visibleItem struct {
	priority int
	seq      uint64
	entity   components.Entity
}

// NewEntityStore creates an empty store backed by the given world.
func NewEntityStore(world *ecs.World, cellSize float64) *EntityStore {
	return &EntityStore{
		world: world,
		chunkMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Body,
			components.Tag,
			components.ChunkRef,
		](world),
		playerMapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Tag,
		](world),
		filter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Tag,
		](world),
		chunkRefMap: ecs.NewMap1[components.ChunkRef](world),
		byChunk:     make(map[components.ChunkKey][]ecs.Entity),
		hash:        NewSpatialHash(cellSize),
	}
}

// SpawnPlayer creates the player entity, replacing any existing one.
func (s *EntityStore) SpawnPlayer(x, y, radius, hue float64) components.Blob {
	if s.hasPlayer && s.world.Alive(s.player) {
		s.world.RemoveEntity(s.player)
	}
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	body := components.Body{Radius: radius, Hue: hue}
	tag := components.Tag{Kind: components.KindPlayer, Seq: s.seq()}
	s.player = s.playerMapper.NewEntity(&pos, &vel, &body, &tag)
	s.hasPlayer = true

	b, _ := s.Player()
	return b
}

// Player returns the player view. ok is false if no player exists.
func (s *EntityStore) Player() (components.Blob, bool) {
	if !s.hasPlayer || !s.world.Alive(s.player) {
		return components.Blob{}, false
	}
	pos, vel, body, tag := s.playerMapper.Get(s.player)
	return components.Blob{Pos: pos, Vel: vel, Body: body, Kind: tag.Kind}, true
}

// AddChunk appends generated entities owned by the given chunk.
// Player entries are ignored; the player is never chunk-owned.
func (s *EntityStore) AddChunk(key components.ChunkKey, ents []components.Entity) int {
	handles := s.byChunk[key]
	added := 0
	for i := range ents {
		e := &ents[i]
		if e.Kind == components.KindPlayer {
			continue
		}
		pos := components.Position{X: e.X, Y: e.Y}
		vel := components.Velocity{X: e.VX, Y: e.VY}
		if e.Kind == components.KindBlackHole {
			vel = components.Velocity{}
		}
		body := components.Body{Radius: e.Radius, Hue: e.Hue}
		tag := components.Tag{Kind: e.Kind, Seq: s.seq()}
		ref := components.ChunkRef{Key: key}
		handles = append(handles, s.chunkMapper.NewEntity(&pos, &vel, &body, &tag, &ref))
		added++
	}
	s.byChunk[key] = handles
	return added
}

// RemoveChunk removes every surviving entity owned by the chunk.
func (s *EntityStore) RemoveChunk(key components.ChunkKey) int {
	handles, ok := s.byChunk[key]
	if !ok {
		return 0
	}
	removed := 0
	for _, e := range handles {
		if s.world.Alive(e) {
			s.world.RemoveEntity(e)
			removed++
		}
	}
	delete(s.byChunk, key)
	return removed
}

// RemoveWhere removes every non-player entity for which pred returns true.
func (s *EntityStore) RemoveWhere(pred func(components.Blob) bool) int {
	s.toRemove = s.toRemove[:0]

	// Structural changes are not allowed while a query is open.
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, tag := query.Get()
		if tag.Kind == components.KindPlayer {
			continue
		}
		if pred(components.Blob{Pos: pos, Vel: vel, Body: body, Kind: tag.Kind}) {
			s.toRemove = append(s.toRemove, query.Entity())
		}
	}

	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
	}
	return len(s.toRemove)
}

// Each calls fn for every entity, the player included.
func (s *EntityStore) Each(fn func(b components.Blob)) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, tag := query.Get()
		fn(components.Blob{Pos: pos, Vel: vel, Body: body, Kind: tag.Kind})
	}
}

// Blobs returns views of every entity. The slice is reused between calls.
func (s *EntityStore) Blobs() []components.Blob {
	s.blobs = s.blobs[:0]
	s.Each(func(b components.Blob) {
		s.blobs = append(s.blobs, b)
	})
	return s.blobs
}

// Len returns the number of entities, the player included.
func (s *EntityStore) Len() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// CountKind returns the number of entities of a kind.
func (s *EntityStore) CountKind(kind components.Kind) int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		_, _, _, tag := query.Get()
		if tag.Kind == kind {
			n++
		}
	}
	return n
}

// Clear removes every entity, the player included.
func (s *EntityStore) Clear() {
	s.toRemove = s.toRemove[:0]
	query := s.filter.Query()
	for query.Next() {
		s.toRemove = append(s.toRemove, query.Entity())
	}
	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
	}
	clear(s.byChunk)
	s.hasPlayer = false
	s.hash.Clear()
}

// RebuildSpatial re-registers every non-black-hole entity in the spatial hash.
// margin widens each entity's footprint so that pairs up to 2*margin apart
// surface-to-surface share a cell.
func (s *EntityStore) RebuildSpatial(margin float64) {
	s.hash.Clear()
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, tag := query.Get()
		if tag.Kind == components.KindBlackHole {
			continue
		}
		s.hash.Insert(HashItem{
			Seq:  tag.Seq,
			Blob: components.Blob{Pos: pos, Vel: vel, Body: body, Kind: tag.Kind},
		}, margin)
	}
}

// EachPair calls fn once per candidate pair from the last RebuildSpatial.
// Black holes never appear in pairs.
func (s *EntityStore) EachPair(fn func(a, b components.Blob)) {
	s.hash.EachPair(func(a, b HashItem) {
		fn(a.Blob, b.Blob)
	})
}

// Spatial exposes the spatial hash.
func (s *EntityStore) Spatial() *SpatialHash {
	return s.hash
}

// Visible returns entities within viewRadius + radiusBuffer*r of the camera,
// player first and black holes last, otherwise in insertion order, truncated
// to maxCount.
func (s *EntityStore) Visible(camX, camY, viewRadius, radiusBuffer float64, maxCount int) []components.Entity {
	s.visible = s.visible[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, tag := query.Get()
		reach := viewRadius + radiusBuffer*body.Radius
		dx := pos.X - camX
		dy := pos.Y - camY
		if dx*dx+dy*dy > reach*reach {
			continue
		}

		snap := components.Blob{Pos: pos, Vel: vel, Body: body, Kind: tag.Kind}.Snapshot()
		if tag.Kind != components.KindPlayer {
			snap.Chunk = s.chunkRefMap.Get(query.Entity()).Key
			snap.HasChunk = true
		}
		s.visible = append(s.visible, visibleItem{
			priority: renderPriority(tag.Kind),
			seq:      tag.Seq,
			entity:   snap,
		})
	}

	slices.SortFunc(s.visible, func(a, b visibleItem) int {
		if a.priority != b.priority {
			return a.priority - b.priority
		}
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})

	n := min(len(s.visible), maxCount)
	out := make([]components.Entity, n)
	for i := 0; i < n; i++ {
		out[i] = s.visible[i].entity
	}
	return out
}

// renderPriority orders the player first and black holes last.
func renderPriority(kind components.Kind) int {
	switch kind {
	case components.KindPlayer:
		return 0
	case components.KindBlackHole:
		return 2
	default:
		return 1
	}
}

// Nearest returns the entity closest to (x, y) matching pred, if any.
func (s *EntityStore) Nearest(x, y float64, pred func(components.Blob) bool) (components.Blob, bool) {
	var best components.Blob
	bestD := math.Inf(1)
	s.Each(func(b components.Blob) {
		if !pred(b) {
			return
		}
		dx := b.Pos.X - x
		dy := b.Pos.Y - y
		if d := dx*dx + dy*dy; d < bestD {
			bestD = d
			best = b
		}
	})
	return best, bestD < math.Inf(1)
}

func (s *EntityStore) seq() uint64 {
	s.nextSeq++
	return s.nextSeq
}
