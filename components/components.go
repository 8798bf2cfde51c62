// Package components defines ECS components for the simulation.
package components

import "fmt"

// Kind identifies what an entity is. Every entity has exactly one Kind.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindFood
	KindEnemy
	KindBlackHole
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindFood:
		return "food"
	case KindEnemy:
		return "enemy"
	case KindBlackHole:
		return "blackhole"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Tag holds the immutable identity of an entity.
type Tag struct {
	Kind Kind
	Seq  uint64 // insertion order, used for stable render ordering
}

// ChunkKey packs chunk coordinates into a single comparable value.
// cx occupies the high 32 bits and cy the low 32 bits.
type ChunkKey int64

// MakeChunkKey packs (cx, cy) into a key.
func MakeChunkKey(cx, cy int) ChunkKey {
	return ChunkKey(int64(int32(cx))<<32 | int64(uint32(int32(cy))))
}

// Coords unpacks the key into chunk coordinates.
func (k ChunkKey) Coords() (cx, cy int) {
	return int(int32(int64(k) >> 32)), int(int32(uint32(k)))
}

// String formats the key as "cx,cy".
func (k ChunkKey) String() string {
	cx, cy := k.Coords()
	return fmt.Sprintf("%d,%d", cx, cy)
}

// ChunkRef links an entity to the chunk that generated it.
// The player has no ChunkRef.
type ChunkRef struct {
	Key ChunkKey
}

// Entity is a plain-value snapshot of an entity.
// Chunk generation produces Entities and render snapshots return them.
type Entity struct {
	Kind     Kind
	X, Y     float64
	VX, VY   float64
	Radius   float64
	Hue      float64
	Chunk    ChunkKey
	HasChunk bool
}

// Blob is a mutable view over one entity's simulation components.
// The pointers alias ECS storage and stay valid until the next structural
// change to the world (entity creation or removal).
type Blob struct {
	Pos  *Position
	Vel  *Velocity
	Body *Body
	Kind Kind
}

// NewBlob allocates a standalone blob, detached from any world.
func NewBlob(kind Kind, x, y, radius float64) Blob {
	return Blob{
		Pos:  &Position{X: x, Y: y},
		Vel:  &Velocity{},
		Body: &Body{Radius: radius},
		Kind: kind,
	}
}

// Valid reports whether the view points at live component storage.
func (b Blob) Valid() bool {
	return b.Pos != nil && b.Vel != nil && b.Body != nil
}

// Snapshot copies the blob into a plain Entity.
func (b Blob) Snapshot() Entity {
	return Entity{
		Kind:   b.Kind,
		X:      b.Pos.X,
		Y:      b.Pos.Y,
		VX:     b.Vel.X,
		VY:     b.Vel.Y,
		Radius: b.Body.Radius,
		Hue:    b.Body.Hue,
	}
}
