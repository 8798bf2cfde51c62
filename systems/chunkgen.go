package systems

import (
	"math"

	"github.com/pthm-cable/blobworld/components"
	"github.com/pthm-cable/blobworld/config"
)

// Draw offsets within a chunk seed. Each category owns a disjoint range, and
// the ranges are far smaller than the seed stride between neighbouring chunks.
const (
	drawFoodCount   = 1
	drawEnemyChance = 2
	drawEnemySecond = 3
	drawHoleChance  = 4

	drawFoodBase  = 100  // 4 draws per food
	drawEnemyBase = 5000 // 6 draws per enemy
	drawHoleBase  = 9000 // 3 draws
)

// DifficultyScale returns max(1, playerRadius/initialRadius).
// A non-positive or NaN player radius counts as the initial radius.
func DifficultyScale(playerRadius, initialRadius float64) float64 {
	if !(playerRadius > 0) || !(initialRadius > 0) {
		return 1
	}
	return math.Max(1, playerRadius/initialRadius)
}

// ChunkOrigin returns the world-space corner of a chunk.
func ChunkOrigin(cx, cy int, size float64) (x, y float64) {
	return float64(cx) * size, float64(cy) * size
}

// ChunkCoordsAt returns the chunk containing a world position.
func ChunkCoordsAt(x, y, size float64) (cx, cy int) {
	return int(math.Floor(x / size)), int(math.Floor(y / size))
}

// GenerateChunk produces the entities of chunk (cx, cy).
// The result depends only on its arguments; calling it twice with the same
// inputs yields identical entities in identical order.
func GenerateChunk(cfg *config.Config, cx, cy int, playerRadius float64) []components.Entity {
	draws := seededDraws{seed: ChunkSeed(cx, cy)}
	key := components.MakeChunkKey(cx, cy)
	scale := DifficultyScale(playerRadius, cfg.Player.InitialRadius)
	if !(playerRadius > 0) {
		playerRadius = cfg.Player.InitialRadius
	}
	dist := math.Hypot(float64(cx), float64(cy))
	originX, originY := ChunkOrigin(cx, cy, cfg.Chunk.Size)

	out := make([]components.Entity, 0, cfg.Food.MaxCount+3)
	out = appendFood(out, cfg, draws, key, originX, originY, scale)
	out = appendEnemies(out, cfg, draws, key, originX, originY, scale, dist, playerRadius)
	out = appendBlackHole(out, cfg, draws, key, originX, originY, scale, dist)
	return out
}

func appendFood(out []components.Entity, cfg *config.Config, d seededDraws, key components.ChunkKey, ox, oy, scale float64) []components.Entity {
	fc := &cfg.Food
	span := fc.MaxCount - fc.MinCount + 1
	count := fc.MinCount + int(d.at(drawFoodCount)*float64(span))
	if count > fc.MaxCount {
		count = fc.MaxCount
	}

	sizeScale := math.Sqrt(scale)
	size := cfg.Chunk.Size
	for i := 0; i < count; i++ {
		base := int64(drawFoodBase + i*4)
		out = append(out, components.Entity{
			Kind:     components.KindFood,
			X:        ox + d.at(base)*size,
			Y:        oy + d.at(base+1)*size,
			Radius:   d.between(base+2, fc.MinRadius, fc.MaxRadius) * sizeScale,
			Hue:      d.between(base+3, fc.HueMin, fc.HueMax),
			Chunk:    key,
			HasChunk: true,
		})
	}
	return out
}

func appendEnemies(out []components.Entity, cfg *config.Config, d seededDraws, key components.ChunkKey, ox, oy, scale, dist, playerRadius float64) []components.Entity {
	ec := &cfg.Enemy
	chance := math.Min(ec.MaxChance, ec.BaseChance+dist*ec.DistanceChance+(scale-1)*ec.DifficultyChance)
	if d.at(drawEnemyChance) >= chance {
		return out
	}

	count := 1
	if d.at(drawEnemySecond) < ec.SecondChance {
		count = 2
	}

	minR := playerRadius * ec.MinRatio
	maxR := playerRadius * ec.MaxRatio
	size := cfg.Chunk.Size
	for i := 0; i < count; i++ {
		base := int64(drawEnemyBase + i*6)
		radius := (ec.BaseRadius + d.at(base+2)*ec.RadiusVariance + dist*ec.DistanceRadius) * scale
		radius = math.Max(minR, math.Min(maxR, radius))
		out = append(out, components.Entity{
			Kind:     components.KindEnemy,
			X:        ox + d.at(base)*size,
			Y:        oy + d.at(base+1)*size,
			VX:       (d.at(base+3)*2 - 1) * ec.MaxInitialSpeed,
			VY:       (d.at(base+4)*2 - 1) * ec.MaxInitialSpeed,
			Radius:   radius,
			Hue:      d.between(base+5, ec.HueMin, ec.HueMax),
			Chunk:    key,
			HasChunk: true,
		})
	}
	return out
}

func appendBlackHole(out []components.Entity, cfg *config.Config, d seededDraws, key components.ChunkKey, ox, oy, scale, dist float64) []components.Entity {
	bc := &cfg.BlackHole
	if dist < bc.MinDistance {
		return out
	}
	chance := math.Min(bc.MaxChance, bc.BaseChance+(dist-bc.MinDistance)*bc.DistanceChance+(scale-1)*bc.DifficultyChance)
	if d.at(drawHoleChance) >= chance {
		return out
	}

	size := cfg.Chunk.Size
	return append(out, components.Entity{
		Kind:     components.KindBlackHole,
		X:        ox + d.at(drawHoleBase)*size,
		Y:        oy + d.at(drawHoleBase+1)*size,
		Radius:   d.between(drawHoleBase+2, bc.MinRadius, bc.MaxRadius) * math.Sqrt(scale),
		Hue:      bc.Hue,
		Chunk:    key,
		HasChunk: true,
	})
}
