package systems

// Deterministic randomness for world generation.
// Nothing here reads wall-clock time or shared RNG state; every value is a
// pure function of its seed so chunks regenerate identically.

// ChunkSeed maps chunk coordinates to a generation seed.
// The mapping is part of the world format and must never change.
func ChunkSeed(cx, cy int) int64 {
	return int64(cx)*73856093 + int64(cy)*19349663
}

// SeededRandom returns a value in [0, 1) determined only by seed.
func SeededRandom(seed int64) float64 {
	return float64(mix64(uint64(seed))>>11) / (1 << 53)
}

// mix64 is the splitmix64 finalizer: adjacent inputs produce uncorrelated outputs.
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// seededDraws derives successive draws from a base seed plus an offset.
type seededDraws struct {
	seed int64
}

// at returns the draw at the given offset.
func (d seededDraws) at(offset int64) float64 {
	return SeededRandom(d.seed + offset)
}

// between returns a draw scaled to [lo, hi).
func (d seededDraws) between(offset int64, lo, hi float64) float64 {
	return lo + d.at(offset)*(hi-lo)
}
