package components

// Body holds the physical and visual size of an entity.
// Area is pi*Radius^2; absorption conserves the summed area of both bodies.
type Body struct {
	Radius float64
	Hue    float64 // 0..360
}
