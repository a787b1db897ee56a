package components

import "math"

// Position represents an entity's world position.
type Position struct {
	X float32 `json:"x" inspect:"label,fmt:%.1f"`
	Y float32 `json:"y" inspect:"label,fmt:%.1f"`
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position) DistanceTo(o Position) float32 {
	dx := o.X - p.X
	dy := o.Y - p.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

// Altitude is the terrain height under an entity, normalized to [0, 1].
type Altitude struct {
	Value float32 `json:"value" inspect:"bar"`
}
