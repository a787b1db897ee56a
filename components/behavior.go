package components

// Activity is the current behavior tag of an entity.
type Activity uint8

const (
	Wandering Activity = iota
	Foraging
	Socializing
	Resting
	Patrolling
	Hunting
	Stalking
	Building
	Crafting
	Exploring
	Feeding
)

// Behavior is scratch state for the wander state machine.
type Behavior struct {
	Current    Activity  `json:"current" inspect:"label"`
	Target     *Position `json:"target,omitempty" inspect:"skip"`
	Cooldown   float32   `json:"cooldown" inspect:"label,fmt:%.1f"`
	Heading    float32   `json:"heading" inspect:"angle"`
	HasHeading bool      `json:"hasHeading" inspect:"skip"`
}

// MovementFactor returns the movement distance multiplier for an activity.
func (a Activity) MovementFactor() float32 {
	switch a {
	case Hunting, Stalking:
		return 1.5
	case Foraging:
		return 0.7
	case Resting:
		return 0
	case Building, Crafting:
		return 0.3
	default:
		return 1
	}
}
