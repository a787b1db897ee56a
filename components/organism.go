package components

// Species fixes an entity's kind. Immutable after creation.
type Species struct {
	Kind Kind `json:"kind" inspect:"label"`
}

// Hunger rises over time. 0 is sated, 1 is starving.
type Hunger struct {
	Value float32 `json:"value" inspect:"bar"`
	Rate  float32 `json:"rate" inspect:"skip"` // increase per unit dt
}

// Age is measured in simulation time units.
type Age struct {
	Value       float32 `json:"value" inspect:"bar,max:MaxAge"`
	MaxAge      float32 `json:"maxAge" inspect:"label,fmt:%.0f"`
	MaturityAge float32 `json:"maturityAge" inspect:"label,fmt:%.0f"`
}

// Ratio returns Value/MaxAge.
func (a Age) Ratio() float32 {
	if a.MaxAge <= 0 {
		return 1
	}
	return a.Value / a.MaxAge
}

// Mature reports whether the entity has reached reproductive age.
func (a Age) Mature() bool {
	return a.Value >= a.MaturityAge
}

// Health is kept in [0, Maximum]. Reaching 0 is fatal.
type Health struct {
	Current float32 `json:"current" inspect:"bar,max:Maximum"`
	Maximum float32 `json:"maximum" inspect:"skip"`
}

// Energy gates behavior and is spent by movement and reproduction.
type Energy struct {
	Current     float32 `json:"current" inspect:"bar"`
	Consumption float32 `json:"consumption" inspect:"skip"` // spent per unit dt of movement
}

// Reproduction governs offspring eligibility and probability.
type Reproduction struct {
	Cooldown  float32 `json:"cooldown" inspect:"label,fmt:%.0f"` // ticks until eligible
	Fertility float32 `json:"fertility" inspect:"bar"`
}

// VillageID marks village membership. A nil ID means unaffiliated.
type VillageID struct {
	ID *string `json:"id" inspect:"label"`
}
