package components

import "fmt"

// KindNames returns the wire names of all species kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"HERBIVORE", "PREDATOR", "TRIBAL"}
}

// String returns the wire name of a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "UNKNOWN"
}

// ParseKind parses a wire name produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, name := range KindNames() {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown species kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(KindNames()) {
		return nil, fmt.Errorf("invalid species kind %d", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ActivityNames returns the display names of all activities.
// The order matches the Activity constants.
func ActivityNames() []string {
	return []string{
		"Wandering", "Foraging", "Socializing", "Resting", "Patrolling", "Hunting",
		"Stalking", "Building", "Crafting", "Exploring", "Feeding",
	}
}

// ActivityCount returns the number of activities.
func ActivityCount() int {
	return len(ActivityNames())
}

// String returns the display name of an Activity.
func (a Activity) String() string {
	names := ActivityNames()
	if int(a) < len(names) {
		return names[a]
	}
	return "Unknown"
}

// ParseActivity parses a name produced by Activity.String.
func ParseActivity(s string) (Activity, error) {
	for i, name := range ActivityNames() {
		if name == s {
			return Activity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown activity %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Activity) MarshalText() ([]byte, error) {
	if int(a) >= ActivityCount() {
		return nil, fmt.Errorf("invalid activity %d", a)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Activity) UnmarshalText(b []byte) error {
	v, err := ParseActivity(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// TypeNames returns the snapshot table names of all component types.
// The order matches the Type constants.
func TypeNames() []string {
	return []string{
		"position", "altitude", "species", "hunger", "age", "health",
		"behavior", "villageId", "reproduction", "energy",
	}
}

// String returns the snapshot table name of a component type.
func (t Type) String() string {
	names := TypeNames()
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// ParseType parses a name produced by Type.String.
func ParseType(s string) (Type, bool) {
	for i, name := range TypeNames() {
		if name == s {
			return Type(i), true
		}
	}
	return 0, false
}
