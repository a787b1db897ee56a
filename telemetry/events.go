// Package telemetry provides ecosystem health tracking, bookmarking, and snapshots.
package telemetry

import "github.com/pthm-cable/habitat/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventBirth EventType = iota
	EventDeath
	EventDiscovery
	EventFeeding
)

var eventTypeNames = [...]string{"birth", "death", "discovery", "feeding"}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Cause explains why a birth or death happened.
type Cause uint8

const (
	CauseNone Cause = iota
	CauseStarvation
	CauseOldAge
	CauseFrailty
	CauseReproduction
	CauseStarvationRespawn
	CauseOldAgeRespawn
	CauseExploration

	numCauses
)

var causeNames = [...]string{
	"none",
	"starvation",
	"old_age",
	"frailty",
	"reproduction",
	"starvation_respawn",
	"old_age_respawn",
	"exploration",
}

func (c Cause) String() string {
	if int(c) < len(causeNames) {
		return causeNames[c]
	}
	return "unknown"
}

// Respawn reports whether c is a replacement birth following a death.
func (c Cause) Respawn() bool {
	return c == CauseStarvationRespawn || c == CauseOldAgeRespawn
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType       `json:"type"`
	Tick     int32           `json:"tick"`
	EntityID uint32          `json:"entity"`
	Kind     components.Kind `json:"kind"`
	Cause    Cause           `json:"cause"`

	ParentID uint32 `json:"parent,omitempty"` // births by reproduction only
}

// NewBirthEvent creates a birth event. parentID is 0 when there is no parent.
func NewBirthEvent(tick int32, childID, parentID uint32, kind components.Kind, cause Cause) Event {
	return Event{
		Type:     EventBirth,
		Tick:     tick,
		EntityID: childID,
		Kind:     kind,
		Cause:    cause,
		ParentID: parentID,
	}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int32, entityID uint32, kind components.Kind, cause Cause) Event {
	return Event{
		Type:     EventDeath,
		Tick:     tick,
		EntityID: entityID,
		Kind:     kind,
		Cause:    cause,
	}
}

// NewFeedingEvent creates a successful feeding event.
func NewFeedingEvent(tick int32, entityID uint32, kind components.Kind) Event {
	return Event{
		Type:     EventFeeding,
		Tick:     tick,
		EntityID: entityID,
		Kind:     kind,
	}
}

// NewDiscoveryEvent creates a discovery event (an explorer reached its target).
func NewDiscoveryEvent(tick int32, entityID uint32, kind components.Kind) Event {
	return Event{
		Type:     EventDiscovery,
		Tick:     tick,
		EntityID: entityID,
		Kind:     kind,
		Cause:    CauseExploration,
	}
}

// EventRecord is the flat CSV and JSON form of an Event.
type EventRecord struct {
	Tick     int32  `csv:"tick" json:"tick"`
	Type     string `csv:"type" json:"type"`
	EntityID uint32 `csv:"entity" json:"entity"`
	Species  string `csv:"species" json:"species"`
	Cause    string `csv:"cause" json:"cause"`
	ParentID uint32 `csv:"parent" json:"parent,omitempty"`
}

// Record converts the event to its flat form.
func (e Event) Record() EventRecord {
	return EventRecord{
		Tick:     e.Tick,
		Type:     e.Type.String(),
		EntityID: e.EntityID,
		Species:  e.Kind.String(),
		Cause:    e.Cause.String(),
		ParentID: e.ParentID,
	}
}

// EventLog is a bounded ring of the most recent events.
type EventLog struct {
	buf   []Event
	next  int
	full  bool
	total int
}

// NewEventLog creates a log keeping at most size events.
func NewEventLog(size int) *EventLog {
	if size < 1 {
		size = 1
	}
	return &EventLog{buf: make([]Event, size)}
}

// Add appends ev, evicting the oldest event when full.
func (l *EventLog) Add(ev Event) {
	l.buf[l.next] = ev
	l.next = (l.next + 1) % len(l.buf)
	if l.next == 0 {
		l.full = true
	}
	l.total++
}

// Len returns the number of retained events.
func (l *EventLog) Len() int {
	if l.full {
		return len(l.buf)
	}
	return l.next
}

// Total returns the number of events ever added.
func (l *EventLog) Total() int {
	return l.total
}

// Recent returns the retained events, oldest first.
func (l *EventLog) Recent() []Event {
	if !l.full {
		return append([]Event(nil), l.buf[:l.next]...)
	}
	out := make([]Event, 0, len(l.buf))
	out = append(out, l.buf[l.next:]...)
	return append(out, l.buf[:l.next]...)
}

// Since returns retained events with Tick >= tick, oldest first.
func (l *EventLog) Since(tick int32) []Event {
	var out []Event
	for _, ev := range l.Recent() {
		if ev.Tick >= tick {
			out = append(out, ev)
		}
	}
	return out
}
