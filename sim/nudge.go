package sim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/world"
)

// Errors returned by entity commands.
var (
	ErrUnknownEntity = errors.New("sim: unknown entity")
	ErrUnknownNudge  = errors.New("sim: unknown nudge action")
)

// NudgeAction is a manual intervention on one entity.
type NudgeAction string

const (
	NudgeFeed     NudgeAction = "FEED"
	NudgeRelocate NudgeAction = "RELOCATE"
	NudgeInspire  NudgeAction = "INSPIRE"
)

var nudgeActions = []NudgeAction{NudgeFeed, NudgeRelocate, NudgeInspire}

// ParseNudgeAction parses an action name, ignoring case. A misspelling close
// to exactly one action resolves to it.
func ParseNudgeAction(s string) (NudgeAction, error) {
	token := strings.ToUpper(strings.TrimSpace(s))
	for _, a := range nudgeActions {
		if token == string(a) {
			return a, nil
		}
	}

	var best NudgeAction
	bestDist, ties := -1, 0
	for _, a := range nudgeActions {
		dist := levenshtein.ComputeDistance(token, string(a))
		if dist > typoLimit(len(a)) {
			continue
		}
		switch {
		case bestDist < 0 || dist < bestDist:
			best, bestDist, ties = a, dist, 1
		case dist == bestDist:
			ties++
		}
	}
	if bestDist >= 0 && ties == 1 {
		return best, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNudge, s)
}

// typoLimit is the edit distance tolerated for a word of the given length.
func typoLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// NudgeOutcome reports how an entity responded to a nudge.
type NudgeOutcome string

const (
	NudgeSuccess NudgeOutcome = "SUCCESS"
	NudgeFailed  NudgeOutcome = "FAILED"  // the entity lacks what the action needs
	NudgeIgnored NudgeOutcome = "IGNORED" // the action would change nothing
)

// NudgeRequest is an action and its parameters. X and Y are the target of
// a RELOCATE.
type NudgeRequest struct {
	Action NudgeAction `json:"action"`
	X      float32     `json:"x,omitempty"`
	Y      float32     `json:"y,omitempty"`
}

// NudgeResult describes the effect of a nudge.
type NudgeResult struct {
	Outcome NudgeOutcome `json:"outcome"`
	Message string       `json:"message"`
	Effects []string     `json:"effects,omitempty"`
}

// Nudge tuning.
const (
	feedRelief    = 0.3
	inspireEnergy = 0.2
)

// Nudge applies a manual intervention to an entity. Nudges draw no
// randomness, so they never shift the simulation's random sequence.
func (s *Sim) Nudge(id uint32, req NudgeRequest) (NudgeResult, error) {
	eid := world.EntityID(id)
	if !s.world.Alive(eid) {
		return NudgeResult{}, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}

	switch req.Action {
	case NudgeFeed:
		return s.feed(eid), nil
	case NudgeRelocate:
		return s.relocate(eid, req.X, req.Y), nil
	case NudgeInspire:
		return s.inspire(eid), nil
	}
	return NudgeResult{}, fmt.Errorf("%w: %q", ErrUnknownNudge, req.Action)
}

func (s *Sim) feed(id world.EntityID) NudgeResult {
	hunger := world.Get[components.Hunger](s.world, id)
	if hunger == nil {
		return NudgeResult{Outcome: NudgeFailed, Message: "Entity does not eat"}
	}
	if hunger.Value <= 0 {
		return NudgeResult{Outcome: NudgeIgnored, Message: "Entity is not hungry"}
	}

	before := hunger.Value
	hunger.Value = max(0, hunger.Value-feedRelief)
	return NudgeResult{
		Outcome: NudgeSuccess,
		Message: "Entity ate",
		Effects: []string{fmt.Sprintf("hunger %.2f -> %.2f", before, hunger.Value)},
	}
}

func (s *Sim) relocate(id world.EntityID, x, y float32) NudgeResult {
	pos := world.Get[components.Position](s.world, id)
	if pos == nil {
		return NudgeResult{Outcome: NudgeFailed, Message: "Entity has no position"}
	}

	half := s.cfg.Derived.HalfSize32
	x = max(-half, min(half, x))
	y = max(-half, min(half, y))
	if pos.X == x && pos.Y == y {
		return NudgeResult{Outcome: NudgeIgnored, Message: "Entity is already there"}
	}

	pos.X, pos.Y = x, y
	effects := []string{fmt.Sprintf("moved to (%.1f, %.1f)", x, y)}

	if b := world.Get[components.Behavior](s.world, id); b != nil {
		b.Target = nil
	}
	if s.terrain != nil {
		if alt := world.Get[components.Altitude](s.world, id); alt != nil {
			alt.Value = s.terrain.HeightAt(x, y)
			effects = append(effects, fmt.Sprintf("altitude %.2f", alt.Value))
		}
	}

	return NudgeResult{Outcome: NudgeSuccess, Message: "Entity relocated", Effects: effects}
}

func (s *Sim) inspire(id world.EntityID) NudgeResult {
	behavior := world.Get[components.Behavior](s.world, id)
	if behavior == nil {
		return NudgeResult{Outcome: NudgeFailed, Message: "Entity has no behavior"}
	}

	energy := world.Get[components.Energy](s.world, id)
	if behavior.Current == components.Exploring && behavior.Cooldown == 0 && (energy == nil || energy.Current >= 1) {
		return NudgeResult{Outcome: NudgeIgnored, Message: "Entity is already exploring"}
	}

	behavior.Current = components.Exploring
	behavior.Cooldown = 0
	effects := []string{"behavior Exploring"}
	if energy != nil {
		energy.Current = min(1, energy.Current+inspireEnergy)
		effects = append(effects, fmt.Sprintf("energy %.2f", energy.Current))
	}

	return NudgeResult{Outcome: NudgeSuccess, Message: "Entity feels inspired", Effects: effects}
}
