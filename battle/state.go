package battle

import "fmt"

// ActionKind enumerates listener and player inputs
type ActionKind int

const (
	ActionLoad     ActionKind = iota // A battle became current
	ActionPlay                       // Play one side
	ActionStop                       // Stop playback
	ActionFinished                   // Playback of a side ended on its own
	ActionSelect                     // Pick a side as preferred
	ActionConfirm                    // Submit the selection as a vote
	ActionSkip                       // Move on without voting
	ActionCount
)

var actionNames = [ActionCount]string{"load", "play", "stop", "finished", "select", "confirm", "skip"}

func (k ActionKind) String() string {
	if k < 0 || k >= ActionCount {
		return "unknown"
	}
	return actionNames[k]
}

// Action is one input to Transition
type Action struct {
	Kind     ActionKind
	Side     Side // Play, Finished, Select
	BattleID ID   // Load
}

// EffectKind enumerates side effects a transition asks the caller to perform
type EffectKind int

const (
	EffectStopAudio  EffectKind = iota // Stop whatever is playing
	EffectPlayAudio                    // Start playing Effect.Side
	EffectSubmitVote                   // Record a vote for Effect.Side
	EffectNextBattle                   // Load the next battle
)

// Effect is an instruction produced by Transition
type Effect struct {
	Kind EffectKind
	Side Side
}

// PlayerState is the immutable listener state for one battle
// The zero value has no battle loaded and nothing playing
type PlayerState struct {
	BattleID ID
	Loaded   bool
	Playing  Side
	Selected Side
	Voted    bool
}

// IsPlaying reports whether a side is playing
func (s PlayerState) IsPlaying() bool {
	return s.Playing != SideNone
}

// HasSelection reports whether a side is selected
func (s PlayerState) HasSelection() bool {
	return s.Selected != SideNone
}

// Transition computes the next state and the effects to run for a
// On error the input state is returned unchanged with no effects
func Transition(s PlayerState, a Action) (PlayerState, []Effect, error) {
	var effects []Effect
	stopIfPlaying := func() {
		if s.IsPlaying() {
			effects = append(effects, Effect{Kind: EffectStopAudio, Side: s.Playing})
		}
	}

	if a.Kind != ActionLoad && !s.Loaded {
		return s, nil, ErrNoBattle
	}

	next := s
	switch a.Kind {
	case ActionLoad:
		if a.BattleID == "" {
			return s, nil, fmt.Errorf("%w: missing id", ErrInvalidBattle)
		}
		stopIfPlaying()
		next = PlayerState{BattleID: a.BattleID, Loaded: true}

	case ActionPlay:
		if err := validSide(a.Side); err != nil {
			return s, nil, err
		}
		// Starting a side always stops the other, or restarts the same
		stopIfPlaying()
		effects = append(effects, Effect{Kind: EffectPlayAudio, Side: a.Side})
		next.Playing = a.Side

	case ActionStop:
		stopIfPlaying()
		next.Playing = SideNone

	case ActionFinished:
		if s.Playing == a.Side {
			next.Playing = SideNone
		}

	case ActionSelect:
		if err := validSide(a.Side); err != nil {
			return s, nil, err
		}
		stopIfPlaying()
		next.Playing = SideNone
		next.Selected = a.Side

	case ActionConfirm:
		if s.Voted {
			return s, nil, ErrAlreadyVoted
		}
		if !s.HasSelection() {
			return s, nil, ErrNoSelection
		}
		stopIfPlaying()
		effects = append(effects,
			Effect{Kind: EffectSubmitVote, Side: s.Selected},
			Effect{Kind: EffectNextBattle, Side: SideNone},
		)
		next.Playing = SideNone
		next.Voted = true

	case ActionSkip:
		stopIfPlaying()
		effects = append(effects, Effect{Kind: EffectNextBattle, Side: SideNone})
		next.Playing = SideNone
		next.Selected = SideNone

	default:
		return s, nil, fmt.Errorf("%w: %d", ErrUnknownAction, a.Kind)
	}

	return next, effects, nil
}

func validSide(s Side) error {
	if s != SideA && s != SideB {
		return fmt.Errorf("%w: %d", ErrUnknownSide, s)
	}
	return nil
}
