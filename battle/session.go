package battle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lixenwraith/musicflow/audio"
	"github.com/lixenwraith/musicflow/core"
)

const stopRetryInterval = 20 * time.Millisecond

// SessionConfig wires a session to its collaborators
// Nil fields get memory-only or silent defaults
type SessionConfig struct {
	Renderer  *Renderer
	Sink      audio.Sink
	Telemetry Sender
	Votes     *VoteLog
	UserID    int64
	Seeds     func() uint32 // Seed source for networks without one
}

// Session runs a queue of battles for one listener
// State changes go through Transition; effects run outside the state lock
type Session struct {
	renderer  *Renderer
	sink      audio.Sink
	telemetry Sender
	votes     *VoteLog
	userID    int64
	seeds     func() uint32

	mu      sync.Mutex
	state   PlayerState
	battles []Battle
	next    int
	current *Battle

	effectMu sync.Mutex // Serializes effect execution
	playMu   sync.Mutex // Protects playDone and playGen
	playDone chan struct{}
	playGen  uint64
}

// NewSession creates a session over battles
func NewSession(cfg SessionConfig, battles []Battle) *Session {
	s := &Session{
		renderer:  cfg.Renderer,
		sink:      cfg.Sink,
		telemetry: cfg.Telemetry,
		votes:     cfg.Votes,
		userID:    cfg.UserID,
		seeds:     cfg.Seeds,
		battles:   battles,
	}
	if s.renderer == nil {
		s.renderer = NewRenderer(nil, NewCache(DefaultCacheSize))
	}
	if s.sink == nil {
		s.sink = audio.NullSink{}
	}
	if s.telemetry == nil {
		s.telemetry = NopSender{}
	}
	if s.votes == nil {
		s.votes = NewVoteLog(nil)
	}
	if s.userID == 0 {
		s.userID = DefaultUserID
	}
	return s
}

// State returns the current player state
func (s *Session) State() PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns a copy of the loaded battle, nil when none
func (s *Session) Current() *Battle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	b := *s.current
	return &b
}

// Battles returns all battles known to the session
func (s *Session) Battles() []Battle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Battle, len(s.battles))
	copy(out, s.battles)
	return out
}

// Remaining returns how many battles have not been loaded yet
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.battles) - s.next
}

// Renderer returns the session renderer
func (s *Session) Renderer() *Renderer {
	return s.renderer
}

// Next loads the next battle, assigns seeds and pre-renders both sides
// Returns ErrNoMoreBattles when the queue is exhausted
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	if s.next >= len(s.battles) {
		prev := s.state
		s.state = PlayerState{}
		s.current = nil
		s.mu.Unlock()
		if prev.IsPlaying() {
			s.stopAudio()
		}
		return ErrNoMoreBattles
	}
	b := &s.battles[s.next]
	s.next++
	b.EnsureSeeds(s.seeds)
	s.mu.Unlock()

	if _, err := s.renderer.RenderPair(ctx, b); err != nil {
		return fmt.Errorf("load battle %s: %w", b.ID, err)
	}

	if _, err := s.transition(ctx, Action{Kind: ActionLoad, BattleID: b.ID}, b); err != nil {
		return err
	}
	s.emit(EventBattleLoaded, map[string]any{
		"battle_id":    b.ID,
		"neural_net_a": b.A.Name,
		"neural_net_b": b.B.Name,
	})
	return nil
}

// Dispatch applies a listener action and runs its effects
// Confirm and skip load the next battle; when none is left the state is unloaded
func (s *Session) Dispatch(ctx context.Context, a Action) error {
	if a.Kind == ActionLoad {
		return fmt.Errorf("%w: use Next to load battles", ErrUnknownAction)
	}
	return s.apply(ctx, a, nil)
}

// Play starts side; shorthand for Dispatch with ActionPlay
func (s *Session) Play(ctx context.Context, side Side) error {
	return s.Dispatch(ctx, Action{Kind: ActionPlay, Side: side})
}

// apply transitions state, runs effects, then loads the next battle if asked
func (s *Session) apply(ctx context.Context, a Action, load *Battle) error {
	loadNext, err := s.transition(ctx, a, load)
	if err != nil || !loadNext {
		return err
	}
	if err := s.Next(ctx); err != nil && !errors.Is(err, ErrNoMoreBattles) {
		return err
	}
	return nil
}

// transition applies a and executes its effects in order
// load is the battle becoming current for ActionLoad
func (s *Session) transition(ctx context.Context, a Action, load *Battle) (loadNext bool, err error) {
	s.effectMu.Lock()
	defer s.effectMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next, effects, err := Transition(prev, a)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.state = next
	if load != nil {
		s.current = load
	}
	current := s.current
	s.mu.Unlock()

	s.emitAction(a, prev, current)

	for _, e := range effects {
		if e.Kind == EffectNextBattle {
			loadNext = true
			continue
		}
		if err := s.run(ctx, e, current); err != nil {
			return false, err
		}
	}
	return loadNext, nil
}

// run executes one effect against the battle that was current at transition
func (s *Session) run(ctx context.Context, e Effect, b *Battle) error {
	switch e.Kind {
	case EffectStopAudio:
		s.stopAudio()
		return nil

	case EffectPlayAudio:
		buf, err := s.renderer.RenderSide(ctx, b, e.Side)
		if err != nil {
			s.mu.Lock()
			if s.state.Playing == e.Side {
				s.state.Playing = SideNone
			}
			s.mu.Unlock()
			return err
		}
		s.startAudio(e.Side, buf)
		return nil

	case EffectSubmitVote:
		v := NewVote(s.userID, b.ID, e.Side)
		if err := s.votes.Record(v); err != nil {
			return fmt.Errorf("record vote: %w", err)
		}
		s.emit(EventVoteSubmitted, map[string]any{
			"battle_id":  b.ID,
			"winner":     v.Winner,
			"network":    b.Network(e.Side).Name,
			"user_id":    v.UserID,
			"confidence": v.Confidence,
		})
		return nil

	default:
		return fmt.Errorf("unknown effect %d", e.Kind)
	}
}

// startAudio plays buf in the background and reports natural completion
func (s *Session) startAudio(side Side, buf *audio.AudioBuffer) {
	done := make(chan struct{})

	s.playMu.Lock()
	s.playGen++
	gen := s.playGen
	s.playDone = done
	s.playMu.Unlock()

	core.Go(func() {
		defer close(done)
		if err := s.sink.Play(buf); err != nil {
			log.Printf("session: play %s: %v", side.Key(), err)
		}
		// stopAudio bumps the generation before waiting, so this never blocks on it
		s.finished(gen, side)
	})
}

// stopAudio interrupts playback and waits for the player goroutine to return
func (s *Session) stopAudio() {
	s.playMu.Lock()
	done := s.playDone
	s.playGen++
	s.playDone = nil
	s.playMu.Unlock()

	s.sink.Stop()
	if done == nil {
		return
	}

	// A Stop issued before the player goroutine reached Play is lost, so repeat it
	tick := time.NewTicker(stopRetryInterval)
	defer tick.Stop()
	for {
		select {
		case <-done:
			return
		case <-tick.C:
			s.sink.Stop()
		}
	}
}

// finished applies ActionFinished unless a newer playback superseded gen
func (s *Session) finished(gen uint64, side Side) {
	s.playMu.Lock()
	current := gen == s.playGen
	if current {
		s.playDone = nil
	}
	s.playMu.Unlock()
	if !current {
		return
	}

	s.mu.Lock()
	next, _, err := Transition(s.state, Action{Kind: ActionFinished, Side: side})
	if err == nil {
		s.state = next
	}
	id := s.state.BattleID
	s.mu.Unlock()

	if err == nil {
		s.emit(EventPlaybackEnded, map[string]any{"battle_id": id, "network": side.Key()})
	}
}

// Wait blocks until the current playback ends
func (s *Session) Wait() {
	s.playMu.Lock()
	done := s.playDone
	s.playMu.Unlock()
	if done != nil {
		<-done
	}
}

// Export writes stems for side of the current battle into dir
func (s *Session) Export(ctx context.Context, side Side, dir string, gain float64) ([]string, error) {
	b := s.Current()
	if b == nil {
		return nil, ErrNoBattle
	}
	paths, err := s.renderer.ExportStems(ctx, b, side, dir, gain)
	if err != nil {
		return paths, err
	}
	s.emit(EventStemsExported, map[string]any{"battle_id": b.ID, "network": side.Key(), "files": len(paths)})
	return paths, nil
}

// Stats tallies recorded votes over the session battles
func (s *Session) Stats() Stats {
	return Tally(s.Battles(), s.votes.Votes())
}

// Close stops playback
func (s *Session) Close() {
	s.stopAudio()
}

// emitAction maps a successful action to its telemetry event
func (s *Session) emitAction(a Action, prev PlayerState, b *Battle) {
	if b == nil {
		return
	}
	data := map[string]any{"battle_id": b.ID}

	switch a.Kind {
	case ActionPlay:
		data["network"] = a.Side.Key()
		data["name"] = b.Network(a.Side).Name
		s.emit(EventNetworkPlayed, data)
	case ActionStop:
		if prev.IsPlaying() {
			data["network"] = prev.Playing.Key()
			s.emit(EventPlaybackStopped, data)
		}
	case ActionSelect:
		data["network"] = a.Side.Key()
		s.emit(EventNetworkSelected, data)
	case ActionSkip:
		s.emit(EventBattleSkipped, data)
	}
}

func (s *Session) emit(name string, data map[string]any) {
	if err := s.telemetry.Send(NewEvent(name, data)); err != nil {
		log.Printf("telemetry: %s: %v", name, err)
	}
}
