package battle_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lixenwraith/musicflow/audio"
	"github.com/lixenwraith/musicflow/battle"
)

// holdSink plays until Stop, recording what it was asked to play
type holdSink struct {
	mu     sync.Mutex
	stop   chan struct{}
	played []*audio.AudioBuffer
	stops  int
}

func (s *holdSink) Name() string { return "hold" }

func (s *holdSink) Play(buf *audio.AudioBuffer) error {
	ch := make(chan struct{})
	s.mu.Lock()
	s.stop = ch
	s.played = append(s.played, buf)
	s.mu.Unlock()
	<-ch
	return nil
}

func (s *holdSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *holdSink) Close() error { return nil }

func (s *holdSink) plays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.played)
}

type SessionSuite struct {
	suite.Suite

	ctx     context.Context
	sink    *holdSink
	events  *recorder
	votes   *battle.VoteLog
	session *battle.Session
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.ctx = context.Background()
	s.sink = &holdSink{}
	s.events = &recorder{}
	s.votes = battle.NewVoteLog(nil)

	seed := uint32(0)
	s.session = battle.NewSession(battle.SessionConfig{
		Renderer:  battle.NewRenderer(smallComposer(), battle.NewCache(battle.DefaultCacheSize)),
		Sink:      s.sink,
		Telemetry: s.events,
		Votes:     s.votes,
		UserID:    77,
		Seeds:     func() uint32 { seed++; return seed },
	}, []battle.Battle{
		namedBattle("1", "MelodyRNN", "MusicVAE"),
		namedBattle("2", "MusicVAE", "Jukebox"),
	})
	s.Require().NoError(s.session.Next(s.ctx))
}

func (s *SessionSuite) TearDownTest() {
	s.session.Close()
}

func (s *SessionSuite) TestNextAssignsSeedsAndLoads() {
	st := s.session.State()
	s.Equal(battle.ID("1"), st.BattleID)
	s.True(st.Loaded)
	s.Equal(1, s.session.Remaining())

	cur := s.session.Current()
	s.Require().NotNil(cur)
	seedA, ok := cur.A.Params.Seed()
	s.True(ok)
	s.Equal(uint32(1), seedA)
	seedB, _ := cur.B.Params.Seed()
	s.Equal(uint32(2), seedB)

	e, ok := s.events.find(battle.EventBattleLoaded)
	s.Require().True(ok)
	s.Equal(battle.ID("1"), e.Data["battle_id"])
	s.Equal("MelodyRNN", e.Data["neural_net_a"])
}

func (s *SessionSuite) TestPlaySwitchesSides() {
	s.Require().NoError(s.session.Play(s.ctx, battle.SideA))
	s.Equal(battle.SideA, s.session.State().Playing)

	s.Require().NoError(s.session.Play(s.ctx, battle.SideB))
	s.Equal(battle.SideB, s.session.State().Playing)
	s.Eventually(func() bool { return s.sink.plays() == 2 }, time.Second, 5*time.Millisecond)

	s.Require().NoError(s.session.Dispatch(s.ctx, battle.Action{Kind: battle.ActionStop}))
	s.False(s.session.State().IsPlaying())

	// A stopped side must not report a natural finish
	s.session.Wait()
	_, ended := s.events.find(battle.EventPlaybackEnded)
	s.False(ended)

	_, stopped := s.events.find(battle.EventPlaybackStopped)
	s.True(stopped)
	s.Equal(2, countOf(s.events.names(), battle.EventNetworkPlayed))
}

func (s *SessionSuite) TestSelectConfirmLoadsNext() {
	s.Require().NoError(s.session.Play(s.ctx, battle.SideB))
	s.Require().NoError(s.session.Dispatch(s.ctx, battle.Action{Kind: battle.ActionSelect, Side: battle.SideB}))
	s.False(s.session.State().IsPlaying(), "selecting stops playback")

	s.Require().NoError(s.session.Dispatch(s.ctx, battle.Action{Kind: battle.ActionConfirm}))

	votes := s.votes.Votes()
	s.Require().Len(votes, 1)
	s.Equal(battle.NewVote(77, "1", battle.SideB), votes[0])

	st := s.session.State()
	s.Equal(battle.ID("2"), st.BattleID, "confirm moves to the next battle")
	s.False(st.Voted)
	s.False(st.HasSelection())

	e, ok := s.events.find(battle.EventVoteSubmitted)
	s.Require().True(ok)
	s.Equal("MusicVAE", e.Data["network"])

	stats := s.session.Stats()
	s.Require().Len(stats.NeuralNets, 3)
	s.Equal("MusicVAE", stats.NeuralNets[1].Name)
	s.Equal(1, stats.NeuralNets[1].Wins)
}

func (s *SessionSuite) TestConfirmWithoutSelection() {
	err := s.session.Dispatch(s.ctx, battle.Action{Kind: battle.ActionConfirm})
	s.ErrorIs(err, battle.ErrNoSelection)
	s.Empty(s.votes.Votes())
	s.Equal(battle.ID("1"), s.session.State().BattleID)
}

func (s *SessionSuite) TestSkipUntilExhausted() {
	s.Require().NoError(s.session.Play(s.ctx, battle.SideA))
	s.Require().NoError(s.session.Dispatch(s.ctx, battle.Action{Kind: battle.ActionSkip}))
	s.Equal(battle.ID("2"), s.session.State().BattleID)
	s.False(s.session.State().IsPlaying())

	s.Require().NoError(s.session.Dispatch(s.ctx, battle.Action{Kind: battle.ActionSkip}))
	s.False(s.session.State().Loaded, "no battles left leaves the player unloaded")
	s.Nil(s.session.Current())
	s.Zero(s.session.Remaining())

	s.ErrorIs(s.session.Play(s.ctx, battle.SideA), battle.ErrNoBattle)
	s.ErrorIs(s.session.Next(s.ctx), battle.ErrNoMoreBattles)
	s.Equal(2, countOf(s.events.names(), battle.EventBattleSkipped))
}

func (s *SessionSuite) TestDispatchRejectsLoad() {
	err := s.session.Dispatch(s.ctx, battle.Action{Kind: battle.ActionLoad, BattleID: "2"})
	s.ErrorIs(err, battle.ErrUnknownAction)
}

func (s *SessionSuite) TestExport() {
	paths, err := s.session.Export(s.ctx, battle.SideA, filepath.Join(s.T().TempDir(), "out"), 1.0)
	s.Require().NoError(err)
	s.Len(paths, 4)

	e, ok := s.events.find(battle.EventStemsExported)
	s.Require().True(ok)
	s.Equal(4, e.Data["files"])
}

func TestSessionNaturalFinish(t *testing.T) {
	events := &recorder{}
	session := battle.NewSession(battle.SessionConfig{
		Renderer:  battle.NewRenderer(smallComposer(), nil),
		Telemetry: events,
	}, []battle.Battle{namedBattle("n1", "a", "b")})
	defer session.Close()

	ctx := context.Background()
	if err := session.Next(ctx); err != nil {
		t.Fatalf("Expected battle to load, got %v", err)
	}
	if err := session.Play(ctx, battle.SideA); err != nil {
		t.Fatalf("Expected play to succeed, got %v", err)
	}

	session.Wait()
	if session.State().IsPlaying() {
		t.Errorf("Expected playback to end on its own")
	}
	if _, ok := events.find(battle.EventPlaybackEnded); !ok {
		t.Errorf("Expected %s event, got %v", battle.EventPlaybackEnded, events.names())
	}
}

func countOf(names []string, name string) int {
	n := 0
	for _, v := range names {
		if v == name {
			n++
		}
	}
	return n
}
