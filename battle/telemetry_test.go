package battle_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/musicflow/battle"
)

// recorder is a Sender that keeps every event
type recorder struct {
	mu     sync.Mutex
	events []battle.Event
	block  chan struct{} // Send waits on it when non-nil
	err    error
}

func (r *recorder) Send(e battle.Event) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Event
	}
	return out
}

func (r *recorder) find(name string) (battle.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Event == name {
			return e, true
		}
	}
	return battle.Event{}, false
}

func TestNewEvent(t *testing.T) {
	e := battle.NewEvent(battle.EventAppLoaded, nil)
	assert.NotNil(t, e.Data)
	assert.Equal(t, time.UTC, e.Timestamp.Location())
	assert.WithinDuration(t, time.Now(), e.Timestamp, time.Minute)
}

func TestWriterSender(t *testing.T) {
	var out bytes.Buffer
	s := battle.NewWriterSender(&out)

	require.NoError(t, s.Send(battle.NewEvent(battle.EventNetworkPlayed, map[string]any{"battle_id": "b1", "network": "neural_net_a"})))
	require.NoError(t, s.Send(battle.NewEvent(battle.EventBattleSkipped, nil)))

	dec := json.NewDecoder(&out)
	var first map[string]any
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "network_played", first["event"])
	assert.Equal(t, map[string]any{"battle_id": "b1", "network": "neural_net_a"}, first["data"])
	_, err := time.Parse(time.RFC3339Nano, first["timestamp"].(string))
	assert.NoError(t, err)

	var second map[string]any
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "battle_skipped", second["event"])
}

func TestQueueSenderDrainsOnClose(t *testing.T) {
	rec := &recorder{}
	q := battle.NewQueueSender(rec, 16)

	for i := 0; i < 10; i++ {
		require.NoError(t, q.Send(battle.NewEvent(battle.EventNetworkPlayed, map[string]any{"i": i})))
	}
	require.NoError(t, q.Close())

	assert.Len(t, rec.names(), 10)
	sent, dropped, failed := q.Counts()
	assert.Equal(t, uint64(10), sent)
	assert.Zero(t, dropped)
	assert.Zero(t, failed)

	assert.ErrorIs(t, q.Send(battle.NewEvent(battle.EventAppLoaded, nil)), battle.ErrSenderClosed)
	assert.NoError(t, q.Close(), "close is idempotent")
}

func TestQueueSenderFull(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	q := battle.NewQueueSender(rec, 1)

	// The loop takes at most one event and blocks on it, so the queue fills
	var full error
	for i := 0; i < 5 && full == nil; i++ {
		full = q.Send(battle.NewEvent(battle.EventNetworkPlayed, nil))
	}
	assert.ErrorIs(t, full, battle.ErrQueueFull)

	close(rec.block)
	require.NoError(t, q.Close())
	_, dropped, _ := q.Counts()
	assert.Equal(t, uint64(1), dropped)
}

func TestQueueSenderCountsFailures(t *testing.T) {
	rec := &recorder{err: errors.New("bot offline")}
	q := battle.NewQueueSender(rec, 4)
	require.NoError(t, q.Send(battle.NewEvent(battle.EventAppLoaded, nil)))
	require.NoError(t, q.Close())

	sent, _, failed := q.Counts()
	assert.Zero(t, sent)
	assert.Equal(t, uint64(1), failed)
}

func TestQueueSenderCloseDuringSend(t *testing.T) {
	for round := 0; round < 50; round++ {
		rec := &recorder{}
		q := battle.NewQueueSender(rec, 1024)

		var (
			wg       sync.WaitGroup
			accepted atomic.Int64
			start    = make(chan struct{})
		)
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for i := 0; i < 50; i++ {
					err := q.Send(battle.NewEvent(battle.EventNetworkPlayed, nil))
					if err == nil {
						accepted.Add(1)
						continue
					}
					if !errors.Is(err, battle.ErrSenderClosed) && !errors.Is(err, battle.ErrQueueFull) {
						t.Errorf("Unexpected send error: %v", err)
					}
				}
			}()
		}

		close(start)
		require.NoError(t, q.Close())
		wg.Wait()

		sent, _, _ := q.Counts()
		assert.Equal(t, uint64(accepted.Load()), sent, "every accepted event is delivered by Close")
		assert.Len(t, rec.names(), int(accepted.Load()))
	}
}
