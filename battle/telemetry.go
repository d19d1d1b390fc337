package battle

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/musicflow/core"
)

// Telemetry event names sent to the host bot
const (
	EventAppLoaded       = "app_loaded"
	EventBattleLoaded    = "battle_loaded"
	EventNetworkPlayed   = "network_played"
	EventPlaybackStopped = "playback_stopped"
	EventPlaybackEnded   = "playback_ended"
	EventNetworkSelected = "network_selected"
	EventVoteSubmitted   = "vote_submitted"
	EventBattleSkipped   = "battle_skipped"
	EventStemsExported   = "stems_exported"
)

// Event is one telemetry message, serialized as {event, data, timestamp}
type Event struct {
	Event     string         `json:"event"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent stamps an event with the current UTC time
func NewEvent(name string, data map[string]any) Event {
	if data == nil {
		data = map[string]any{}
	}
	return Event{Event: name, Data: data, Timestamp: time.Now().UTC()}
}

// Sender delivers telemetry one way; no response is expected
type Sender interface {
	Send(Event) error
}

// NopSender drops every event
type NopSender struct{}

func (NopSender) Send(Event) error { return nil }

// WriterSender writes events as JSON lines
type WriterSender struct {
	mu  sync.Mutex
	w   *bufio.Writer
	enc *json.Encoder
}

// NewWriterSender wraps w; every Send is flushed
func NewWriterSender(w io.Writer) *WriterSender {
	bw := bufio.NewWriter(w)
	return &WriterSender{w: bw, enc: json.NewEncoder(bw)}
}

func (s *WriterSender) Send(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(e); err != nil {
		return err
	}
	return s.w.Flush()
}

// QueueSender decouples callers from a slow Sender with a bounded queue
// Send never blocks; events beyond the queue are dropped and counted
type QueueSender struct {
	next    Sender
	queue   chan Event
	closeCh chan struct{}
	done    chan struct{}

	mu      sync.RWMutex // Held for reading while enqueuing, for writing by Close
	closed  bool
	sent    atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewQueueSender starts a delivery goroutine feeding next
func NewQueueSender(next Sender, size int) *QueueSender {
	if size < 1 {
		size = 1
	}
	q := &QueueSender{
		next:    next,
		queue:   make(chan Event, size),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	core.Go(q.loop)
	return q
}

// Send queues e, returning ErrQueueFull or ErrSenderClosed when it cannot
// An accepted event is always delivered before Close returns
func (q *QueueSender) Send(e Event) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrSenderClosed
	}
	select {
	case q.queue <- e:
		return nil
	default:
		q.dropped.Add(1)
		return ErrQueueFull
	}
}

func (q *QueueSender) loop() {
	defer close(q.done)
	for {
		select {
		case <-q.closeCh:
			q.drain()
			return
		case e := <-q.queue:
			q.deliver(e)
		}
	}
}

// drain delivers whatever was queued before Close
func (q *QueueSender) drain() {
	for {
		select {
		case e := <-q.queue:
			q.deliver(e)
		default:
			return
		}
	}
}

func (q *QueueSender) deliver(e Event) {
	if err := q.next.Send(e); err != nil {
		q.failed.Add(1)
		log.Printf("telemetry: send %s: %v", e.Event, err)
		return
	}
	q.sent.Add(1)
}

// Close stops accepting events and waits for the queue to drain
func (q *QueueSender) Close() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.closeCh)
	}
	q.mu.Unlock()
	<-q.done
	return nil
}

// Counts returns sent, dropped and failed totals
func (q *QueueSender) Counts() (sent, dropped, failed uint64) {
	return q.sent.Load(), q.dropped.Load(), q.failed.Load()
}
