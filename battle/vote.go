package battle

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// DefaultUserID is used when the host supplies no listener id
const DefaultUserID int64 = 1118235356

// DefaultConfidence is the confidence attached to every manual vote
const DefaultConfidence = 1.0

// Vote records a listener's preferred network in one battle
type Vote struct {
	UserID     int64   `json:"user_id"`
	BattleID   ID      `json:"battle_id"`
	Winner     string  `json:"winner"` // neural_net_a or neural_net_b
	Confidence float64 `json:"confidence"`
}

// NewVote builds a vote for winner; userID 0 falls back to DefaultUserID
func NewVote(userID int64, battleID ID, winner Side) Vote {
	if userID == 0 {
		userID = DefaultUserID
	}
	return Vote{
		UserID:     userID,
		BattleID:   battleID,
		Winner:     winner.Key(),
		Confidence: DefaultConfidence,
	}
}

// Side resolves the winner field
func (v Vote) Side() (Side, error) {
	return ParseSide(v.Winner)
}

// VoteLog appends votes as JSON lines and keeps them in memory for stats
type VoteLog struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	votes  []Vote
}

// NewVoteLog records to w; w may be nil for memory-only logs
func NewVoteLog(w io.Writer) *VoteLog {
	return &VoteLog{w: w}
}

// OpenVoteLog opens or creates a JSON-lines vote file, loading existing votes
func OpenVoteLog(path string) (*VoteLog, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open vote log: %w", err)
	}

	votes, err := ReadVotes(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &VoteLog{w: f, closer: f, votes: votes}, nil
}

// ReadVotes decodes JSON-lines votes, skipping blank lines
func ReadVotes(r io.Reader) ([]Vote, error) {
	var votes []Vote
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var v Vote
		if err := json.Unmarshal(sc.Bytes(), &v); err != nil {
			return nil, fmt.Errorf("vote line %d: %w", line, err)
		}
		votes = append(votes, v)
	}
	return votes, sc.Err()
}

// Record validates and appends v
func (l *VoteLog) Record(v Vote) error {
	if _, err := v.Side(); err != nil {
		return err
	}
	if v.BattleID == "" {
		return fmt.Errorf("%w: vote without battle id", ErrInvalidBattle)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.w != nil {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := l.w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write vote: %w", err)
		}
	}
	l.votes = append(l.votes, v)
	return nil
}

// Votes returns a copy of all recorded votes
func (l *VoteLog) Votes() []Vote {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Vote, len(l.votes))
	copy(out, l.votes)
	return out
}

// Close closes the backing file, if any
func (l *VoteLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	l.w = nil
	return err
}
