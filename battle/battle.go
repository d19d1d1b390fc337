package battle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/lixenwraith/musicflow/audio"
)

// Side identifies one of the two competing networks
type Side int

const (
	SideNone Side = iota
	SideA
	SideB
)

var sideNames = [...]string{"a", "b"}

func (s Side) String() string {
	if s < SideA || s > SideB {
		return "none"
	}
	return sideNames[s-1]
}

// Key returns the JSON field name of the side, e.g. neural_net_a
func (s Side) Key() string {
	return "neural_net_" + s.String()
}

// Other returns the opposing side
func (s Side) Other() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

// ParseSide accepts "a", "b" or the neural_net_ keys, case-insensitive
func ParseSide(s string) (Side, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "neural_net_")
	for i, n := range sideNames {
		if n == name {
			return Side(i + 1), nil
		}
	}
	return SideNone, fmt.Errorf("%w: %q", ErrUnknownSide, s)
}

// ID is a battle identifier; the API sends either numbers or strings
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("battle id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Network is one competitor: a display name plus the parameters it composed
type Network struct {
	Name   string                `json:"name"`
	Color  string                `json:"color,omitempty"`
	Params audio.MusicParameters `json:"music_params"`
}

// UnmarshalJSON keeps default parameters when music_params is absent
func (n *Network) UnmarshalJSON(data []byte) error {
	type plain Network
	v := plain{Params: audio.DefaultMusicParameters()}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Network(v)
	return nil
}

// Battle pairs two networks for a listener to compare
type Battle struct {
	ID ID      `json:"id"`
	A  Network `json:"neural_net_a"`
	B  Network `json:"neural_net_b"`
}

// Network returns the competitor on side s, nil for SideNone
func (b *Battle) Network(s Side) *Network {
	switch s {
	case SideA:
		return &b.A
	case SideB:
		return &b.B
	default:
		return nil
	}
}

// Validate checks the fields a session relies on
func (b *Battle) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidBattle)
	}
	for _, s := range []Side{SideA, SideB} {
		if b.Network(s).Name == "" {
			return fmt.Errorf("%w: battle %s: %s has no name", ErrInvalidBattle, b.ID, s.Key())
		}
	}
	return nil
}

// EnsureSeeds assigns a seed from next to every network without one
// Returns the number of seeds assigned
func (b *Battle) EnsureSeeds(next func() uint32) int {
	if next == nil {
		next = audio.NewSeed
	}
	assigned := 0
	for _, s := range []Side{SideA, SideB} {
		n := b.Network(s)
		if _, ok := n.Params.Seed(); ok {
			continue
		}
		seed := next()
		n.Params = n.Params.WithSeed(seed)
		log.Printf("battle %s: assigned seed %d to %s (%s)", b.ID, seed, s.Key(), n.Name)
		assigned++
	}
	return assigned
}

// DecodeBattles reads one battle object or an array of battles
// Missing network names default to "Network A" and "Network B"
func DecodeBattles(r io.Reader) ([]Battle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read battles: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidBattle)
	}

	var battles []Battle
	if data[0] == '[' {
		if err := json.Unmarshal(data, &battles); err != nil {
			return nil, fmt.Errorf("decode battles: %w", err)
		}
	} else {
		var b Battle
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("decode battle: %w", err)
		}
		battles = []Battle{b}
	}

	for i := range battles {
		b := &battles[i]
		if b.A.Name == "" {
			b.A.Name = "Network A"
		}
		if b.B.Name == "" {
			b.B.Name = "Network B"
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("battle %d: %w", i, err)
		}
	}
	return battles, nil
}

// LoadBattles decodes battles from a JSON file
func LoadBattles(path string) ([]Battle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeBattles(f)
}
