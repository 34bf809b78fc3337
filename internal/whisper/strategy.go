package whisper

import (
	"fmt"
	"strconv"
	"strings"
)

// Strategy selects whisper.cpp's decoding algorithm for a transcription job.
type Strategy interface {
	isStrategy()
	String() string
}

// Greedy picks the single highest-probability token at each step, keeping
// the BestOf highest-scoring candidate sequences before picking a winner.
type Greedy struct {
	BestOf int
}

func (Greedy) isStrategy() {}

func (g Greedy) String() string {
	return fmt.Sprintf("greedy:%d", g.BestOf)
}

// Beam runs beam search with BeamSize candidate sequences. Patience is
// parsed, validated and kept in String's output, but applyStrategy passes
// only BeamSize to whisper.cpp; Patience has no effect on inference.
type Beam struct {
	BeamSize int
	Patience float64
}

func (Beam) isStrategy() {}

func (b Beam) String() string {
	return fmt.Sprintf("beam:%d:%s", b.BeamSize, strconv.FormatFloat(b.Patience, 'g', -1, 64))
}

// DefaultGreedy is the greedy strategy parameterization used when a config
// or flag omits an explicit BestOf.
func DefaultGreedy() Greedy { return Greedy{BestOf: 2} }

// DefaultBeam is the beam-search strategy parameterization used when a
// config or flag omits explicit BeamSize/Patience values.
func DefaultBeam() Beam { return Beam{BeamSize: 5, Patience: 0} }

// ParseStrategy parses the "greedy[:N]" / "beam[:N[:P]]" grammar. An empty
// string yields DefaultGreedy. N below 1 and an unrecognized kind are both
// rejected.
func ParseStrategy(s string) (Strategy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultGreedy(), nil
	}

	parts := strings.Split(s, ":")
	switch parts[0] {
	case "greedy":
		g := DefaultGreedy()
		if len(parts) > 1 {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("parse strategy %q: best_of must be an integer: %w", s, err)
			}
			g.BestOf = n
		}
		if g.BestOf < 1 {
			return nil, fmt.Errorf("parse strategy %q: best_of must be at least 1", s)
		}
		return g, nil

	case "beam":
		b := DefaultBeam()
		if len(parts) > 1 {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("parse strategy %q: beam_size must be an integer: %w", s, err)
			}
			b.BeamSize = n
		}
		if len(parts) > 2 {
			p, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				return nil, fmt.Errorf("parse strategy %q: patience must be a number: %w", s, err)
			}
			b.Patience = p
		}
		if b.BeamSize < 1 {
			return nil, fmt.Errorf("parse strategy %q: beam_size must be at least 1", s)
		}
		if b.Patience < 0 {
			return nil, fmt.Errorf("parse strategy %q: patience must be at least 0", s)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("parse strategy %q: unsupported kind %q", s, parts[0])
	}
}
