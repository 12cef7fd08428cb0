package yolods

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// SplitMode selects how samples are assigned to the train and val splits.
type SplitMode string

// The known split modes.
const (
	// SplitBernoulli draws an independent split for every sample. The realised train ratio only
	// approximates the configured one, especially on small datasets.
	SplitBernoulli SplitMode = "bernoulli"
	// SplitPartition shuffles all samples and cuts the list at round(ratio*n).
	SplitPartition SplitMode = "partition"
)

// Splitter assigns samples to splits.
type Splitter struct {
	mode  SplitMode
	ratio float64
	rng   *rand.Rand
}

// NewSplitter returns a splitter which sends a trainRatio share of the samples to Train.
func NewSplitter(mode SplitMode, trainRatio float64, rng *rand.Rand) (*Splitter, error) {
	if mode != SplitBernoulli && mode != SplitPartition {
		return nil, errors.Errorf("unknown split mode %q", mode)
	}
	if trainRatio < 0 || trainRatio > 1 || math.IsNaN(trainRatio) {
		return nil, errors.Errorf("train ratio %v is not in [0, 1]", trainRatio)
	}
	if rng == nil {
		return nil, errors.New("no random source")
	}
	return &Splitter{mode: mode, ratio: trainRatio, rng: rng}, nil
}

// Assign returns the splits for n samples, in sample order.
func (s *Splitter) Assign(n int) []Split {
	splits := make([]Split, n)
	switch s.mode {
	case SplitPartition:
		numTrain := int(math.Round(s.ratio * float64(n)))
		for pos, idx := range s.rng.Perm(n) {
			if pos < numTrain {
				splits[idx] = Train
			} else {
				splits[idx] = Val
			}
		}
	default:
		for i := range splits {
			if s.rng.Float64() < s.ratio {
				splits[i] = Train
			} else {
				splits[i] = Val
			}
		}
	}
	return splits
}
