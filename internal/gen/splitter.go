package gen

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"bitbucket.org/creachadair/stringset"

	"countrygen/internal/countries"
)

const (
	// DefaultNumEvalCountries is how many countries are held out for each of
	// dev and test.
	DefaultNumEvalCountries = 20

	// DefaultMaxAttempts bounds the retries of the randomized split before
	// the geography/constant combination is declared infeasible.
	DefaultMaxAttempts = 100
)

// ErrSplitInfeasible is returned when no valid split was found within the
// attempt budget. It signals a configuration problem (eval set too large for
// the adjacency graph), not a transient failure.
var ErrSplitInfeasible = errors.New("no valid train/dev/test split found")

// Splitter partitions the registry's countries into train/dev/test such that
// every held-out country keeps at least one neighbor in the training set.
// Without that constraint the relational inference task would be unsolvable
// for the affected country.
type Splitter struct {
	reg         *countries.Registry
	rng         *rand.Rand
	numEval     int
	maxAttempts int
}

// NewSplitter creates a splitter drawing randomness from rng. numEval and
// maxAttempts fall back to the package defaults when zero.
func NewSplitter(reg *countries.Registry, rng *rand.Rand, numEval, maxAttempts int) *Splitter {
	if numEval <= 0 {
		numEval = DefaultNumEvalCountries
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Splitter{reg: reg, rng: rng, numEval: numEval, maxAttempts: maxAttempts}
}

// Split partitions all country names into train, dev, and test. The three
// lists are sorted, pairwise disjoint, and together cover every country.
func (s *Splitter) Split() (train, dev, test []string, err error) {
	var pool []string
	var isolated []string
	for _, name := range s.reg.Names() {
		c, _ := s.reg.Get(name)
		if len(c.Neighbors) > 0 {
			pool = append(pool, name)
		} else {
			isolated = append(isolated, name)
		}
	}
	sort.Strings(pool)

	if len(pool) < 2*s.numEval {
		return nil, nil, nil, fmt.Errorf("%w: only %d countries with neighbors, need %d",
			ErrSplitInfeasible, len(pool), 2*s.numEval)
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		shuffled := make([]string, len(pool))
		copy(shuffled, pool)
		s.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		dev = append([]string(nil), shuffled[:s.numEval]...)
		test = append([]string(nil), shuffled[s.numEval:2*s.numEval]...)
		sort.Strings(dev)
		sort.Strings(test)

		if !s.validEvalSets(dev, test) {
			continue
		}

		train = append([]string(nil), shuffled[2*s.numEval:]...)
		train = append(train, isolated...)
		sort.Strings(train)
		return train, dev, test, nil
	}

	return nil, nil, nil, fmt.Errorf("%w after %d attempts", ErrSplitInfeasible, s.maxAttempts)
}

// validEvalSets checks that every country in dev and test has at least one
// neighbor outside both eval sets, i.e. a fully-informed neighbor in train.
func (s *Splitter) validEvalSets(dev, test []string) bool {
	used := stringset.New(dev...)
	used.Add(test...)

	for name := range used {
		c, _ := s.reg.Get(name)
		ok := false
		for _, n := range c.Neighbors {
			if !used.Contains(n) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
