// Package kg holds the knowledge-graph sample model produced by the
// generator and the writer that serializes samples to disk. A Sample owns its
// own individual/class/relation registry; nothing is shared between samples.
package kg

import "fmt"

// Vocabulary of the countries ontology.
const (
	ClassCountry   = "country"
	ClassRegion    = "region"
	ClassSubregion = "subregion"

	RelationLocatedIn  = "locatedIn"
	RelationNeighborOf = "neighborOf"
)

// Membership records that an individual belongs (or does not belong) to a
// class, together with how that knowledge entered the sample.
type Membership struct {
	Individual string `json:"individual"`
	Class      string `json:"class"`
	Positive   bool   `json:"positive"`
	Inferred   bool   `json:"inferred"`
	Prediction bool   `json:"prediction"`
}

// Triple records a binary relation between two individuals, with polarity
// and inferred/prediction status.
type Triple struct {
	Subject    string `json:"subject"`
	Relation   string `json:"relation"`
	Object     string `json:"object"`
	Positive   bool   `json:"positive"`
	Inferred   bool   `json:"inferred"`
	Prediction bool   `json:"prediction"`
}

// Sample is one generated knowledge-graph sample.
type Sample struct {
	Individuals []string     `json:"individuals"`
	Classes     []string     `json:"classes"`
	Relations   []string     `json:"relations"`
	Memberships []Membership `json:"memberships"`
	Triples     []Triple     `json:"triples"`

	individualSet map[string]bool
	classSet      map[string]bool
	relationSet   map[string]bool
}

// NewSample creates an empty sample with the fixed vocabulary registered.
func NewSample() *Sample {
	s := &Sample{
		individualSet: make(map[string]bool),
		classSet:      make(map[string]bool),
		relationSet:   make(map[string]bool),
	}
	for _, c := range []string{ClassCountry, ClassRegion, ClassSubregion} {
		s.Classes = append(s.Classes, c)
		s.classSet[c] = true
	}
	for _, r := range []string{RelationLocatedIn, RelationNeighborOf} {
		s.Relations = append(s.Relations, r)
		s.relationSet[r] = true
	}
	return s
}

// AddIndividual registers an individual. Re-adding is a no-op, so callers
// can register regions and countries without tracking what is present.
func (s *Sample) AddIndividual(name string) {
	if s.individualSet[name] {
		return
	}
	s.individualSet[name] = true
	s.Individuals = append(s.Individuals, name)
}

// HasIndividual reports whether name is registered.
func (s *Sample) HasIndividual(name string) bool { return s.individualSet[name] }

// AddMembership records a class membership. The class must be part of the
// vocabulary and the individual must be registered.
func (s *Sample) AddMembership(m Membership) error {
	if !s.classSet[m.Class] {
		return fmt.Errorf("unknown class %q", m.Class)
	}
	if !s.HasIndividual(m.Individual) {
		return fmt.Errorf("unknown individual %q", m.Individual)
	}
	s.Memberships = append(s.Memberships, m)
	return nil
}

// AddTriple records a relation triple. Relation and both individuals must be
// registered.
func (s *Sample) AddTriple(t Triple) error {
	if !s.relationSet[t.Relation] {
		return fmt.Errorf("unknown relation %q", t.Relation)
	}
	if !s.HasIndividual(t.Subject) {
		return fmt.Errorf("unknown individual %q", t.Subject)
	}
	if !s.HasIndividual(t.Object) {
		return fmt.Errorf("unknown individual %q", t.Object)
	}
	s.Triples = append(s.Triples, t)
	return nil
}

// CountTriples returns how many triples are specified and how many are
// inferred. Prediction targets count as specified; only inference status
// separates the two.
func (s *Sample) CountTriples() (specified, inferred int) {
	for _, t := range s.Triples {
		if t.Inferred {
			inferred++
		} else {
			specified++
		}
	}
	return specified, inferred
}
