// Package asp models ground literals and answer sets, and wraps the logic
// solvers that derive inferences from them. Two solver backends are provided:
// an external DLV subprocess and an embedded Google Mangle engine.
package asp

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// symbolPattern describes legal predicate symbols and terms: alphanumeric,
// starting with a lower-case letter.
var symbolPattern = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)

// literalPattern parses the wire form of a literal, e.g. "~locatedIn(a,b)".
var literalPattern = regexp.MustCompile(`^(?P<sign>[-~]?)(?P<predicate>.+)\((?P<terms>.+)\)$`)

// Literal is an immutable ground literal: a predicate applied to an ordered
// tuple of terms, either positive or negated. Two literals are equal iff
// their canonical string forms are equal; terms are positional, not a set.
type Literal struct {
	predicate string
	terms     []string
	positive  bool
	key       string
}

// New creates a literal after validating the predicate and every term
// against the symbol pattern.
func New(positive bool, predicate string, terms ...string) (Literal, error) {
	if !symbolPattern.MatchString(predicate) {
		return Literal{}, fmt.Errorf("illegal predicate symbol: %q", predicate)
	}
	for _, t := range terms {
		if !symbolPattern.MatchString(t) {
			return Literal{}, fmt.Errorf("illegal term: %q", t)
		}
	}
	return newUnchecked(positive, predicate, terms), nil
}

// Atom creates a positive literal. It panics on an illegal symbol, so it is
// meant for names that already passed registry normalization.
func Atom(predicate string, terms ...string) Literal {
	lit, err := New(true, predicate, terms...)
	if err != nil {
		panic(err)
	}
	return lit
}

// NegAtom creates a negative literal. Same contract as Atom.
func NegAtom(predicate string, terms ...string) Literal {
	lit, err := New(false, predicate, terms...)
	if err != nil {
		panic(err)
	}
	return lit
}

func newUnchecked(positive bool, predicate string, terms []string) Literal {
	ts := make([]string, len(terms))
	copy(ts, terms)
	var sb strings.Builder
	if !positive {
		sb.WriteByte('~')
	}
	sb.WriteString(predicate)
	sb.WriteByte('(')
	sb.WriteString(strings.Join(ts, ","))
	sb.WriteByte(')')
	return Literal{predicate: predicate, terms: ts, positive: positive, key: sb.String()}
}

// Parse parses the canonical string form of a literal. A leading '~' or '-'
// marks a negative literal. Parsing is strict: malformed input is an error,
// never a partial result.
func Parse(s string) (Literal, error) {
	m := literalPattern.FindStringSubmatch(s)
	if m == nil {
		return Literal{}, fmt.Errorf("malformed literal: %q", s)
	}
	sign, predicate, rawTerms := m[1], m[2], m[3]
	terms := strings.Split(rawTerms, ",")
	for i, t := range terms {
		terms[i] = strings.TrimSpace(t)
	}
	return New(sign == "", predicate, terms...)
}

// Predicate returns the predicate symbol.
func (l Literal) Predicate() string { return l.predicate }

// Positive reports whether the literal is positive.
func (l Literal) Positive() bool { return l.positive }

// Arity returns the number of terms.
func (l Literal) Arity() int { return len(l.terms) }

// Term returns the i-th term.
func (l Literal) Term(i int) string { return l.terms[i] }

// Terms returns a copy of the term tuple.
func (l Literal) Terms() []string {
	ts := make([]string, len(l.terms))
	copy(ts, l.terms)
	return ts
}

// Mentions reports whether any term of the literal equals name.
func (l Literal) Mentions(name string) bool {
	for _, t := range l.terms {
		if t == name {
			return true
		}
	}
	return false
}

// String returns the canonical form "[~]predicate(t1,t2,...)".
func (l Literal) String() string { return l.key }

// Set is a set of literals keyed by canonical string form.
type Set map[string]Literal

// NewSet creates a set holding the given literals.
func NewSet(lits ...Literal) Set {
	s := make(Set, len(lits))
	s.Add(lits...)
	return s
}

// Add inserts literals, collapsing logically equal ones.
func (s Set) Add(lits ...Literal) {
	for _, l := range lits {
		s[l.key] = l
	}
}

// AddSet inserts every literal of other.
func (s Set) AddSet(other Set) {
	for k, l := range other {
		s[k] = l
	}
}

// Has reports whether the set contains l.
func (s Set) Has(l Literal) bool {
	_, ok := s[l.key]
	return ok
}

// Len returns the number of literals in the set.
func (s Set) Len() int { return len(s) }

// Union returns a new set with the contents of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	out.AddSet(s)
	out.AddSet(other)
	return out
}

// Diff returns the literals of s that are not in other.
func (s Set) Diff(other Set) Set {
	out := make(Set)
	for k, l := range s {
		if _, ok := other[k]; !ok {
			out[k] = l
		}
	}
	return out
}

// Sorted returns the literals ordered by canonical string form. Iteration
// over generated samples has to be reproducible, so every spot that walks a
// set and emits output goes through Sorted.
func (s Set) Sorted() []Literal {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Literal, len(keys))
	for i, k := range keys {
		out[i] = s[k]
	}
	return out
}
