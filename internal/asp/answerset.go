package asp

// AnswerSet is the result of one solver invocation: the facts that were given
// as input and the literals the solver derived on top of them. Inferences
// never contain a literal that is already a fact.
type AnswerSet struct {
	facts      Set
	inferences Set
}

// NewAnswerSet builds an answer set from the given facts and inferences.
// Any inference that duplicates a fact is dropped.
func NewAnswerSet(facts, inferences Set) *AnswerSet {
	f := make(Set, len(facts))
	f.AddSet(facts)
	inf := make(Set)
	for k, l := range inferences {
		if _, ok := f[k]; !ok {
			inf[k] = l
		}
	}
	return &AnswerSet{facts: f, inferences: inf}
}

// Facts returns the input facts of the answer set.
func (a *AnswerSet) Facts() Set { return a.facts }

// Inferences returns the derived literals of the answer set.
func (a *AnswerSet) Inferences() Set { return a.inferences }

// All returns facts and inferences as one set.
func (a *AnswerSet) All() Set { return a.facts.Union(a.inferences) }
