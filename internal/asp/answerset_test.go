package asp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswerSetDropsDuplicateInferences(t *testing.T) {
	fact := Atom("locatedIn", "austria", "europe")
	inferred := Atom("region", "europe")

	as := NewAnswerSet(NewSet(fact), NewSet(fact, inferred))

	assert.Equal(t, 1, as.Facts().Len())
	assert.Equal(t, 1, as.Inferences().Len())
	assert.False(t, as.Inferences().Has(fact))
	assert.True(t, as.Inferences().Has(inferred))
}

func TestAnswerSetAll(t *testing.T) {
	fact := Atom("country", "austria")
	inferred := Atom("locatedIn", "austria", "europe")

	as := NewAnswerSet(NewSet(fact), NewSet(inferred))
	all := as.All()
	assert.Equal(t, 2, all.Len())
	assert.True(t, all.Has(fact))
	assert.True(t, all.Has(inferred))
}
