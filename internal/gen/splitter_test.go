package gen

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countrygen/internal/countries"
)

// ringRegistry builds n countries arranged in a cycle, each bordering its two
// ring neighbors.
func ringRegistry(t *testing.T, names []string) *countries.Registry {
	t.Helper()
	list := make([]countries.Country, len(names))
	for i, name := range names {
		list[i] = countries.Country{
			Name:      name,
			Region:    "europe",
			Subregion: "westernEurope",
			Neighbors: []string{
				names[(i+len(names)-1)%len(names)],
				names[(i+1)%len(names)],
			},
		}
	}
	reg, err := countries.NewRegistry(list)
	require.NoError(t, err)
	return reg
}

func TestSplitPartitionsAllCountries(t *testing.T) {
	names := []string{"avalon", "brakna", "corland", "dorvia", "elbonia", "florin"}
	reg := ringRegistry(t, names)
	splitter := NewSplitter(reg, rand.New(rand.NewSource(7)), 1, 10)

	train, dev, test, err := splitter.Split()
	require.NoError(t, err)

	assert.Len(t, dev, 1)
	assert.Len(t, test, 1)
	assert.Len(t, train, len(names)-2)

	all := append(append(append([]string(nil), train...), dev...), test...)
	sort.Strings(all)
	want := append([]string(nil), names...)
	sort.Strings(want)
	assert.Equal(t, want, all)

	assert.True(t, sort.StringsAreSorted(train))
	assert.NotEqual(t, dev[0], test[0])
}

func TestSplitEvalCountriesKeepTrainingNeighbor(t *testing.T) {
	names := []string{"avalon", "brakna", "corland", "dorvia", "elbonia", "florin", "gondal", "hyrule"}
	reg := ringRegistry(t, names)
	splitter := NewSplitter(reg, rand.New(rand.NewSource(3)), 2, DefaultMaxAttempts)

	train, dev, test, err := splitter.Split()
	require.NoError(t, err)

	trainSet := make(map[string]bool, len(train))
	for _, n := range train {
		trainSet[n] = true
	}
	for _, name := range append(append([]string(nil), dev...), test...) {
		c, ok := reg.Get(name)
		require.True(t, ok)
		found := false
		for _, n := range c.Neighbors {
			if trainSet[n] {
				found = true
				break
			}
		}
		assert.True(t, found, "eval country %s has no training neighbor", name)
	}
}

func TestSplitIsolatedCountriesGoToTrain(t *testing.T) {
	names := []string{"avalon", "brakna", "corland", "dorvia", "elbonia", "florin"}
	list := make([]countries.Country, 0, len(names)+1)
	reg := ringRegistry(t, names)
	for _, n := range names {
		c, _ := reg.Get(n)
		list = append(list, c)
	}
	list = append(list, countries.Country{Name: "islandia", Region: "oceania"})
	reg, err := countries.NewRegistry(list)
	require.NoError(t, err)

	for seed := int64(0); seed < 5; seed++ {
		train, dev, test, err := NewSplitter(reg, rand.New(rand.NewSource(seed)), 1, 10).Split()
		require.NoError(t, err)
		assert.Contains(t, train, "islandia")
		assert.NotContains(t, dev, "islandia")
		assert.NotContains(t, test, "islandia")
	}
}

func TestSplitInfeasibleTooFewCountries(t *testing.T) {
	reg := ringRegistry(t, []string{"avalon", "brakna", "corland"})
	_, _, _, err := NewSplitter(reg, rand.New(rand.NewSource(1)), 2, 10).Split()
	assert.ErrorIs(t, err, ErrSplitInfeasible)
}

func TestSplitInfeasibleNoValidAssignment(t *testing.T) {
	// Two countries bordering only each other: any 1+1 split leaves both
	// without a training neighbor.
	reg, err := countries.NewRegistry([]countries.Country{
		{Name: "avalon", Region: "europe", Neighbors: []string{"brakna"}},
		{Name: "brakna", Region: "europe", Neighbors: []string{"avalon"}},
	})
	require.NoError(t, err)

	_, _, _, err = NewSplitter(reg, rand.New(rand.NewSource(1)), 1, 10).Split()
	assert.ErrorIs(t, err, ErrSplitInfeasible)
}

func TestSplitLineGeography(t *testing.T) {
	// avalon - brakna - corland in a line: the middle country is the only
	// possible training country, since the two endpoints border nothing else.
	reg, err := countries.NewRegistry([]countries.Country{
		{Name: "avalon", Region: "europe", Neighbors: []string{"brakna"}},
		{Name: "brakna", Region: "europe", Neighbors: []string{"avalon", "corland"}},
		{Name: "corland", Region: "europe", Neighbors: []string{"brakna"}},
	})
	require.NoError(t, err)

	for seed := int64(0); seed < 10; seed++ {
		train, dev, test, err := NewSplitter(reg, rand.New(rand.NewSource(seed)), 1, DefaultMaxAttempts).Split()
		require.NoError(t, err)
		assert.Equal(t, []string{"brakna"}, train)
		assert.ElementsMatch(t, []string{"avalon", "corland"}, append(append([]string(nil), dev...), test...))
	}
}

func TestSplitDeterministicForSeed(t *testing.T) {
	names := []string{"avalon", "brakna", "corland", "dorvia", "elbonia", "florin"}
	reg := ringRegistry(t, names)

	t1, d1, e1, err := NewSplitter(reg, rand.New(rand.NewSource(42)), 1, 10).Split()
	require.NoError(t, err)
	t2, d2, e2, err := NewSplitter(reg, rand.New(rand.NewSource(42)), 1, 10).Split()
	require.NoError(t, err)

	assert.Equal(t, t1, t2)
	assert.Equal(t, d1, d2)
	assert.Equal(t, e1, e2)
}
