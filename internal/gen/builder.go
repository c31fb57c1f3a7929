package gen

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"bitbucket.org/creachadair/stringset"
	"go.uber.org/zap"

	"countrygen/internal/asp"
	"countrygen/internal/countries"
	"countrygen/internal/kg"
)

// BuilderOptions configures a sample builder.
type BuilderOptions struct {
	// Setting is the problem variant (S1, S2, or S3).
	Setting Setting

	// OntologyPath is the logic program the solver evaluates. Must exist.
	OntologyPath string

	// ClassFacts includes class-membership literals among the solver input
	// facts instead of leaving them to be derived.
	ClassFacts bool

	// NumEvalCountries is the size of a randomly drawn target set when Build
	// is called without explicit targets.
	NumEvalCountries int

	// RNG is the randomness source for shuffling and target selection.
	RNG *rand.Rand

	Logger *zap.Logger
}

// Builder assembles one knowledge-graph sample per Build call. It owns no
// mutable state beyond the RNG; the registry and region index are shared
// read-only.
type Builder struct {
	reg    *countries.Registry
	solver asp.Solver
	opts   BuilderOptions
	logger *zap.Logger
}

// NewBuilder validates the options and creates a builder.
func NewBuilder(reg *countries.Registry, solver asp.Solver, opts BuilderOptions) (*Builder, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if solver == nil {
		return nil, fmt.Errorf("solver is required")
	}
	if _, err := ParseSetting(string(opts.Setting)); err != nil {
		return nil, err
	}
	if info, err := os.Stat(opts.OntologyPath); err != nil {
		return nil, fmt.Errorf("ontology program %q: %w", opts.OntologyPath, err)
	} else if info.IsDir() {
		return nil, fmt.Errorf("ontology program %q is a directory", opts.OntologyPath)
	}
	if opts.NumEvalCountries <= 0 {
		opts.NumEvalCountries = DefaultNumEvalCountries
	}
	if opts.RNG == nil {
		return nil, fmt.Errorf("random source is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{reg: reg, solver: solver, opts: opts, logger: logger}, nil
}

// Build generates one knowledge-graph sample. The countries in specified are
// fully known; targets names the countries whose location is to be inferred.
// When targets is nil, a random target set of NumEvalCountries is drawn from
// the working list. With minimal set, inferences and prediction targets are
// trimmed to those relevant to the targets.
func (b *Builder) Build(ctx context.Context, specified, targets []string, minimal bool) (*kg.Sample, error) {
	working := append([]string(nil), specified...)
	working = append(working, targets...)
	b.opts.RNG.Shuffle(len(working), func(i, j int) {
		working[i], working[j] = working[j], working[i]
	})

	targetSet := stringset.New(targets...)
	if targetSet.Empty() {
		cut := len(working) - b.opts.NumEvalCountries
		if cut < 0 {
			cut = 0
		}
		targetSet = stringset.New(working[cut:]...)
	}

	// Countries adjacent to a target but not targets themselves; only the S3
	// visibility rule consults this.
	targetNeighbors := stringset.New()
	for name := range targetSet {
		if c, ok := b.reg.Get(name); ok {
			targetNeighbors.Add(c.Neighbors...)
		}
	}
	targetNeighbors.Remove(targetSet)

	sample := kg.NewSample()

	classFacts := asp.NewSet()    // positive class memberships
	neighborFacts := asp.NewSet() // positive neighborOf facts, always disclosed
	locationFacts := asp.NewSet() // the disclosed part of the locatedIn facts
	allLocations := asp.NewSet()  // every positive locatedIn fact

	// Regions and subregions are never hidden in any variant.
	for _, region := range b.reg.Regions() {
		sample.AddIndividual(region.Name)
		classFacts.Add(asp.Atom(kg.ClassRegion, region.Name))
		for _, sub := range region.Subregions {
			sample.AddIndividual(sub)
			classFacts.Add(asp.Atom(kg.ClassSubregion, sub))
			loc := asp.Atom(kg.RelationLocatedIn, sub, region.Name)
			locationFacts.Add(loc)
			allLocations.Add(loc)
		}
	}

	workingSet := stringset.New(working...)
	for _, name := range working {
		sample.AddIndividual(name)
	}

	for _, name := range working {
		c, ok := b.reg.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown country %q", name)
		}

		classFacts.Add(asp.Atom(kg.ClassCountry, name))

		regionLit := asp.Atom(kg.RelationLocatedIn, name, c.Region)
		allLocations.Add(regionLit)
		var subregionLit *asp.Literal
		if c.Subregion != "" {
			lit := asp.Atom(kg.RelationLocatedIn, name, c.Subregion)
			subregionLit = &lit
			allLocations.Add(lit)
		}

		b.disclose(locationFacts, name, regionLit, subregionLit, targetSet, targetNeighbors)

		// Neighbors outside the working subset are skipped on purpose:
		// subsetting the country list may orphan adjacency edges.
		for _, n := range c.Neighbors {
			if workingSet.Contains(n) {
				neighborFacts.Add(asp.Atom(kg.RelationNeighborOf, name, n))
				neighborFacts.Add(asp.Atom(kg.RelationNeighborOf, n, name))
			}
		}
	}

	input := neighborFacts.Union(locationFacts)
	if b.opts.ClassFacts {
		input.AddSet(classFacts)
	}

	answer, err := b.solver.Run(ctx, b.opts.OntologyPath, input)
	if err != nil {
		return nil, fmt.Errorf("solving restricted view: %w", err)
	}

	for _, f := range answer.Facts().Sorted() {
		if err := b.addLiteral(sample, f, false, false); err != nil {
			return nil, err
		}
	}
	for _, inf := range answer.Inferences().Sorted() {
		if !minimal || relevantToTargets(inf, targetSet) {
			if err := b.addLiteral(sample, inf, true, false); err != nil {
				return nil, err
			}
		}
	}

	// Perfect knowledge: what the solver derives when nothing is hidden.
	perfect, err := b.solver.Run(ctx, b.opts.OntologyPath,
		classFacts.Union(neighborFacts).Union(allLocations))
	if err != nil {
		return nil, fmt.Errorf("solving perfect knowledge: %w", err)
	}

	// Everything that is true but was neither given nor inferable from the
	// restricted view becomes a prediction target.
	missing := perfect.All().Diff(answer.All())
	for _, p := range missing.Sorted() {
		if !minimal || relevantToTargets(p, targetSet) {
			if err := b.addLiteral(sample, p, false, true); err != nil {
				return nil, err
			}
		}
	}

	return sample, nil
}

// disclose applies the per-variant visibility rule for one country's
// locatedIn facts.
func (b *Builder) disclose(locationFacts asp.Set, name string, regionLit asp.Literal, subregionLit *asp.Literal, targets, targetNeighbors stringset.Set) {
	isTarget := targets.Contains(name)
	switch b.opts.Setting {
	case SettingS1:
		if subregionLit != nil {
			locationFacts.Add(*subregionLit)
		}
		if !isTarget {
			locationFacts.Add(regionLit)
		}
	case SettingS2:
		if !isTarget {
			locationFacts.Add(regionLit)
			if subregionLit != nil {
				locationFacts.Add(*subregionLit)
			}
		}
	case SettingS3:
		if !isTarget && !targetNeighbors.Contains(name) {
			locationFacts.Add(regionLit)
		}
		if !isTarget && subregionLit != nil {
			locationFacts.Add(*subregionLit)
		}
	}
}

// relevantToTargets implements the minimal-sample filter: keep region and
// subregion class literals, and anything that mentions a target country.
func relevantToTargets(lit asp.Literal, targets stringset.Set) bool {
	if lit.Predicate() == kg.ClassRegion || lit.Predicate() == kg.ClassSubregion {
		return true
	}
	for t := range targets {
		if lit.Mentions(t) {
			return true
		}
	}
	return false
}

// addLiteral maps a literal onto the sample: arity 1 becomes a class
// membership, arity 2 a relation triple.
func (b *Builder) addLiteral(sample *kg.Sample, lit asp.Literal, inferred, prediction bool) error {
	switch lit.Arity() {
	case 1:
		return sample.AddMembership(kg.Membership{
			Individual: lit.Term(0),
			Class:      lit.Predicate(),
			Positive:   lit.Positive(),
			Inferred:   inferred,
			Prediction: prediction,
		})
	case 2:
		return sample.AddTriple(kg.Triple{
			Subject:    lit.Term(0),
			Relation:   lit.Predicate(),
			Object:     lit.Term(1),
			Positive:   lit.Positive(),
			Inferred:   inferred,
			Prediction: prediction,
		})
	default:
		return fmt.Errorf("literal %s has unsupported arity %d", lit, lit.Arity())
	}
}
