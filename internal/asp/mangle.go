package asp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
)

// negPrefix marks negated predicates on the Mangle side. Mangle has no
// classical negation, so "~locatedIn(a,b)" crosses the boundary as
// "negLocatedIn(a,b)". A predicate only counts as negated when the prefix is
// followed by an upper-case letter, which keeps symbols like "neighborOf"
// intact.
const negPrefix = "neg"

// MangleSolver evaluates the ontology in-process with the Google Mangle
// Datalog engine. Every Run builds a fresh fact store; the parsed and
// analyzed program is cached per path.
type MangleSolver struct {
	programs map[string]*analysis.ProgramInfo
}

// NewMangleSolver creates an embedded Mangle solver.
func NewMangleSolver() *MangleSolver {
	return &MangleSolver{programs: make(map[string]*analysis.ProgramInfo)}
}

// Run evaluates the Mangle program at programPath against the given facts.
func (s *MangleSolver) Run(ctx context.Context, programPath string, facts Set) (*AnswerSet, error) {
	info, err := s.program(programPath)
	if err != nil {
		return nil, err
	}

	store := factstore.NewSimpleInMemoryStore()
	declared := make(map[string]ast.PredicateSym, len(info.Decls))
	for sym := range info.Decls {
		declared[sym.Symbol] = sym
	}

	for _, lit := range facts.Sorted() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		atom, err := literalToAtom(lit, declared)
		if err != nil {
			return nil, err
		}
		store.Add(atom)
	}

	if err := mengine.EvalProgram(info, store); err != nil {
		return nil, fmt.Errorf("mangle evaluation of %q: %w", programPath, err)
	}

	derived := NewSet()
	for _, pred := range store.ListPredicates() {
		err := store.GetFacts(ast.NewQuery(pred), func(a ast.Atom) error {
			lit, err := atomToLiteral(a)
			if err != nil {
				return err
			}
			if !facts.Has(lit) {
				derived.Add(lit)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("reading derived facts for %s: %w", pred.Symbol, err)
		}
	}
	return NewAnswerSet(facts, derived), nil
}

func (s *MangleSolver) program(path string) (*analysis.ProgramInfo, error) {
	if info, ok := s.programs[path]; ok {
		return info, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ontology program %q: %w", path, err)
	}
	unit, err := parse.Unit(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing ontology %q: %w", path, err)
	}
	info, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("analyzing ontology %q: %w", path, err)
	}
	s.programs[path] = info
	return info, nil
}

// mangleSym maps a literal's predicate and polarity to the Mangle predicate
// symbol.
func mangleSym(lit Literal) string {
	if lit.Positive() {
		return lit.Predicate()
	}
	pred := lit.Predicate()
	return negPrefix + strings.ToUpper(pred[:1]) + pred[1:]
}

// splitMangleSym is the inverse of mangleSym.
func splitMangleSym(sym string) (predicate string, positive bool) {
	rest := strings.TrimPrefix(sym, negPrefix)
	if rest != sym && rest != "" && unicode.IsUpper(rune(rest[0])) {
		return strings.ToLower(rest[:1]) + rest[1:], false
	}
	return sym, true
}

func literalToAtom(lit Literal, declared map[string]ast.PredicateSym) (ast.Atom, error) {
	symbol := mangleSym(lit)
	sym, ok := declared[symbol]
	if !ok {
		return ast.Atom{}, fmt.Errorf("predicate %s is not declared in the ontology", symbol)
	}
	if sym.Arity != lit.Arity() {
		return ast.Atom{}, fmt.Errorf("predicate %s expects %d args, got %d", symbol, sym.Arity, lit.Arity())
	}
	args := make([]ast.BaseTerm, lit.Arity())
	for i := 0; i < lit.Arity(); i++ {
		name, err := ast.Name("/" + lit.Term(i))
		if err != nil {
			return ast.Atom{}, fmt.Errorf("term %q of %s: %w", lit.Term(i), lit, err)
		}
		args[i] = name
	}
	return ast.Atom{Predicate: sym, Args: args}, nil
}

func atomToLiteral(a ast.Atom) (Literal, error) {
	predicate, positive := splitMangleSym(a.Predicate.Symbol)
	terms := make([]string, len(a.Args))
	for i, arg := range a.Args {
		c, ok := arg.(ast.Constant)
		if !ok {
			return Literal{}, fmt.Errorf("non-constant argument in derived atom %v", a)
		}
		terms[i] = strings.TrimPrefix(c.Symbol, "/")
	}
	return New(positive, predicate, terms...)
}
