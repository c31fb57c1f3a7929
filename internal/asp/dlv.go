package asp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DLVSolver invokes an external DLV executable as a subprocess. Facts are
// piped to the process on stdin, one "literal." statement after another, and
// the single answer set DLV prints in silent mode is parsed back into
// literals. The process is invoked with an explicit argument vector; nothing
// passes through a shell.
type DLVSolver struct {
	exePath string
}

// NewDLVSolver creates a solver wrapping the executable at exePath. The path
// must refer to an existing file.
func NewDLVSolver(exePath string) (*DLVSolver, error) {
	info, err := os.Stat(exePath)
	if err != nil {
		return nil, fmt.Errorf("solver executable %q: %w", exePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("solver executable %q is a directory", exePath)
	}
	return &DLVSolver{exePath: exePath}, nil
}

// Run evaluates the program at programPath together with the given facts.
// A non-zero exit or unparseable output aborts with an error.
func (s *DLVSolver) Run(ctx context.Context, programPath string, facts Set) (*AnswerSet, error) {
	if _, err := os.Stat(programPath); err != nil {
		return nil, fmt.Errorf("ontology program %q: %w", programPath, err)
	}

	var input strings.Builder
	for _, f := range facts.Sorted() {
		input.WriteString(f.String())
		input.WriteString(". ")
	}

	cmd := exec.CommandContext(ctx, s.exePath, "-silent", "--", programPath)
	cmd.Stdin = strings.NewReader(input.String())
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("solver %s failed: %w (stderr: %s)",
			s.exePath, err, strings.TrimSpace(stderr.String()))
	}

	inferences, err := parseAnswerSet(stdout.String(), facts)
	if err != nil {
		return nil, err
	}
	return NewAnswerSet(facts, inferences), nil
}

// parseAnswerSet parses the solver's answer-set line, e.g.
// "{region(europe), locatedIn(austria, europe)}", and returns every literal
// that is not already among the input facts. Spaces are stripped up front so
// literal boundaries can only be the ")," between two elements, regardless of
// how the solver spaces its output.
func parseAnswerSet(output string, facts Set) (Set, error) {
	out := strings.TrimSpace(output)
	if len(out) < 2 || out[0] != '{' || out[len(out)-1] != '}' {
		return nil, fmt.Errorf("malformed solver output: %q", out)
	}
	inner := strings.ReplaceAll(out[1:len(out)-1], " ", "")

	inferences := NewSet()
	if inner == "" {
		return inferences, nil
	}
	parts := strings.Split(inner, "),")
	for i, raw := range parts {
		if i < len(parts)-1 {
			raw += ")"
		}
		lit, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed solver output element %q: %w", raw, err)
		}
		if !facts.Has(lit) {
			inferences.Add(lit)
		}
	}
	return inferences, nil
}
