package asp

import "context"

// Solver runs a logic program against a set of ground facts and returns the
// resulting answer set. Implementations must treat facts as an unordered set
// and must report abnormal termination of the underlying engine as an error;
// the caller does not retry.
type Solver interface {
	Run(ctx context.Context, programPath string, facts Set) (*AnswerSet, error)
}
