package pipeline

import "fmt"

// CommitError reports that the store rejected the batch. Nothing from the
// batch is persisted.
type CommitError struct {
	Count int
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("committing %d projects: %v", e.Count, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
