package artifacts

import "fmt"

// LoadError reports an artifact that could not be read, decoded or reconciled
// with the rest of the set.
type LoadError struct {
	Artifact string
	Source   string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load artifact %s from %s: %v", e.Artifact, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
