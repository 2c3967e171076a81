package connector

import "fmt"

// ConnectionError reports a failed login or session acquisition against the
// docbase. Every provider failure surfaces as this one kind, with the
// underlying diagnostic preserved for the operator.
type ConnectionError struct {
	Docbase string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to docbase %s: %v", e.Docbase, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
