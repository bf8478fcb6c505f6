package project

import "fmt"

// IOError wraps file-level failures (missing file, malformed JSON, write
// errors) with the operation and path for context.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s project %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func ioError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}
