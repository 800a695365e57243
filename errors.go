package cachified

import "fmt"

// FreshValueError reports that the fresh value producer failed and no
// acceptable cached value could mask the failure.
type FreshValueError struct {
	Key string
	Err error
}

func (e *FreshValueError) Error() string {
	return fmt.Sprintf("cachified: fresh value for %q: %v", e.Key, e.Err)
}

func (e *FreshValueError) Unwrap() error { return e.Err }

// ValidationError reports a value that failed a validator check.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return "cachified: validation failed: " + e.Err.Error()
	}
	return "cachified: validation failed: " + e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CacheError reports a storage operation failure.
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cachified: cache %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
