package datasource

import "fmt"

// DataUnavailableError reports that a source could not be read. Status is
// the HTTP status code for HTTP sources and 0 otherwise.
type DataUnavailableError struct {
	Source string
	Status int
	Err    error
}

func (e *DataUnavailableError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("data unavailable from %s (status %d): %v", e.Source, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("data unavailable from %s (status %d)", e.Source, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("data unavailable from %s: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("data unavailable from %s", e.Source)
	}
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func unavailable(source string, err error) error {
	return &DataUnavailableError{Source: source, Err: err}
}
