package source

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrDataLoad matches every failure to load the season table.
var ErrDataLoad = errors.New("data load failure")

// LoadError describes a failed table load. It matches ErrDataLoad and the underlying
// cause with errors.Is.
type LoadError struct {
	Source   string
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("load %s data from %s: %v", e.Source, e.Location, e.Err)
	}
	return fmt.Sprintf("load %s data: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrDataLoad, e.Err}
}

// Missing reports whether the load failed because the source file does not exist.
func (e *LoadError) Missing() bool {
	return errors.Is(e.Err, fs.ErrNotExist)
}

// UserMessage is the message shown on the dashboard in place of any view.
func (e *LoadError) UserMessage() string {
	if e.Missing() {
		return fmt.Sprintf("Error: The file '%s' was not found.", e.Location)
	}
	return fmt.Sprintf("Error: could not load data from '%s'.", e.Location)
}

// AsLoadError attempts to unwrap an error into a LoadError.
func AsLoadError(err error) (*LoadError, bool) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr, true
	}
	return nil, false
}
