package discovery

import "fmt"

// ClientInputError marks a malformed or unsupported filter combination.
// Surfaced immediately to the caller, never retried.
type ClientInputError struct {
	Field  string
	Reason string
}

func (e *ClientInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Reason)
}

// ConfigurationMissingError marks a required system setting that could not
// be resolved. Fatal for the request; never silently defaulted.
type ConfigurationMissingError struct {
	Name string
}

func (e *ConfigurationMissingError) Error() string {
	return fmt.Sprintf("required configuration %q is missing", e.Name)
}

// BackendUnavailableError wraps a relational data-access failure. Fatal for
// the request; retry policy belongs to the caller, not this core.
type BackendUnavailableError struct {
	Op  string
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("store backend failed during %s: %v", e.Op, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}
