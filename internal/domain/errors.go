package domain

import "fmt"

// InputError reports a malformed or out-of-range caller-supplied value.
type InputError struct {
	Param  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// NotFoundError reports a lookup of something the table does not contain:
// a segment id, a segment name, or a constituent outside the catalog.
type NotFoundError struct {
	Kind string // "segment", "reference segment", "constituent"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConfigurationError reports a missing or invalid startup asset or setting.
// It is raised before any synthesis work begins.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}
