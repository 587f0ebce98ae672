package output

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Format represents an enum for the supported output formats.
type Format string

const (
	// FormatText renders human readable output.
	FormatText Format = "text"

	// FormatJSON renders JSON output.
	FormatJSON Format = "json"

	// FormatYAML renders YAML output.
	FormatYAML Format = "yaml"
)

// AllowedFormats returns the supported output formats, sorted.
func AllowedFormats() []Format {
	formats := []Format{FormatText, FormatJSON, FormatYAML}
	slices.Sort(formats)

	return formats
}

// ParseFormat validates and normalizes a user supplied format string.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(AllowedFormats(), f) {
		allowed := make([]string, 0, len(AllowedFormats()))
		for _, a := range AllowedFormats() {
			allowed = append(allowed, string(a))
		}
		return "", fmt.Errorf("unsupported format '%s' (allowed: %s)", s, strings.Join(allowed, ", "))
	}

	return f, nil
}

// Handler renders a collection of items of type T in one output format.
type Handler[T any] interface {
	// Writer returns the io.Writer this Handler will write to.
	Writer() io.Writer

	// HandleResults renders the given collection of items.
	HandleResults(items ...T) error

	// HandleError renders the error.
	HandleError(err error) error
}

// ItemFunc renders a single item for text output.
type ItemFunc[T any] func(w io.Writer, item T) error

// ResultsPayload is a generic wrapper for multiple result values.
// The payload is serialized with the key "results".
type ResultsPayload[T any] struct {
	Results []T `json:"results" yaml:"results"`
}

// ErrorPayload represents a rendered error message.
// The payload is serialized with the key "error".
type ErrorPayload struct {
	Error string `json:"error" yaml:"error"`
}

// NewHandler returns the Handler for the given format. Text output renders
// each item with the supplied ItemFunc; structured formats marshal the items
// under a top-level 'results' key.
func NewHandler[T any](format Format, w io.Writer, item ItemFunc[T]) (Handler[T], error) {
	switch format {
	case FormatText:
		return NewTextHandler(w, item), nil
	case FormatJSON:
		return NewJSONHandler[T](w, 2), nil
	case FormatYAML:
		return NewYAMLHandler[T](w, 2), nil
	default:
		return nil, fmt.Errorf("unsupported format '%s'", format)
	}
}
