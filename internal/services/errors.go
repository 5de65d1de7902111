package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks invalid or incomplete configuration. Fatal.
	ErrConfiguration = errors.New("configuration error")
	// ErrConnection marks a failed startup connection to the library server. Fatal.
	ErrConnection = errors.New("connection error")
	// ErrMetadata marks a failed metadata database request. Contained per item.
	ErrMetadata = errors.New("metadata request error")
	// ErrLibrary marks a failed library server operation. Contained per item.
	ErrLibrary = errors.New("library error")
	// ErrNotFound marks a lookup that returned no record.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrMetadata
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must abort the run before any processing.
func Fatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrConnection)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
