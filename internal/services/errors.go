package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExtraction marks unreadable or corrupt audio. Terminal for the
	// analysis request: tempo and key are mandatory outputs.
	ErrExtraction = errors.New("feature extraction error")
	// ErrClassifierUnavailable marks remote classifier failures and timeouts.
	// Non-terminal: the pipeline proceeds without a vibe result.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	// ErrConversion marks I/O or codec failures while converting one export
	// item. Terminal for that item only.
	ErrConversion = errors.New("conversion failure")
	// ErrValidation marks precondition failures such as missing inputs.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalTool marks failures in external collaborators (store, disk).
	ErrExternalTool = errors.New("external tool error")
	// ErrTransient marks failures with no better classification.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTerminal reports whether an error should fail the whole analysis request
// rather than a single optional step.
func IsTerminal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrClassifierUnavailable)
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
