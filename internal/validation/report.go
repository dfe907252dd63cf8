package validation

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-pagebuilder/internal/sections"
)

const contentInvalidCode = "PAGE_CONTENT_INVALID"

var ErrContentInvalid = errors.New("validation: page content invalid")

// Issue is a structured validation failure.
type Issue sections.Violation

// Report is the result of validating page content.
type Report struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
	Issues  []Issue  `json:"issues,omitempty"`
}

// Err returns nil for a valid report, otherwise a categorized error wrapping
// a *ReportError.
func (r Report) Err() error {
	if r.IsValid && len(r.Errors) == 0 {
		return nil
	}
	return goerrors.Wrap(&ReportError{Report: r}, goerrors.CategoryValidation, "page content invalid").
		WithTextCode(contentInvalidCode)
}

// ReportError carries a failed report through error returns.
type ReportError struct {
	Report Report
}

func (e *ReportError) Error() string {
	if len(e.Report.Errors) == 0 {
		return ErrContentInvalid.Error()
	}
	return fmt.Sprintf("%s: %s", ErrContentInvalid.Error(), strings.Join(e.Report.Errors, "; "))
}

func (e *ReportError) Unwrap() error {
	return ErrContentInvalid
}

// ReportFrom extracts the report carried by err.
func ReportFrom(err error) (Report, bool) {
	var reportErr *ReportError
	if errors.As(err, &reportErr) && reportErr != nil {
		return reportErr.Report, true
	}
	return Report{}, false
}
