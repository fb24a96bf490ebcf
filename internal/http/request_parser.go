package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"wastechart/internal/core"
)

// FieldError describes one invalid query parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every invalid parameter of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ParsePeriod reads the required month and year query parameters. Only
// presence and integer syntax are checked here; the range of an integer
// period is the pipeline's concern and fails in the response body.
func ParsePeriod(query url.Values) (core.Period, *ValidationError) {
	verr := &ValidationError{}
	month, _ := requiredInt(query, "month", verr)
	year, _ := requiredInt(query, "year", verr)

	if len(verr.Fields) > 0 {
		return core.Period{}, verr
	}
	return core.Period{Month: month, Year: year}, nil
}

// ParseLimit reads an optional positive limit parameter. Zero means absent.
func ParseLimit(query url.Values) (int, *ValidationError) {
	v := strings.TrimSpace(query.Get("limit"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		verr := &ValidationError{}
		verr.add("limit", "must be a positive integer")
		return 0, verr
	}
	return n, nil
}

func requiredInt(query url.Values, field string, verr *ValidationError) (int, bool) {
	v := strings.TrimSpace(query.Get(field))
	if v == "" {
		verr.add(field, "field required")
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		verr.add(field, "value is not a valid integer")
		return 0, false
	}
	return n, true
}
