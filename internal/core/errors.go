package core

import "fmt"

// AuthError reports a failed login against the records API.
type AuthError struct {
	Reason     string // message field of the login payload
	StatusCode int    // non-zero when the endpoint answered with a non-2xx status
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("Failed to get token. Status Code: %d, Response: %s", e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("Failed to get token: %v", e.Err)
	default:
		return "Login failed: " + e.Reason
	}
}

func (e *AuthError) Unwrap() error { return e.Err }

// FetchError reports a failed or empty records request.
type FetchError struct {
	Reason     string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("Failed to fetch data. Status Code: %d, Response: %s", e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("Failed to fetch data: %v", e.Err)
	default:
		return e.Reason
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ShapeError reports that no usable rows remained after filtering.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string { return e.Reason }

const (
	NoDataMessage           = "No data available for the specified month and year"
	NoCategoryDataMessage   = "No category data available for the specified month and year"
	NoDepartmentDataMessage = "No department data available for the specified month and year"
)
