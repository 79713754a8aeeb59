package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
)

// FetchError reports a provider response other than 200, or a transport
// failure (StatusCode 0, Cause set). Body is the raw response text.
type FetchError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("fetch sales: %v", e.Cause)
	}
	return fmt.Sprintf("fetch sales: status code %d", e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// DecodeError reports a payload that is not a JSON array of sale records.
// Index is -1 when the payload as a whole could not be decoded; Body then
// holds the raw payload.
type DecodeError struct {
	Index int
	Field string
	Body  string
	Cause error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("decode sales: %v", e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("decode sales: record %d field %q: %v", e.Index, e.Field, e.Cause)
	default:
		return fmt.Sprintf("decode sales: record %d missing field %q", e.Index, e.Field)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

type DateParseError struct {
	Index  int
	Value  string
	Layout string
	Cause  error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("parse purchase date of record %d: %q does not match %s", e.Index, e.Value, e.Layout)
}

func (e *DateParseError) Unwrap() error {
	return e.Cause
}

// FromPipeline converts any error into an AppError suitable for a response.
// Pipeline failures keep the upstream status code and raw body in Details.
func FromPipeline(err error) *AppError {
	var (
		appErr   *AppError
		fetchErr *FetchError
		decErr   *DecodeError
		dateErr  *DateParseError
	)

	switch {
	case stderrors.As(err, &appErr):
		return appErr
	case stderrors.As(err, &fetchErr):
		msg := "Provider request failed"
		if fetchErr.StatusCode != 0 {
			msg = "Provider returned status code " + strconv.Itoa(fetchErr.StatusCode)
		}
		e := Wrap(err, CodeUpstream, msg)
		e.Details = fetchErr.Body
		return e
	case stderrors.As(err, &decErr):
		e := Wrap(err, CodeDecode, "Provider response is not a valid sales dataset")
		e.Details = decErr.Body
		if e.Details == "" {
			e.Details = decErr.Error()
		}
		return e
	case stderrors.As(err, &dateErr):
		e := Wrap(err, CodeDateParse, "Purchase date has an unexpected format")
		e.Details = dateErr.Error()
		return e
	default:
		return Wrap(err, CodeInternal, "An unexpected error occurred")
	}
}
