package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrBlocked       = errors.New("request is blocked")
	ErrEmptyResult   = errors.New("no results")
	ErrMalformedPage = errors.New("malformed page")
)

// BlockedError is returned when a primary fetch answers with anything but 200.
type BlockedError struct {
	URL    string
	Status int
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request is blocked: %s returned status %d", e.URL, e.Status)
}

func (e *BlockedError) Unwrap() error { return ErrBlocked }

// MalformedPageError means the structured-data block a page must carry is missing or invalid.
type MalformedPageError struct {
	URL    string
	Reason string
	Err    error
}

func (e *MalformedPageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed page %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed page %s: %s", e.URL, e.Reason)
}

func (e *MalformedPageError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedPage, e.Err}
	}
	return []error{ErrMalformedPage}
}
