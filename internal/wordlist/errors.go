package wordlist

import (
	"errors"
	"fmt"
)

// Word list errors.
var (
	// ErrUnexpectedStatus is wrapped by FetchError when the server answered
	// with anything other than 200 OK.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrEmptyLanguage is returned when Fetch is called without a language.
	// It is checked before any network call is made.
	ErrEmptyLanguage = errors.New("language identifier is empty")
)

// FetchError is returned when the word list cannot be fetched.
// It covers transport failures, non-200 responses and body read failures.
type FetchError struct {
	// URL is the word list URL that was requested.
	URL string

	// StatusCode is the HTTP status of the response, or 0 if no response arrived.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch word list from %s: %v %d", e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch word list from %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
