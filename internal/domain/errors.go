package domain

import "errors"

// Sentinel error messages double as the JSON error bodies the endpoints
// return, so their wording is part of the HTTP contract.
var (
	// ErrMissingAuthHeader signals a request without an authorization header.
	ErrMissingAuthHeader = errors.New("Missing authorization header")
	// ErrUnauthorized signals a bearer credential the identity service rejected.
	ErrUnauthorized = errors.New("Unauthorized")
	// ErrMissingQuestion signals an embedding request without a question.
	ErrMissingQuestion = errors.New("Missing question")
	// ErrMissingContext signals an answer request without a question or context talks.
	ErrMissingContext = errors.New("Missing question or context_talks")
	// ErrProviderResponse signals an inference provider response missing expected fields.
	ErrProviderResponse = errors.New("unexpected inference provider response")
)
