package domain

import "errors"

var (
	// ErrContactNotFound signals a missing contact.
	ErrContactNotFound = errors.New("contact not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrProviderNotConfigured signals that no embedding provider API key is set.
	ErrProviderNotConfigured = errors.New("embedding provider not configured")
	// ErrStoreUnavailable signals a relational store failure. There is no
	// further fallback for this class: it surfaces to the caller.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidRequest signals a malformed request.
	ErrInvalidRequest = errors.New("invalid request")
)
