package domain

import "errors"

var (
	// ErrUnknownEntity signals a search against an entity type with no schema.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrInvalidRequest signals a malformed search or index request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrIndexNotFound signals a missing search index.
	ErrIndexNotFound = errors.New("index not found")
	// ErrSearchEngineUnavailable signals that the search engine could not be reached.
	ErrSearchEngineUnavailable = errors.New("search engine unavailable")
	// ErrSearchEngineQuery signals that the search engine rejected a request.
	ErrSearchEngineQuery = errors.New("search engine query error")
	// ErrDocumentNotFound signals a bulk update or delete of a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrCacheUnavailable signals a response cache failure.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
