package domain

import "errors"

var (
	// ErrInvalidInput signals a malformed or empty request parameter.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing collection.
	ErrNotFound = errors.New("collection not found")
	// ErrNoRelevantDocuments signals an empty retrieval result for an existing collection.
	ErrNoRelevantDocuments = errors.New("no relevant documents")
	// ErrInvalidChunkConfig signals an unusable chunk size/overlap combination.
	ErrInvalidChunkConfig = errors.New("invalid chunk config")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrGeneration signals a chat-completion provider failure.
	ErrGeneration = errors.New("generation error")
)
