// Package domain holds the core types and contracts of the crashlens
// pipeline: log documents, chunks, retrieval results, and the provider
// interfaces the use cases depend on.
package domain

// LogDocument is a raw uploaded log file. Immutable once created.
type LogDocument struct {
	// Source is the originating file path of the staged upload.
	Source string
	// Content is the full text of the log.
	Content string
}

// Chunk is a bounded-length window of a LogDocument prepared for
// independent embedding. Consecutive chunks of one document overlap by the
// configured overlap length except at document boundaries.
type Chunk struct {
	Content string
	Source  string
	Index   int
}

// Point is a (chunk, vector) pair ready for storage. IDs are assigned
// sequentially from 0 within one upload.
type Point struct {
	ID     int
	Vector []float32
	Chunk  Chunk
}

// RetrievedMatch is a chunk returned by similarity search together with
// its cosine similarity score.
type RetrievedMatch struct {
	Content string
	Source  string
	Score   float64
}

// QueryResult is the outcome of one RAG query. Ephemeral, never persisted.
type QueryResult struct {
	Query      string
	Answer     string
	Sources    []RetrievedMatch
	Collection string
}

// CollectionStatusReady is the only status a collection reaches today;
// uploads replace collections atomically from the reader's point of view.
const CollectionStatusReady = "ready"

// CollectionInfo describes a stored collection.
type CollectionInfo struct {
	Name      string
	VectorDim int
	Status    string
	CreatedAt int64
}
