package collection

import (
	"github.com/crashlens/crashlens/internal/db"
)

// buildIndex creates the FT index definition for a crash-log collection:
// per-chunk hash documents with a cosine HNSW vector field plus the
// source tag and chunk index for diagnostics.
func buildIndex(name string, vectorDim int, hnsw HNSWConfig) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:        indexName(name),
		StorageType: db.StorageHash,
		Prefixes:    []string{collectionPrefix(name)},
		Fields: []db.IndexField{
			{
				Name: "source",
				Type: db.IndexFieldTag,
			},
			{
				Name: "chunk_index",
				Type: db.IndexFieldNumeric,
			},
			{
				Name:              "__vector",
				Alias:             "vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         vectorDim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           hnsw.M,
				VectorEFConstruct: hnsw.EFConstruct,
			},
		},
	}
}
