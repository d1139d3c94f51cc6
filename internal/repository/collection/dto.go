package collection

import (
	"strconv"

	"github.com/crashlens/crashlens/internal/domain"
)

// infoToHash converts collection metadata to a map for HSET.
func infoToHash(name string, vectorDim int, createdAt int64) map[string]string {
	return map[string]string{
		"name":       name,
		"vector_dim": strconv.Itoa(vectorDim),
		"status":     domain.CollectionStatusReady,
		"created_at": strconv.FormatInt(createdAt, 10),
	}
}

// infoFromHash hydrates collection metadata from an HGETALL result map.
func infoFromHash(m map[string]string) domain.CollectionInfo {
	info := domain.CollectionInfo{
		Name:   m["name"],
		Status: m["status"],
	}
	if dimStr := m["vector_dim"]; dimStr != "" {
		if parsed, err := strconv.Atoi(dimStr); err == nil {
			info.VectorDim = parsed
		}
	}
	if createdStr := m["created_at"]; createdStr != "" {
		if parsed, err := strconv.ParseInt(createdStr, 10, 64); err == nil {
			info.CreatedAt = parsed
		}
	}
	return info
}
