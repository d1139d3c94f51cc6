package crashlens

// UploadResult is the outcome of indexing one crash log.
type UploadResult struct {
	Filename       string `json:"filename"`
	CollectionName string `json:"collection_name"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

// Source is a single retrieved log excerpt backing an answer.
type Source struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Source  string  `json:"source"`
}

// QueryResult is one retrieval-augmented answer.
type QueryResult struct {
	Query          string   `json:"query"`
	Answer         string   `json:"answer"`
	Sources        []Source `json:"sources"`
	CollectionName string   `json:"collection_name"`
}

// CollectionInfo is collection metadata with its vector count.
type CollectionInfo struct {
	Name         string `json:"name"`
	VectorsCount int    `json:"vectors_count"`
	Status       string `json:"status"`
}

// HealthReport is the service health snapshot.
type HealthReport struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}
