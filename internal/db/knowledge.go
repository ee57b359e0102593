package db

// MatchQuery is the input for the indexed vector procedure.
// nil OrganizationID / EventID are sent as SQL NULL, meaning "no restriction".
type MatchQuery struct {
	Vector         []float32
	MatchCount     int
	OrganizationID *string
	EventID        *string
}

// MatchRow is a single row returned by the vector procedure.
type MatchRow struct {
	KnowledgeID string
	Content     string
	ChunkIndex  int
	Similarity  float64
	Metadata    []byte // raw JSON, may be nil
}

// ChunkRow is a stored chunk. Embedding is empty for lexical queries.
type ChunkRow struct {
	ID          string
	KnowledgeID string
	ChunkIndex  int
	Content     string
	Embedding   []float32
	Metadata    []byte // raw JSON, may be nil
}

// DocumentQuery selects documents by id, restricted to the given statuses when non-empty.
type DocumentQuery struct {
	IDs      []string
	Statuses []string
}

// DocumentRow is a stored document header.
type DocumentRow struct {
	ID             string
	Title          string
	OrganizationID *string
	EventID        *string
	Status         string
}

// ContentQuery is the input for the lexical substring search.
type ContentQuery struct {
	Terms []string
	Limit int
}
