// Package knowledge holds the read-only corpus model: reference documents and their embedded chunks.
package knowledge

// Status is the ingestion lifecycle state of a document.
type Status string

// Document lifecycle states.
const (
	StatusDraft     Status = "draft"
	StatusIngested  Status = "ingested"
	StatusPublished Status = "published"
)

// RetrievableStatuses lists the states whose chunks may be returned by search.
var RetrievableStatuses = []Status{StatusIngested, StatusPublished}

// Retrievable reports whether documents in this state are eligible for retrieval.
func (s Status) Retrievable() bool {
	return s == StatusIngested || s == StatusPublished
}

// Document is a reference document (procedure, guidance manual) owned by the ingestion pipeline.
type Document struct {
	id             string
	title          string
	organizationID *string
	eventID        *string
	status         Status
}

// Reconstruct creates a Document from storage without validation.
// nil organizationID / eventID mean the document is visible to all scopes.
func Reconstruct(id, title string, organizationID, eventID *string, status Status) Document {
	return Document{
		id:             id,
		title:          title,
		organizationID: organizationID,
		eventID:        eventID,
		status:         status,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// OrganizationID returns the owning organization, nil when global.
func (d *Document) OrganizationID() *string { return d.organizationID }

// EventID returns the owning event, nil when global.
func (d *Document) EventID() *string { return d.eventID }

// Status returns the lifecycle state.
func (d *Document) Status() Status { return d.status }

// Chunk is a contiguous slice of a document's text with its embedding.
type Chunk struct {
	ID          string
	KnowledgeID string
	ChunkIndex  int
	Content     string
	Embedding   []float32
	Metadata    map[string]any
}

// Match is a chunk returned by the indexed vector procedure with its similarity.
type Match struct {
	Chunk      Chunk
	Similarity float64
}
