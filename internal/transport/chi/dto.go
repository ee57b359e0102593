package chi

import (
	"github.com/kailas-cloud/kbsearch/internal/domain/knowledge"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
)

// ErrorCode is a machine-readable error identifier in API responses.
type ErrorCode string

// API error codes.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeRequestCanceled   ErrorCode = "request_canceled"
	ErrorCodeSearchUnavailable ErrorCode = "search_unavailable"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Query          string  `json:"query"`
	TopK           *int    `json:"topK,omitempty"`
	OrganizationID *string `json:"organizationId,omitempty"`
	EventID        *string `json:"eventId,omitempty"`
	UseHybrid      *bool   `json:"useHybrid,omitempty"`
}

// SearchHit is one ranked passage in the response.
type SearchHit struct {
	KnowledgeID string         `json:"knowledgeId"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Score       float64        `json:"score"`
	Metadata    map[string]any `json:"metadata"`
	Provenance  string         `json:"provenance"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Results []SearchHit `json:"results"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func searchRequestFromDTO(body *SearchRequest) (request.Request, error) {
	topK := 0
	if body.TopK != nil {
		topK = *body.TopK
	}
	hybrid := true
	if body.UseHybrid != nil {
		hybrid = *body.UseHybrid
	}
	scope := knowledge.Scope{
		OrganizationID: nonEmpty(body.OrganizationID),
		EventID:        nonEmpty(body.EventID),
	}
	return request.New(body.Query, topK, scope, hybrid) //nolint:wrapcheck // domain validation error
}

func searchHitToDTO(h *hit.Hit) SearchHit {
	meta := h.Metadata()
	if meta == nil {
		meta = map[string]any{}
	}
	return SearchHit{
		KnowledgeID: h.KnowledgeID(),
		Title:       h.Title(),
		Content:     h.Content(),
		Score:       h.Score(),
		Metadata:    meta,
		Provenance:  string(h.Provenance()),
	}
}

// nonEmpty treats an empty filter string like an absent one.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
