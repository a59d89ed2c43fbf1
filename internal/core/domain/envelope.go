package domain

// Envelope is the response wrapper used by every backend endpoint.
type Envelope[T any] struct {
	Meta  Meta       `json:"meta"`
	Data  *T         `json:"data"`
	Error *ErrorBody `json:"error"`
}

// Meta carries request tracing metadata.
type Meta struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ErrorBody is the error member of an envelope.
type ErrorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Target  string        `json:"target,omitempty"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail describes a single field-level error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Pagination describes a page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// HasNext returns true if more pages follow.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// Page is a paginated list of items.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ListParams are the pagination parameters accepted by list endpoints.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
}
