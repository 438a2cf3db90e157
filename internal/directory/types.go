// Package directory is the client side of the contact Directory Service:
// paginated person search per organization, single-person enrichment, and
// the per-organization candidate snapshot side channel.
package directory

import (
	"fmt"
	"net/http"
	"strings"
)

// Candidate is one raw search result. Candidates live only for the duration
// of one organization's processing; the PersonID is assigned by the source
// and is opaque to the pipeline.
type Candidate struct {
	PersonID    string
	FullName    string
	Country     string
	Email       string
	Mobile      string
	LinkedInURL string
	JobTitle    string
	CompanyName string
}

// SearchFilters narrows a person search to a set of organization names.
type SearchFilters struct {
	CompanyNames []string
}

// EnrichRequest asks the Directory Service for a person's full contact
// details by the identifier a search returned.
type EnrichRequest struct {
	PersonID          string
	EnrichMobile      bool
	OnlyVerifiedEmail bool
}

// APIError is a sanitized summary of a non-success Directory Service
// response. Code carries the machine-readable error code from the response
// envelope when present.
type APIError struct {
	Op          string
	StatusCode  int
	Status      string
	Code        string
	FilterError string
	Message     string
}

func (e *APIError) Error() string {
	if e == nil {
		return "directory api error"
	}
	parts := []string{fmt.Sprintf("directory api error: op=%s", strings.TrimSpace(e.Op))}
	if strings.TrimSpace(e.Status) != "" {
		parts = append(parts, "status="+strings.TrimSpace(e.Status))
	}
	if strings.TrimSpace(e.Code) != "" {
		parts = append(parts, "code="+strings.TrimSpace(e.Code))
	}
	if strings.TrimSpace(e.FilterError) != "" {
		parts = append(parts, "filter="+strings.TrimSpace(e.FilterError))
	}
	if strings.TrimSpace(e.Message) != "" {
		parts = append(parts, "message="+strings.TrimSpace(e.Message))
	}
	return strings.Join(parts, " ")
}

// errorEnvelope is the error shape used by the Directory Service. Responses
// may include additional fields; they are intentionally ignored.
type errorEnvelope struct {
	Error       bool   `json:"error"`
	ErrorCode   string `json:"error_code"`
	FilterError string `json:"filter_error"`
	Message     string `json:"message"`
}

func newAPIError(op string, resp *http.Response, env errorEnvelope) *APIError {
	e := &APIError{
		Op:          op,
		Code:        strings.TrimSpace(env.ErrorCode),
		FilterError: strings.TrimSpace(env.FilterError),
		Message:     strings.TrimSpace(env.Message),
	}
	if resp != nil {
		e.StatusCode = resp.StatusCode
		e.Status = resp.Status
	}
	return e
}
