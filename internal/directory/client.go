package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the Directory Service endpoints the
// pipeline uses.
type Client struct {
	baseURL *url.URL
	apiKey  string
	http    *http.Client
}

// NewClient constructs a client for the Directory Service base URL, e.g.
// "https://api.prospeo.io".
func NewClient(baseURL, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("directory api key is required")
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("directory base URL is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse directory base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("directory base URL must include a host (got %q)", raw)
	}
	// Ensure the base path ends with a slash so ResolveReference treats it
	// as a directory.
	u.Path = strings.TrimRight(u.Path, "/") + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

type searchRequest struct {
	Filters searchFilters `json:"filters"`
	Page    int           `json:"page"`
}

type searchFilters struct {
	Company companyFilter `json:"company"`
}

type companyFilter struct {
	Names nameFilter `json:"names"`
}

type nameFilter struct {
	Include []string `json:"include"`
}

type personPayload struct {
	PersonID string `json:"person_id"`
	FullName string `json:"full_name"`
	Location struct {
		Country string `json:"country"`
	} `json:"location"`
	Email struct {
		Email string `json:"email"`
	} `json:"email"`
	Mobile struct {
		Mobile string `json:"mobile"`
	} `json:"mobile"`
	LinkedInURL string `json:"linkedin_url"`
	JobTitle    string `json:"current_job_title"`
}

func (p *personPayload) candidate() Candidate {
	return Candidate{
		PersonID:    strings.TrimSpace(p.PersonID),
		FullName:    strings.TrimSpace(p.FullName),
		Country:     strings.TrimSpace(p.Location.Country),
		Email:       strings.TrimSpace(p.Email.Email),
		Mobile:      strings.TrimSpace(p.Mobile.Mobile),
		LinkedInURL: strings.TrimSpace(p.LinkedInURL),
		JobTitle:    strings.TrimSpace(p.JobTitle),
	}
}

type searchResponse struct {
	errorEnvelope
	Results []struct {
		Person *personPayload `json:"person"`
	} `json:"results"`
}

// SearchPersons returns one page of candidates for the filtered search.
// Pages are 1-based.
func (c *Client) SearchPersons(ctx context.Context, filters SearchFilters, page int) ([]Candidate, error) {
	if page < 1 {
		page = 1
	}
	req := searchRequest{
		Filters: searchFilters{Company: companyFilter{Names: nameFilter{Include: filters.CompanyNames}}},
		Page:    page,
	}

	var out searchResponse
	if err := c.postJSON(ctx, "searchPerson", "search-person", req, &out); err != nil {
		return nil, err
	}
	if out.Error {
		return nil, newAPIError("searchPerson", nil, out.errorEnvelope)
	}

	candidates := make([]Candidate, 0, len(out.Results))
	for _, r := range out.Results {
		if r.Person == nil {
			continue
		}
		candidates = append(candidates, r.Person.candidate())
	}
	return candidates, nil
}

type enrichRequestBody struct {
	OnlyVerifiedEmail  bool       `json:"only_verified_email"`
	EnrichMobile       bool       `json:"enrich_mobile"`
	OnlyVerifiedMobile bool       `json:"only_verified_mobile"`
	Data               enrichData `json:"data"`
}

type enrichData struct {
	PersonID string `json:"person_id,omitempty"`
}

type enrichResponse struct {
	errorEnvelope
	Person *personPayload `json:"person"`
}

// EnrichPerson returns the person's full contact details.
func (c *Client) EnrichPerson(ctx context.Context, req EnrichRequest) (Candidate, error) {
	if strings.TrimSpace(req.PersonID) == "" {
		return Candidate{}, fmt.Errorf("enrich: person id is required")
	}
	body := enrichRequestBody{
		OnlyVerifiedEmail: req.OnlyVerifiedEmail,
		EnrichMobile:      req.EnrichMobile,
		Data:              enrichData{PersonID: strings.TrimSpace(req.PersonID)},
	}

	var out enrichResponse
	if err := c.postJSON(ctx, "enrichPerson", "enrich-person", body, &out); err != nil {
		return Candidate{}, err
	}
	if out.Error {
		return Candidate{}, newAPIError("enrichPerson", nil, out.errorEnvelope)
	}
	if out.Person == nil {
		return Candidate{}, fmt.Errorf("enrich: response has no person")
	}
	return out.Person.candidate(), nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", op, err)
	}

	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		// Best effort: the body usually carries the error envelope.
		var env errorEnvelope
		_ = json.Unmarshal(rb, &env)
		return newAPIError(op, resp, env)
	}
	if err := json.Unmarshal(rb, out); err != nil {
		return fmt.Errorf("%s: parse response: %w", op, err)
	}
	return nil
}
