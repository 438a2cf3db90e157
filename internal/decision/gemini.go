package decision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"google.golang.org/genai"

	"github.com/scoutline/scoutline/internal/directory"
)

type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string
}

// Gemini implements Service on the Gemini API with structured JSON output.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, model: strings.TrimSpace(cfg.Model)}, nil
}

var selectionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"person_id": {Type: genai.TypeString},
	},
	Required: []string{"person_id"},
}

func (g *Gemini) SelectDecisionMaker(ctx context.Context, organization string, candidates []directory.Candidate) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(buildSelectionPrompt(organization, candidates)),
		&genai.GenerateContentConfig{
			CandidateCount:   1,
			ResponseMIMEType: "application/json",
			ResponseSchema:   selectionSchema,
		},
	)
	if err != nil {
		return "", classifyErr(err)
	}

	var parsed struct {
		PersonID string `json:"person_id"`
	}
	if err := json.Unmarshal([]byte(resp.Text()), &parsed); err != nil {
		return "", fmt.Errorf("gemini: parse selection json: %w", err)
	}
	return strings.TrimSpace(parsed.PersonID), nil
}

var draftSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"message":      {Type: genai.TypeString},
		"linkedin_url": {Type: genai.TypeString},
		"position":     {Type: genai.TypeString},
	},
	Required: []string{"message", "linkedin_url", "position"},
}

func (g *Gemini) DraftMessage(ctx context.Context, req MessageRequest) (Draft, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(buildOutboundPrompt(req)),
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			CandidateCount:   1,
			ResponseMIMEType: "application/json",
			ResponseSchema:   draftSchema,
		},
	)
	if err != nil {
		return Draft{}, classifyErr(err)
	}

	var parsed struct {
		Message     string `json:"message"`
		LinkedInURL string `json:"linkedin_url"`
		Position    string `json:"position"`
	}
	if err := json.Unmarshal([]byte(resp.Text()), &parsed); err != nil {
		return Draft{}, fmt.Errorf("gemini: parse draft json: %w", err)
	}
	if strings.TrimSpace(parsed.Message) == "" {
		return Draft{}, errors.New("gemini: draft has no message")
	}
	return Draft{
		Message:     strings.TrimSpace(parsed.Message),
		LinkedInURL: strings.TrimSpace(parsed.LinkedInURL),
		Position:    strings.TrimSpace(parsed.Position),
	}, nil
}

func classifyErr(err error) error {
	// Wrap transient failures so callers can distinguish rate limiting
	// from hard errors.
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code/100 == 5 {
			return &TransientError{Err: err}
		}
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) && (ne.Timeout() || ne.Temporary()) {
		return &TransientError{Err: err}
	}
	return err
}
