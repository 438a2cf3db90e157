// Package decision is the Decision/Drafting Service: given an
// organization's candidates it picks the single highest decision maker, and
// it drafts the personalized outbound message for a chosen person. The
// pipeline treats implementations as fallible and never trusts a returned
// identifier without checking it against the fetched candidates.
package decision

import (
	"context"

	"github.com/scoutline/scoutline/internal/directory"
)

// MessageRequest carries the facts available for drafting one message.
type MessageRequest struct {
	CompanyName string
	FullName    string
	// Position is the title from the input list, if any. The draft may
	// echo it back or suppress it per the seniority rules.
	Position string
}

// Draft is the structured drafting output.
type Draft struct {
	Message     string
	LinkedInURL string
	// Position is non-empty only for roles with real decision-making
	// power; marketing/sales/BD titles come back empty.
	Position string
}

// Service selects decision makers and drafts outreach messages.
type Service interface {
	// SelectDecisionMaker returns the chosen candidate's identifier, or
	// "" when no candidate stands out. The identifier is not guaranteed
	// to reference a fetched candidate; callers must validate it.
	SelectDecisionMaker(ctx context.Context, organization string, candidates []directory.Candidate) (string, error)
	DraftMessage(ctx context.Context, req MessageRequest) (Draft, error)
}

// TransientError marks a failure as retryable (rate limited, 5xx). The
// pipeline records the failure and moves on, but callers with a retry
// budget can test for it.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }
