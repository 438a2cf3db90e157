// Package pipeline sequences one input item at a time through skip-check,
// candidate fetch, decision-maker selection, enrichment, drafting, and
// persistence. Items fail independently; only setup errors abort a batch.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/scoutline/scoutline/internal/decision"
	"github.com/scoutline/scoutline/internal/directory"
	"github.com/scoutline/scoutline/internal/identity"
	"github.com/scoutline/scoutline/internal/input"
	"github.com/scoutline/scoutline/internal/logging"
	"github.com/scoutline/scoutline/internal/store"
)

// Outcome classifies one processed input item.
type Outcome string

const (
	OutcomeRecorded     Outcome = "recorded"
	OutcomeSkipped      Outcome = "skipped"
	OutcomeNoCandidates Outcome = "no_candidates"
	OutcomeNoSelection  Outcome = "no_selection"
	OutcomeFailed       Outcome = "failed"
)

// CandidateFetcher fetches an organization's candidates from the Directory
// Service.
type CandidateFetcher interface {
	FetchCandidates(ctx context.Context, organization string) ([]directory.Candidate, error)
}

// PersonEnricher resolves a selected candidate's full contact details.
type PersonEnricher interface {
	EnrichPerson(ctx context.Context, req directory.EnrichRequest) (directory.Candidate, error)
}

// CompanyStore receives the organization-mode records in one buffered merge.
type CompanyStore interface {
	Merge(records []store.Record) (store.MergeResult, error)
}

// PersonStore receives person-mode records one at a time, durably.
type PersonStore interface {
	Append(rec store.Record) (created bool, err error)
}

// Options tune batch pacing and enrichment.
type Options struct {
	// ItemDelay paces consecutive input items. Zero disables pacing.
	ItemDelay    time.Duration
	EnrichMobile bool
}

// Summary totals one batch.
type Summary struct {
	Recorded     int
	Skipped      int
	NoCandidates int
	NoSelection  int
	Failed       int
	// StoreCreated is true when the run created the store file rather
	// than appending to an existing one.
	StoreCreated bool
}

func (s *Summary) count(o Outcome) {
	switch o {
	case OutcomeRecorded:
		s.Recorded++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeNoCandidates:
		s.NoCandidates++
	case OutcomeNoSelection:
		s.NoSelection++
	case OutcomeFailed:
		s.Failed++
	}
}

// Runner drives the per-item state machine. Exactly one Runner may write to
// a store at a time; processing is strictly sequential by design so that
// external rate limits hold.
type Runner struct {
	fetcher   CandidateFetcher
	enricher  PersonEnricher
	decisions decision.Service
	known     *identity.Known
	log       *zap.SugaredLogger
	opts      Options
}

func NewRunner(
	fetcher CandidateFetcher,
	enricher PersonEnricher,
	decisions decision.Service,
	known *identity.Known,
	log *zap.SugaredLogger,
	opts Options,
) *Runner {
	return &Runner{
		fetcher:   fetcher,
		enricher:  enricher,
		decisions: decisions,
		known:     known,
		log:       log,
		opts:      opts,
	}
}

func (r *Runner) itemLimiter() *rate.Limiter {
	if r.opts.ItemDelay <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(r.opts.ItemDelay), 1)
}

// RunCompanies processes organization names in order, buffering successful
// records and merging them into the store once after the loop. Records land
// in the store in processing order, after every pre-existing row.
func (r *Runner) RunCompanies(ctx context.Context, companies []string, dst CompanyStore) (Summary, error) {
	var sum Summary
	var fresh []store.Record

	limiter := r.itemLimiter()
	for _, org := range companies {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return sum, err
			}
		}
		sum.count(r.processCompany(ctx, org, &fresh))
	}

	res, err := dst.Merge(fresh)
	if err != nil {
		return sum, err
	}
	sum.StoreCreated = res.Created
	r.log.Infow("batch complete",
		"recorded", sum.Recorded,
		"skipped", sum.Skipped,
		"not_found", sum.NoCandidates,
		"no_selection", sum.NoSelection,
		"failed", sum.Failed,
		"store_created", res.Created,
	)
	return sum, nil
}

func (r *Runner) processCompany(ctx context.Context, org string, fresh *[]store.Record) Outcome {
	log := r.log.With("organization", org)

	if r.known.ContainsOrganization(org) {
		log.Infow("already processed, skipping")
		return OutcomeSkipped
	}

	candidates, err := r.fetcher.FetchCandidates(ctx, org)
	if err != nil {
		log.Warnw("not found", "error", logging.Secrets(err.Error()))
		return OutcomeFailed
	}
	if len(candidates) == 0 {
		log.Infow("not found")
		return OutcomeNoCandidates
	}
	log.Infow("candidates fetched", "count", len(candidates))

	selectedID, err := r.decisions.SelectDecisionMaker(ctx, org, candidates)
	if err != nil {
		log.Warnw("selection failed", "error", logging.Secrets(err.Error()))
		return OutcomeFailed
	}
	chosen := findCandidate(candidates, selectedID)
	if chosen == nil {
		// Either no selection, or an identifier that does not trace back
		// to a fetched candidate. Never fabricate a person.
		log.Infow("no decision maker selected")
		return OutcomeNoSelection
	}

	// The selected name may differ from anything in the input; re-check it
	// against the known identities before spending enrichment calls.
	if r.known.Contains(org, chosen.FullName) {
		log.Infow("decision maker already recorded, skipping", "full_name", chosen.FullName)
		return OutcomeSkipped
	}

	enriched, err := r.enricher.EnrichPerson(ctx, directory.EnrichRequest{
		PersonID:     chosen.PersonID,
		EnrichMobile: r.opts.EnrichMobile,
	})
	if err != nil {
		log.Warnw("enrichment failed", "error", logging.Secrets(err.Error()))
		return OutcomeFailed
	}
	fullName := enriched.FullName
	if fullName == "" {
		fullName = chosen.FullName
	}

	draft, err := r.decisions.DraftMessage(ctx, decision.MessageRequest{
		CompanyName: org,
		FullName:    fullName,
		Position:    enriched.JobTitle,
	})
	if err != nil {
		log.Warnw("drafting failed", "error", logging.Secrets(err.Error()))
		return OutcomeFailed
	}

	linkedIn := enriched.LinkedInURL
	if linkedIn == "" {
		linkedIn = draft.LinkedInURL
	}
	*fresh = append(*fresh, store.Record{
		CompanyName: org,
		FullName:    fullName,
		Position:    draft.Position,
		Country:     enriched.Country,
		Email:       enriched.Email,
		Mobile:      enriched.Mobile,
		LinkedInURL: linkedIn,
		JobTitle:    enriched.JobTitle,
		Message:     draft.Message,
	})
	r.known.Add(org, fullName)
	log.Infow("decision maker recorded", "full_name", fullName)
	return OutcomeRecorded
}

// RunPersons processes named people in order, appending each record to the
// store as soon as its item completes so an interrupted batch keeps its
// finished rows. Persistence errors abort the batch: silent loss of a
// drafted message is worse than a crash.
func (r *Runner) RunPersons(ctx context.Context, persons []input.Person, dst PersonStore) (Summary, error) {
	var sum Summary

	limiter := r.itemLimiter()
	for _, p := range persons {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return sum, err
			}
		}

		log := r.log.With("organization", p.CompanyName, "full_name", p.FullName)
		if r.known.Contains(p.CompanyName, p.FullName) {
			log.Infow("already processed, skipping")
			sum.count(OutcomeSkipped)
			continue
		}

		draft, err := r.decisions.DraftMessage(ctx, decision.MessageRequest{
			CompanyName: p.CompanyName,
			FullName:    p.FullName,
			Position:    p.Position,
		})
		if err != nil {
			log.Warnw("drafting failed", "error", logging.Secrets(err.Error()))
			sum.count(OutcomeFailed)
			continue
		}

		created, err := dst.Append(store.Record{
			CompanyName: p.CompanyName,
			FullName:    p.FullName,
			Position:    draft.Position,
			LinkedInURL: draft.LinkedInURL,
			JobTitle:    p.Position,
			Message:     draft.Message,
		})
		if err != nil {
			return sum, err
		}
		sum.StoreCreated = sum.StoreCreated || created
		r.known.Add(p.CompanyName, p.FullName)
		log.Infow("message recorded")
		sum.count(OutcomeRecorded)
	}

	r.log.Infow("batch complete",
		"recorded", sum.Recorded,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
		"store_created", sum.StoreCreated,
	)
	return sum, nil
}

func findCandidate(candidates []directory.Candidate, personID string) *directory.Candidate {
	if personID == "" {
		return nil
	}
	for i := range candidates {
		if candidates[i].PersonID == personID {
			return &candidates[i]
		}
	}
	return nil
}
