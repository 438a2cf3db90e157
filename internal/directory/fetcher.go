package directory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SearchClient is the Directory Service surface the fetcher needs.
type SearchClient interface {
	SearchPersons(ctx context.Context, filters SearchFilters, page int) ([]Candidate, error)
}

// FetcherConfig bounds one organization's candidate fetch.
type FetcherConfig struct {
	// PageSize is the fixed page size the source returns.
	PageSize int
	// MaxResults is the hard cap on accumulated candidates.
	MaxResults int
	// MaxPages bounds the number of page requests per organization.
	MaxPages int
	// PageDelay paces consecutive page requests. Zero disables pacing.
	PageDelay time.Duration
}

func (c FetcherConfig) withDefaults() FetcherConfig {
	if c.PageSize <= 0 {
		c.PageSize = 25
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 200
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 8
	}
	return c
}

// Fetcher accumulates candidates for one organization across search pages.
type Fetcher struct {
	client    SearchClient
	cfg       FetcherConfig
	snapshots *SnapshotWriter
	log       *zap.SugaredLogger
}

// NewFetcher builds a fetcher. snapshots may be nil to disable the audit
// side channel.
func NewFetcher(client SearchClient, cfg FetcherConfig, snapshots *SnapshotWriter, log *zap.SugaredLogger) *Fetcher {
	return &Fetcher{
		client:    client,
		cfg:       cfg.withDefaults(),
		snapshots: snapshots,
		log:       log,
	}
}

// FetchCandidates pages through the search source for the organization until
// a short page signals exhaustion, the result cap is reached, or the page
// budget runs out. A failure on any page fails the whole fetch; partial
// results are never returned.
//
// Candidates are also written to the per-organization snapshot file before
// returning. The snapshot is write-only audit data; nothing reads it back.
func (f *Fetcher) FetchCandidates(ctx context.Context, organization string) ([]Candidate, error) {
	filters := SearchFilters{CompanyNames: []string{organization}}

	// Burst 1 means the first page waits for nothing and each later page
	// waits out one PageDelay.
	var limiter *rate.Limiter
	if f.cfg.PageDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(f.cfg.PageDelay), 1)
	}

	var out []Candidate
	for page := 1; page <= f.cfg.MaxPages; page++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		batch, err := f.client.SearchPersons(ctx, filters, page)
		if err != nil {
			return nil, fmt.Errorf("search %q page %d: %w", organization, page, err)
		}
		for i := range batch {
			batch[i].CompanyName = organization
		}
		out = append(out, batch...)
		f.log.Debugw("search page fetched", "organization", organization, "page", page, "results", len(batch), "total", len(out))

		if len(out) >= f.cfg.MaxResults {
			out = out[:f.cfg.MaxResults]
			break
		}
		if len(batch) < f.cfg.PageSize {
			break
		}
	}

	// A header-only snapshot still records that the organization was
	// searched and nobody was found.
	if f.snapshots != nil {
		path, err := f.snapshots.Write(organization, out)
		if err != nil {
			return nil, fmt.Errorf("write candidate snapshot for %q: %w", organization, err)
		}
		f.log.Debugw("candidate snapshot written", "organization", organization, "path", path, "candidates", len(out))
	}
	return out, nil
}
