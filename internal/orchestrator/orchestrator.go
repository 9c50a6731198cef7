// Package orchestrator coordinates the pipeline end to end:
// parse → match → leaderboard.
package orchestrator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"alpha-tracker/internal/config"
	"alpha-tracker/internal/domain"
	"alpha-tracker/internal/idhash"
	"alpha-tracker/internal/leaderboard"
	"alpha-tracker/internal/match"
	"alpha-tracker/internal/observability"
	"alpha-tracker/internal/parse"
	"alpha-tracker/internal/storage"
)

// Orchestrator runs the three pipeline phases against the stores.
type Orchestrator struct {
	cfg *config.Config

	posts    storage.PostStore
	signals  storage.SignalStore
	outcomes storage.OutcomeStore

	registry   *parse.Registry
	matcher    *match.Matcher
	aggregator *leaderboard.Aggregator

	log zerolog.Logger
}

// Options for creating an Orchestrator.
type Options struct {
	Config *config.Config

	PostStore        storage.PostStore
	SignalStore      storage.SignalStore
	OutcomeStore     storage.OutcomeStore
	LeaderboardStore storage.LeaderboardStore

	PricePointStore           storage.PricePointStore
	PredictionQuoteStore      storage.PredictionQuoteStore
	PredictionResolutionStore storage.PredictionResolutionStore
	SportsEventStore          storage.SportsEventStore
	SportsLineStore           storage.SportsLineStore

	Logger zerolog.Logger
}

// New creates a new Orchestrator with the default parser registry.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		cfg:      opts.Config,
		posts:    opts.PostStore,
		signals:  opts.SignalStore,
		outcomes: opts.OutcomeStore,
		registry: parse.NewRegistry(),
		matcher: match.NewMatcher(
			opts.Config,
			opts.PricePointStore,
			opts.PredictionQuoteStore,
			opts.PredictionResolutionStore,
			opts.SportsEventStore,
			opts.SportsLineStore,
			opts.Logger,
		),
		aggregator: leaderboard.NewAggregator(
			opts.Config,
			opts.SignalStore,
			opts.OutcomeStore,
			opts.LeaderboardStore,
			opts.Logger,
		),
		log: opts.Logger,
	}
}

// RunResult contains counts from one pipeline run.
type RunResult struct {
	PostsProcessed   int
	PostsDropped     int
	SignalsCreated   int
	SignalsDiscarded int
	OutcomesSettled  int
	SignalsExpired   int
	SignalsPending   int
	WindowsComputed  int
	Errors           []string
}

// Run executes parse, match, and leaderboard in order. Phase errors on
// individual rows are collected in the result; only store-level failures
// abort the run.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	if err := o.runParse(ctx, result); err != nil {
		return nil, fmt.Errorf("parse phase: %w", err)
	}
	if err := o.runMatch(ctx, result); err != nil {
		return nil, fmt.Errorf("match phase: %w", err)
	}
	if err := o.runLeaderboard(ctx, result); err != nil {
		return nil, fmt.Errorf("leaderboard phase: %w", err)
	}

	o.log.Info().
		Int("posts", result.PostsProcessed).
		Int("signals_created", result.SignalsCreated).
		Int("outcomes_settled", result.OutcomesSettled).
		Int("pending", result.SignalsPending).
		Int("expired", result.SignalsExpired).
		Int("errors", len(result.Errors)).
		Msg("pipeline run complete")

	return result, nil
}

// runParse turns unparsed posts into pending signals.
func (o *Orchestrator) runParse(ctx context.Context, result *RunResult) error {
	posts, err := o.posts.GetUnparsed(ctx)
	if err != nil {
		return fmt.Errorf("load unparsed posts: %w", err)
	}
	result.PostsProcessed = len(posts)

	for _, p := range posts {
		class, drafts, ok := o.registry.Parse(p.Text)
		if !ok || len(drafts) == 0 {
			result.PostsDropped++
			observability.RecordPostDropped()
			continue
		}
		observability.RecordPostRouted(string(class))

		for _, draft := range drafts {
			if draft.Confidence < o.cfg.MinConfidence {
				result.SignalsDiscarded++
				observability.RecordSignalDiscarded()
				continue
			}

			draft.PostID = p.PostID
			draft.AccountID = p.AccountID
			draft.PostedAt = p.PostedAt
			draft.Status = domain.SignalStatusPending
			draft.SignalID = idhash.ComputeSignalID(
				p.PostID, string(draft.AssetClass), draft.Ref(), draft.Side,
			)

			if err := o.signals.Upsert(ctx, draft); err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("upsert signal for post %s: %v", p.PostID, err))
				continue
			}
			result.SignalsCreated++
			observability.RecordSignalParsed(string(draft.AssetClass))
		}
	}

	o.log.Debug().
		Int("posts", result.PostsProcessed).
		Int("dropped", result.PostsDropped).
		Int("signals", result.SignalsCreated).
		Msg("parse phase done")
	return nil
}

// runMatch settles or expires pending signals.
func (o *Orchestrator) runMatch(ctx context.Context, result *RunResult) error {
	pending, err := o.signals.GetByStatus(ctx, domain.SignalStatusPending)
	if err != nil {
		return fmt.Errorf("load pending signals: %w", err)
	}

	for _, sig := range pending {
		res, err := o.matcher.Match(ctx, sig)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("match signal %s: %v", sig.SignalID, err))
			continue
		}
		observability.RecordAnomalies(res.Anomalies)

		switch res.Status {
		case domain.SignalStatusSettled:
			if err := o.outcomes.Upsert(ctx, res.Outcome); err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("upsert outcome %s: %v", sig.SignalID, err))
				continue
			}
			if err := o.signals.UpdateStatus(ctx, sig.SignalID, domain.SignalStatusSettled); err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("settle signal %s: %v", sig.SignalID, err))
				continue
			}
			result.OutcomesSettled++
			observability.RecordOutcomeSettled(string(sig.AssetClass))

		case domain.SignalStatusExpired:
			if err := o.signals.UpdateStatus(ctx, sig.SignalID, domain.SignalStatusExpired); err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("expire signal %s: %v", sig.SignalID, err))
				continue
			}
			result.SignalsExpired++
			observability.RecordSignalExpired()

		default:
			result.SignalsPending++
		}
	}

	observability.UpdatePendingSignals(result.SignalsPending)
	o.log.Debug().
		Int("settled", result.OutcomesSettled).
		Int("expired", result.SignalsExpired).
		Int("pending", result.SignalsPending).
		Msg("match phase done")
	return nil
}

// runLeaderboard recomputes every configured rolling window.
func (o *Orchestrator) runLeaderboard(ctx context.Context, result *RunResult) error {
	byWindow, err := o.aggregator.ComputeAllWindows(ctx)
	if err != nil {
		return err
	}
	result.WindowsComputed = len(byWindow)

	for days, entries := range byWindow {
		observability.RecordLeaderboardRun(strconv.Itoa(days), len(entries))
	}
	return nil
}
