package memory

import "alpha-tracker/internal/storage"

// Compile-time interface checks.
var (
	_ storage.AccountStore              = (*AccountStore)(nil)
	_ storage.PostStore                 = (*PostStore)(nil)
	_ storage.SignalStore               = (*SignalStore)(nil)
	_ storage.OutcomeStore              = (*OutcomeStore)(nil)
	_ storage.LeaderboardStore          = (*LeaderboardStore)(nil)
	_ storage.PricePointStore           = (*PricePointStore)(nil)
	_ storage.PredictionQuoteStore      = (*PredictionQuoteStore)(nil)
	_ storage.PredictionResolutionStore = (*PredictionResolutionStore)(nil)
	_ storage.SportsEventStore          = (*SportsEventStore)(nil)
	_ storage.SportsLineStore           = (*SportsLineStore)(nil)
)

// Stores bundles one in-memory instance of every store with referential
// wiring (account deletes cascade, unparsed-post queries consult the
// signal store).
type Stores struct {
	Accounts    *AccountStore
	Posts       *PostStore
	Signals     *SignalStore
	Outcomes    *OutcomeStore
	Leaderboard *LeaderboardStore

	Prices      *PricePointStore
	Quotes      *PredictionQuoteStore
	Resolutions *PredictionResolutionStore
	Events      *SportsEventStore
	Lines       *SportsLineStore
}

// NewStores creates a fully wired in-memory store set.
func NewStores() *Stores {
	s := &Stores{
		Accounts:    NewAccountStore(),
		Posts:       NewPostStore(),
		Signals:     NewSignalStore(),
		Outcomes:    NewOutcomeStore(),
		Leaderboard: NewLeaderboardStore(),
		Prices:      NewPricePointStore(),
		Quotes:      NewPredictionQuoteStore(),
		Resolutions: NewPredictionResolutionStore(),
		Events:      NewSportsEventStore(),
		Lines:       NewSportsLineStore(),
	}
	s.Accounts.posts = s.Posts
	s.Accounts.signals = s.Signals
	s.Accounts.outcomes = s.Outcomes
	s.Posts.signals = s.Signals
	return s
}
