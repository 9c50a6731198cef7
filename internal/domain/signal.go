package domain

// AssetClass identifies which market a signal trades in.
type AssetClass string

// Supported asset classes.
const (
	AssetClassEquity     AssetClass = "equity"
	AssetClassCrypto     AssetClass = "crypto"
	AssetClassPrediction AssetClass = "prediction"
	AssetClassSports     AssetClass = "sports"
)

// SignalStatus is the lifecycle state of a signal.
// Transitions: pending → settled, pending → expired. Terminal states
// never transition back.
type SignalStatus string

const (
	SignalStatusPending SignalStatus = "pending"
	SignalStatusSettled SignalStatus = "settled"
	SignalStatusExpired SignalStatus = "expired"
)

// Side constants. Equity/crypto use long/short, prediction uses yes/no,
// sports totals use over/under; sports spread and moneyline signals carry
// the team on the Sports payload and use the team itself as the side.
const (
	SideLong  = "long"
	SideShort = "short"
	SideYes   = "yes"
	SideNo    = "no"
	SideOver  = "over"
	SideUnder = "under"
)

// LineType identifies sports bet semantics.
type LineType string

const (
	LineTypeSpread    LineType = "spread"
	LineTypeTotal     LineType = "total"
	LineTypeMoneyline LineType = "moneyline"
)

// Signal is a parsed trading/betting intent derived from exactly one Post.
// The envelope carries fields common to every asset class; exactly one of
// the payload pointers is non-nil, selected by AssetClass. Immutable after
// creation except for Status.
type Signal struct {
	SignalID  string // deterministic hash of post_id|asset_class|ref|side
	PostID    string
	AccountID string

	AssetClass AssetClass
	Instrument string // equity ticker or crypto pair; empty for prediction/sports
	MarketRef  string // prediction market ref or resolved sports event id
	Side       string
	Confidence float64  // [0,1]
	Size       *float64 // units, dollars or portfolio fraction; nil if unstated
	HorizonMs  *int64   // horizon duration in ms; nil if unstated
	PostedAt   int64    // originating post timestamp (ms)
	Status     SignalStatus

	// Asset-class payloads (exactly one non-nil).
	Equity     *EquityPayload
	Crypto     *CryptoPayload
	Prediction *PredictionPayload
	Sports     *SportsPayload
}

// EquityPayload holds equity-specific extraction.
type EquityPayload struct {
	EntryPrice *float64  `json:"entry_price,omitempty"`
	Targets    []float64 `json:"targets,omitempty"` // ascending
	StopLoss   *float64  `json:"stop_loss,omitempty"`
}

// CryptoPayload holds crypto-specific extraction.
type CryptoPayload struct {
	EntryPrice  *float64  `json:"entry_price,omitempty"`
	Targets     []float64 `json:"targets,omitempty"` // TP1, TP2, ... ascending
	StopLoss    *float64  `json:"stop_loss,omitempty"`
	Leverage    *float64  `json:"leverage,omitempty"`
	TradingType string    `json:"trading_type,omitempty"` // spot | perpetual | futures
}

// PredictionPayload holds prediction-market extraction.
type PredictionPayload struct {
	Platform    string   `json:"platform,omitempty"` // polymarket, manifold, kalshi, ...
	Probability *float64 `json:"probability,omitempty"` // stated probability of the YES outcome
	Contracts   *float64 `json:"contracts,omitempty"`
}

// SportsPayload holds sports-betting extraction.
type SportsPayload struct {
	League   string   `json:"league,omitempty"`
	Team     string   `json:"team,omitempty"`
	LineType LineType `json:"line_type,omitempty"`
	Line     *float64 `json:"line,omitempty"`
	Odds     *float64 `json:"odds,omitempty"` // American odds
}

// Crypto trading type constants.
const (
	TradingTypeSpot      = "spot"
	TradingTypePerpetual = "perpetual"
	TradingTypeFutures   = "futures"
)

// Ref returns the instrument or market reference identifying what the
// signal trades, whichever is set.
func (s *Signal) Ref() string {
	if s.Instrument != "" {
		return s.Instrument
	}
	return s.MarketRef
}

// Levels returns the entry/targets/stop shared by the equity and crypto
// payloads, or nil slices for other classes.
func (s *Signal) Levels() (entry *float64, targets []float64, stop *float64) {
	switch {
	case s.Equity != nil:
		return s.Equity.EntryPrice, s.Equity.Targets, s.Equity.StopLoss
	case s.Crypto != nil:
		return s.Crypto.EntryPrice, s.Crypto.Targets, s.Crypto.StopLoss
	}
	return nil, nil, nil
}
