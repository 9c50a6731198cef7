package domain

// Account represents a tracked identity on a social platform.
// Unique per (platform, handle). Created on first observed post.
type Account struct {
	AccountID string // deterministic hash of platform|handle
	Platform  string // e.g. "x"
	Handle    string // without leading @
	Category  string // equity | crypto | prediction | sports | general
	CreatedAt int64  // Unix timestamp in milliseconds
}

// Account category constants. Categories mirror asset classes plus a
// catch-all for accounts whose posts never route.
const (
	CategoryEquity     = "equity"
	CategoryCrypto     = "crypto"
	CategoryPrediction = "prediction"
	CategorySports     = "sports"
	CategoryGeneral    = "general"
)
