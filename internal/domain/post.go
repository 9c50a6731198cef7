package domain

// Post is one piece of raw text authored by an Account.
// Immutable once ingested.
type Post struct {
	PostID    string // deterministic hash of platform|handle|posted_at|text
	AccountID string // owning account
	Platform  string
	Handle    string
	PostedAt  int64  // Unix timestamp in milliseconds
	Text      string // raw post text
	URL       string // optional external URL
	Raw       string // optional raw payload (JSON) from the ingestion boundary
}
