// Package idhash computes deterministic identifiers so that reruns of the
// pipeline upsert the same rows instead of creating duplicates.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeAccountID computes a deterministic account_id.
// Formula: SHA256(platform|handle), hex-encoded.
func ComputeAccountID(platform, handle string) string {
	return sum(fmt.Sprintf("%s|%s", platform, handle))
}

// ComputePostID computes a deterministic post_id.
// Formula: SHA256(platform|handle|posted_at|text), hex-encoded.
func ComputePostID(platform, handle string, postedAt int64, text string) string {
	return sum(fmt.Sprintf("%s|%s|%d|%s", platform, handle, postedAt, text))
}

// ComputeSignalID computes a deterministic signal_id.
// Formula: SHA256(post_id|asset_class|ref|side), hex-encoded. One post can
// therefore carry at most one signal per (class, ref, side), which is what
// makes reparsing idempotent.
func ComputeSignalID(postID, assetClass, ref, side string) string {
	return sum(fmt.Sprintf("%s|%s|%s|%s", postID, assetClass, ref, side))
}

// ComputeTextRef derives a short stable reference from free text, for
// markets named in prose without a link.
// Formula: first 16 hex chars of SHA256(text).
func ComputeTextRef(text string) string {
	return sum(text)[:16]
}

func sum(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}
