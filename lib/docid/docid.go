package docid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Identify computes the stable deduplication id for a document out of its
// source url, kind and published date. The same tuple always hashes to the
// same id, across runs and across hosts, so a document re-discovered on a
// later run keys into the same scrape-state entry.
//
// A document re-published under a different url is a different document as
// far as this function is concerned, there is no cross-url identity.
func Identify(sourceURL, kind string, published time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf(
		"%s:%s:%s",
		sourceURL, kind, published.Format("2006-01-02"),
	)))
	return hex.EncodeToString(sum[:])[:16]
}
