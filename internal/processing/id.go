package processing

import (
	"crypto/sha1"
	"encoding/hex"
)

// DocumentID derives a deterministic record ID from the canonical
// document, so identical postings hash to the same ID regardless of which
// service classified them.
func DocumentID(document string) string {
	s := sha1.Sum([]byte(document))
	return hex.EncodeToString(s[:])
}
