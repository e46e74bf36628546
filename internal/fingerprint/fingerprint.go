package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/chiranjan-on-git/WhistleSafe/internal/storage/models"
)

var seq atomic.Uint64

// New derives a content-bound identifier for a report: the serialized field
// values salted with the submission time, digested with SHA-256. The result
// is a 64-character lowercase hex string. This is a unique label, not a
// chained ledger entry; it carries no linkage to prior reports.
func New(report models.Report) (string, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report for fingerprinting: %w", err)
	}

	h := sha256.New()
	h.Write(payload)
	// The sequence breaks ties between submissions landing on the same
	// clock reading.
	fmt.Fprintf(h, "|%d|%d", time.Now().UnixNano(), seq.Add(1))

	return hex.EncodeToString(h.Sum(nil)), nil
}
