package services

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const TransferReferencePrefix = "TRF"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// GenerateReference builds prefix + local timestamp + "-" + the 16-character
// random part of a ULID minted for now.
func GenerateReference(prefix string, now time.Time) string {
	entropyMu.Lock()
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	entropyMu.Unlock()
	if err != nil {
		id = ulid.Make()
	}
	return fmt.Sprintf("%s%s-%s", prefix, now.Format("20060102150405"), id.String()[10:])
}
