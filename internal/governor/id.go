package governor

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewRunID generates an identifier for one control-loop pass. Stamped on
// every log entry of the run so a repeated run is distinguishable in the
// intervention log.
func NewRunID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based ID if crypto/rand fails
		return fmt.Sprintf("r-%x", time.Now().UnixNano())
	}
	return "r-" + hex.EncodeToString(b)
}
