package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateTransactionID creates a settlement transaction identifier.
// Format: TXN-YYYYMMDDHHMMSS-XXXXXXXX (time prefix + random hex suffix).
// Collisions are negligible but the column still carries a unique index.
func GenerateTransactionID() string {
	buf := make([]byte, 4)
	rand.Read(buf)

	timePart := time.Now().Format("20060102150405")
	randomPart := strings.ToUpper(hex.EncodeToString(buf))

	return fmt.Sprintf("TXN-%s-%s", timePart, randomPart)
}
