package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var transactionIDPattern = regexp.MustCompile(`^TXN-\d{14}-[0-9A-F]{8}$`)

func TestGenerateTransactionID(t *testing.T) {
	id := GenerateTransactionID()
	assert.Regexp(t, transactionIDPattern, id)
}

func TestGenerateTransactionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateTransactionID()
		assert.False(t, seen[id], "duplicate transaction ID %s", id)
		seen[id] = true
	}
}
