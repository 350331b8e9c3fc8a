package suspension

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewEntry(t *testing.T) {
	local := time.FixedZone("WAT", 3600)
	at := time.Date(2024, 1, 2, 11, 30, 45, 987654321, local)

	entry := NewEntry("alice", at)

	assert.Equal(t, "alice", entry.UserID)
	assert.Equal(t, time.UTC, entry.SuspendedAt.Location())
	assert.Equal(t, time.Date(2024, 1, 2, 10, 30, 45, 0, time.UTC), entry.SuspendedAt)
}
