package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IsValidULID(t *testing.T) {
	_, err := ulid.Parse(New())
	require.NoError(t, err)
	assert.NotEqual(t, New(), New())
}

func TestNewAt_EncodesTimestamp(t *testing.T) {
	at := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	parsed, err := ulid.Parse(NewAt(at))
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), parsed.Time())
}

func TestForDay(t *testing.T) {
	assert.Equal(t, "rec1#2026-10-14", ForDay("rec1", "2026-10-14"))
}
