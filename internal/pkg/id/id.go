package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time and safe for use as DynamoDB partition keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// NewAt generates a ULID whose timestamp component is t.
func NewAt(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

// ForDay returns the notification log id for a service record on a calendar
// day. The id is deterministic so a conditional put rejects a second entry.
func ForDay(serviceRecordID, dayKey string) string {
	return serviceRecordID + "#" + dayKey
}
