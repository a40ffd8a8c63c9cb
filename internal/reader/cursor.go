package reader

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cursor encodes the last-seen (created_at, id) pair. Opaque to clients;
// the composite key keeps pagination stable under concurrent inserts.
type cursor struct {
	CreatedAt time.Time
	ID        string
}

func encodeCursor(c cursor) string {
	raw := fmt.Sprintf("%d|%s", c.CreatedAt.UTC().UnixNano(), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return cursor{}, fmt.Errorf("malformed cursor")
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return cursor{}, fmt.Errorf("malformed cursor")
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return cursor{}, fmt.Errorf("malformed cursor")
	}
	// The id half is compared against a uuid column; anything else must be
	// rejected here, before it reaches the store.
	if uuid.Validate(parts[1]) != nil {
		return cursor{}, fmt.Errorf("malformed cursor")
	}
	return cursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: parts[1]}, nil
}
