package queries

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"servicebay/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	MaxListLimit     = 200
	defaultListLimit = 20
	cursorPrefix     = "k1."
)

// Cursor is the opaque continuation token returned with a page.
type Cursor struct {
	After string `json:"after,omitempty"`
}

// Keyset is a decoded cursor position: the (created_at, id) of the last row served.
type Keyset struct {
	At time.Time
	ID uuid.UUID
}

// Encode renders the keyset at microsecond precision, which is what PostgreSQL stores.
func (k Keyset) Encode() string {
	raw := cursorPrefix + strconv.FormatInt(k.At.UnixMicro(), 10) + "." + k.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func ParseKeyset(token string) (Keyset, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Keyset{}, errs.Wrap(err, "decode cursor")
	}
	body, ok := strings.CutPrefix(string(decoded), cursorPrefix)
	if !ok {
		return Keyset{}, errs.New("unknown cursor version")
	}
	micros, rawID, ok := strings.Cut(body, ".")
	if !ok {
		return Keyset{}, errs.New("malformed cursor")
	}
	us, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return Keyset{}, errs.Wrap(err, "cursor timestamp")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return Keyset{}, errs.Wrap(err, "cursor id")
	}
	return Keyset{At: time.UnixMicro(us).UTC(), ID: id}, nil
}

func decodeCursor(cursor *Cursor) (*Keyset, error) {
	if cursor == nil || cursor.After == "" {
		return nil, nil
	}
	k, err := ParseKeyset(cursor.After)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &k, nil
}

// page trims the limit+1 probe row and builds the next cursor from the last kept row.
func page[T any](rows []T, limit int, key func(T) (time.Time, uuid.UUID)) ([]T, *Cursor) {
	if len(rows) <= limit {
		return rows, nil
	}
	at, id := key(rows[limit-1])
	return rows[:limit], &Cursor{After: Keyset{At: at, ID: id}.Encode()}
}

func ValidateLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}
