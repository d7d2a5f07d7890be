// Package pagination implements the opaque keyset tokens handed out by the
// list endpoints. A token is the base64 encoding of the last row's sort key;
// the repositories feed it back into a keyset WHERE clause on the next page.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Times are carried at nanosecond precision so the keyset comparison sees
// exactly the value that was stored.
const timeFormat = time.RFC3339Nano

// EncodeToken builds a token from an (entryDate, createdAt) sort key.
func EncodeToken(entryDate time.Time, createdAt time.Time) string {
	return EncodeMultiFieldToken(entryDate.Format(timeFormat), createdAt.Format(timeFormat))
}

// DecodeToken recovers the (entryDate, createdAt) sort key from a token.
func DecodeToken(token string) (time.Time, time.Time, error) {
	fields, err := DecodeMultiFieldToken(token)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if len(fields) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("pagination token has %d fields, want 2", len(fields))
	}

	entryDate, err := time.Parse(timeFormat, fields[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("pagination token entry date: %w", err)
	}
	createdAt, err := time.Parse(timeFormat, fields[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("pagination token created time: %w", err)
	}

	return entryDate, createdAt, nil
}

// EncodeMultiFieldToken joins arbitrary string fields into one opaque token,
// for sort keys that are not a pair of times.
func EncodeMultiFieldToken(fields ...string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(fields, "|")))
}

// DecodeMultiFieldToken splits a token back into its fields.
func DecodeMultiFieldToken(token string) ([]string, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("pagination token is not valid base64: %w", err)
	}
	return strings.Split(string(decoded), "|"), nil
}
