package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	entryDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 3, 14, 9, 21, 7, 123456789, time.UTC)

	token := EncodeToken(entryDate, createdAt)
	require.NotEmpty(t, token)

	gotDate, gotCreated, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, entryDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := DecodeToken("not base64 at all!")
	assert.Error(t, err)

	// Valid base64 but only one field.
	single := EncodeMultiFieldToken(time.Now().UTC().Format(timeFormat))
	_, _, err = DecodeToken(single)
	assert.Error(t, err)

	// Two fields, neither of them a timestamp.
	garbage := EncodeMultiFieldToken("not-a-time", "also-not-a-time")
	_, _, err = DecodeToken(garbage)
	assert.Error(t, err)
}

func TestMultiFieldTokenRoundTrip(t *testing.T) {
	createdAt := time.Now().UTC().Format(timeFormat)

	token := EncodeMultiFieldToken(createdAt, "line-7f3a")

	fields, err := DecodeMultiFieldToken(token)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, createdAt, fields[0])
	assert.Equal(t, "line-7f3a", fields[1])
}

func TestDecodeMultiFieldToken_NotBase64(t *testing.T) {
	_, err := DecodeMultiFieldToken("%%%")
	assert.Error(t, err)
}
