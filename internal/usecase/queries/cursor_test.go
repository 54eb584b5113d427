//go:build unit

package queries

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCursorRoundTrip(t *testing.T) {
	id := uuid.New()
	created := time.Date(2025, 6, 1, 9, 30, 0, 123456789, time.UTC)

	encoded := EncodeAfterCursor(created, id)
	gotTime, gotID, err := DecodeAfterCursor(encoded)
	require.NoError(t, err)

	// Sub-microsecond precision is dropped on encode.
	assert.Equal(t, created.Truncate(time.Microsecond), gotTime)
	assert.Equal(t, id, gotID)
}

func TestAfterCursorRoundTrip_PreEpoch(t *testing.T) {
	// Negative UnixMicro puts a minus sign in front of the timestamp; the
	// decoder must not mistake it for the field separator.
	id := uuid.New()

	encoded := EncodeAfterCursor(time.Time{}, id)
	gotTime, gotID, err := DecodeAfterCursor(encoded)
	require.NoError(t, err)

	assert.Equal(t, time.Time{}.UnixMicro(), gotTime.UnixMicro())
	assert.Equal(t, id, gotID)
}

func TestDecodeAfterCursor_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		cursor string
	}{
		{"empty", ""},
		{"not base64", "!!not-base64!!"},
		{"wrong version", "djI6MTIzNDUtYWJj"},          // "v2:12345-abc"
		{"missing separator", "djE6MTIzNDU="},          // "v1:12345"
		{"bad timestamp", "djE6YWJjLWRlZg=="},          // "v1:abc-def"
		{"bad uuid", "djE6MTIzNDUtbm90LWEtdXVpZA=="},   // "v1:12345-not-a-uuid"
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeAfterCursor(tc.cursor)
			assert.Error(t, err)
		})
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, clampLimit(0))
	assert.Equal(t, DefaultListLimit, clampLimit(-10))
	assert.Equal(t, 25, clampLimit(25))
	assert.Equal(t, MaxListLimit, clampLimit(MaxListLimit))
	assert.Equal(t, MaxListLimit, clampLimit(MaxListLimit+1))
}
