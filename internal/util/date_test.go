package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		d, err := ParseEntryDate("2025-02-28")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		d, err := ParseEntryDate("")
		require.NoError(t, err)
		assert.Equal(t, Today(), d)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, s := range []string{"28/02/2025", "2025-02-30", "yesterday"} {
			_, err := ParseEntryDate(s)
			assert.Error(t, err, s)
		}
	})
}

func TestTruncateDate(t *testing.T) {
	in := time.Date(2025, 6, 1, 23, 59, 10, 500, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), TruncateDate(in))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-12-31", FormatDate(time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC)))
}
