package format_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/medilink/portal/internal/format"
)

func TestDateTime(t *testing.T) {
	t.Run("date and clock combined", func(t *testing.T) {
		require.Equal(t, "Fri, Nov 27, 2026 at 14:30", format.DateTime("2026-11-27", "14:30:00"))
	})

	t.Run("timestamp date keeps its date part", func(t *testing.T) {
		require.Equal(t, "Fri, Nov 27, 2026 at 09:00", format.DateTime("2026-11-27T00:00:00", "09:00:00"))
	})

	t.Run("unparseable clock falls back to the date", func(t *testing.T) {
		require.Equal(t, "Fri, Nov 27, 2026", format.DateTime("2026-11-27", "soon"))
	})

	t.Run("unparseable date passes input through", func(t *testing.T) {
		require.Equal(t, "not-a-date 14:30:00", format.DateTime("not-a-date", "14:30:00"))
	})
}

func TestTimestamp(t *testing.T) {
	require.Equal(t, "Fri, Nov 27, 2026 14:30", format.Timestamp("2026-11-27T14:30:00"))
	require.Equal(t, "garbage", format.Timestamp("garbage"))
}

func TestISODate(t *testing.T) {
	day := time.Date(2026, time.September, 1, 15, 4, 5, 0, time.UTC)
	require.Equal(t, "2026-09-01", format.ISODate(day))
}
