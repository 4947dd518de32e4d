package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadline(t *testing.T) {
	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)

	t.Run("midday of the following day, plant local time", func(t *testing.T) {
		reportDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		d := Deadline(reportDate, lagos)

		assert.Equal(t, time.Date(2025, 3, 11, 12, 0, 0, 0, lagos), d)
	})

	t.Run("rolls over month boundaries", func(t *testing.T) {
		reportDate := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
		d := Deadline(reportDate, lagos)

		assert.Equal(t, time.Date(2025, 2, 1, 12, 0, 0, 0, lagos), d)
	})
}

func TestTimezone(t *testing.T) {
	assert.Equal(t, "Africa/Lagos", Timezone("Africa/Lagos").String())
	assert.Equal(t, time.UTC, Timezone("Not/AZone"))
}
