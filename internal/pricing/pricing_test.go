package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return parsed
}

func TestGracePeriodFree(t *testing.T) {
	tariff := Tariff{Hourly: 2.5, Daily: 20}

	start := ts(t, "2025-01-01 10:00:00")
	end := ts(t, "2025-01-01 10:02:59")

	q := calculateAt(tariff, start, end)
	assert.Equal(t, 0.0, q.Fee)
	assert.Equal(t, 1, q.Hours)
	assert.Equal(t, 0, q.Days)
}

func TestGracePeriodBoundaryCharged(t *testing.T) {
	tariff := Tariff{Hourly: 5, Daily: 20}

	start := ts(t, "2025-01-01 12:00:00")
	end := ts(t, "2025-01-01 12:03:00")

	// Exactly 180 seconds is outside the grace period
	q := calculateAt(tariff, start, end)
	assert.Equal(t, 5.0, q.Fee)
	assert.Equal(t, 1, q.Hours)
	assert.Equal(t, 0, q.Days)
}

func TestHourlyRate(t *testing.T) {
	tariff := Tariff{Hourly: 2.5, Daily: 20}

	start := ts(t, "2025-01-01 10:00:00")
	end := ts(t, "2025-01-01 12:00:00")

	q := calculateAt(tariff, start, end)
	assert.Equal(t, 5.0, q.Fee)
	assert.Equal(t, 2, q.Hours)
	assert.Equal(t, 0, q.Days)
}

func TestHoursRoundUp(t *testing.T) {
	tariff := Tariff{Hourly: 5, Daily: 20}

	start := ts(t, "2025-01-01 12:00:00")
	end := ts(t, "2025-01-01 13:01:00")

	// 1h01m bills two hours
	q := calculateAt(tariff, start, end)
	assert.Equal(t, 2, q.Hours)
	assert.Equal(t, 10.0, q.Fee)
}

func TestDayTariffCap(t *testing.T) {
	tariff := Tariff{Hourly: 10, Daily: 15}

	start := ts(t, "2025-01-01 10:00:00")
	end := ts(t, "2025-01-01 20:00:00")

	q := calculateAt(tariff, start, end)
	assert.Equal(t, 15.0, q.Fee)
	assert.Equal(t, 10, q.Hours)
	assert.Equal(t, 0, q.Days)
}

func TestMultiDayStay(t *testing.T) {
	tariff := Tariff{Hourly: 5, Daily: 20}

	start := ts(t, "2025-01-01 10:00:00")
	end := ts(t, "2025-01-03 12:00:00")

	// Two whole elapsed days plus the started one
	q := calculateAt(tariff, start, end)
	assert.Equal(t, 60.0, q.Fee)
	assert.Equal(t, 3, q.Days)
	assert.Equal(t, 50, q.Hours)
}

func TestCalendarRolloverCountsAsMultiDay(t *testing.T) {
	tariff := Tariff{Hourly: 2.5, Daily: 20}

	start := ts(t, "2025-01-01 23:50:00")
	end := ts(t, "2025-01-02 00:10:00")

	// 20 minutes of elapsed time, but the date rolled over
	q := calculateAt(tariff, start, end)
	assert.Equal(t, 20.0, q.Fee)
	assert.Equal(t, 1, q.Days)
	assert.Equal(t, 1, q.Hours)
}

func TestYearRollover(t *testing.T) {
	tariff := Tariff{Hourly: 2.5, Daily: 20}

	start := ts(t, "2024-12-31 23:00:00")
	end := ts(t, "2025-01-01 01:00:00")

	q := calculateAt(tariff, start, end)
	assert.Equal(t, 20.0, q.Fee)
	assert.Equal(t, 1, q.Days)
}

func TestOpenSessionUsesCurrentTime(t *testing.T) {
	tariff := Tariff{Hourly: 5, Daily: 100}

	// Still inside the grace period, so the quote is stable no matter how
	// slow the test run is
	start := time.Now().Add(-90 * time.Second)

	q := Calculate(tariff, start, nil)
	assert.Equal(t, 0.0, q.Fee)
	assert.Equal(t, 1, q.Hours)
	assert.Equal(t, 0, q.Days)
}

func TestStoppedSessionIgnoresCurrentTime(t *testing.T) {
	tariff := Tariff{Hourly: 5, Daily: 100}

	start := ts(t, "2025-01-01 10:00:00")
	end := ts(t, "2025-01-01 11:30:00")

	q := Calculate(tariff, start, &end)
	assert.Equal(t, 10.0, q.Fee)
	assert.Equal(t, 2, q.Hours)
}
