package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildDenseGridEmitsFullRangeWhenEventPrecedesStart(t *testing.T) {
	start := day(2025, time.December, 13)
	end := day(2025, time.December, 22)

	events := []ChangeEvent{
		{ProductID: 7, ValidAt: day(2025, time.November, 1), Price: 4500},
	}

	rows := BuildDenseGrid(events, start, end)
	require.Len(t, rows, 10)

	for i, row := range rows {
		assert.Equal(t, int64(7), row.ProductID)
		assert.Equal(t, start.AddDate(0, 0, i), row.Day)
		assert.Equal(t, int64(4500), row.Price)
	}
}

func TestBuildDenseGridForwardFillsBetweenChanges(t *testing.T) {
	start := day(2025, time.December, 13)
	end := day(2025, time.December, 17)

	events := []ChangeEvent{
		{ProductID: 1, ValidAt: day(2025, time.December, 13), Price: 100},
		{ProductID: 1, ValidAt: day(2025, time.December, 16), Price: 200},
	}

	rows := BuildDenseGrid(events, start, end)
	require.Len(t, rows, 5)

	wantPrices := []int64{100, 100, 100, 200, 200}
	for i, row := range rows {
		assert.Equal(t, wantPrices[i], row.Price, "day %s", row.Day.Format("2006-01-02"))
	}
}

func TestBuildDenseGridOmitsDaysBeforeFirstEvent(t *testing.T) {
	start := day(2025, time.December, 13)
	end := day(2025, time.December, 20)

	events := []ChangeEvent{
		{ProductID: 1, ValidAt: day(2025, time.December, 16), Price: 300},
	}

	rows := BuildDenseGrid(events, start, end)
	require.Len(t, rows, 5)
	assert.Equal(t, day(2025, time.December, 16), rows[0].Day)
	for _, row := range rows {
		assert.Equal(t, int64(300), row.Price)
	}
}

func TestBuildDenseGridNoEventsNoRows(t *testing.T) {
	rows := BuildDenseGrid(nil, day(2025, time.December, 13), day(2026, time.April, 12))
	assert.Empty(t, rows)
}

func TestBuildDenseGridLatestEventPerDayWins(t *testing.T) {
	start := day(2025, time.December, 13)
	end := day(2025, time.December, 14)

	// two events effective the same day: the later arrival supersedes
	events := []ChangeEvent{
		{ProductID: 1, ValidAt: day(2025, time.December, 13), Price: 100},
		{ProductID: 1, ValidAt: day(2025, time.December, 13), Price: 150},
	}

	rows := BuildDenseGrid(events, start, end)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(150), rows[0].Price)
	assert.Equal(t, int64(150), rows[1].Price)
}

func TestBuildDenseGridInputOrderIrrelevant(t *testing.T) {
	start := day(2025, time.December, 13)
	end := day(2026, time.January, 13)

	events := []ChangeEvent{
		{ProductID: 1, ValidAt: day(2025, time.December, 20), Price: 200},
		{ProductID: 2, ValidAt: day(2025, time.December, 1), Price: 900},
		{ProductID: 1, ValidAt: day(2025, time.December, 1), Price: 100},
		{ProductID: 1, ValidAt: day(2026, time.January, 1), Price: 300},
	}
	reordered := []ChangeEvent{events[3], events[0], events[2], events[1]}

	assert.Equal(t, BuildDenseGrid(events, start, end), BuildDenseGrid(reordered, start, end))
}

func TestBuildDenseGridIgnoresEventsBeyondRangeEnd(t *testing.T) {
	start := day(2025, time.December, 13)
	end := day(2025, time.December, 15)

	events := []ChangeEvent{
		{ProductID: 1, ValidAt: day(2025, time.December, 13), Price: 100},
		// fetched but past the range end, must never advance the cursor
		{ProductID: 1, ValidAt: day(2026, time.February, 1), Price: 999},
	}

	rows := BuildDenseGrid(events, start, end)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, int64(100), row.Price)
	}
}

func TestBuildDenseGridSkipsNullKeys(t *testing.T) {
	start := day(2025, time.December, 13)
	end := day(2025, time.December, 14)

	events := []ChangeEvent{
		{ProductID: 0, ValidAt: day(2025, time.December, 1), Price: 100},
		{ProductID: 1, ValidAt: time.Time{}, Price: 100},
	}

	assert.Empty(t, BuildDenseGrid(events, start, end))
}
