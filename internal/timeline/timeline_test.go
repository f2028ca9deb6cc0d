package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/deltacargo-server/internal/model"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for i, s := range Stages() {
		idx, known := Lookup(s.Label)
		assert.True(t, known)
		assert.Equal(t, i, idx)
	}

	idx, known := Lookup("Lost at sea")
	assert.False(t, known)
	assert.Equal(t, 0, idx)
}

func TestBuild_RegionalWarehouse(t *testing.T) {
	t.Parallel()

	created := time.Date(2023, 12, 28, 9, 30, 0, 0, time.UTC)
	track := model.Track{
		Number:        "KZ123",
		Status:        StageRegionalA,
		DepartureDate: date(2024, 1, 1),
		CreatedAt:     created,
	}

	tl := Build(track, time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC))
	require.Len(t, tl.Events, 6)
	assert.False(t, tl.Unknown)

	completed := 0
	for _, ev := range tl.Events {
		if ev.Completed {
			completed++
		}
	}
	assert.Equal(t, 4, completed)

	assert.Equal(t, "28.12.2023 09:30", tl.Events[0].Date)
	assert.Equal(t, "01.01.2024 00:00", tl.Events[1].Date)
	assert.Equal(t, "06.01.2024 00:00", tl.Events[2].Date)
	assert.Equal(t, *date(2024, 1, 6), tl.Events[2].At)
	assert.Equal(t, "11.01.2024 00:00", tl.Events[3].Date)
	assert.Equal(t, *date(2024, 1, 11), tl.Events[3].At)

	for _, ev := range tl.Events[4:] {
		assert.False(t, ev.Completed)
		assert.Equal(t, Placeholder, ev.Date)
		assert.True(t, ev.At.IsZero())
	}
}

func TestBuild_FixedOrder(t *testing.T) {
	t.Parallel()

	tl := Build(model.Track{Status: StageDelivered, DepartureDate: date(2024, 3, 1)}, time.Now())
	require.Len(t, tl.Events, 6)
	for i, s := range Stages() {
		assert.Equal(t, s.Label, tl.Events[i].Stage)
		assert.True(t, tl.Events[i].Completed)
	}
	assert.Equal(t, "16.03.2024 00:00", tl.Events[5].Date)
	assert.Equal(t, "11.03.2024 00:00", tl.Events[4].Date)
}

func TestBuild_NoDepartureDateUsesToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 18, 45, 0, 0, time.UTC)
	tl := Build(model.Track{Status: StageInTransit}, now)

	assert.Equal(t, "10.05.2024 00:00", tl.Events[0].Date)
	assert.Equal(t, "10.05.2024 00:00", tl.Events[1].Date)
	assert.Equal(t, "15.05.2024 00:00", tl.Events[2].Date)
	assert.False(t, tl.Events[3].Completed)
}

func TestBuild_UnknownStatus(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	tl := Build(model.Track{Status: "Lost at sea", CreatedAt: created}, created)

	assert.True(t, tl.Unknown)
	assert.True(t, tl.Events[0].Completed)
	for _, ev := range tl.Events[1:] {
		assert.False(t, ev.Completed)
	}
}

func TestBuild_EmptyStatusIsRegistered(t *testing.T) {
	t.Parallel()

	tl := Build(model.Track{}, time.Now())
	assert.False(t, tl.Unknown)
	assert.True(t, tl.Events[0].Completed)
	assert.False(t, tl.Events[1].Completed)
}

func TestDeliverable(t *testing.T) {
	t.Parallel()

	assert.True(t, Deliverable(StageRegionalA))
	assert.True(t, Deliverable(StageRegionalB))
	assert.False(t, Deliverable(StageInTransit))
	assert.False(t, Deliverable(StageDelivered))
}
