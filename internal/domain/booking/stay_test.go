package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func mustStay(t *testing.T, in, out int) StayRange {
	t.Helper()
	s, err := NewStayRange(day(in), day(out))
	require.NoError(t, err)
	return s
}

func TestNewStayRange_RejectsEmptyOrInverted(t *testing.T) {
	_, err := NewStayRange(day(5), day(5))
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidRange, domain.KindOf(err))

	_, err = NewStayRange(day(6), day(5))
	require.Error(t, err)
	assert.Equal(t, "Check-out must be after check-in", err.Error())
}

func TestStayRange_Overlaps(t *testing.T) {
	base := mustStay(t, 10, 15)

	tests := []struct {
		name    string
		in, out int
		want    bool
	}{
		{"identical", 10, 15, true},
		{"inside", 11, 13, true},
		{"covers", 9, 16, true},
		{"straddles start", 8, 11, true},
		{"straddles end", 14, 18, true},
		{"checks out on check-in day", 5, 10, false},
		{"checks in on check-out day", 15, 17, false},
		{"entirely before", 1, 4, false},
		{"entirely after", 20, 22, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := mustStay(t, tt.in, tt.out)
			assert.Equal(t, tt.want, base.Overlaps(other))
			assert.Equal(t, tt.want, other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestStayRange_NightsAndTotal(t *testing.T) {
	assert.Equal(t, 3, mustStay(t, 1, 4).Nights())

	partial, err := NewStayRange(day(1), day(2).Add(6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, partial.Nights(), "partial days round up")

	assert.Equal(t, 600.0, TotalAmount(100, 2, 3))
}

func TestStayRange_Contains(t *testing.T) {
	s := mustStay(t, 10, 12)
	assert.True(t, s.Contains(day(10)))
	assert.True(t, s.Contains(day(11)))
	assert.False(t, s.Contains(day(12)))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("check-in", "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, day(10), got)

	got, err = ParseDate("check-in", "2026-03-10T14:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, day(10).Add(12*time.Hour), got)

	_, err = ParseDate("check-out", "next tuesday")
	require.Error(t, err)
	assert.Equal(t, "Invalid check-out date", err.Error())
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestParseStayRange(t *testing.T) {
	s, err := ParseStayRange("2026-03-01", "2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Nights())

	_, err = ParseStayRange("2026-03-04", "2026-03-01")
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidRange, domain.KindOf(err))
}
