package booking

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
)

const night = 24 * time.Hour

// StayRange is a half-open interval [CheckIn, CheckOut).
type StayRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStayRange validates that check-in is strictly before check-out.
func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	if !checkIn.Before(checkOut) {
		return StayRange{}, domain.NewInvalidRangeError("Check-out must be after check-in")
	}
	return StayRange{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps and plain calendar dates (midnight UTC).
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewValidationError(fmt.Sprintf("Invalid %s date", field))
}

// ParseStayRange parses both bounds and validates their order.
func ParseStayRange(checkIn, checkOut string) (StayRange, error) {
	in, err := ParseDate("check-in", checkIn)
	if err != nil {
		return StayRange{}, err
	}
	out, err := ParseDate("check-out", checkOut)
	if err != nil {
		return StayRange{}, err
	}
	return NewStayRange(in, out)
}

// Overlaps reports whether two half-open ranges share at least one instant.
// Back-to-back stays (one checks out when the other checks in) do not overlap.
func (r StayRange) Overlaps(other StayRange) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

// Contains reports whether t falls inside the range.
func (r StayRange) Contains(t time.Time) bool {
	return !t.Before(r.CheckIn) && t.Before(r.CheckOut)
}

// Nights returns the number of billable nights; partial days round up.
func (r StayRange) Nights() int {
	return int(math.Ceil(float64(r.CheckOut.Sub(r.CheckIn)) / float64(night)))
}

// TotalAmount is pricePerNight * roomsCount * nights.
func TotalAmount(pricePerNight float64, roomsCount, nights int) float64 {
	return pricePerNight * float64(roomsCount) * float64(nights)
}
