package geocode

import (
	"context"
	"time"

	"github.com/paulmach/orb"
)

// Fix is a resolved "current location".
type Fix struct {
	Description string
	Point       orb.Point
	At          time.Time
}

// Locator supplies the device's current location.
type Locator interface {
	CurrentLocation(ctx context.Context) (Fix, error)
}

// PlaceholderLocator stands in for a real position source by geocoding a
// fixed query. Swap it for a GPS-backed Locator when one exists.
type PlaceholderLocator struct {
	geocoder Geocoder
	query    string
	now      func() time.Time
}

func NewPlaceholderLocator(geocoder Geocoder, query string) *PlaceholderLocator {
	return &PlaceholderLocator{
		geocoder: geocoder,
		query:    query,
		now:      time.Now,
	}
}

func (l *PlaceholderLocator) CurrentLocation(ctx context.Context) (Fix, error) {
	result, err := l.geocoder.Geocode(ctx, l.query)
	if err != nil {
		return Fix{}, err
	}
	return Fix{
		Description: result.String(),
		Point:       result.Point,
		At:          l.now(),
	}, nil
}
