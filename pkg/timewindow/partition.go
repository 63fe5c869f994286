// Package timewindow splits an arbitrary time range into windows that each
// fit inside the marketplace's maximum query span.
package timewindow

import (
	"errors"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
)

// Resolution is the amount subtracted from a window's closing boundary so
// that it does not overlap the next window's start.
const Resolution = time.Nanosecond

// ErrInvalidSpan is returned when the maximum span is not positive.
var ErrInvalidSpan = errors.New("max span must be positive")

// Partition returns the ordered boundaries of the windows covering
// [from, to]. Read pairwise, boundaries b[i], b[i+1] delimit one window.
//
// A reversed range yields no boundaries. from == to yields the single
// boundary from, which Windows turns into one degenerate window.
func Partition(from, to time.Time, maxSpan time.Duration) ([]time.Time, error) {
	if maxSpan <= 0 {
		return nil, ErrInvalidSpan
	}
	if to.Before(from) {
		return []time.Time{}, nil
	}

	boundaries := []time.Time{from}
	for cursor := from; cursor.Before(to); {
		cursor = cursor.Add(maxSpan)
		if cursor.Before(to) {
			boundaries = append(boundaries, cursor)
		} else {
			boundaries = append(boundaries, to)
		}
	}

	return boundaries, nil
}

// Windows partitions [from, to] into closed windows. Every window except
// the last ends one Resolution before the next one starts; the last ends
// exactly at to, so the union is exactly [from, to].
func Windows(from, to time.Time, maxSpan time.Duration) ([]model.TimeWindow, error) {
	boundaries, err := Partition(from, to, maxSpan)
	if err != nil {
		return nil, err
	}

	switch len(boundaries) {
	case 0:
		return []model.TimeWindow{}, nil
	case 1:
		return []model.TimeWindow{{Start: boundaries[0], End: boundaries[0]}}, nil
	}

	windows := make([]model.TimeWindow, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		end := boundaries[i+1].Add(-Resolution)
		if i == len(boundaries)-2 {
			end = boundaries[i+1]
		}
		windows = append(windows, model.TimeWindow{Start: boundaries[i], End: end})
	}

	return windows, nil
}
