package model

import (
	"fmt"
	"time"
)

// TimeWindow is a closed interval [Start, End] within the API's maximum
// query span.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Span returns the length of the window.
func (w TimeWindow) Span() time.Duration {
	return w.End.Sub(w.Start)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s]", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}
