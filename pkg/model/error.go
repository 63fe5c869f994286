package model

import "fmt"

// APIError is a domain-level error embedded in an otherwise successful
// transport response.
type APIError struct {
	Code         int    `json:"code"`
	ShortMessage string `json:"short_message"`
	LongMessage  string `json:"long_message,omitempty"`
}

// String formats the error the way it appears in aggregated messages.
func (e APIError) String() string {
	return fmt.Sprintf("{Code:%d,ShortMessage:%s,LongMessage:%s}", e.Code, e.ShortMessage, e.LongMessage)
}
