package utility

import (
	"github.com/google/uuid"
)

func NewUUID() string {
	return uuid.New().String()
}

// Truncate cuts a string for log output without panicking on short input.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
