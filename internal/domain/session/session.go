package session

import "fmt"

// MaxIDLength bounds session ids, which end up inside store keys.
const MaxIDLength = 128

// ID identifies one search box instance (a browser tab, a saved view).
type ID struct {
	value string
}

// NewID validates and creates a session ID.
// Allowed characters: ASCII letters, digits, '-', '_' and '.'.
func NewID(value string) (ID, error) {
	if value == "" {
		return ID{}, fmt.Errorf("session id is required")
	}
	if len(value) > MaxIDLength {
		return ID{}, fmt.Errorf("session id too long (max %d)", MaxIDLength)
	}
	for i := 0; i < len(value); i++ {
		if !isIDChar(value[i]) {
			return ID{}, fmt.Errorf("session id contains invalid character %q", value[i])
		}
	}
	return ID{value: value}, nil
}

func isIDChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}

// String returns the raw id.
func (id ID) String() string { return id.value }

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool { return id.value == "" }
