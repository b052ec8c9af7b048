package mode

import "fmt"

// Mode is the requested result ordering.
type Mode string

// Sort mode constants.
const (
	// Hot ranks by weighted votes.
	Hot      Mode = "hot"
	Comments Mode = "comments"
	Sats     Mode = "sats"
	// Recent ranks purely by creation time once lexical matching has filtered the set.
	Recent Mode = "recent"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hot || m == Comments || m == Sats || m == Recent
}

// Parse converts a request value into a Mode. Empty input means Hot.
func Parse(s string) (Mode, error) {
	if s == "" {
		return Hot, nil
	}
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid sort mode: %q", s)
	}
	return m, nil
}
