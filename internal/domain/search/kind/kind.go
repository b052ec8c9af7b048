// Package kind selects which item kinds a search covers.
package kind

import "fmt"

// Kind restricts results to posts, comments, or both.
type Kind string

// Kind constants.
const (
	All      Kind = "all"
	Posts    Kind = "posts"
	Comments Kind = "comments"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == All || k == Posts || k == Comments
}

// Parse converts a request value into a Kind. Empty input means All.
func Parse(s string) (Kind, error) {
	if s == "" {
		return All, nil
	}
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid content kind: %q", s)
	}
	return k, nil
}
