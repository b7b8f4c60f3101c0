package feedback

import (
	"strings"

	"servicebay/internal/pkg/errs"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

type Rating struct {
	value int
}

func NewRating(v int) (Rating, error) {
	if v < MinRating || v > MaxRating {
		return Rating{}, errs.NewValidation("rating", "must be between 1 and 5")
	}
	return Rating{value: v}, nil
}

func (r Rating) Value() int { return r.value }

type Comment struct {
	text string
}

// NewComment trims the text; an empty comment is allowed.
func NewComment(s string) (Comment, error) {
	t := strings.TrimSpace(s)
	if len(t) > MaxCommentLength {
		return Comment{}, errs.NewValidation("comment", "must be at most 1000 characters")
	}
	return Comment{text: t}, nil
}

func (c Comment) String() string { return c.text }
