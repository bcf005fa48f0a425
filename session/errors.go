package session

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMalformedInput  = errors.New("malformed quiz input")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownOption   = errors.New("unknown option")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrEmptySequence   = errors.New("quiz has no questions")
)

// Issue is a data-quality problem found while assembling a quiz. Assembly carries on past it.
type Issue struct {
	// ContextPosition is the index into Quiz.Contexts, or -1 for a top-level question.
	ContextPosition int    `json:"context_position"`
	QuestionID      uint   `json:"question_id,omitempty"`
	Reason          string `json:"reason"`
}

func (i Issue) Error() string {
	if i.ContextPosition >= 0 {
		return fmt.Sprintf("%s: context #%d question %d: %s", ErrMalformedInput, i.ContextPosition, i.QuestionID, i.Reason)
	}
	return fmt.Sprintf("%s: question %d: %s", ErrMalformedInput, i.QuestionID, i.Reason)
}

func (i Issue) Unwrap() error { return ErrMalformedInput }
