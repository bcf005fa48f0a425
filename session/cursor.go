package session

import (
	"github.com/pkg/errors"
)

type CellState string

const (
	CellCurrent    CellState = "current"
	CellAnswered   CellState = "answered"
	CellUnanswered CellState = "unanswered"
)

// CellStatus is the state of one position of the jump table.
type CellStatus struct {
	Index      int  `json:"index"`
	QuestionID uint `json:"question_id"`
	IsCurrent  bool `json:"is_current"`
	IsAnswered bool `json:"is_answered"`
}

// State collapses the flags into the single state a cell is painted with; current wins.
func (c CellStatus) State() CellState {
	switch {
	case c.IsCurrent:
		return CellCurrent
	case c.IsAnswered:
		return CellAnswered
	default:
		return CellUnanswered
	}
}

// Cursor is the current position in the flattened question list of a sequence.
type Cursor struct {
	seq    *Sequence
	ledger *Ledger
	index  int
}

func NewCursor(seq *Sequence, ledger *Ledger) *Cursor {
	c := &Cursor{seq: seq, ledger: ledger}
	if seq.Len() == 0 {
		c.index = -1
	}
	return c
}

// Current returns the cursor position, or -1 when the sequence has no questions.
func (c *Cursor) Current() int { return c.index }

// Seek moves the cursor. An out of range index is rejected and leaves the cursor where it was.
func (c *Cursor) Seek(index int) error {
	if index < 0 || index >= c.seq.Len() {
		return errors.Wrapf(ErrIndexOutOfRange, "seek %d of %d", index, c.seq.Len())
	}
	c.index = index
	return nil
}

func (c *Cursor) Next() error { return c.Seek(c.index + 1) }

func (c *Cursor) Prev() error { return c.Seek(c.index - 1) }

// CurrentQuestion returns the question under the cursor.
func (c *Cursor) CurrentQuestion() (Question, error) {
	q, ok := c.seq.QuestionAt(c.index)
	if !ok {
		return Question{}, ErrEmptySequence
	}
	return q, nil
}

// StatusFor reads the ledger on every call so answers committed elsewhere in the sequence show
// up immediately.
func (c *Cursor) StatusFor(index int) (CellStatus, error) {
	q, ok := c.seq.QuestionAt(index)
	if !ok {
		return CellStatus{}, errors.Wrapf(ErrIndexOutOfRange, "status %d of %d", index, c.seq.Len())
	}
	return CellStatus{
		Index:      index,
		QuestionID: q.ID,
		IsCurrent:  index == c.index,
		IsAnswered: c.ledger.IsAnswered(q.ID),
	}, nil
}

func (c *Cursor) JumpTable() []CellStatus {
	cells := make([]CellStatus, 0, c.seq.Len())
	for i := 0; i < c.seq.Len(); i++ {
		cell, _ := c.StatusFor(i)
		cells = append(cells, cell)
	}
	return cells
}
