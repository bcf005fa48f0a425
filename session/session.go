// Package session is the quiz session engine: it assembles a quiz into a presentation
// sequence, records write-once answers and tracks the navigation cursor of one attempt.
//
// Nothing in this package locks. A Session belongs to a single learner attempt and callers
// must serialize Commit and Seek for it.
package session

import (
	"github.com/pkg/errors"
)

type Session struct {
	Sequence *Sequence
	Ledger   *Ledger
	Cursor   *Cursor
	Issues   []Issue
}

func New(quiz Quiz) *Session {
	seq, issues := Assemble(quiz)
	ledger := NewLedger(seq)
	return &Session{
		Sequence: seq,
		Ledger:   ledger,
		Cursor:   NewCursor(seq, ledger),
		Issues:   issues,
	}
}

func (s *Session) Commit(questionID, optionID, userID uint) (CommitResult, error) {
	return s.Ledger.Commit(questionID, optionID, userID)
}

func (s *Session) Seek(index int) error { return s.Cursor.Seek(index) }

func (s *Session) Progress() Progress { return s.Ledger.Progress(s.Sequence.Len()) }

// Snapshot is the mutable part of a session, enough to rebuild it on top of a freshly
// assembled sequence of the same quiz.
type Snapshot struct {
	Answers []Answer `json:"answers"`
	Index   int      `json:"index"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Answers: s.Ledger.Answers(),
		Index:   s.Cursor.Current(),
	}
}

// Restore applies a snapshot taken from a session of the same quiz.
func (s *Session) Restore(snap Snapshot) error {
	if err := s.Ledger.Restore(snap.Answers); err != nil {
		return err
	}
	if s.Sequence.Len() == 0 {
		return nil
	}
	if err := s.Cursor.Seek(snap.Index); err != nil {
		return errors.Wrap(err, "restore cursor")
	}
	return nil
}
