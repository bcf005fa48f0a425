package session

import (
	"time"

	"github.com/pkg/errors"
)

// Ledger holds at most one committed answer per question of a sequence. Answers are write-once:
// a second commit for the same question returns the first answer untouched.
type Ledger struct {
	seq     *Sequence
	answers map[uint]Answer
	now     func() time.Time
}

func NewLedger(seq *Sequence) *Ledger {
	return &Ledger{
		seq:     seq,
		answers: make(map[uint]Answer),
		now:     time.Now,
	}
}

func (l *Ledger) Commit(questionID, optionID, userID uint) (CommitResult, error) {
	q, ok := l.seq.Question(questionID)
	if !ok {
		return CommitResult{}, errors.Wrapf(ErrUnknownQuestion, "question %d", questionID)
	}
	if existing, ok := l.answers[questionID]; ok {
		return CommitResult{Answer: existing, Status: AlreadyAnswered}, nil
	}
	if optionID == 0 || !q.HasOption(optionID) {
		return CommitResult{}, errors.Wrapf(ErrUnknownOption, "option %d of question %d", optionID, questionID)
	}

	a := Answer{
		QuestionID:  questionID,
		OptionID:    optionID,
		UserID:      userID,
		CommittedAt: l.now(),
	}
	l.answers[questionID] = a
	return CommitResult{Answer: a, Status: Accepted}, nil
}

// Restore re-applies previously committed answers, e.g. from a cached snapshot. The first
// answer per question wins, as with Commit. The whole slice is checked before any answer is
// applied, so a failed Restore leaves the ledger unchanged.
func (l *Ledger) Restore(answers []Answer) error {
	for _, a := range answers {
		q, ok := l.seq.Question(a.QuestionID)
		if !ok {
			return errors.Wrapf(ErrUnknownQuestion, "restore question %d", a.QuestionID)
		}
		if !q.HasOption(a.OptionID) {
			return errors.Wrapf(ErrUnknownOption, "restore option %d of question %d", a.OptionID, a.QuestionID)
		}
	}

	for _, a := range answers {
		if _, ok := l.answers[a.QuestionID]; ok {
			continue
		}
		l.answers[a.QuestionID] = a
	}
	return nil
}

func (l *Ledger) IsAnswered(questionID uint) bool {
	_, ok := l.answers[questionID]
	return ok
}

func (l *Ledger) AnswerFor(questionID uint) (Answer, bool) {
	a, ok := l.answers[questionID]
	return a, ok
}

// Answers returns the committed answers in flattened sequence order.
func (l *Ledger) Answers() []Answer {
	out := make([]Answer, 0, len(l.answers))
	for _, id := range l.seq.QuestionIDs() {
		if a, ok := l.answers[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

func (l *Ledger) Count() int { return len(l.answers) }

// Progress reports how far the learner is through totalQuestions questions.
func (l *Ledger) Progress(totalQuestions int) Progress {
	answered := len(l.answers)
	p := Progress{AnsweredCount: answered}
	if totalQuestions <= 0 {
		return p
	}

	p.RemainingCount = totalQuestions - answered
	if p.RemainingCount < 0 {
		p.RemainingCount = 0
	}
	p.Percent = float64(answered) / float64(totalQuestions) * 100
	if p.Percent > 100 {
		p.Percent = 100
	}
	return p
}
