package services

import (
	"quizengine/session"
)

// ItemView is the wire form of a presentation item. Exactly one of Question and Context is set,
// as told by Kind.
type ItemView struct {
	Kind     session.ItemKind `json:"kind"`
	Question *QuestionView    `json:"question,omitempty"`
	Context  *ContextView     `json:"context,omitempty"`
}

type ContextView struct {
	Position  int            `json:"position"`
	ContextID uint           `json:"context_id"`
	Prompt    string         `json:"prompt"`
	Image     string         `json:"image,omitempty"`
	Questions []QuestionView `json:"questions"`
}

type QuestionView struct {
	ID      uint         `json:"id"`
	Index   int          `json:"index"` // position in the flattened navigation order
	Title   string       `json:"title"`
	Image   string       `json:"image,omitempty"`
	Options []OptionView `json:"options"`

	// Only revealed once the question is answered.
	SelectedOption *uint `json:"selected_option,omitempty"`
	CorrectOption  *uint `json:"correct_option,omitempty"`
}

type OptionView struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
}

type CellView struct {
	Index      int               `json:"index"`
	QuestionID uint              `json:"question_id"`
	State      session.CellState `json:"state"`
}

type AttemptView struct {
	AttemptID    string           `json:"attempt_id"`
	QuizID       uint             `json:"quiz_id"`
	Items        []ItemView       `json:"items"`
	JumpTable    []CellView       `json:"jump_table"`
	CurrentIndex int              `json:"current_index"`
	Progress     session.Progress `json:"progress"`
}

type CommitView struct {
	Status        session.CommitStatus `json:"status"`
	Answer        session.Answer       `json:"answer"`
	IsCorrect     bool                 `json:"is_correct"`
	CorrectOption uint                 `json:"correct_option"`
	Progress      session.Progress     `json:"progress"`
}

type SequenceView struct {
	QuizID      uint            `json:"quiz_id"`
	Items       []ItemView      `json:"items"`
	Order       []uint          `json:"order"`
	Issues      []session.Issue `json:"issues"`
	IsEmptyQuiz bool            `json:"is_empty_quiz"`
}

// answerLookup reports the committed answer of a question, if any.
type answerLookup func(questionID uint) (session.Answer, bool)

func noAnswers(uint) (session.Answer, bool) { return session.Answer{}, false }

func buildItemViews(seq *session.Sequence, answers answerLookup) []ItemView {
	items := seq.Items()
	out := make([]ItemView, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case session.StandaloneQuestion:
			qv := buildQuestionView(seq, it.Question, answers)
			out = append(out, ItemView{Kind: it.Kind(), Question: &qv})
		case session.ContextGroup:
			cv := ContextView{
				Position:  it.Position,
				ContextID: it.ContextID,
				Prompt:    it.Prompt,
				Image:     it.Image,
				Questions: make([]QuestionView, len(it.Questions)),
			}
			for i, q := range it.Questions {
				cv.Questions[i] = buildQuestionView(seq, q, answers)
			}
			out = append(out, ItemView{Kind: it.Kind(), Context: &cv})
		}
	}
	return out
}

func buildQuestionView(seq *session.Sequence, q session.Question, answers answerLookup) QuestionView {
	index, _ := seq.Position(q.ID)
	qv := QuestionView{
		ID:      q.ID,
		Index:   index,
		Title:   q.Title,
		Image:   q.Image,
		Options: make([]OptionView, len(q.Options)),
	}
	for i, o := range q.Options {
		qv.Options[i] = OptionView{ID: o.ID, Title: o.Title, Image: o.Image}
	}
	if a, ok := answers(q.ID); ok {
		selected := a.OptionID
		correct := q.CorrectOption
		qv.SelectedOption = &selected
		qv.CorrectOption = &correct
	}
	return qv
}

func buildAttemptView(attemptID string, quizID uint, s *session.Session) *AttemptView {
	table := s.Cursor.JumpTable()
	cells := make([]CellView, len(table))
	for i, cell := range table {
		cells[i] = CellView{Index: cell.Index, QuestionID: cell.QuestionID, State: cell.State()}
	}
	return &AttemptView{
		AttemptID:    attemptID,
		QuizID:       quizID,
		Items:        buildItemViews(s.Sequence, s.Ledger.AnswerFor),
		JumpTable:    cells,
		CurrentIndex: s.Cursor.Current(),
		Progress:     s.Progress(),
	}
}
