package session

import "time"

const (
	// NoImage marks a question, option or context without an image.
	NoImage = ""
	// NoCorrectOption is the CorrectOption of a question none of whose options is flagged correct.
	NoCorrectOption uint = 0
)

type Option struct {
	ID        uint   `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Image     string `json:"image,omitempty" yaml:"image,omitempty"`
	IsCorrect bool   `json:"is_correct" yaml:"is_correct"`
	Order     int    `json:"order" yaml:"order"`
}

type Question struct {
	ID        uint     `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Image     string   `json:"image,omitempty" yaml:"image,omitempty"`
	Options   []Option `json:"options" yaml:"options"`
	ContextID *uint    `json:"context_id,omitempty" yaml:"context_id,omitempty"`

	// Filled in by Assemble.
	CorrectOption uint `json:"correct_option" yaml:"-"`
}

// HasOption reports whether optionID belongs to the question.
func (q Question) HasOption(optionID uint) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

type Context struct {
	ID        uint       `json:"id" yaml:"id"`
	Prompt    string     `json:"prompt" yaml:"prompt"`
	Image     string     `json:"image,omitempty" yaml:"image,omitempty"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Quiz is the payload handed over by the data source.
type Quiz struct {
	ID        uint       `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
	Contexts  []Context  `json:"contexts" yaml:"contexts"`
}

type ItemKind string

const (
	KindStandalone   ItemKind = "question"
	KindContextGroup ItemKind = "context"
)

// Item is one renderable unit of a Sequence: a StandaloneQuestion or a ContextGroup.
type Item interface {
	Kind() ItemKind
	// QuestionIDs lists the navigable questions of the item in reading order.
	QuestionIDs() []uint
	isItem()
}

type StandaloneQuestion struct {
	Question Question `json:"question"`
}

func (StandaloneQuestion) Kind() ItemKind { return KindStandalone }

func (s StandaloneQuestion) QuestionIDs() []uint { return []uint{s.Question.ID} }

func (StandaloneQuestion) isItem() {}

// ContextGroup is a context passage with its member questions. Position is the index of the
// context in Quiz.Contexts and is what identifies the group; context ids are not guaranteed to
// be unique or distinct from question ids.
type ContextGroup struct {
	Position  int        `json:"position"`
	ContextID uint       `json:"context_id"`
	Prompt    string     `json:"prompt"`
	Image     string     `json:"image,omitempty"`
	Questions []Question `json:"questions"`
}

func (ContextGroup) Kind() ItemKind { return KindContextGroup }

func (g ContextGroup) QuestionIDs() []uint {
	ids := make([]uint, len(g.Questions))
	for i, q := range g.Questions {
		ids[i] = q.ID
	}
	return ids
}

func (ContextGroup) isItem() {}

type Answer struct {
	QuestionID  uint      `json:"question_id"`
	OptionID    uint      `json:"option_id"`
	UserID      uint      `json:"user_id"`
	CommittedAt time.Time `json:"committed_at"`
}

type CommitStatus string

const (
	Accepted        CommitStatus = "accepted"
	AlreadyAnswered CommitStatus = "already_answered"
)

type CommitResult struct {
	Answer Answer       `json:"answer"`
	Status CommitStatus `json:"status"`
}

type Progress struct {
	AnsweredCount  int     `json:"answered_count"`
	RemainingCount int     `json:"remaining_count"`
	Percent        float64 `json:"percent"`
}
