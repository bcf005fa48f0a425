package session

// Sequence is the assembled, immutable presentation order of a quiz. Navigation works on its
// flattened question list, where every member of a context group is one position.
type Sequence struct {
	items     []Item
	questions []Question
	owner     []int // flat position -> item index
	position  map[uint]int
}

func newSequence(items []Item) *Sequence {
	s := &Sequence{
		items:    items,
		position: make(map[uint]int),
	}
	for i, item := range items {
		var qs []Question
		switch it := item.(type) {
		case StandaloneQuestion:
			qs = []Question{it.Question}
		case ContextGroup:
			qs = it.Questions
		}
		for _, q := range qs {
			s.position[q.ID] = len(s.questions)
			s.questions = append(s.questions, q)
			s.owner = append(s.owner, i)
		}
	}
	return s
}

// Items returns a copy of the presentation items.
func (s *Sequence) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len is the number of navigable questions.
func (s *Sequence) Len() int { return len(s.questions) }

func (s *Sequence) Empty() bool { return len(s.items) == 0 }

func (s *Sequence) QuestionAt(index int) (Question, bool) {
	if index < 0 || index >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[index], true
}

// Position returns the flattened index of a question.
func (s *Sequence) Position(questionID uint) (int, bool) {
	p, ok := s.position[questionID]
	return p, ok
}

func (s *Sequence) Contains(questionID uint) bool {
	_, ok := s.position[questionID]
	return ok
}

func (s *Sequence) Question(questionID uint) (Question, bool) {
	p, ok := s.position[questionID]
	if !ok {
		return Question{}, false
	}
	return s.questions[p], true
}

// ItemIndexOf returns the index of the item that renders the question at a flattened index.
func (s *Sequence) ItemIndexOf(index int) (int, bool) {
	if index < 0 || index >= len(s.owner) {
		return 0, false
	}
	return s.owner[index], true
}

// QuestionIDs is the flattened navigable order.
func (s *Sequence) QuestionIDs() []uint {
	ids := make([]uint, len(s.questions))
	for i, q := range s.questions {
		ids[i] = q.ID
	}
	return ids
}
