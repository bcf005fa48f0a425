package session

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxID(id uint) *uint { return &id }

func q(id uint, contextID *uint) Question {
	return Question{
		ID:        id,
		Title:     "question",
		ContextID: contextID,
		Options: []Option{
			{ID: id*10 + 1, Title: "a", Order: 1, IsCorrect: true},
			{ID: id*10 + 2, Title: "b", Order: 2},
		},
	}
}

func ids(items []Item) [][]uint {
	out := make([][]uint, len(items))
	for i, it := range items {
		out[i] = it.QuestionIDs()
	}
	return out
}

func TestAssembleExample(t *testing.T) {
	quiz := Quiz{
		Questions: []Question{q(1, nil), q(2, ctxID(10))},
		Contexts:  []Context{{ID: 10, Prompt: "passage", Questions: []Question{q(2, ctxID(10))}}},
	}

	seq, issues := Assemble(quiz)
	assert.Empty(t, issues)

	items := seq.Items()
	require.Len(t, items, 2)
	assert.Equal(t, KindStandalone, items[0].Kind())
	assert.Equal(t, KindContextGroup, items[1].Kind())

	group := items[1].(ContextGroup)
	assert.Equal(t, uint(10), group.ContextID)
	assert.Equal(t, 0, group.Position)
	assert.Equal(t, []uint{2}, group.QuestionIDs())
	assert.Equal(t, []uint{1, 2}, seq.QuestionIDs())
}

func TestAssembleOrdering(t *testing.T) {
	tests := []struct {
		name   string
		quiz   Quiz
		items  [][]uint
		order  []uint
		issues int
	}{
		{
			name:  "empty quiz",
			quiz:  Quiz{},
			items: [][]uint{},
			order: []uint{},
		},
		{
			name: "standalone items precede groups regardless of source interleaving",
			quiz: Quiz{
				Questions: []Question{q(5, ctxID(100)), q(3, nil), q(6, ctxID(200)), q(1, nil)},
				Contexts: []Context{
					{ID: 200, Questions: []Question{q(6, nil)}},
					{ID: 100, Questions: []Question{q(5, nil)}},
				},
			},
			items: [][]uint{{3}, {1}, {6}, {5}},
			order: []uint{3, 1, 6, 5},
		},
		{
			name: "nested order kept as supplied",
			quiz: Quiz{
				Contexts: []Context{{ID: 7, Questions: []Question{q(9, nil), q(4, nil), q(8, nil)}}},
			},
			items: [][]uint{{9, 4, 8}},
			order: []uint{9, 4, 8},
		},
		{
			name: "orphan grouping key rendered standalone",
			quiz: Quiz{
				Questions: []Question{q(1, ctxID(99))},
			},
			items:  [][]uint{{1}},
			order:  []uint{1},
			issues: 1,
		},
		{
			name: "grouping key resolves but context does not list the question",
			quiz: Quiz{
				Questions: []Question{q(1, ctxID(10)), q(2, ctxID(10))},
				Contexts:  []Context{{ID: 10, Questions: []Question{q(2, nil)}}},
			},
			items:  [][]uint{{1}, {2}},
			order:  []uint{1, 2},
			issues: 1,
		},
		{
			name: "ungrouped question listed by a context is only rendered in the context",
			quiz: Quiz{
				Questions: []Question{q(1, nil), q(2, nil)},
				Contexts:  []Context{{ID: 10, Questions: []Question{q(2, nil)}}},
			},
			items: [][]uint{{1}, {2}},
			order: []uint{1, 2},
		},
		{
			name: "duplicates dropped",
			quiz: Quiz{
				Questions: []Question{q(1, nil), q(1, nil), q(2, nil)},
				Contexts: []Context{
					{ID: 10, Questions: []Question{q(3, nil), q(3, nil)}},
					{ID: 11, Questions: []Question{q(3, nil), q(4, nil)}},
				},
			},
			items:  [][]uint{{1}, {2}, {3}, {4}},
			order:  []uint{1, 2, 3, 4},
			issues: 3,
		},
		{
			name: "context without questions still yields a group",
			quiz: Quiz{
				Contexts: []Context{{ID: 10}},
			},
			items: [][]uint{{}},
			order: []uint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, issues := Assemble(tt.quiz)
			assert.Equal(t, tt.items, ids(seq.Items()))
			assert.Equal(t, tt.order, seq.QuestionIDs())
			assert.Len(t, issues, tt.issues)
		})
	}
}

func TestAssembleEmptyQuiz(t *testing.T) {
	seq, issues := Assemble(Quiz{})
	assert.True(t, seq.Empty())
	assert.Equal(t, 0, seq.Len())
	assert.Nil(t, issues)
}

func TestAssembleCompleteness(t *testing.T) {
	quiz := Quiz{
		Questions: []Question{q(1, nil), q(2, ctxID(10)), q(3, ctxID(77)), q(4, nil), q(2, nil)},
		Contexts: []Context{
			{ID: 10, Questions: []Question{q(2, ctxID(10)), q(5, ctxID(10))}},
			{ID: 11, Questions: []Question{q(4, nil), q(6, ctxID(11))}},
		},
	}

	seq, _ := Assemble(quiz)

	want := map[uint]bool{}
	for _, qq := range quiz.Questions {
		want[qq.ID] = true
	}
	for _, c := range quiz.Contexts {
		for _, qq := range c.Questions {
			want[qq.ID] = true
		}
	}

	got := map[uint]int{}
	for _, id := range seq.QuestionIDs() {
		got[id]++
	}
	assert.Len(t, got, len(want))
	for id := range want {
		assert.Equal(t, 1, got[id], "question %d", id)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	quiz := Quiz{
		Questions: []Question{q(3, nil), q(1, ctxID(10)), q(2, nil)},
		Contexts:  []Context{{ID: 10, Questions: []Question{q(1, nil)}}},
	}

	a, _ := Assemble(quiz)
	b, _ := Assemble(quiz)
	assert.Equal(t, a.Items(), b.Items())
	assert.Equal(t, a.QuestionIDs(), b.QuestionIDs())
}

func TestAssembleNormalizesQuestions(t *testing.T) {
	quiz := Quiz{
		Questions: []Question{
			{
				ID:    1,
				Image: "   ",
				Options: []Option{
					{ID: 12, Order: 2, IsCorrect: true, Image: ""},
					{ID: 11, Order: 1, Image: "a.png"},
				},
			},
			{ID: 2, Options: []Option{{ID: 21}, {ID: 22}}},
			{ID: 3, Options: []Option{{ID: 31, IsCorrect: true}, {ID: 32, IsCorrect: true}}},
		},
	}

	seq, issues := Assemble(quiz)

	q1, ok := seq.Question(1)
	require.True(t, ok)
	assert.Equal(t, NoImage, q1.Image)
	assert.Equal(t, uint(12), q1.CorrectOption)
	assert.Equal(t, uint(11), q1.Options[0].ID)
	assert.Equal(t, "a.png", q1.Options[0].Image)

	q2, _ := seq.Question(2)
	assert.Equal(t, NoCorrectOption, q2.CorrectOption)

	q3, _ := seq.Question(3)
	assert.Equal(t, uint(31), q3.CorrectOption)

	require.Len(t, issues, 2)
	for _, issue := range issues {
		assert.True(t, errors.Is(issue, ErrMalformedInput))
	}
	assert.Equal(t, uint(2), issues[0].QuestionID)
	assert.Equal(t, "no correct option", issues[0].Reason)
	assert.Equal(t, "more than one correct option", issues[1].Reason)
}

func TestAssembleMissingIdentity(t *testing.T) {
	quiz := Quiz{
		Questions: []Question{{Title: "no id"}, q(1, nil)},
		Contexts:  []Context{{Prompt: "no id", Questions: []Question{q(2, nil), {Title: "no id"}}}},
	}

	seq, issues := Assemble(quiz)

	assert.Equal(t, []uint{1, 2}, seq.QuestionIDs())
	require.Len(t, issues, 3)
	assert.Equal(t, "context has no id", issues[0].Reason)
	assert.Equal(t, 0, issues[0].ContextPosition)

	group := seq.Items()[1].(ContextGroup)
	assert.Equal(t, uint(0), group.ContextID)
	assert.Nil(t, group.Questions[0].ContextID)
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	quiz := Quiz{
		Questions: []Question{{ID: 1, Options: []Option{{ID: 2, Order: 2}, {ID: 1, Order: 1, IsCorrect: true}}}},
	}

	Assemble(quiz)
	assert.Equal(t, uint(2), quiz.Questions[0].Options[0].ID)
	assert.Equal(t, NoCorrectOption, quiz.Questions[0].CorrectOption)
}

func TestSequenceLookups(t *testing.T) {
	seq, _ := Assemble(Quiz{
		Questions: []Question{q(1, nil)},
		Contexts:  []Context{{ID: 10, Questions: []Question{q(2, nil), q(3, nil)}}},
	})

	pos, ok := seq.Position(3)
	assert.True(t, ok)
	assert.Equal(t, 2, pos)

	item, ok := seq.ItemIndexOf(2)
	assert.True(t, ok)
	assert.Equal(t, 1, item)

	_, ok = seq.ItemIndexOf(3)
	assert.False(t, ok)

	_, ok = seq.QuestionAt(-1)
	assert.False(t, ok)
	assert.False(t, seq.Contains(4))
}
