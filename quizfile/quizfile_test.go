package quizfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"quizengine/session"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
title: Reading practice
questions:
  - id: 1
    title: "2 + 2?"
    options:
      - {id: 11, title: "4", is_correct: true, order: 1}
      - {id: 12, title: "5", order: 2}
  - id: 2
    title: "Main idea?"
    context_id: 10
contexts:
  - id: 10
    prompt: "Read the passage."
    questions:
      - id: 2
        title: "Main idea?"
        context_id: 10
        options:
          - {id: 21, title: "A", is_correct: true, order: 1}
          - {id: 22, title: "B", order: 2}
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSourceLoadsYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "5.yaml", sampleYAML)

	quiz, err := NewSource(dir).LoadQuiz(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, uint(5), quiz.ID)
	assert.Equal(t, "Reading practice", quiz.Title)
	require.Len(t, quiz.Contexts, 1)
	require.NotNil(t, quiz.Questions[1].ContextID)
	assert.Equal(t, uint(10), *quiz.Questions[1].ContextID)

	seq, issues := session.Assemble(quiz)
	assert.Empty(t, issues)
	assert.Equal(t, []uint{1, 2}, seq.QuestionIDs())
}

func TestSourceLoadsJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "3.json", `{"id": 3, "title": "json", "questions": [{"id": 1, "title": "q", "options": [{"id": 2, "title": "o", "is_correct": true, "order": 1}]}], "contexts": []}`)

	quiz, err := NewSource(dir).LoadQuiz(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "json", quiz.Title)
	assert.Len(t, quiz.Questions, 1)
}

func TestSourceMissingQuiz(t *testing.T) {
	_, err := NewSource(t.TempDir()).LoadQuiz(context.Background(), 8)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("title: x\nbogus: 1\n"), "q.yaml")
	assert.Error(t, err)

	_, err = Parse([]byte(`{"title": "x", "bogus": 1}`), "q.json")
	assert.Error(t, err)
}

func TestParseRejectsMultipleDocuments(t *testing.T) {
	_, err := Parse([]byte("title: a\n---\ntitle: b\n"), "q.yml")
	assert.EqualError(t, err, "parse yaml: multiple documents are not supported")
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSource(t.TempDir()).LoadQuiz(ctx, 1)
	assert.Equal(t, context.Canceled, err)
}
