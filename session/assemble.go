package session

import (
	"sort"
	"strings"
)

// Assemble turns a quiz payload into its presentation sequence: every standalone question in
// source order, followed by one group per context in source order. Questions are deduplicated by
// id; a question listed by a context is only ever rendered inside that context.
//
// Data problems are returned as issues next to the sequence and never abort assembly.
func Assemble(quiz Quiz) (*Sequence, []Issue) {
	var issues []Issue

	known := make(map[uint]bool, len(quiz.Contexts))
	for _, c := range quiz.Contexts {
		if c.ID != 0 {
			known[c.ID] = true
		}
	}

	nested := make(map[uint]bool)
	groups := make([]Item, 0, len(quiz.Contexts))
	for pos, c := range quiz.Contexts {
		if c.ID == 0 {
			issues = append(issues, Issue{ContextPosition: pos, Reason: "context has no id"})
		}
		group := ContextGroup{
			Position:  pos,
			ContextID: c.ID,
			Prompt:    c.Prompt,
			Image:     normalizeImage(c.Image),
			Questions: make([]Question, 0, len(c.Questions)),
		}
		for _, q := range c.Questions {
			if q.ID == 0 {
				issues = append(issues, Issue{ContextPosition: pos, Reason: "question has no id"})
				continue
			}
			if nested[q.ID] {
				issues = append(issues, Issue{ContextPosition: pos, QuestionID: q.ID, Reason: "question listed by more than one context"})
				continue
			}
			nested[q.ID] = true

			nq, qIssues := normalizeQuestion(q, pos)
			issues = append(issues, qIssues...)
			if c.ID != 0 {
				id := c.ID
				nq.ContextID = &id
			}
			group.Questions = append(group.Questions, nq)
		}
		groups = append(groups, group)
	}

	standalone := make([]Item, 0, len(quiz.Questions))
	seen := make(map[uint]bool)
	for _, q := range quiz.Questions {
		if q.ID == 0 {
			issues = append(issues, Issue{ContextPosition: -1, Reason: "question has no id"})
			continue
		}
		if nested[q.ID] {
			continue
		}
		if seen[q.ID] {
			issues = append(issues, Issue{ContextPosition: -1, QuestionID: q.ID, Reason: "duplicate question"})
			continue
		}
		seen[q.ID] = true

		if q.ContextID != nil {
			if known[*q.ContextID] {
				issues = append(issues, Issue{ContextPosition: -1, QuestionID: q.ID, Reason: "question is not listed by its context, rendered standalone"})
			} else {
				issues = append(issues, Issue{ContextPosition: -1, QuestionID: q.ID, Reason: "question references an unknown context, rendered standalone"})
			}
		}

		nq, qIssues := normalizeQuestion(q, -1)
		issues = append(issues, qIssues...)
		standalone = append(standalone, StandaloneQuestion{Question: nq})
	}

	return newSequence(append(standalone, groups...)), issues
}

func normalizeQuestion(q Question, pos int) (Question, []Issue) {
	var issues []Issue

	out := q
	out.Image = normalizeImage(q.Image)
	out.Options = make([]Option, len(q.Options))
	copy(out.Options, q.Options)
	sort.SliceStable(out.Options, func(i, j int) bool {
		return out.Options[i].Order < out.Options[j].Order
	})

	out.CorrectOption = NoCorrectOption
	correct := 0
	for i := range out.Options {
		o := &out.Options[i]
		o.Image = normalizeImage(o.Image)
		if o.ID == 0 {
			issues = append(issues, Issue{ContextPosition: pos, QuestionID: q.ID, Reason: "option has no id"})
			continue
		}
		if !o.IsCorrect {
			continue
		}
		correct++
		if out.CorrectOption == NoCorrectOption {
			out.CorrectOption = o.ID
		}
	}

	switch {
	case correct == 0:
		issues = append(issues, Issue{ContextPosition: pos, QuestionID: q.ID, Reason: "no correct option"})
	case correct > 1:
		issues = append(issues, Issue{ContextPosition: pos, QuestionID: q.ID, Reason: "more than one correct option"})
	}

	return out, issues
}

func normalizeImage(image string) string {
	if strings.TrimSpace(image) == "" {
		return NoImage
	}
	return image
}
