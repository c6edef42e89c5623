package service

import (
	"hash/fnv"
	"math/rand"
	"sort"

	"skill-assess/internal/domain"
	"skill-assess/internal/dto"
)

// buildQuestionView renders q for the learner. The expected answer of q never reaches the
// view; ordering steps are shuffled with a seed derived from the session id, so the same
// session always sees the same order.
func buildQuestionView(sessionID string, total int, q domain.Question, stored domain.Answer) (*dto.QuestionView, error) {
	view := &dto.QuestionView{
		SessionID: sessionID,
		Number:    q.Index + 1,
		Total:     total,
		Type:      string(q.Type()),
		Question:  q.Text,
		Supported: true,
	}

	switch body := q.Body.(type) {
	case domain.MultipleChoice:
		view.Options = choiceViews(body.Options[:])
	case domain.MultipleSelect:
		view.Options = choiceViews(body.Options)
		view.MinSelections, view.MaxSelections = body.SelectionBounds()
	case domain.Matching:
		view.Items = append([]string(nil), body.Items...)
		view.Categories = body.Categories()
	case domain.TrueFalse:
	case domain.RangeInput:
		view.Subjects = append([]string(nil), body.Subjects...)
	case domain.Ordering:
		view.Steps = shuffledSteps(sessionID, q.Index, body.Steps)
	case domain.FillBlanks:
		view.Blanks = body.Blanks
	case domain.MatchingPairs:
		for _, p := range body.Pairs {
			view.Items = append(view.Items, p.Item)
		}
		view.Matches = body.Matches()
		sort.Strings(view.Matches)
	case domain.Calculation:
		view.Unit = body.Unit
		view.FormulaHint = body.FormulaHint
	default:
		view.Supported = false
	}

	if stored != nil {
		raw, err := domain.EncodeAnswer(stored)
		if err != nil {
			return nil, domain.NewInternalError("failed to encode stored answer", err)
		}
		view.Answer = raw
	}
	return view, nil
}

func choiceViews(texts []string) []dto.ChoiceView {
	out := make([]dto.ChoiceView, len(texts))
	for i, t := range texts {
		out[i] = dto.ChoiceView{ID: i + 1, Text: t}
	}
	return out
}

func shuffledSteps(sessionID string, questionIndex int, steps []string) []dto.ChoiceView {
	out := choiceViews(steps)
	h := fnv.New64a()
	_, _ = h.Write([]byte(sessionID))
	rng := rand.New(rand.NewSource(int64(h.Sum64()) + int64(questionIndex)))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
