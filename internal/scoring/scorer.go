// Package scoring turns a question and a learner's raw answer into a ScoreResult.
// Every function here is pure: the same input always yields the same result.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"skill-assess/internal/domain"
)

const (
	feedbackNoAnswer = "No answer provided"
	feedbackCorrect  = "Correct!"
)

// Score evaluates answer against q. A nil answer, or one whose shape belongs to another
// question type, is unanswered and scores 0. The only error is UnsupportedQuestionType
// (and MalformedQuestion for a body that escaped load-time validation).
func Score(q domain.Question, answer domain.Answer) (domain.ScoreResult, error) {
	switch body := q.Body.(type) {
	case domain.MultipleChoice:
		a, ok := answer.(domain.ChoiceAnswer)
		if !ok {
			return unanswered(), nil
		}
		return scoreMultipleChoice(body, a), nil
	case domain.MultipleSelect:
		a, ok := answer.(domain.SelectionAnswer)
		if !ok {
			return unanswered(), nil
		}
		return scoreMultipleSelect(body, a), nil
	case domain.Matching:
		a, ok := answer.(domain.MatchingAnswer)
		if !ok || len(a) == 0 {
			return unanswered(), nil
		}
		return scoreMatching(body, a), nil
	case domain.TrueFalse:
		a, ok := answer.(domain.TrueFalseAnswer)
		if !ok {
			return unanswered(), nil
		}
		return scoreTrueFalse(body, a), nil
	case domain.RangeInput:
		a, ok := answer.(domain.RangeAnswer)
		if !ok || len(a) == 0 {
			return unanswered(), nil
		}
		return scoreRangeInput(body, a), nil
	case domain.Ordering:
		a, ok := answer.(domain.OrderingAnswer)
		if !ok {
			return unanswered(), nil
		}
		return scoreOrdering(body, a), nil
	case domain.FillBlanks:
		if len(body.Answers) != body.Blanks {
			return domain.ScoreResult{}, domain.NewError(domain.CodeMalformedQuestion,
				fmt.Sprintf("fill_blanks question %d has %d answers for %d blanks", q.Index+1, len(body.Answers), body.Blanks), nil)
		}
		a, ok := answer.(domain.BlanksAnswer)
		if !ok {
			return unanswered(), nil
		}
		return scoreFillBlanks(body, a), nil
	case domain.MatchingPairs:
		a, ok := answer.(domain.PairsAnswer)
		if !ok || len(a) == 0 {
			return unanswered(), nil
		}
		return scoreMatchingPairs(body, a), nil
	case domain.Calculation:
		a, ok := answer.(domain.NumberAnswer)
		if !ok {
			return unanswered(), nil
		}
		return scoreCalculation(body, a), nil
	default:
		return domain.ScoreResult{}, domain.NewUnsupportedQuestionTypeError(q.Type())
	}
}

func unanswered() domain.ScoreResult {
	return domain.ScoreResult{IsCorrect: false, Score: 0, Feedback: feedbackNoAnswer}
}

func scoreMultipleChoice(q domain.MultipleChoice, a domain.ChoiceAnswer) domain.ScoreResult {
	if int(a) == q.CorrectOption {
		return domain.ScoreResult{IsCorrect: true, Score: 1, Feedback: feedbackCorrect}
	}
	return domain.ScoreResult{
		IsCorrect: false,
		Score:     0,
		Feedback:  fmt.Sprintf("Correct answer: option %d", q.CorrectOption),
	}
}

func scoreMultipleSelect(q domain.MultipleSelect, a domain.SelectionAnswer) domain.ScoreResult {
	selected := toSet(a)
	correct := toSet(q.CorrectOptions)
	exact := setEqual(selected, correct)

	var score float64
	if q.Scoring != nil {
		w := *q.Scoring
		for opt := range selected {
			if correct[opt] {
				score += w.CorrectSelection
			} else {
				score += w.WrongSelection
			}
		}
		for opt := range correct {
			if !selected[opt] {
				score += w.MissedSelection
			}
		}
		score = math.Max(0, score)
	} else if exact {
		score = 1
	}

	return domain.ScoreResult{
		IsCorrect: exact,
		Score:     score,
		Feedback:  fmt.Sprintf("Correct options: %v", sortedKeys(correct)),
	}
}

func scoreMatching(q domain.Matching, a domain.MatchingAnswer) domain.ScoreResult {
	total := len(q.CorrectAnswers)
	matched := 0
	for item, category := range a {
		if want, ok := q.CorrectAnswers[item]; ok && want == category {
			matched++
		}
	}
	return fractionResult(matched, total, "Correct: %d/%d")
}

func scoreTrueFalse(q domain.TrueFalse, a domain.TrueFalseAnswer) domain.ScoreResult {
	isCorrect := bool(a) == q.CorrectAnswer
	feedback := q.Explanation
	if feedback == "" {
		if isCorrect {
			feedback = feedbackCorrect
		} else {
			feedback = fmt.Sprintf("Correct answer: %t", q.CorrectAnswer)
		}
	}
	result := domain.ScoreResult{IsCorrect: isCorrect, Feedback: feedback}
	if isCorrect {
		result.Score = 1
	}
	return result
}

func scoreRangeInput(q domain.RangeInput, a domain.RangeAnswer) domain.ScoreResult {
	tolerance := q.EffectiveTolerance()
	total := len(q.CorrectRanges)
	matched := 0
	for subject, want := range q.CorrectRanges {
		got, ok := a[subject]
		if !ok || !got.Complete() {
			continue
		}
		if math.Abs(*got.Min-want.Min) <= tolerance && math.Abs(*got.Max-want.Max) <= tolerance {
			matched++
		}
	}
	return fractionResult(matched, total, "Correct ranges: %d/%d")
}

// scoreOrdering compares the learner's order with the authoring order. Only a complete
// ordering, one that places every step exactly once, earns credit.
func scoreOrdering(q domain.Ordering, a domain.OrderingAnswer) domain.ScoreResult {
	n := len(q.Steps)
	if !isPermutation(a, n) {
		return domain.ScoreResult{IsCorrect: false, Score: 0, Feedback: "Incomplete ordering"}
	}
	inPlace := 0
	for pos, step := range a {
		if step == pos+1 {
			inPlace++
		}
	}
	return fractionResult(inPlace, n, "Steps in the right position: %d/%d")
}

func scoreFillBlanks(q domain.FillBlanks, a domain.BlanksAnswer) domain.ScoreResult {
	matched := 0
	for i, want := range q.Answers {
		if i >= len(a) {
			break
		}
		if normalizeBlank(a[i]) == normalizeBlank(want) {
			matched++
		}
	}
	return fractionResult(matched, q.Blanks, "Correct blanks: %d/%d")
}

func scoreMatchingPairs(q domain.MatchingPairs, a domain.PairsAnswer) domain.ScoreResult {
	matched := 0
	for _, p := range q.Pairs {
		if got, ok := a[p.Item]; ok && got == p.Match {
			matched++
		}
	}
	return fractionResult(matched, len(q.Pairs), "Correct pairs: %d/%d")
}

func scoreCalculation(q domain.Calculation, a domain.NumberAnswer) domain.ScoreResult {
	tolerance := math.Abs(q.CorrectAnswer) * q.TolerancePercent / 100
	isCorrect := math.Abs(float64(a)-q.CorrectAnswer) <= tolerance
	result := domain.ScoreResult{
		IsCorrect: isCorrect,
		Feedback:  strings.TrimSpace("Correct answer: " + FormatNumber(q.CorrectAnswer) + " " + q.Unit),
	}
	if isCorrect {
		result.Score = 1
	}
	return result
}

func fractionResult(matched, total int, feedback string) domain.ScoreResult {
	if total <= 0 {
		return domain.ScoreResult{IsCorrect: false, Score: 0, Feedback: fmt.Sprintf(feedback, 0, 0)}
	}
	return domain.ScoreResult{
		IsCorrect: matched == total,
		Score:     float64(matched) / float64(total),
		Feedback:  fmt.Sprintf(feedback, matched, total),
	}
}

func isPermutation(order []int, n int) bool {
	if n == 0 || len(order) != n {
		return false
	}
	seen := make([]bool, n+1)
	for _, v := range order {
		if v < 1 || v > n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func normalizeBlank(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(xs []int) map[int]bool {
	set := make(map[int]bool, len(xs))
	for _, x := range xs {
		set[x] = true
	}
	return set
}

func setEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// FormatNumber prints v without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
