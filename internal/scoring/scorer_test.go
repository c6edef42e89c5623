package scoring

import (
	"testing"

	"skill-assess/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func question(body domain.Body) domain.Question {
	return domain.Question{Index: 0, Text: "q", Body: body}
}

func TestScore_MultipleChoice(t *testing.T) {
	q := question(domain.MultipleChoice{Options: [4]string{"a", "b", "c", "d"}, CorrectOption: 2})

	for opt := 1; opt <= 4; opt++ {
		res, err := Score(q, domain.ChoiceAnswer(opt))
		require.NoError(t, err)
		if opt == 2 {
			assert.True(t, res.IsCorrect)
			assert.Equal(t, 1.0, res.Score)
		} else {
			assert.False(t, res.IsCorrect, "option %d", opt)
			assert.Equal(t, 0.0, res.Score)
		}
	}
}

func TestScore_MultipleSelect(t *testing.T) {
	defaults := domain.DefaultSelectScoring()
	options := []string{"a", "b", "c", "d"}

	tests := []struct {
		name        string
		body        domain.MultipleSelect
		answer      domain.SelectionAnswer
		wantScore   float64
		wantCorrect bool
	}{
		{
			name:        "all or nothing exact match",
			body:        domain.MultipleSelect{Options: options, CorrectOptions: []int{1, 3}},
			answer:      domain.SelectionAnswer{3, 1},
			wantScore:   1,
			wantCorrect: true,
		},
		{
			name:        "all or nothing partial",
			body:        domain.MultipleSelect{Options: options, CorrectOptions: []int{1, 3}},
			answer:      domain.SelectionAnswer{1},
			wantScore:   0,
			wantCorrect: false,
		},
		{
			name:        "all or nothing empty set",
			body:        domain.MultipleSelect{Options: options, CorrectOptions: []int{1, 3}},
			answer:      domain.SelectionAnswer{},
			wantScore:   0,
			wantCorrect: false,
		},
		{
			name:        "default weights single correct option exact",
			body:        domain.MultipleSelect{Options: options, CorrectOptions: []int{2}, Scoring: &defaults},
			answer:      domain.SelectionAnswer{2},
			wantScore:   1,
			wantCorrect: true,
		},
		{
			name:        "default weights empty set clamps to zero",
			body:        domain.MultipleSelect{Options: options, CorrectOptions: []int{1, 3}, Scoring: &defaults},
			answer:      domain.SelectionAnswer{},
			wantScore:   0,
			wantCorrect: false,
		},
		{
			name:        "default weights one wrong extra selection",
			body:        domain.MultipleSelect{Options: options, CorrectOptions: []int{1, 3}, Scoring: &defaults},
			answer:      domain.SelectionAnswer{1, 3, 4},
			wantScore:   1,
			wantCorrect: false,
		},
		{
			name:        "default weights exact match is unbounded above",
			body:        domain.MultipleSelect{Options: options, CorrectOptions: []int{1, 3}, Scoring: &defaults},
			answer:      domain.SelectionAnswer{1, 3},
			wantScore:   2,
			wantCorrect: true,
		},
		{
			name:        "default weights missed selection",
			body:        domain.MultipleSelect{Options: options, CorrectOptions: []int{1, 3}, Scoring: &defaults},
			answer:      domain.SelectionAnswer{1},
			wantScore:   0.5,
			wantCorrect: false,
		},
		{
			name:        "duplicates count once",
			body:        domain.MultipleSelect{Options: options, CorrectOptions: []int{1, 3}},
			answer:      domain.SelectionAnswer{1, 1, 3},
			wantScore:   1,
			wantCorrect: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(question(tt.body), tt.answer)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, res.Score, 1e-9)
			assert.Equal(t, tt.wantCorrect, res.IsCorrect)
			assert.Equal(t, "Correct options: [1 3]", res.Feedback)
		})
	}
}

func TestScore_Matching(t *testing.T) {
	q := question(domain.Matching{
		Items: []string{"iron", "copper", "wood"},
		CorrectAnswers: map[string]string{
			"iron":   "metal",
			"copper": "metal",
			"wood":   "organic",
		},
	})

	t.Run("Partial", func(t *testing.T) {
		res, err := Score(q, domain.MatchingAnswer{"iron": "metal", "wood": "metal"})
		require.NoError(t, err)
		assert.InDelta(t, 1.0/3.0, res.Score, 1e-9)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, "Correct: 1/3", res.Feedback)
	})

	t.Run("AllCorrect", func(t *testing.T) {
		res, err := Score(q, domain.MatchingAnswer{"iron": "metal", "copper": "metal", "wood": "organic"})
		require.NoError(t, err)
		assert.Equal(t, 1.0, res.Score)
		assert.True(t, res.IsCorrect)
	})

	t.Run("EmptyIsUnanswered", func(t *testing.T) {
		res, err := Score(q, domain.MatchingAnswer{})
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Score)
		assert.Equal(t, feedbackNoAnswer, res.Feedback)
	})
}

func TestScore_TrueFalse(t *testing.T) {
	t.Run("ExplanationPreferred", func(t *testing.T) {
		q := question(domain.TrueFalse{CorrectAnswer: true, Explanation: "Steel is an alloy."})
		res, err := Score(q, domain.TrueFalseAnswer(false))
		require.NoError(t, err)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, "Steel is an alloy.", res.Feedback)
	})

	t.Run("NoExplanation", func(t *testing.T) {
		q := question(domain.TrueFalse{CorrectAnswer: false})
		res, err := Score(q, domain.TrueFalseAnswer(false))
		require.NoError(t, err)
		assert.True(t, res.IsCorrect)
		assert.Equal(t, 1.0, res.Score)
		assert.Equal(t, feedbackCorrect, res.Feedback)
	})
}

func TestScore_RangeInput(t *testing.T) {
	correct := map[string]domain.Range{
		"PLA": {Min: 190, Max: 220},
		"ABS": {Min: 230, Max: 250},
	}
	exact := domain.RangeAnswer{
		"PLA": {Min: f(190), Max: f(220)},
		"ABS": {Min: f(230), Max: f(250)},
	}

	for _, tol := range []*float64{nil, f(0), f(5), f(50)} {
		q := question(domain.RangeInput{Subjects: []string{"PLA", "ABS"}, CorrectRanges: correct, Tolerance: tol})
		res, err := Score(q, exact)
		require.NoError(t, err)
		assert.Equal(t, 1.0, res.Score)
		assert.True(t, res.IsCorrect)
	}

	tests := []struct {
		name      string
		tolerance *float64
		answer    domain.RangeAnswer
		wantScore float64
	}{
		{
			name:      "within default tolerance",
			tolerance: nil,
			answer: domain.RangeAnswer{
				"PLA": {Min: f(195), Max: f(216)},
				"ABS": {Min: f(230), Max: f(250)},
			},
			wantScore: 1,
		},
		{
			name:      "off by more than tolerance",
			tolerance: f(5),
			answer: domain.RangeAnswer{
				"PLA": {Min: f(180), Max: f(220)},
				"ABS": {Min: f(230), Max: f(250)},
			},
			wantScore: 0.5,
		},
		{
			name:      "zero tolerance",
			tolerance: f(0),
			answer: domain.RangeAnswer{
				"PLA": {Min: f(191), Max: f(220)},
				"ABS": {Min: f(230), Max: f(250)},
			},
			wantScore: 0.5,
		},
		{
			name:      "missing bound does not count",
			tolerance: nil,
			answer: domain.RangeAnswer{
				"PLA": {Min: f(190)},
				"ABS": {Min: f(230), Max: f(250)},
			},
			wantScore: 0.5,
		},
		{
			name:      "missing subject",
			tolerance: nil,
			answer: domain.RangeAnswer{
				"ABS": {Min: f(230), Max: f(250)},
			},
			wantScore: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := question(domain.RangeInput{Subjects: []string{"PLA", "ABS"}, CorrectRanges: correct, Tolerance: tt.tolerance})
			res, err := Score(q, tt.answer)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, res.Score, 1e-9)
			assert.Equal(t, tt.wantScore == 1, res.IsCorrect)
		})
	}
}

func TestScore_Ordering(t *testing.T) {
	q := question(domain.Ordering{Steps: []string{"design", "slice", "print", "finish"}})

	tests := []struct {
		name        string
		answer      domain.OrderingAnswer
		wantScore   float64
		wantCorrect bool
	}{
		{"authoring order", domain.OrderingAnswer{1, 2, 3, 4}, 1, true},
		{"two swapped", domain.OrderingAnswer{1, 3, 2, 4}, 0.5, false},
		{"reversed", domain.OrderingAnswer{4, 3, 2, 1}, 0, false},
		{"incomplete", domain.OrderingAnswer{1, 2, 3}, 0, false},
		{"duplicate position", domain.OrderingAnswer{1, 1, 3, 4}, 0, false},
		{"out of range", domain.OrderingAnswer{1, 2, 3, 5}, 0, false},
		{"empty", domain.OrderingAnswer{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(q, tt.answer)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, res.Score, 1e-9)
			assert.Equal(t, tt.wantCorrect, res.IsCorrect)
		})
	}
}

func TestScore_FillBlanks(t *testing.T) {
	q := question(domain.FillBlanks{Blanks: 2, Answers: []string{"Nozzle", "bed"}})

	t.Run("TrimmedAndCaseInsensitive", func(t *testing.T) {
		res, err := Score(q, domain.BlanksAnswer{"  nozzle ", "BED"})
		require.NoError(t, err)
		assert.True(t, res.IsCorrect)
		assert.Equal(t, 1.0, res.Score)
	})

	t.Run("HalfCorrect", func(t *testing.T) {
		res, err := Score(q, domain.BlanksAnswer{"nozzle", "extruder"})
		require.NoError(t, err)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, 0.5, res.Score)
	})

	t.Run("ShortAnswer", func(t *testing.T) {
		res, err := Score(q, domain.BlanksAnswer{"nozzle"})
		require.NoError(t, err)
		assert.Equal(t, 0.5, res.Score)
	})

	t.Run("AnswerCountMismatch", func(t *testing.T) {
		bad := question(domain.FillBlanks{Blanks: 3, Answers: []string{"a"}})
		_, err := Score(bad, domain.BlanksAnswer{"a"})
		assert.ErrorIs(t, err, domain.ErrMalformedQuestion)
	})
}

func TestScore_MatchingPairs(t *testing.T) {
	q := question(domain.MatchingPairs{Pairs: []domain.Pair{
		{Item: "FDM", Match: "filament"},
		{Item: "SLA", Match: "resin"},
		{Item: "SLS", Match: "powder"},
		{Item: "DMLS", Match: "metal powder"},
	}})

	res, err := Score(q, domain.PairsAnswer{"FDM": "filament", "SLA": "resin", "SLS": "metal powder"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Score)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, "Correct pairs: 2/4", res.Feedback)
}

func TestScore_Calculation(t *testing.T) {
	tests := []struct {
		name        string
		body        domain.Calculation
		answer      domain.NumberAnswer
		wantCorrect bool
	}{
		{"exact without tolerance", domain.Calculation{CorrectAnswer: 12.5}, 12.5, true},
		{"off without tolerance", domain.Calculation{CorrectAnswer: 12.5}, 12.6, false},
		{"within percent", domain.Calculation{CorrectAnswer: 200, TolerancePercent: 5}, 209, true},
		{"outside percent", domain.Calculation{CorrectAnswer: 200, TolerancePercent: 5}, 211, false},
		{"negative target", domain.Calculation{CorrectAnswer: -40, TolerancePercent: 10}, -37, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(question(tt.body), tt.answer)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCorrect, res.IsCorrect)
			if tt.wantCorrect {
				assert.Equal(t, 1.0, res.Score)
			} else {
				assert.Equal(t, 0.0, res.Score)
			}
		})
	}

	res, err := Score(question(domain.Calculation{CorrectAnswer: 3.5, Unit: "mm"}), domain.NumberAnswer(1))
	require.NoError(t, err)
	assert.Equal(t, "Correct answer: 3.5 mm", res.Feedback)
}

func TestScore_Unanswered(t *testing.T) {
	bodies := []domain.Body{
		domain.MultipleChoice{CorrectOption: 1},
		domain.MultipleSelect{CorrectOptions: []int{1}},
		domain.Matching{CorrectAnswers: map[string]string{"a": "b"}},
		domain.TrueFalse{CorrectAnswer: true},
		domain.RangeInput{CorrectRanges: map[string]domain.Range{"a": {Min: 1, Max: 2}}},
		domain.Ordering{Steps: []string{"a", "b"}},
		domain.FillBlanks{Blanks: 1, Answers: []string{"a"}},
		domain.MatchingPairs{Pairs: []domain.Pair{{Item: "a", Match: "b"}}},
		domain.Calculation{CorrectAnswer: 0},
	}

	for _, body := range bodies {
		t.Run(string(body.Type()), func(t *testing.T) {
			res, err := Score(question(body), nil)
			require.NoError(t, err)
			assert.False(t, res.IsCorrect)
			assert.Equal(t, 0.0, res.Score)
			assert.Equal(t, feedbackNoAnswer, res.Feedback)
		})
	}

	t.Run("MismatchedShape", func(t *testing.T) {
		res, err := Score(question(domain.MultipleChoice{CorrectOption: 1}), domain.TrueFalseAnswer(true))
		require.NoError(t, err)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, 0.0, res.Score)
	})
}

func TestScore_UnsupportedType(t *testing.T) {
	_, err := Score(question(domain.Unsupported{Kind: "drag_and_drop"}), nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedQuestionType)

	_, err = Score(domain.Question{Text: "no body"}, domain.ChoiceAnswer(1))
	assert.ErrorIs(t, err, domain.ErrUnsupportedQuestionType)
}

func TestScore_Deterministic(t *testing.T) {
	defaults := domain.DefaultSelectScoring()
	q := question(domain.MultipleSelect{Options: []string{"a", "b", "c", "d"}, CorrectOptions: []int{1, 2, 3}, Scoring: &defaults})
	first, err := Score(q, domain.SelectionAnswer{1, 4})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Score(q, domain.SelectionAnswer{1, 4})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
