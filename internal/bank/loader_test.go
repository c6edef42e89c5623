package bank

import (
	"errors"
	"strings"
	"testing"

	"skill-assess/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBank = `[
  {
    "item": "Impression 3D",
    "questions": [
      {"type": "multiple_choice", "question": "Standard nozzle?", "option1": "0.2", "option2": "0.4", "option3": "0.6", "option4": "0.8", "correct_option": 2},
      {"type": "multiple_select", "question": "Thermoplastics?", "options": ["PLA", "Steel", "ABS", "Glass"], "correct_options": [1, 3], "scoring": {"wrong_selection": -2}, "max_selections": 3},
      {"type": "matching", "question": "Classify", "options": ["iron", "wood"], "correct_answers": {"iron": "metal", "wood": "organic"}},
      {"type": "true_false", "question": "PLA is biodegradable", "correct_answer": false, "explanation": "Only industrially."},
      {"type": "range_input", "question": "Temperatures", "materials": ["PLA"], "correct_ranges": {"PLA": {"min": 190, "max": 220}}},
      {"type": "ordering", "question": "Order the steps", "items": ["model", "slice", "print"]},
      {"type": "fill_blanks", "question": "The ___ heats the ___", "blanks": 2, "answers": ["nozzle", "filament"]},
      {"type": "matching_pairs", "question": "Pair them", "pairs": [{"item": "FDM", "match": "filament"}, {"item": "SLA", "match": "resin"}]},
      {"type": "calculation", "question": "Mass?", "correct_answer": 12.5, "unit": "g", "tolerance_percent": 2, "formula_hint": "m = V * d"},
      {"type": "hotspot", "question": "Click the extruder"}
    ]
  }
]`

func TestLoader_LoadAllTypes(t *testing.T) {
	items, err := NewLoader(nil).Load(strings.NewReader(sampleBank))
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "Impression 3D", item.Name)
	require.Equal(t, 10, item.Len())

	for i, q := range item.Questions {
		assert.Equal(t, i, q.Index)
	}

	mc := item.Questions[0].Body.(domain.MultipleChoice)
	assert.Equal(t, [4]string{"0.2", "0.4", "0.6", "0.8"}, mc.Options)
	assert.Equal(t, 2, mc.CorrectOption)

	ms := item.Questions[1].Body.(domain.MultipleSelect)
	require.NotNil(t, ms.Scoring)
	assert.Equal(t, domain.SelectScoring{CorrectSelection: 1, MissedSelection: -0.5, WrongSelection: -2}, *ms.Scoring)
	lo, hi := ms.SelectionBounds()
	assert.Equal(t, 1, lo)
	assert.Equal(t, 3, hi)

	tf := item.Questions[3].Body.(domain.TrueFalse)
	assert.False(t, tf.CorrectAnswer)
	assert.Equal(t, "Only industrially.", tf.Explanation)

	ri := item.Questions[4].Body.(domain.RangeInput)
	assert.Nil(t, ri.Tolerance)
	assert.Equal(t, domain.DefaultRangeTolerance, ri.EffectiveTolerance())

	calc := item.Questions[8].Body.(domain.Calculation)
	assert.Equal(t, 12.5, calc.CorrectAnswer)
	assert.Equal(t, 2.0, calc.TolerancePercent)
	assert.Equal(t, "m = V * d", calc.FormulaHint)

	assert.Equal(t, domain.QuestionType("hotspot"), item.Questions[9].Type())
	_, unsupported := item.Questions[9].Body.(domain.Unsupported)
	assert.True(t, unsupported)
}

func TestLoader_RejectsMalformedItem(t *testing.T) {
	tests := []struct {
		name      string
		question  string
		wantField string
	}{
		{
			name:      "multiple choice with three options",
			question:  `{"type": "multiple_choice", "question": "q", "option1": "a", "option2": "b", "option3": "c", "correct_option": 1}`,
			wantField: "option4",
		},
		{
			name:      "multiple choice correct option out of range",
			question:  `{"type": "multiple_choice", "question": "q", "option1": "a", "option2": "b", "option3": "c", "option4": "d", "correct_option": 5}`,
			wantField: "correct_option",
		},
		{
			name:      "multiple select correct option missing",
			question:  `{"type": "multiple_select", "question": "q", "options": ["a", "b"], "correct_options": [3]}`,
			wantField: "correct_options",
		},
		{
			name:      "multiple select min above option count",
			question:  `{"type": "multiple_select", "question": "q", "options": ["a", "b", "c"], "correct_options": [1, 2], "min_selections": 5}`,
			wantField: "min_selections",
		},
		{
			name:      "multiple select min above max",
			question:  `{"type": "multiple_select", "question": "q", "options": ["a", "b", "c"], "correct_options": [1, 2], "min_selections": 3, "max_selections": 2}`,
			wantField: "min_selections",
		},
		{
			name:      "multiple select more correct options than max",
			question:  `{"type": "multiple_select", "question": "q", "options": ["a", "b", "c", "d"], "correct_options": [1, 2, 3], "max_selections": 2}`,
			wantField: "correct_options",
		},
		{
			name:      "multiple select fewer correct options than min",
			question:  `{"type": "multiple_select", "question": "q", "options": ["a", "b", "c", "d"], "correct_options": [1], "min_selections": 2}`,
			wantField: "correct_options",
		},
		{
			name:      "matching option without category",
			question:  `{"type": "matching", "question": "q", "options": ["a", "b"], "correct_answers": {"a": "x"}}`,
			wantField: "correct_answers",
		},
		{
			name:      "true false without answer",
			question:  `{"type": "true_false", "question": "q"}`,
			wantField: "correct_answer",
		},
		{
			name:      "range without max",
			question:  `{"type": "range_input", "question": "q", "materials": ["PLA"], "correct_ranges": {"PLA": {"min": 190}}}`,
			wantField: "max",
		},
		{
			name:      "fill blanks answer count",
			question:  `{"type": "fill_blanks", "question": "q", "blanks": 2, "answers": ["one"]}`,
			wantField: "answers",
		},
		{
			name:      "missing question text",
			question:  `{"type": "ordering", "items": ["a", "b"]}`,
			wantField: "question",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `[{"item": "broken", "questions": [
				{"type": "true_false", "question": "ok", "correct_answer": true},
				` + tt.question + `]},
				{"item": "fine", "questions": [{"type": "true_false", "question": "ok", "correct_answer": true}]}]`

			items, err := NewLoader(nil).Load(strings.NewReader(doc))
			require.Error(t, err)

			require.Len(t, items, 1)
			assert.Equal(t, "fine", items[0].Name)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			require.Contains(t, loadErr.Rejected, "broken")
			assert.ErrorIs(t, err, domain.ErrMalformedQuestion)

			var domainErr *domain.DomainError
			require.True(t, errors.As(loadErr.Rejected["broken"], &domainErr))
			assert.Equal(t, 2, domainErr.Context["question"])
			assert.Contains(t, domainErr.Context["field"], tt.wantField)
		})
	}
}

func TestLoader_InvalidDocument(t *testing.T) {
	_, err := NewLoader(nil).Load(strings.NewReader(`{"item": "not a list"}`))
	assert.Error(t, err)
}

func TestLoader_DuplicateItemName(t *testing.T) {
	doc := `[
		{"item": "a", "questions": [{"type": "true_false", "question": "q", "correct_answer": true}]},
		{"item": "a", "questions": [{"type": "true_false", "question": "q", "correct_answer": false}]}
	]`
	items, err := NewLoader(nil).Load(strings.NewReader(doc))
	assert.Error(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Questions[0].Body.(domain.TrueFalse).CorrectAnswer)
}

func TestLoader_EmptyItemRejected(t *testing.T) {
	items, err := NewLoader(nil).Load(strings.NewReader(`[{"item": "empty", "questions": []}]`))
	assert.Error(t, err)
	assert.Empty(t, items)
}

func TestCatalog(t *testing.T) {
	a := &domain.Item{Name: "a"}
	b := &domain.Item{Name: "b"}
	c := NewCatalog([]*domain.Item{a, b, {Name: "a"}})

	assert.Equal(t, []*domain.Item{a, b}, c.Items())

	got, err := c.Item("b")
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = c.Item("missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}
