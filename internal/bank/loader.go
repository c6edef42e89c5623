// Package bank loads and validates the question bank, and serves the resulting Items.
package bank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"skill-assess/internal/domain"
	"skill-assess/internal/validation"
)

// LoadError lists every Item rejected while loading a bank.
type LoadError struct {
	Rejected map[string]error
}

func (e *LoadError) Error() string {
	names := make([]string, 0, len(e.Rejected))
	for name := range e.Rejected {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 1 {
		return fmt.Sprintf("item rejected: %v", e.Rejected[names[0]])
	}
	return fmt.Sprintf("%d items rejected, first: %v", len(names), e.Rejected[names[0]])
}

func (e *LoadError) Unwrap() []error {
	out := make([]error, 0, len(e.Rejected))
	for _, err := range e.Rejected {
		out = append(out, err)
	}
	return out
}

// Loader decodes question bank documents into Items.
type Loader struct {
	validator *validation.Validator
}

func NewLoader(v *validation.Validator) *Loader {
	if v == nil {
		v = validation.NewValidator()
	}
	return &Loader{validator: v}
}

// LoadFile reads the bank at path. See Load.
func (l *Loader) LoadFile(path string) ([]*domain.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open question bank %s: %w", path, err)
	}
	defer f.Close()
	return l.Load(f)
}

// Load decodes a bank document. Items with a malformed question are rejected as a whole;
// the valid Items are returned together with a *LoadError naming the rejected ones.
// A document that is not a JSON list of items fails outright.
func (l *Loader) Load(r io.Reader) ([]*domain.Item, error) {
	var records []itemRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode question bank: %w", err)
	}

	var (
		items    []*domain.Item
		rejected = make(map[string]error)
		seen     = make(map[string]bool)
	)
	for i, rec := range records {
		name := rec.Item
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		if seen[name] {
			rejected[name+" (duplicate)"] = domain.NewMalformedQuestionError(name, 0, "item", "duplicate item name")
			continue
		}
		seen[name] = true

		item, err := l.buildItem(rec)
		if err != nil {
			rejected[name] = err
			continue
		}
		items = append(items, item)
	}

	if len(rejected) > 0 {
		return items, &LoadError{Rejected: rejected}
	}
	return items, nil
}

func (l *Loader) buildItem(rec itemRecord) (*domain.Item, error) {
	if errs := l.validator.Struct(rec); len(errs) > 0 {
		return nil, domain.NewMalformedQuestionError(rec.Item, 0, errs[0].Field, errs[0].Message)
	}
	item := &domain.Item{Name: rec.Item, Questions: make([]domain.Question, 0, len(rec.Questions))}
	for i, raw := range rec.Questions {
		q, err := l.buildQuestion(rec.Item, i, raw)
		if err != nil {
			return nil, err
		}
		item.Questions = append(item.Questions, q)
	}
	return item, nil
}

func (l *Loader) buildQuestion(itemName string, index int, raw json.RawMessage) (domain.Question, error) {
	number := index + 1
	malformed := func(field, reason string) error {
		return domain.NewMalformedQuestionError(itemName, number, field, reason)
	}

	var header questionHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return domain.Question{}, malformed("question", err.Error())
	}
	if errs := l.validator.Struct(header); len(errs) > 0 {
		return domain.Question{}, malformed(errs[0].Field, errs[0].Message)
	}

	q := domain.Question{Index: index, Text: header.Question}
	qType := domain.QuestionType(header.Type)
	if !qType.IsKnown() {
		q.Body = domain.Unsupported{Kind: qType}
		return q, nil
	}

	body, err := l.buildBody(qType, raw)
	if err != nil {
		var fieldErr *fieldError
		if errors.As(err, &fieldErr) {
			return domain.Question{}, malformed(fieldErr.field, fieldErr.reason)
		}
		return domain.Question{}, malformed(string(qType), err.Error())
	}
	q.Body = body
	return q, nil
}

type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string {
	return e.field + ": " + e.reason
}

func invalid(field, format string, args ...interface{}) error {
	return &fieldError{field: field, reason: fmt.Sprintf(format, args...)}
}

// decodeBody unmarshals the type-specific fields of raw into dst and validates its tags.
func (l *Loader) decodeBody(raw json.RawMessage, dst interface{}) error {
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(dst); err != nil {
		return err
	}
	if errs := l.validator.Struct(dst); len(errs) > 0 {
		return invalid(errs[0].Field, "%s", errs[0].Message)
	}
	return nil
}

func (l *Loader) buildBody(qType domain.QuestionType, raw json.RawMessage) (domain.Body, error) {
	switch qType {
	case domain.TypeMultipleChoice:
		var rec multipleChoiceRecord
		if err := l.decodeBody(raw, &rec); err != nil {
			return nil, err
		}
		return domain.MultipleChoice{
			Options:       [4]string{rec.Option1, rec.Option2, rec.Option3, rec.Option4},
			CorrectOption: rec.CorrectOption,
		}, nil

	case domain.TypeMultipleSelect:
		var rec multipleSelectRecord
		if err := l.decodeBody(raw, &rec); err != nil {
			return nil, err
		}
		return buildMultipleSelect(rec)

	case domain.TypeMatching:
		var rec matchingRecord
		if err := l.decodeBody(raw, &rec); err != nil {
			return nil, err
		}
		for _, opt := range rec.Options {
			if _, ok := rec.CorrectAnswers[opt]; !ok {
				return nil, invalid("correct_answers", "no category for %q", opt)
			}
		}
		if len(rec.CorrectAnswers) != len(rec.Options) {
			return nil, invalid("correct_answers", "has entries that are not options")
		}
		return domain.Matching{Items: rec.Options, CorrectAnswers: rec.CorrectAnswers}, nil

	case domain.TypeTrueFalse:
		var rec trueFalseRecord
		if err := l.decodeBody(raw, &rec); err != nil {
			return nil, err
		}
		return domain.TrueFalse{CorrectAnswer: *rec.CorrectAnswer, Explanation: rec.Explanation}, nil

	case domain.TypeRangeInput:
		var rec rangeInputRecord
		if err := l.decodeBody(raw, &rec); err != nil {
			return nil, err
		}
		ranges := make(map[string]domain.Range, len(rec.CorrectRanges))
		for _, m := range rec.Materials {
			r, ok := rec.CorrectRanges[m]
			if !ok {
				return nil, invalid("correct_ranges", "no range for %q", m)
			}
			if *r.Min > *r.Max {
				return nil, invalid("correct_ranges", "min above max for %q", m)
			}
			ranges[m] = domain.Range{Min: *r.Min, Max: *r.Max}
		}
		if len(ranges) != len(rec.CorrectRanges) {
			return nil, invalid("correct_ranges", "has entries that are not materials")
		}
		return domain.RangeInput{Subjects: rec.Materials, CorrectRanges: ranges, Tolerance: rec.Tolerance}, nil

	case domain.TypeOrdering:
		var rec orderingRecord
		if err := l.decodeBody(raw, &rec); err != nil {
			return nil, err
		}
		return domain.Ordering{Steps: rec.Items}, nil

	case domain.TypeFillBlanks:
		var rec fillBlanksRecord
		if err := l.decodeBody(raw, &rec); err != nil {
			return nil, err
		}
		if len(rec.Answers) != rec.Blanks {
			return nil, invalid("answers", "%d answers for %d blanks", len(rec.Answers), rec.Blanks)
		}
		return domain.FillBlanks{Blanks: rec.Blanks, Answers: rec.Answers}, nil

	case domain.TypeMatchingPairs:
		var rec matchingPairsRecord
		if err := l.decodeBody(raw, &rec); err != nil {
			return nil, err
		}
		pairs := make([]domain.Pair, 0, len(rec.Pairs))
		seen := make(map[string]bool, len(rec.Pairs))
		for _, p := range rec.Pairs {
			if seen[p.Item] {
				return nil, invalid("pairs", "duplicate item %q", p.Item)
			}
			seen[p.Item] = true
			pairs = append(pairs, domain.Pair{Item: p.Item, Match: p.Match})
		}
		return domain.MatchingPairs{Pairs: pairs}, nil

	case domain.TypeCalculation:
		var rec calculationRecord
		if err := l.decodeBody(raw, &rec); err != nil {
			return nil, err
		}
		body := domain.Calculation{
			CorrectAnswer: *rec.CorrectAnswer,
			Unit:          rec.Unit,
			FormulaHint:   rec.FormulaHint,
		}
		if rec.TolerancePercent != nil {
			body.TolerancePercent = *rec.TolerancePercent
		}
		return body, nil

	default:
		return nil, domain.NewUnsupportedQuestionTypeError(qType)
	}
}

func buildMultipleSelect(rec multipleSelectRecord) (domain.Body, error) {
	n := len(rec.Options)
	seen := make(map[int]bool, len(rec.CorrectOptions))
	for _, opt := range rec.CorrectOptions {
		if opt > n {
			return nil, invalid("correct_options", "option %d does not exist", opt)
		}
		if seen[opt] {
			return nil, invalid("correct_options", "option %d listed twice", opt)
		}
		seen[opt] = true
	}
	if rec.MaxSelections > n {
		return nil, invalid("max_selections", "exceeds the %d options", n)
	}
	if rec.MinSelections > n {
		return nil, invalid("min_selections", "exceeds the %d options", n)
	}

	body := domain.MultipleSelect{
		Options:        rec.Options,
		CorrectOptions: rec.CorrectOptions,
		MinSelections:  rec.MinSelections,
		MaxSelections:  rec.MaxSelections,
	}
	lo, hi := body.SelectionBounds()
	if lo > hi {
		return nil, invalid("min_selections", "above max_selections")
	}
	if len(rec.CorrectOptions) < lo || len(rec.CorrectOptions) > hi {
		return nil, invalid("correct_options", "%d correct options outside the %d..%d selection bounds",
			len(rec.CorrectOptions), lo, hi)
	}
	if rec.Scoring != nil {
		w := domain.DefaultSelectScoring()
		if rec.Scoring.CorrectSelection != nil {
			w.CorrectSelection = *rec.Scoring.CorrectSelection
		}
		if rec.Scoring.MissedSelection != nil {
			w.MissedSelection = *rec.Scoring.MissedSelection
		}
		if rec.Scoring.WrongSelection != nil {
			w.WrongSelection = *rec.Scoring.WrongSelection
		}
		body.Scoring = &w
	}
	return body, nil
}
