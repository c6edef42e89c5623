package evaluation

import (
	"fmt"
	"sort"
	"strings"

	"skill-assess/internal/domain"
	"skill-assess/internal/scoring"
)

// AnswerText renders a learner's answer for the summary.
func (l Labels) AnswerText(q domain.Question, answer domain.Answer) string {
	if answer == nil {
		return l.NotAnswered
	}
	switch a := answer.(type) {
	case domain.ChoiceAnswer:
		return fmt.Sprintf("%s %d", l.Option, int(a))
	case domain.SelectionAnswer:
		return l.optionsText(a)
	case domain.MatchingAnswer:
		return mappingText(orderedKeys(itemOrder(q), a), a)
	case domain.TrueFalseAnswer:
		return l.boolText(bool(a))
	case domain.RangeAnswer:
		return rangeAnswerText(q, a)
	case domain.OrderingAnswer:
		return intsText(a)
	case domain.BlanksAnswer:
		return strings.Join(a, ", ")
	case domain.PairsAnswer:
		return mappingText(orderedKeys(itemOrder(q), a), a)
	case domain.NumberAnswer:
		if c, ok := q.Body.(domain.Calculation); ok {
			return withUnit(scoring.FormatNumber(float64(a)), c.Unit)
		}
		return scoring.FormatNumber(float64(a))
	default:
		return l.NotAvailable
	}
}

// CorrectAnswerText renders the expected answer of q for the summary.
func (l Labels) CorrectAnswerText(q domain.Question) string {
	switch body := q.Body.(type) {
	case domain.MultipleChoice:
		return fmt.Sprintf("%s %d", l.Option, body.CorrectOption)
	case domain.MultipleSelect:
		return l.optionsText(body.CorrectOptions)
	case domain.Matching:
		return mappingText(body.Items, body.CorrectAnswers)
	case domain.TrueFalse:
		return l.boolText(body.CorrectAnswer)
	case domain.RangeInput:
		parts := make([]string, 0, len(body.Subjects))
		for _, subject := range body.Subjects {
			r, ok := body.CorrectRanges[subject]
			if !ok {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s-%s", subject, scoring.FormatNumber(r.Min), scoring.FormatNumber(r.Max)))
		}
		return strings.Join(parts, "; ")
	case domain.Ordering:
		order := make([]int, len(body.Steps))
		for i := range order {
			order[i] = i + 1
		}
		return intsText(order)
	case domain.FillBlanks:
		return strings.Join(body.Answers, ", ")
	case domain.MatchingPairs:
		parts := make([]string, 0, len(body.Pairs))
		for _, p := range body.Pairs {
			parts = append(parts, p.Item+": "+p.Match)
		}
		return strings.Join(parts, "; ")
	case domain.Calculation:
		return withUnit(scoring.FormatNumber(body.CorrectAnswer), body.Unit)
	default:
		return l.NotAvailable
	}
}

func (l Labels) optionsText(opts []int) string {
	sorted := append([]int(nil), opts...)
	sort.Ints(sorted)
	return fmt.Sprintf("%s: %s", l.Options, intsText(sorted))
}

func intsText(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}

func withUnit(value, unit string) string {
	if unit == "" {
		return value
	}
	return value + " " + unit
}

func mappingText(keys []string, m map[string]string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, "; ")
}

func rangeAnswerText(q domain.Question, a domain.RangeAnswer) string {
	var order []string
	if r, ok := q.Body.(domain.RangeInput); ok {
		order = r.Subjects
	}
	parts := make([]string, 0, len(a))
	for _, subject := range orderedKeys(order, a) {
		b := a[subject]
		lo, hi := "?", "?"
		if b.Min != nil {
			lo = scoring.FormatNumber(*b.Min)
		}
		if b.Max != nil {
			hi = scoring.FormatNumber(*b.Max)
		}
		parts = append(parts, fmt.Sprintf("%s: %s-%s", subject, lo, hi))
	}
	return strings.Join(parts, "; ")
}

// itemOrder returns the authoring order of the items a mapping answer refers to.
func itemOrder(q domain.Question) []string {
	switch body := q.Body.(type) {
	case domain.Matching:
		return body.Items
	case domain.MatchingPairs:
		items := make([]string, 0, len(body.Pairs))
		for _, p := range body.Pairs {
			items = append(items, p.Item)
		}
		return items
	default:
		return nil
	}
}

// orderedKeys lists the keys of m following order first, then any remaining keys sorted.
func orderedKeys[V any](order []string, m map[string]V) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range order {
		if _, ok := m[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
