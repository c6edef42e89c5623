package domain

// QuestionType is the discriminator of a question body.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeMultipleSelect QuestionType = "multiple_select"
	TypeMatching       QuestionType = "matching"
	TypeTrueFalse      QuestionType = "true_false"
	TypeRangeInput     QuestionType = "range_input"
	TypeOrdering       QuestionType = "ordering"
	TypeFillBlanks     QuestionType = "fill_blanks"
	TypeMatchingPairs  QuestionType = "matching_pairs"
	TypeCalculation    QuestionType = "calculation"
)

// KnownQuestionTypes lists every type the scorer understands, in authoring order.
var KnownQuestionTypes = []QuestionType{
	TypeMultipleChoice,
	TypeMultipleSelect,
	TypeMatching,
	TypeTrueFalse,
	TypeRangeInput,
	TypeOrdering,
	TypeFillBlanks,
	TypeMatchingPairs,
	TypeCalculation,
}

// IsKnown reports whether t is one of the supported question types.
func (t QuestionType) IsKnown() bool {
	for _, k := range KnownQuestionTypes {
		if k == t {
			return true
		}
	}
	return false
}

const (
	DefaultRangeTolerance = 5.0
	DefaultMinSelections  = 1
)

// Question is one entry of an Item. Index is 0-based and unique within the Item.
type Question struct {
	Index int
	Text  string
	Body  Body
}

// Type returns the discriminator of the question body.
func (q Question) Type() QuestionType {
	if q.Body == nil {
		return ""
	}
	return q.Body.Type()
}

// Body is the type-specific part of a question. The set of implementations is closed:
// only the types in this file satisfy it.
type Body interface {
	Type() QuestionType
	isBody()
}

// MultipleChoice has exactly four options; CorrectOption is 1-based.
type MultipleChoice struct {
	Options       [4]string
	CorrectOption int
}

// SelectScoring holds the per-selection weights of a multiple select question.
type SelectScoring struct {
	CorrectSelection float64
	MissedSelection  float64
	WrongSelection   float64
}

// DefaultSelectScoring returns the weights applied when an author enables weighted
// scoring without overriding them.
func DefaultSelectScoring() SelectScoring {
	return SelectScoring{CorrectSelection: 1, MissedSelection: -0.5, WrongSelection: -1}
}

// MultipleSelect options are addressed by 1-based position.
// A nil Scoring means all-or-nothing scoring.
type MultipleSelect struct {
	Options        []string
	CorrectOptions []int
	Scoring        *SelectScoring
	MinSelections  int
	MaxSelections  int
}

// IsCorrectOption reports whether the 1-based option n belongs to the correct set.
func (m MultipleSelect) IsCorrectOption(n int) bool {
	for _, c := range m.CorrectOptions {
		if c == n {
			return true
		}
	}
	return false
}

// SelectionBounds returns how many options a learner may pick. Zero values fall back to
// DefaultMinSelections and the number of options.
func (m MultipleSelect) SelectionBounds() (int, int) {
	lo, hi := m.MinSelections, m.MaxSelections
	if lo <= 0 {
		lo = DefaultMinSelections
	}
	if hi <= 0 {
		hi = len(m.Options)
	}
	return lo, hi
}

// Matching assigns each item to one category.
type Matching struct {
	Items          []string
	CorrectAnswers map[string]string
}

// Categories returns the distinct categories of the question in first-seen item order.
func (m Matching) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, item := range m.Items {
		c, ok := m.CorrectAnswers[item]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	return categories
}

type TrueFalse struct {
	CorrectAnswer bool
	Explanation   string
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

// RangeInput asks for a min/max pair per subject. Tolerance applies to each bound;
// nil means DefaultRangeTolerance.
type RangeInput struct {
	Subjects      []string
	CorrectRanges map[string]Range
	Tolerance     *float64
}

// EffectiveTolerance returns the tolerance applied to each bound.
func (r RangeInput) EffectiveTolerance() float64 {
	if r.Tolerance == nil {
		return DefaultRangeTolerance
	}
	return *r.Tolerance
}

// Ordering lists its steps in the correct order.
type Ordering struct {
	Steps []string
}

// FillBlanks has one expected answer per blank.
type FillBlanks struct {
	Blanks  int
	Answers []string
}

// Pair is one item and its expected match.
type Pair struct {
	Item  string
	Match string
}

type MatchingPairs struct {
	Pairs []Pair
}

// Matches returns the candidate matches in authoring order.
func (m MatchingPairs) Matches() []string {
	matches := make([]string, 0, len(m.Pairs))
	for _, p := range m.Pairs {
		matches = append(matches, p.Match)
	}
	return matches
}

// Calculation expects a number within TolerancePercent of CorrectAnswer.
type Calculation struct {
	CorrectAnswer    float64
	Unit             string
	TolerancePercent float64
	FormulaHint      string
}

// Unsupported carries a question whose type is not known to this build. It is kept in
// the Item so the session can still present and skip it; the scorer rejects it.
type Unsupported struct {
	Kind QuestionType
}

func (MultipleChoice) Type() QuestionType { return TypeMultipleChoice }
func (MultipleSelect) Type() QuestionType { return TypeMultipleSelect }
func (Matching) Type() QuestionType       { return TypeMatching }
func (TrueFalse) Type() QuestionType      { return TypeTrueFalse }
func (RangeInput) Type() QuestionType     { return TypeRangeInput }
func (Ordering) Type() QuestionType       { return TypeOrdering }
func (FillBlanks) Type() QuestionType     { return TypeFillBlanks }
func (MatchingPairs) Type() QuestionType  { return TypeMatchingPairs }
func (Calculation) Type() QuestionType    { return TypeCalculation }
func (u Unsupported) Type() QuestionType  { return u.Kind }

func (MultipleChoice) isBody() {}
func (MultipleSelect) isBody() {}
func (Matching) isBody()       {}
func (TrueFalse) isBody()      {}
func (RangeInput) isBody()     {}
func (Ordering) isBody()       {}
func (FillBlanks) isBody()     {}
func (MatchingPairs) isBody()  {}
func (Calculation) isBody()    {}
func (Unsupported) isBody()    {}
