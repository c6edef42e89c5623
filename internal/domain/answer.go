package domain

import (
	"encoding/json"
	"fmt"
)

// Answer is a learner's raw answer to one question. Its concrete type is determined by
// the question type; see AnswerTypeFor.
type Answer interface {
	AnswerType() QuestionType
	isAnswer()
}

// ChoiceAnswer is the 1-based option picked in a multiple choice question.
type ChoiceAnswer int

// SelectionAnswer is the set of 1-based options picked in a multiple select question.
type SelectionAnswer []int

// MatchingAnswer maps item to category.
type MatchingAnswer map[string]string

type TrueFalseAnswer bool

// RangeBounds is a submitted interval. A nil bound was not provided.
type RangeBounds struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Complete reports whether both bounds were provided.
func (b RangeBounds) Complete() bool {
	return b.Min != nil && b.Max != nil
}

// RangeAnswer maps subject to its submitted interval.
type RangeAnswer map[string]RangeBounds

// OrderingAnswer lists the original 1-based step positions in the order the learner put
// them. A complete answer is a permutation of 1..n.
type OrderingAnswer []int

// BlanksAnswer holds one string per blank, in blank order.
type BlanksAnswer []string

// PairsAnswer maps item to the match chosen for it.
type PairsAnswer map[string]string

type NumberAnswer float64

// OpaqueAnswer is an answer to a question of a type this engine cannot score. It is kept
// verbatim so the learner can move past the question.
type OpaqueAnswer struct {
	Kind QuestionType
	Raw  json.RawMessage
}

// MarshalJSON writes the answer exactly as it was received.
func (a OpaqueAnswer) MarshalJSON() ([]byte, error) {
	if len(a.Raw) == 0 {
		return []byte("null"), nil
	}
	return a.Raw, nil
}

func (ChoiceAnswer) AnswerType() QuestionType    { return TypeMultipleChoice }
func (SelectionAnswer) AnswerType() QuestionType { return TypeMultipleSelect }
func (MatchingAnswer) AnswerType() QuestionType  { return TypeMatching }
func (TrueFalseAnswer) AnswerType() QuestionType { return TypeTrueFalse }
func (RangeAnswer) AnswerType() QuestionType     { return TypeRangeInput }
func (OrderingAnswer) AnswerType() QuestionType  { return TypeOrdering }
func (BlanksAnswer) AnswerType() QuestionType    { return TypeFillBlanks }
func (PairsAnswer) AnswerType() QuestionType     { return TypeMatchingPairs }
func (NumberAnswer) AnswerType() QuestionType    { return TypeCalculation }
func (a OpaqueAnswer) AnswerType() QuestionType  { return a.Kind }

func (ChoiceAnswer) isAnswer()    {}
func (SelectionAnswer) isAnswer() {}
func (MatchingAnswer) isAnswer()  {}
func (TrueFalseAnswer) isAnswer() {}
func (RangeAnswer) isAnswer()     {}
func (OrderingAnswer) isAnswer()  {}
func (BlanksAnswer) isAnswer()    {}
func (PairsAnswer) isAnswer()     {}
func (NumberAnswer) isAnswer()    {}
func (OpaqueAnswer) isAnswer()    {}

// DecodeAnswer decodes the JSON form of an answer for a question of type t.
// A JSON null decodes to a nil Answer, and any value for an unknown type decodes to an
// OpaqueAnswer.
func DecodeAnswer(t QuestionType, raw json.RawMessage) (Answer, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var (
		answer Answer
		err    error
	)
	switch t {
	case TypeMultipleChoice:
		var v ChoiceAnswer
		err = json.Unmarshal(raw, &v)
		answer = v
	case TypeMultipleSelect:
		var v SelectionAnswer
		err = json.Unmarshal(raw, &v)
		answer = v
	case TypeMatching:
		var v MatchingAnswer
		err = json.Unmarshal(raw, &v)
		answer = v
	case TypeTrueFalse:
		var v TrueFalseAnswer
		err = json.Unmarshal(raw, &v)
		answer = v
	case TypeRangeInput:
		var v RangeAnswer
		err = json.Unmarshal(raw, &v)
		answer = v
	case TypeOrdering:
		var v OrderingAnswer
		err = json.Unmarshal(raw, &v)
		answer = v
	case TypeFillBlanks:
		var v BlanksAnswer
		err = json.Unmarshal(raw, &v)
		answer = v
	case TypeMatchingPairs:
		var v PairsAnswer
		err = json.Unmarshal(raw, &v)
		answer = v
	case TypeCalculation:
		var v NumberAnswer
		err = json.Unmarshal(raw, &v)
		answer = v
	default:
		kept := make(json.RawMessage, len(raw))
		copy(kept, raw)
		return OpaqueAnswer{Kind: t, Raw: kept}, nil
	}
	if err != nil {
		return nil, NewError(CodeInvalidAnswer, fmt.Sprintf("answer does not match question type %s", t), err)
	}
	return answer, nil
}

// EncodeAnswer is the inverse of DecodeAnswer. A nil answer encodes to JSON null.
func EncodeAnswer(a Answer) (json.RawMessage, error) {
	if a == nil {
		return json.RawMessage("null"), nil
	}
	return json.Marshal(a)
}
