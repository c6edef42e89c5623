package bank

import "encoding/json"

// itemRecord is one entry of the question bank file.
type itemRecord struct {
	Item      string            `json:"item" validate:"required"`
	Questions []json.RawMessage `json:"questions" validate:"required,min=1"`
}

// questionHeader holds the fields every question record shares.
type questionHeader struct {
	Type     string `json:"type" validate:"required"`
	Question string `json:"question" validate:"required"`
}

type multipleChoiceRecord struct {
	Option1       string `json:"option1" validate:"required"`
	Option2       string `json:"option2" validate:"required"`
	Option3       string `json:"option3" validate:"required"`
	Option4       string `json:"option4" validate:"required"`
	CorrectOption int    `json:"correct_option" validate:"required,min=1,max=4"`
}

type scoringRecord struct {
	CorrectSelection *float64 `json:"correct_selection"`
	MissedSelection  *float64 `json:"missed_selection"`
	WrongSelection   *float64 `json:"wrong_selection"`
}

type multipleSelectRecord struct {
	Options        []string       `json:"options" validate:"required,min=2,dive,required"`
	CorrectOptions []int          `json:"correct_options" validate:"required,min=1,dive,min=1"`
	Scoring        *scoringRecord `json:"scoring"`
	MinSelections  int            `json:"min_selections" validate:"omitempty,min=1"`
	MaxSelections  int            `json:"max_selections" validate:"omitempty,min=1"`
}

type matchingRecord struct {
	Options        []string          `json:"options" validate:"required,min=1,dive,required"`
	CorrectAnswers map[string]string `json:"correct_answers" validate:"required,min=1,dive,keys,required,endkeys,required"`
}

type trueFalseRecord struct {
	CorrectAnswer *bool  `json:"correct_answer" validate:"required"`
	Explanation   string `json:"explanation"`
}

type rangeRecord struct {
	Min *float64 `json:"min" validate:"required"`
	Max *float64 `json:"max" validate:"required"`
}

type rangeInputRecord struct {
	Materials     []string               `json:"materials" validate:"required,min=1,dive,required"`
	CorrectRanges map[string]rangeRecord `json:"correct_ranges" validate:"required,min=1,dive"`
	Tolerance     *float64               `json:"tolerance" validate:"omitempty,gte=0"`
}

type orderingRecord struct {
	Items []string `json:"items" validate:"required,min=2,dive,required"`
}

type fillBlanksRecord struct {
	Blanks  int      `json:"blanks" validate:"required,min=1"`
	Answers []string `json:"answers" validate:"required,dive,required"`
}

type pairRecord struct {
	Item  string `json:"item" validate:"required"`
	Match string `json:"match" validate:"required"`
}

type matchingPairsRecord struct {
	Pairs []pairRecord `json:"pairs" validate:"required,min=1,dive"`
}

type calculationRecord struct {
	CorrectAnswer    *float64 `json:"correct_answer" validate:"required"`
	Unit             string   `json:"unit"`
	TolerancePercent *float64 `json:"tolerance_percent" validate:"omitempty,gte=0"`
	FormulaHint      string   `json:"formula_hint"`
}
