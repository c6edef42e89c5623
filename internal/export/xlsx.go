// Package export renders evaluation summaries as spreadsheets.
package export

import (
	"fmt"

	"skill-assess/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet   = "Summary"
	QuestionsSheet = "Questions"
)

var questionHeaders = []string{
	"Number", "Question", "Type", "Correct", "Your Answer", "Correct Answer", "Score", "Feedback",
}

// SummaryWorkbook writes summary to an .xlsx document with a totals sheet and one row
// per question.
func SummaryWorkbook(summary *domain.EvaluationSummary, learner string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1".
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	totals := [][]interface{}{
		{"Learner", learner},
		{"Item", summary.ItemName},
		{"Total Questions", summary.TotalQuestions},
		{"Correct Answers", summary.CorrectAnswers},
		{"Score (%)", summary.ScorePercentage},
	}
	for i, row := range totals {
		if err := writeRow(f, SummarySheet, i+1, row); err != nil {
			return nil, err
		}
	}

	index, err := f.NewSheet(QuestionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	headers := make([]interface{}, len(questionHeaders))
	for i, h := range questionHeaders {
		headers[i] = h
	}
	if err := writeRow(f, QuestionsSheet, 1, headers); err != nil {
		return nil, err
	}
	for i, q := range summary.PerQuestion {
		row := []interface{}{
			q.Number,
			q.QuestionText,
			string(q.Type),
			q.IsCorrect,
			q.UserAnswerText,
			q.CorrectAnswerText,
			q.ScorePoints,
			q.Feedback,
		}
		if err := writeRow(f, QuestionsSheet, i+2, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(QuestionsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header row: %w", err)
	}
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNumber int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNumber, sheet, err)
	}
	return nil
}
