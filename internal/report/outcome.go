package report

import (
	"mediasort/internal/services"
	"mediasort/internal/table"
)

// Status is the terminal state of one row.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Outcome records what happened to one table row. Successes carry FinalPath;
// failures carry Stage and Reason. Warning is set when a row continued past a
// tagging failure.
type Outcome struct {
	Row        int    `json:"row"`
	Token      string `json:"token"`
	Name       string `json:"name,omitempty"`
	Status     Status `json:"status"`
	Stage      string `json:"stage,omitempty"`
	Reason     string `json:"reason,omitempty"`
	SourcePath string `json:"source_path,omitempty"`
	FinalPath  string `json:"final_path,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

// Success builds the outcome of a row that reached its final path.
func Success(row table.Row, sourcePath, finalPath string) Outcome {
	return Outcome{
		Row:        row.Index,
		Token:      row.FileToken,
		Name:       row.SuggestedName,
		Status:     StatusSuccess,
		SourcePath: sourcePath,
		FinalPath:  finalPath,
	}
}

// Failure builds the outcome of a row that stopped at stage.
func Failure(row table.Row, stage, reason string) Outcome {
	return Outcome{
		Row:    row.Index,
		Token:  row.FileToken,
		Name:   row.SuggestedName,
		Status: StatusFailure,
		Stage:  stage,
		Reason: reason,
	}
}

// FromError converts a row error into a failure outcome. The stage recorded
// on the error wins over fallbackStage.
func FromError(row table.Row, fallbackStage string, err error) Outcome {
	stage, ok := services.StageOf(err)
	if !ok {
		stage = fallbackStage
	}
	return Failure(row, stage, services.Reason(err))
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailure
}

// Label is the token as written in the table, or "row N" when it was blank.
func (o Outcome) Label() string {
	return table.Row{Index: o.Row, FileToken: o.Token}.Label()
}
