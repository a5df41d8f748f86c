package table

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"mediasort/internal/services"
)

// Row is one data row of the naming table with cells trimmed.
type Row struct {
	Index         int      `json:"index"`
	FileToken     string   `json:"file_token"`
	SuggestedName string   `json:"suggested_name"`
	Date          string   `json:"date,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Area          string   `json:"area"`
}

var requiredFieldLabels = map[string]string{
	"file_token":     ColumnFileName.String(),
	"suggested_name": ColumnSuggestedName.String(),
	"area":           ColumnArea.String(),
}

// Validate reports a row lacking its file token, suggested name or area.
func (r Row) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.FileToken, validation.Required),
		validation.Field(&r.SuggestedName, validation.Required),
		validation.Field(&r.Area, validation.Required),
	)
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return services.Wrap(services.ErrValidation, services.StageResolve, "validate row", err.Error(), nil)
	}
	missing := make([]string, 0, len(fieldErrs))
	for key := range fieldErrs {
		label, ok := requiredFieldLabels[key]
		if !ok {
			label = key
		}
		missing = append(missing, label)
	}
	sort.Strings(missing)
	return services.Wrap(
		services.ErrValidation,
		services.StageResolve,
		"validate row",
		"missing required field: "+strings.Join(missing, ", "),
		nil,
	)
}

// Label names the row the way a person reads the table: its file token, or
// "row N" when the token cell is blank.
func (r Row) Label() string {
	if token := strings.TrimSpace(r.FileToken); token != "" {
		return token
	}
	return "row " + strconv.Itoa(r.Index)
}

// HasMetadata reports whether the row carries a date or tags to write.
func (r Row) HasMetadata() bool {
	return strings.TrimSpace(r.Date) != "" || len(r.Tags) > 0
}
