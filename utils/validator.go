package utils

import (
	"strings"

	"github.com/dhchun1203/Trend-Analyzer-project/model"
)

// ValidateKeyword trims the user input and rejects an empty result.
// The trimmed keyword is what gets sent to the backend.
func ValidateKeyword(raw string) (string, error) {
	keyword := strings.TrimSpace(raw)
	if keyword == "" {
		return "", ErrEmptyKeyword
	}
	return keyword, nil
}

// ValidateCategory checks the category against the fixed catalog.
// An empty value selects the default category.
func ValidateCategory(id string) (model.Category, error) {
	if id == "" {
		return model.Categories[0], nil
	}
	if c, ok := model.FindCategory(id); ok {
		return c, nil
	}
	return model.Category{}, ErrUnsupportedCategory
}
