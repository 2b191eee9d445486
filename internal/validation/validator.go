package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gosimple/slug"

	"github.com/school-news-site/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is the set of problems found in one payload
type Errors []ValidationError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, ve := range e {
		parts = append(parts, ve.Field+": "+ve.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator checks publish payloads. It never modifies them.
type Validator struct {
	maxIDLength int
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{maxIDLength: 128}
}

// SuggestID returns the lowercase hyphenated form of a free-form id
func SuggestID(id string) string {
	return slug.Make(strings.TrimSpace(id))
}

// ValidateArticle validates article. Ids are stored exactly as sent.
func (v *Validator) ValidateArticle(article *models.Article) error {
	var errs Errors

	errs = append(errs, v.checkID("id", article.ID)...)

	if article.Column > models.ColumnRight {
		errs = append(errs, ValidationError{
			Field:   "column",
			Message: fmt.Sprintf("column must be between %d and %d", models.ColumnHeadline, models.ColumnRight),
			Value:   article.Column,
		})
	}

	if article.ID == models.InvalidMarker {
		errs = append(errs, ValidationError{Field: "id", Message: "id is reserved", Value: article.ID})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidatePaper validates paper. The id is stored exactly as sent.
func (v *Validator) ValidatePaper(paper *models.Paper) error {
	var errs Errors

	errs = append(errs, v.checkID("id", paper.ID)...)

	if strings.TrimSpace(paper.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(paper.Logo) == "" {
		errs = append(errs, ValidationError{Field: "logo", Message: "logo is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// checkID accepts any id that fits in one path segment of /read/:id or /newspaper/:paper
func (v *Validator) checkID(field, id string) []ValidationError {
	switch {
	case id == "":
		return []ValidationError{{Field: field, Message: field + " is required"}}
	case len(id) > v.maxIDLength:
		return []ValidationError{{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, v.maxIDLength), Value: id}}
	case id == "." || id == ".." || strings.IndexFunc(id, unroutable) >= 0:
		msg := field + " cannot contain spaces or any of / ? # %"
		if suggestion := SuggestID(id); suggestion != "" {
			msg += fmt.Sprintf(" (try %q)", suggestion)
		}
		return []ValidationError{{Field: field, Message: msg, Value: id}}
	}
	return nil
}

func unroutable(r rune) bool {
	return r == '/' || r == '?' || r == '#' || r == '%' || unicode.IsSpace(r) || unicode.IsControl(r)
}
