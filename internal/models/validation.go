package models

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldError describes a single violated constraint, tagged with the field
// that caused it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every violated constraint found in one pass, so a
// caller can report all problems at once instead of fixing them one by one.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// FieldMap returns the errors as a field -> message map, the shape handlers
// render to clients.
func (v ValidationErrors) FieldMap() map[string]string {
	m := make(map[string]string, len(v))
	for _, fe := range v {
		m[fe.Field] = fe.Message
	}
	return m
}

// referencesPattern limits references to letters, digits, underscore and
// whitespace.
var referencesPattern = regexp.MustCompile(`^[\w\s]+$`)

// maxMoney bounds cost and price to 10 significant digits with 2 decimals,
// matching the decimal(10,2) columns.
var maxMoney = decimal.New(1, 8) // 100000000.00

// ValidateProductFields checks every field-level and cross-field constraint on
// the candidate fields and returns all violations. It returns nil when the
// fields are valid. The duplicate (description, references) check needs the
// store and is done by the product service on creation.
func ValidateProductFields(f ProductFields) ValidationErrors {
	var errs ValidationErrors

	if f.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "description is required"})
	} else if len(f.Description) > 255 {
		errs = append(errs, FieldError{Field: "description", Message: "description must be at most 255 characters"})
	}

	if f.References == "" {
		errs = append(errs, FieldError{Field: "references", Message: "references is required"})
	} else {
		if len(f.References) > 100 {
			errs = append(errs, FieldError{Field: "references", Message: "references must be at most 100 characters"})
		}
		if !referencesPattern.MatchString(f.References) {
			errs = append(errs, FieldError{Field: "references", Message: "references may only contain letters, digits, underscores and spaces"})
		}
	}

	if f.Stock < 0 {
		errs = append(errs, FieldError{Field: "stock", Message: "stock must not be negative"})
	} else if f.Stock > MaxStock {
		errs = append(errs, FieldError{Field: "stock", Message: "stock exceeds the maximum allowed"})
	}

	costOK := validMoney(&errs, "cost", f.Cost)
	priceOK := validMoney(&errs, "price", f.Price)

	// The cost/price ordering rule is reported separately from format
	// problems, and only when both values are well-formed.
	if costOK && priceOK && f.Cost.GreaterThanOrEqual(f.Price) {
		errs = append(errs, FieldError{Field: "cost", Message: "cost must be less than price"})
	}

	return errs
}

func validMoney(errs *ValidationErrors, field string, d decimal.Decimal) bool {
	ok := true
	if !d.IsPositive() {
		*errs = append(*errs, FieldError{Field: field, Message: field + " must be greater than zero"})
		ok = false
	}
	if !d.Round(2).Equal(d) {
		*errs = append(*errs, FieldError{Field: field, Message: field + " must have at most 2 decimal places"})
		ok = false
	}
	if d.GreaterThanOrEqual(maxMoney) {
		*errs = append(*errs, FieldError{Field: field, Message: field + " is too large"})
		ok = false
	}
	return ok
}
