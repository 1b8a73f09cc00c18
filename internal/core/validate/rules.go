// Package validate is the declarative rule engine behind the product forms.
//
// A Schema maps field names to synchronous and asynchronous rules. Rules
// report failures as *RuleError values carrying a stable Code
// ("required", "minlength", ...) that callers map to user-facing messages.
// Validation results are returned as criterio.FieldErrors.
package validate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/hay-kot/criterio"
)

// Rule codes.
const (
	CodeRequired        = "required"
	CodeMinLength       = "minlength"
	CodeMaxLength       = "maxlength"
	CodePattern         = "pattern"
	CodeInvalidURL      = "invalidUrl"
	CodeUniqueID        = "uniqueId"
	CodeUniqueUnchecked = "uniqueIdUnverified"
)

// RuleError is a single rule failure.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

// Fail returns a *RuleError for code.
func Fail(code, format string, args ...any) error {
	return &RuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Rule checks a field value synchronously. It returns nil when the value
// passes.
type Rule func(value string) error

// AsyncRule checks a field value against an external source.
type AsyncRule func(ctx context.Context, value string) error

// Required fails on the empty string. Whitespace counts as a value.
func Required() Rule {
	return func(value string) error {
		if value == "" {
			return Fail(CodeRequired, "required")
		}
		return nil
	}
}

// MinLength fails when a non-empty value has fewer than n characters.
func MinLength(n int) Rule {
	return func(value string) error {
		if value == "" {
			return nil
		}
		if utf8.RuneCountInString(value) < n {
			return Fail(CodeMinLength, "minimum %d characters", n)
		}
		return nil
	}
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int) Rule {
	return func(value string) error {
		if utf8.RuneCountInString(value) > n {
			return Fail(CodeMaxLength, "maximum %d characters", n)
		}
		return nil
	}
}

// Pattern fails when a non-empty value does not match re.
func Pattern(re *regexp.Regexp) Rule {
	return func(value string) error {
		if value == "" || re.MatchString(value) {
			return nil
		}
		return Fail(CodePattern, "must match pattern: %s", re.String())
	}
}

// URL fails when a non-blank value is not an absolute http(s) URL.
func URL() Rule {
	return CheckURL
}

// Field describes one form field.
type Field struct {
	Name  string
	Rules []Rule
	// Async rules only run once every synchronous rule has passed.
	Async []AsyncRule
	// Messages maps rule codes to user-facing messages.
	Messages map[string]string
}

// Check runs every synchronous rule and returns all failures.
func (f Field) Check(value string) []error {
	var errs []error
	for _, rule := range f.Rules {
		if err := rule(value); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// CheckAsync runs the asynchronous rules in order and stops at the first
// failure.
func (f Field) CheckAsync(ctx context.Context, value string) error {
	for _, rule := range f.Async {
		if err := rule(ctx, value); err != nil {
			return err
		}
	}
	return nil
}

// Message returns the user-facing message for a rule code, falling back to
// the rule's own text.
func (f Field) Message(err error) string {
	var re *RuleError
	if !errors.As(err, &re) {
		return err.Error()
	}
	if msg, ok := f.Messages[re.Code]; ok {
		return msg
	}
	return re.Error()
}

// Schema is an ordered set of fields.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema. Field names must be unique.
func NewSchema(fields ...Field) *Schema {
	s := &Schema{
		fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic("validate: duplicate field " + f.Name)
		}
		s.index[f.Name] = i
	}
	return s
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field { return s.fields }

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Validate checks values against every field for which skip returns false.
// A nil skip checks every field. Failures are returned as
// criterio.FieldErrors with one entry per failing rule.
func (s *Schema) Validate(ctx context.Context, values map[string]string, skip func(name string) bool) error {
	var errs criterio.FieldErrorsBuilder
	for _, f := range s.fields {
		if skip != nil && skip(f.Name) {
			continue
		}

		value := values[f.Name]
		if ruleErrs := f.Check(value); len(ruleErrs) > 0 {
			for _, err := range ruleErrs {
				errs = errs.Append(f.Name, err)
			}
			continue
		}

		if err := f.CheckAsync(ctx, value); err != nil {
			errs = errs.Append(f.Name, err)
		}
	}
	return errs.ToError()
}

// Check is Validate without the asynchronous rules. It is used to refresh
// inline errors as the user types.
func (s *Schema) Check(values map[string]string, skip func(name string) bool) error {
	var errs criterio.FieldErrorsBuilder
	for _, f := range s.fields {
		if skip != nil && skip(f.Name) {
			continue
		}
		for _, err := range f.Check(values[f.Name]) {
			errs = errs.Append(f.Name, err)
		}
	}
	return errs.ToError()
}

// Recheck refreshes the synchronous errors after changed was edited. Errors
// in prev for other fields that still pass their synchronous rules are
// carried over, which keeps asynchronous results until their own field
// changes.
func (s *Schema) Recheck(values map[string]string, skip func(name string) bool, prev error, changed string) error {
	current := s.Check(values, skip)

	var prevErrs criterio.FieldErrors
	if !errors.As(prev, &prevErrs) {
		return current
	}

	failing := map[string]bool{}
	var curErrs criterio.FieldErrors
	if errors.As(current, &curErrs) {
		for _, fe := range curErrs {
			failing[fe.Field] = true
		}
	}

	var errs criterio.FieldErrorsBuilder
	for _, f := range s.fields {
		for _, fe := range curErrs {
			if fe.Field == f.Name {
				errs = errs.Append(fe.Field, fe.Err)
			}
		}
		if f.Name == changed || failing[f.Name] || len(f.Async) == 0 {
			continue
		}
		for _, fe := range prevErrs {
			if fe.Field == f.Name {
				errs = errs.Append(fe.Field, fe.Err)
			}
		}
	}
	return errs.ToError()
}

// Messages groups the failures in err by field, translated through each
// field's Messages table. Fields unknown to the schema keep the raw error
// text.
func (s *Schema) Messages(err error) map[string][]string {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	out := make(map[string][]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fe.Err.Error()
		if f, ok := s.Field(fe.Field); ok {
			msg = f.Message(fe.Err)
		}
		out[fe.Field] = append(out[fe.Field], msg)
	}
	return out
}

// Codes returns the rule codes reported for field in err, which is expected
// to be a criterio.FieldErrors.
func Codes(err error, field string) []string {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	var codes []string
	for _, fe := range fieldErrs {
		if fe.Field != field {
			continue
		}
		var re *RuleError
		if errors.As(fe.Err, &re) {
			codes = append(codes, re.Code)
		}
	}
	return codes
}

// HasCode reports whether err carries code for field.
func HasCode(err error, field, code string) bool {
	for _, c := range Codes(err, field) {
		if c == code {
			return true
		}
	}
	return false
}

