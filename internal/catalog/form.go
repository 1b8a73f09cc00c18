package catalog

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"time"

	"github.com/colonyops/catalog/internal/core/notify"
	"github.com/colonyops/catalog/internal/core/product"
	"github.com/colonyops/catalog/internal/core/validate"
)

// Form field names.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldLogo        = "logo"
	FieldReleaseDate = "releaseDate"
	FieldReviewDate  = "reviewDate"
)

// Fields lists the form fields in display order.
var Fields = []string{FieldID, FieldName, FieldDescription, FieldLogo, FieldReleaseDate, FieldReviewDate}

// CodeInvalidDate is reported for a release date that is not YYYY-MM-DD.
const CodeInvalidDate = "invalidDate"

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// NewSchema returns the product form rules. unique is the asynchronous id
// check and sanitizer the filter applied to the logo before sending; nil
// omits either.
func NewSchema(unique validate.AsyncRule, sanitizer URLSanitizer) *validate.Schema {
	id := validate.Field{
		Name: FieldID,
		Rules: []validate.Rule{
			validate.Required(),
			validate.MinLength(3),
			validate.MaxLength(10),
			validate.Pattern(idPattern),
		},
		Messages: map[string]string{
			validate.CodeRequired:        "ID is required",
			validate.CodeMinLength:       "ID must be at least 3 characters",
			validate.CodeMaxLength:       "ID cannot be longer than 10 characters",
			validate.CodePattern:         "ID may only contain letters and numbers",
			validate.CodeUniqueID:        "ID is already in use",
			validate.CodeUniqueUnchecked: "ID availability could not be verified",
		},
	}
	if unique != nil {
		id.Async = []validate.AsyncRule{unique}
	}

	logoRules := []validate.Rule{validate.Required(), validate.URL()}
	if sanitizer != nil {
		logoRules = append(logoRules, validate.SafeURL(sanitizer.Sanitize))
	}

	return validate.NewSchema(
		id,
		validate.Field{
			Name:  FieldName,
			Rules: []validate.Rule{validate.Required(), validate.MinLength(5), validate.MaxLength(100)},
			Messages: map[string]string{
				validate.CodeRequired:  "Name is required",
				validate.CodeMinLength: "Name must be at least 5 characters",
				validate.CodeMaxLength: "Name cannot be longer than 100 characters",
			},
		},
		validate.Field{
			Name:  FieldDescription,
			Rules: []validate.Rule{validate.Required(), validate.MinLength(10), validate.MaxLength(200)},
			Messages: map[string]string{
				validate.CodeRequired:  "Description is required",
				validate.CodeMinLength: "Description must be at least 10 characters",
				validate.CodeMaxLength: "Description cannot be longer than 200 characters",
			},
		},
		validate.Field{
			Name:  FieldLogo,
			Rules: logoRules,
			Messages: map[string]string{
				validate.CodeRequired:   "Logo is required",
				validate.CodeInvalidURL: "Logo must be a valid URL using http or https",
			},
		},
		validate.Field{
			Name:  FieldReleaseDate,
			Rules: []validate.Rule{validate.Required(), releaseDate},
			Messages: map[string]string{
				validate.CodeRequired: "Release date is required",
				CodeInvalidDate:       "Release date must be formatted as YYYY-MM-DD",
			},
		},
	)
}

func releaseDate(value string) error {
	if value == "" {
		return nil
	}
	if _, err := product.ParseDate(value); err != nil {
		return validate.Fail(CodeInvalidDate, "invalid date %q", value)
	}
	return nil
}

// Today returns the current local date.
func Today() product.Date {
	return product.DateOf(time.Now())
}

// FormState is a read-only snapshot of a form for rendering.
type FormState struct {
	Values   map[string]string
	Disabled map[string]bool
	// Errors holds per-field messages once the form has been submitted.
	Errors    map[string][]string
	Submitted bool
	Loading   bool
}

// Value returns the value of field.
func (s FormState) Value(field string) string { return s.Values[field] }

// IsDisabled reports whether field rejects edits.
func (s FormState) IsDisabled(field string) bool { return s.Disabled[field] }

// form is the mutable state behind the create and edit workflows. It is not
// safe for concurrent use; the owning workflow serializes access.
type form struct {
	schema    *validate.Schema
	today     func() product.Date
	locked    map[string]bool
	values    map[string]string
	disabled  map[string]bool
	submitted bool
	loading   bool
	errs      error
}

func newForm(schema *validate.Schema, today func() product.Date, locked ...string) *form {
	if today == nil {
		today = Today
	}
	f := &form{
		schema:   schema,
		today:    today,
		locked:   map[string]bool{FieldReviewDate: true},
		disabled: map[string]bool{},
	}
	for _, name := range locked {
		f.locked[name] = true
	}
	f.reset()
	return f
}

// reset clears every value and restores the date defaults without running
// derivation.
func (f *form) reset() {
	today := f.today()
	f.values = map[string]string{
		FieldID:          "",
		FieldName:        "",
		FieldDescription: "",
		FieldLogo:        "",
		FieldReleaseDate: today.String(),
		FieldReviewDate:  product.ReviewDate(today).String(),
	}
	f.submitted = false
	f.errs = nil
	f.enable()
}

// patch writes values without derivation, the way an existing product is
// loaded into the edit form.
func (f *form) patch(p product.Product) {
	f.values[FieldID] = p.ID
	f.values[FieldName] = p.Name
	f.values[FieldDescription] = p.Description
	f.values[FieldLogo] = p.Logo
	f.values[FieldReleaseDate] = p.DateRelease.String()
	f.values[FieldReviewDate] = p.DateRevision.String()
}

func (f *form) set(field, value string) error {
	if _, ok := f.values[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if f.disabled[field] {
		return fmt.Errorf("%w: %s", ErrFieldDisabled, field)
	}

	f.values[field] = value
	if field == FieldReleaseDate {
		f.values[FieldReviewDate] = deriveReviewDate(value)
	}

	if f.submitted {
		f.errs = f.schema.Recheck(f.values, f.skip, f.errs, field)
	}
	return nil
}

// begin marks the form submitted and locks it for the whole submit,
// validation included. It returns the values to validate and send.
func (f *form) begin() map[string]string {
	f.submitted = true
	f.loading = true
	f.disable()
	return maps.Clone(f.values)
}

// finish unlocks the form after a submit.
func (f *form) finish() {
	f.loading = false
	f.enable()
}

func (f *form) skip(field string) bool {
	return f.locked[field]
}

func (f *form) disable() {
	for _, name := range Fields {
		f.disabled[name] = true
	}
}

// enable re-enables every field except the locked ones; reviewDate is always
// locked.
func (f *form) enable() {
	for _, name := range Fields {
		f.disabled[name] = f.locked[name]
	}
}

func (f *form) snapshot() FormState {
	st := FormState{
		Values:    maps.Clone(f.values),
		Disabled:  maps.Clone(f.disabled),
		Submitted: f.submitted,
		Loading:   f.loading,
	}
	if f.submitted {
		st.Errors = f.schema.Messages(f.errs)
	}
	return st
}

func deriveReviewDate(release string) string {
	d, err := product.ParseDate(release)
	if err != nil || d.IsZero() {
		return ""
	}
	return product.ReviewDate(d).String()
}

// payload builds the request body from validated values.
func payload(values map[string]string, sanitizer URLSanitizer) (product.Product, error) {
	release, err := product.ParseDate(values[FieldReleaseDate])
	if err != nil {
		return product.Product{}, fmt.Errorf("parse release date: %w", err)
	}

	logo, ok := sanitizer.Sanitize(values[FieldLogo])
	if !ok {
		return product.Product{}, fmt.Errorf("%w: %q", ErrUnsafeURL, values[FieldLogo])
	}

	p := product.Product{
		ID:          values[FieldID],
		Name:        values[FieldName],
		Description: values[FieldDescription],
		Logo:        logo,
		DateRelease: release,
	}
	return p.WithDerivedRevision(), nil
}

// URLSanitizer cleans user supplied URLs before they are sent to the backend.
type URLSanitizer interface {
	Sanitize(raw string) (string, bool)
}

// Notifier publishes error toasts.
type Notifier interface {
	Error(message string) notify.Notification
}

// serverMessager is implemented by API errors that carry the backend's own
// explanation.
type serverMessager interface {
	ServerMessage() string
}

// UserMessage returns the text shown to the user for a failed request:
// the backend's message when present, the error text otherwise, and
// "Server Error" as a last resort.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var sm serverMessager
	if errors.As(err, &sm) && sm.ServerMessage() != "" {
		return sm.ServerMessage()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Server Error"
}
