package commands

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/product"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/internal/core/validate"
)

// productInput is the document accepted by `add -f` and the values gathered
// from flags or prompts.
type productInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	DateRelease string `json:"date_release"`
}

func inputFrom(p product.Product) productInput {
	return productInput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Logo:        p.Logo,
		DateRelease: p.DateRelease.String(),
	}
}

// fields maps form field names to values, omitting empty ones so workflow
// defaults survive.
func (in productInput) fields() map[string]string {
	all := map[string]string{
		catalog.FieldID:          in.ID,
		catalog.FieldName:        in.Name,
		catalog.FieldDescription: in.Description,
		catalog.FieldLogo:        in.Logo,
		catalog.FieldReleaseDate: in.DateRelease,
	}
	out := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// productFlags returns the value flags shared by add and edit. withID adds
// --id.
func productFlags(in *productInput, withID bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "product name (5-100 characters)", Destination: &in.Name},
		&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "description (10-200 characters)", Destination: &in.Description},
		&cli.StringFlag{Name: "logo", Aliases: []string{"l"}, Usage: "logo URL (http or https)", Destination: &in.Logo},
		&cli.StringFlag{Name: "release", Aliases: []string{"r"}, Usage: "release date YYYY-MM-DD (defaults to today)", Destination: &in.DateRelease},
	}
	if withID {
		flags = append([]cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "product id (3-10 letters or digits)", Destination: &in.ID},
		}, flags...)
	}
	return flags
}

// formSetter is implemented by the create and edit workflows.
type formSetter interface {
	Set(field, value string) error
}

// apply writes every non-empty input value into wf. Locked fields are left
// alone.
func apply(wf formSetter, in productInput) error {
	for _, name := range catalog.Fields {
		v, ok := in.fields()[name]
		if !ok {
			continue
		}
		if err := wf.Set(name, v); err != nil && !errors.Is(err, catalog.ErrFieldDisabled) {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

// fieldValidator adapts a schema field's synchronous rules to a huh
// validator.
func fieldValidator(schema *validate.Schema, name string) func(string) error {
	field, ok := schema.Field(name)
	if !ok {
		return nil
	}
	return func(v string) error {
		if errs := field.Check(v); len(errs) > 0 {
			return errors.New(field.Message(errs[0]))
		}
		return nil
	}
}

// promptProduct asks for the product values. editing hides the id input.
func promptProduct(in *productInput, editing bool, sanitizer catalog.URLSanitizer) error {
	schema := catalog.NewSchema(nil, sanitizer)

	inputs := []huh.Field{}
	if !editing {
		inputs = append(inputs, huh.NewInput().
			Title("ID").
			Description("3-10 letters or digits").
			Validate(fieldValidator(schema, catalog.FieldID)).
			Value(&in.ID))
	}
	inputs = append(inputs,
		huh.NewInput().
			Title("Name").
			Validate(fieldValidator(schema, catalog.FieldName)).
			Value(&in.Name),
		huh.NewText().
			Title("Description").
			Validate(fieldValidator(schema, catalog.FieldDescription)).
			Value(&in.Description),
		huh.NewInput().
			Title("Logo URL").
			Placeholder("https://example.com/logo.png").
			Validate(fieldValidator(schema, catalog.FieldLogo)).
			Value(&in.Logo),
		huh.NewInput().
			Title("Release date").
			Description("YYYY-MM-DD; the review date is one year later").
			Validate(fieldValidator(schema, catalog.FieldReleaseDate)).
			Value(&in.DateRelease),
	)

	return huh.NewForm(huh.NewGroup(inputs...)).WithTheme(styles.FormTheme()).Run()
}
