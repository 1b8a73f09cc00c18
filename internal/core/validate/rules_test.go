package validate

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeOf(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

func TestRules(t *testing.T) {
	alnum := regexp.MustCompile(`^[a-zA-Z0-9]+$`)

	tests := []struct {
		name  string
		rule  Rule
		value string
		want  string
	}{
		{"required, empty", Required(), "", CodeRequired},
		{"required, whitespace", Required(), " ", ""},
		{"required, value", Required(), "abc", ""},
		{"min, empty skips", MinLength(3), "", ""},
		{"min, short", MinLength(3), "ab", CodeMinLength},
		{"min, exact", MinLength(3), "abc", ""},
		{"min, counts runes", MinLength(3), "ñañ", ""},
		{"max, long", MaxLength(10), "abcdefghijk", CodeMaxLength},
		{"max, exact", MaxLength(10), "abcdefghij", ""},
		{"pattern, match", Pattern(alnum), "abc123", ""},
		{"pattern, miss", Pattern(alnum), "abc-123", CodePattern},
		{"pattern, empty skips", Pattern(alnum), "", ""},
		{"url, blank skips", URL(), "   ", ""},
		{"url, invalid", URL(), "invalid-url", CodeInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codeOf(tt.rule(tt.value)))
		})
	}
}

func TestField_CheckCollectsAllFailures(t *testing.T) {
	f := Field{
		Name:  "id",
		Rules: []Rule{Required(), MinLength(3), Pattern(regexp.MustCompile(`^[a-z]+$`))},
	}

	errs := f.Check("a!")
	require.Len(t, errs, 2)
	assert.Equal(t, CodeMinLength, codeOf(errs[0]))
	assert.Equal(t, CodePattern, codeOf(errs[1]))
}

func TestField_Message(t *testing.T) {
	f := Field{
		Name:     "name",
		Messages: map[string]string{CodeRequired: "Name is required"},
	}

	assert.Equal(t, "Name is required", f.Message(Fail(CodeRequired, "required")))
	assert.Equal(t, "minimum 5 characters", f.Message(Fail(CodeMinLength, "minimum 5 characters")))
	assert.Equal(t, "boom", f.Message(errors.New("boom")))
}

func TestSchema_Validate(t *testing.T) {
	var asyncCalls []string
	taken := func(_ context.Context, value string) error {
		asyncCalls = append(asyncCalls, value)
		if value == "taken" {
			return Fail(CodeUniqueID, "already in use")
		}
		return nil
	}

	schema := NewSchema(
		Field{Name: "id", Rules: []Rule{Required(), MinLength(3)}, Async: []AsyncRule{taken}},
		Field{Name: "logo", Rules: []Rule{Required(), URL()}},
		Field{Name: "review", Rules: []Rule{Required()}},
	)

	t.Run("valid", func(t *testing.T) {
		asyncCalls = nil
		err := schema.Validate(context.Background(), map[string]string{
			"id": "abc", "logo": "https://valid.url/image.png", "review": "2026-01-01",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"abc"}, asyncCalls)
	})

	t.Run("sync failure skips async", func(t *testing.T) {
		asyncCalls = nil
		err := schema.Validate(context.Background(), map[string]string{"id": "ab"}, nil)

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Empty(t, asyncCalls)
		assert.Equal(t, []string{CodeMinLength}, Codes(err, "id"))
		assert.Equal(t, []string{CodeRequired}, Codes(err, "logo"))
	})

	t.Run("async failure", func(t *testing.T) {
		err := schema.Validate(context.Background(), map[string]string{
			"id": "taken", "logo": "https://valid.url/image.png", "review": "x",
		}, nil)
		assert.True(t, HasCode(err, "id", CodeUniqueID))
		assert.False(t, HasCode(err, "logo", CodeInvalidURL))
	})

	t.Run("skipped fields", func(t *testing.T) {
		err := schema.Validate(context.Background(), map[string]string{
			"id": "abc", "logo": "https://valid.url/image.png",
		}, func(name string) bool { return name == "review" })
		assert.NoError(t, err)
	})
}

func TestNewSchema_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema(Field{Name: "id"}, Field{Name: "id"})
	})
}

func TestCodes_NotFieldErrors(t *testing.T) {
	assert.Nil(t, Codes(errors.New("plain"), "id"))
	assert.Nil(t, Codes(nil, "id"))
}

func TestSchema_CheckSkipsAsync(t *testing.T) {
	called := false
	schema := NewSchema(
		Field{
			Name:     "id",
			Rules:    []Rule{Required()},
			Async:    []AsyncRule{func(context.Context, string) error { called = true; return nil }},
			Messages: map[string]string{CodeRequired: "ID is required"},
		},
		Field{Name: "name", Rules: []Rule{MinLength(5)}},
	)

	err := schema.Check(map[string]string{"name": "abc"}, nil)
	require.Error(t, err)
	assert.False(t, called)

	msgs := schema.Messages(err)
	assert.Equal(t, []string{"ID is required"}, msgs["id"])
	assert.Equal(t, []string{"minimum 5 characters"}, msgs["name"])

	assert.NoError(t, schema.Check(map[string]string{"id": "x"}, nil))
	assert.Nil(t, schema.Messages(nil))
}

func TestSchema_RecheckKeepsAsyncErrors(t *testing.T) {
	taken := func(_ context.Context, value string) error {
		if value == "taken" {
			return Fail(CodeUniqueID, "already in use")
		}
		return nil
	}
	schema := NewSchema(
		Field{Name: "id", Rules: []Rule{Required(), MinLength(3)}, Async: []AsyncRule{taken}},
		Field{Name: "name", Rules: []Rule{Required()}},
	)

	values := map[string]string{"id": "taken", "name": ""}
	prev := schema.Validate(context.Background(), values, nil)
	require.True(t, HasCode(prev, "id", CodeUniqueID))

	t.Run("other field edited", func(t *testing.T) {
		err := schema.Recheck(map[string]string{"id": "taken", "name": "Tarjeta"}, nil, prev, "name")
		assert.Equal(t, []string{CodeUniqueID}, Codes(err, "id"))
		assert.Empty(t, Codes(err, "name"))
	})

	t.Run("own field edited", func(t *testing.T) {
		err := schema.Recheck(map[string]string{"id": "other", "name": ""}, nil, prev, "id")
		assert.Empty(t, Codes(err, "id"))
		assert.Equal(t, []string{CodeRequired}, Codes(err, "name"))
	})

	t.Run("sync failure replaces async", func(t *testing.T) {
		err := schema.Recheck(map[string]string{"id": "", "name": ""}, nil, prev, "name")
		assert.Equal(t, []string{CodeRequired}, Codes(err, "id"))
	})

	t.Run("no previous errors", func(t *testing.T) {
		assert.NoError(t, schema.Recheck(map[string]string{"id": "abc", "name": "x"}, nil, nil, "id"))
	})
}
