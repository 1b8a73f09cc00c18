package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/catalog/internal/core/notify"
	"github.com/colonyops/catalog/internal/core/product"
	"github.com/colonyops/catalog/internal/core/validate"
)

type createFixture struct {
	wf     *CreateWorkflow
	api    *fakeAPI
	nav    *navRecorder
	center *notify.Center
}

func newCreateFixture(t *testing.T, api *fakeAPI) createFixture {
	t.Helper()
	if api == nil {
		api = &fakeAPI{}
	}
	nav := &navRecorder{}
	center := newTestCenter()
	wf := NewCreateWorkflow(CreateDeps{
		Products:  api,
		Unique:    NewUniqueIDValidator(api, FailOpen, testLogger()).Rule(),
		Sanitizer: testSanitizer(),
		Notifier:  center,
		Navigator: nav,
		Logger:    testLogger(),
		Today:     fixedToday,
	})
	return createFixture{wf: wf, api: api, nav: nav, center: center}
}

func fillValid(t *testing.T, wf *CreateWorkflow) {
	t.Helper()
	require.NoError(t, wf.Set(FieldID, "trj123"))
	require.NoError(t, wf.Set(FieldName, "Tarjeta Credito"))
	require.NoError(t, wf.Set(FieldDescription, "Tarjeta de consumo bajo la modalidad de credito"))
	require.NoError(t, wf.Set(FieldLogo, "https://valid.url/image.png"))
	require.NoError(t, wf.Set(FieldReleaseDate, "2025-06-01"))
}

func TestCreateWorkflow_Defaults(t *testing.T) {
	f := newCreateFixture(t, nil)
	st := f.wf.State()

	assert.Equal(t, "2025-03-10", st.Value(FieldReleaseDate))
	assert.Equal(t, "2026-03-10", st.Value(FieldReviewDate))
	assert.True(t, st.IsDisabled(FieldReviewDate))
	assert.False(t, st.IsDisabled(FieldID))
	assert.False(t, st.Submitted)
	assert.False(t, st.Loading)
	assert.Nil(t, st.Errors)
}

func TestCreateWorkflow_ReviewDateDerivation(t *testing.T) {
	tests := []struct {
		release string
		want    string
	}{
		{"2025-06-01", "2026-06-01"},
		{"2024-02-29", "2025-02-28"},
		{"2023-12-31", "2024-12-31"},
		{"not-a-date", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.release, func(t *testing.T) {
			f := newCreateFixture(t, nil)
			require.NoError(t, f.wf.Set(FieldReleaseDate, tt.release))
			assert.Equal(t, tt.want, f.wf.State().Value(FieldReviewDate))
		})
	}
}

func TestCreateWorkflow_ReviewDateIsReadOnly(t *testing.T) {
	f := newCreateFixture(t, nil)
	err := f.wf.Set(FieldReviewDate, "2030-01-01")
	assert.ErrorIs(t, err, ErrFieldDisabled)

	assert.ErrorIs(t, f.wf.Set("price", "10"), ErrUnknownField)
}

func TestCreateWorkflow_RequiredFieldsBlockSubmit(t *testing.T) {
	fields := []string{FieldID, FieldName, FieldDescription, FieldLogo, FieldReleaseDate}

	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			f := newCreateFixture(t, nil)
			fillValid(t, f.wf)
			require.NoError(t, f.wf.Set(field, ""))

			_, err := f.wf.Submit(context.Background())
			require.ErrorIs(t, err, ErrInvalid)
			assert.True(t, validate.HasCode(err, field, validate.CodeRequired))

			assert.Empty(t, f.api.createCalls)
			assert.Empty(t, f.nav.Routes())

			st := f.wf.State()
			assert.True(t, st.Submitted)
			assert.False(t, st.Loading)
			assert.NotEmpty(t, st.Errors[field])
		})
	}
}

func TestCreateWorkflow_IDRules(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"a", validate.CodeMinLength},
		{"ab", validate.CodeMinLength},
		{"abcdefghijk", validate.CodeMaxLength},
		{"abc-12", validate.CodePattern},
		{"taken1", validate.CodeUniqueID},
		{"abc", ""},
		{"abcdefghij", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			f := newCreateFixture(t, &fakeAPI{taken: map[string]bool{"taken1": true}})
			fillValid(t, f.wf)
			require.NoError(t, f.wf.Set(FieldID, tt.id))

			_, err := f.wf.Submit(context.Background())
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			assert.True(t, validate.HasCode(err, FieldID, tt.want), "codes: %v", validate.Codes(err, FieldID))
		})
	}
}

func TestCreateWorkflow_UniquenessFailsOpen(t *testing.T) {
	f := newCreateFixture(t, &fakeAPI{takenErr: errBoom})
	fillValid(t, f.wf)

	_, err := f.wf.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, f.api.createCalls, 1)
}

func TestCreateWorkflow_LogoRules(t *testing.T) {
	tests := []struct {
		logo string
		want string
	}{
		{"", validate.CodeRequired},
		{"invalid-url", validate.CodeInvalidURL},
		{"ftp://files.example.com/logo.png", validate.CodeInvalidURL},
		{"https://cdn.example.com/my logo.png", validate.CodeInvalidURL},
		{"https://valid.url/image.png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.logo, func(t *testing.T) {
			f := newCreateFixture(t, nil)
			fillValid(t, f.wf)
			require.NoError(t, f.wf.Set(FieldLogo, tt.logo))

			_, err := f.wf.Submit(context.Background())
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, []string{tt.want}, validate.Codes(err, FieldLogo))
		})
	}
}

func TestCreateWorkflow_LogoRejectedBySanitizerNeverSent(t *testing.T) {
	f := newCreateFixture(t, nil)
	fillValid(t, f.wf)
	require.NoError(t, f.wf.Set(FieldLogo, "https://cdn.example.com/my logo.png"))

	_, err := f.wf.Submit(context.Background())
	require.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, f.api.createCalls)
	assert.Equal(t, []string{"Logo must be a valid URL using http or https"}, f.wf.State().Errors[FieldLogo])
}

type rejectingSanitizer struct{}

func (rejectingSanitizer) Sanitize(string) (string, bool) { return "", false }

func TestPayload_RejectedLogo(t *testing.T) {
	_, err := payload(map[string]string{
		FieldID:          "trj123",
		FieldLogo:        "https://valid.url/image.png",
		FieldReleaseDate: "2025-06-01",
	}, rejectingSanitizer{})
	assert.ErrorIs(t, err, ErrUnsafeURL)
}

func TestCreateWorkflow_UniqueErrorKeptUntilIDChanges(t *testing.T) {
	f := newCreateFixture(t, &fakeAPI{taken: map[string]bool{"taken1": true}})
	fillValid(t, f.wf)
	require.NoError(t, f.wf.Set(FieldID, "taken1"))

	_, err := f.wf.Submit(context.Background())
	require.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, []string{"ID is already in use"}, f.wf.State().Errors[FieldID])

	require.NoError(t, f.wf.Set(FieldName, "Tarjeta Debito"))
	assert.Equal(t, []string{"ID is already in use"}, f.wf.State().Errors[FieldID])

	require.NoError(t, f.wf.Set(FieldID, "free1"))
	assert.Empty(t, f.wf.State().Errors[FieldID])
}

func TestCreateWorkflow_LockedDuringUniquenessCheck(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{}
	nav := &navRecorder{}
	wf := NewCreateWorkflow(CreateDeps{
		Products: api,
		Unique: func(context.Context, string) error {
			close(entered)
			<-release
			return nil
		},
		Sanitizer: testSanitizer(),
		Notifier:  newTestCenter(),
		Navigator: nav,
		Logger:    testLogger(),
		Today:     fixedToday,
	})
	fillValid(t, wf)

	done := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background())
		done <- err
	}()
	<-entered

	during := wf.State()
	assert.True(t, during.Loading)
	assert.True(t, during.IsDisabled(FieldName))
	assert.ErrorIs(t, wf.Set(FieldName, "Edited while checking"), ErrFieldDisabled)

	wf.Reset()
	assert.Equal(t, "trj123", wf.State().Value(FieldID), "reset ignored while submitting")

	close(release)
	require.NoError(t, <-done)

	require.Len(t, api.createCalls, 1)
	assert.Equal(t, "Tarjeta Credito", api.createCalls[0].Name)
	assert.Equal(t, "Tarjeta Credito", wf.State().Value(FieldName))
	assert.False(t, wf.State().Loading)
}

func TestCreateWorkflow_InlineErrorsRefreshAfterSubmit(t *testing.T) {
	f := newCreateFixture(t, nil)

	require.NoError(t, f.wf.Set(FieldName, "abc"))
	assert.Nil(t, f.wf.State().Errors, "errors hidden before first submit")

	_, err := f.wf.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"Name must be at least 5 characters"}, f.wf.State().Errors[FieldName])

	require.NoError(t, f.wf.Set(FieldName, "Long enough"))
	assert.Empty(t, f.wf.State().Errors[FieldName])
}

func TestCreateWorkflow_SubmitSuccess(t *testing.T) {
	f := newCreateFixture(t, nil)
	fillValid(t, f.wf)
	require.NoError(t, f.wf.Set(FieldLogo, "  https://valid.url/image.png  "))

	created, err := f.wf.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, f.api.createCalls, 1)
	sent := f.api.createCalls[0]
	assert.Equal(t, "trj123", sent.ID)
	assert.Equal(t, "https://valid.url/image.png", sent.Logo)
	assert.Equal(t, product.NewDate(2025, time.June, 1), sent.DateRelease)
	assert.Equal(t, product.NewDate(2026, time.June, 1), sent.DateRevision)
	assert.Equal(t, sent.ID, created.ID)

	assert.Equal(t, []Route{RouteList}, f.nav.Routes())
	assert.Zero(t, f.center.Len())
}

func TestCreateWorkflow_LoadingDuringSubmit(t *testing.T) {
	var during FormState
	api := &fakeAPI{}
	f := newCreateFixture(t, api)
	api.onCreate = func(p product.Product) (product.Product, error) {
		during = f.wf.State()
		return p, nil
	}
	fillValid(t, f.wf)

	_, err := f.wf.Submit(context.Background())
	require.NoError(t, err)

	assert.True(t, during.Loading)
	for _, field := range Fields {
		assert.True(t, during.IsDisabled(field), "%s disabled during submit", field)
	}

	after := f.wf.State()
	assert.False(t, after.Loading)
	assert.True(t, after.IsDisabled(FieldReviewDate))
	for _, field := range []string{FieldID, FieldName, FieldDescription, FieldLogo, FieldReleaseDate} {
		assert.False(t, after.IsDisabled(field), "%s enabled after submit", field)
	}
}

func TestCreateWorkflow_SetRejectedWhileSubmitting(t *testing.T) {
	api := &fakeAPI{}
	f := newCreateFixture(t, api)
	var setErr error
	api.onCreate = func(p product.Product) (product.Product, error) {
		setErr = f.wf.Set(FieldName, "Changed name")
		return p, nil
	}
	fillValid(t, f.wf)

	_, err := f.wf.Submit(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, setErr, ErrFieldDisabled)
}

func TestCreateWorkflow_SubmitFailureNotifies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"error text", errors.New("Duplicate identifier"), "Duplicate identifier"},
		{"server message", serverErr{msg: "Invalid body, missing fields"}, "Invalid body, missing fields"},
		{"empty error", errors.New(""), "Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{onCreate: func(product.Product) (product.Product, error) { return product.Product{}, tt.err }}
			f := newCreateFixture(t, api)
			fillValid(t, f.wf)

			_, err := f.wf.Submit(context.Background())
			require.ErrorIs(t, err, tt.err)

			assert.Empty(t, f.nav.Routes())
			items := f.center.List()
			require.Len(t, items, 1)
			assert.Equal(t, notify.LevelError, items[0].Level)
			assert.Equal(t, tt.want, items[0].Message)

			st := f.wf.State()
			assert.False(t, st.Loading)
			assert.False(t, st.IsDisabled(FieldName))
			assert.True(t, st.IsDisabled(FieldReviewDate))
		})
	}
}

func TestCreateWorkflow_OverlappingSubmitRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{onCreate: func(p product.Product) (product.Product, error) {
		close(entered)
		<-release
		return p, nil
	}}
	f := newCreateFixture(t, api)
	fillValid(t, f.wf)

	done := make(chan error, 1)
	go func() {
		_, err := f.wf.Submit(context.Background())
		done <- err
	}()
	<-entered

	_, err := f.wf.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, f.api.createCalls, 1)
}

func TestCreateWorkflow_Reset(t *testing.T) {
	f := newCreateFixture(t, nil)
	fillValid(t, f.wf)
	require.NoError(t, f.wf.Set(FieldName, ""))
	_, err := f.wf.Submit(context.Background())
	require.Error(t, err)

	f.wf.Reset()
	st := f.wf.State()
	assert.False(t, st.Submitted)
	assert.Nil(t, st.Errors)
	assert.Empty(t, st.Value(FieldID))
	assert.Empty(t, st.Value(FieldLogo))
	assert.Equal(t, "2025-03-10", st.Value(FieldReleaseDate))
	assert.Equal(t, "2026-03-10", st.Value(FieldReviewDate))
	assert.True(t, st.IsDisabled(FieldReviewDate))
}

func TestCreateWorkflow_CancelKeepsValues(t *testing.T) {
	f := newCreateFixture(t, nil)
	require.NoError(t, f.wf.Set(FieldName, "Draft name"))

	f.wf.Cancel()
	assert.Equal(t, []Route{RouteList}, f.nav.Routes())
	assert.Equal(t, "Draft name", f.wf.State().Value(FieldName))
	assert.Empty(t, f.api.createCalls)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Server Error", UserMessage(errors.New("")))
	assert.Equal(t, "from server", UserMessage(wrap(serverErr{msg: "from server"})))
	assert.True(t, strings.HasPrefix(UserMessage(wrap(serverErr{})), "create product"))
}

type serverErr struct{ msg string }

func (e serverErr) Error() string {
	if e.msg == "" {
		return "status 500"
	}
	return e.msg
}

func (e serverErr) ServerMessage() string { return e.msg }

func wrap(err error) error { return &wrapped{err: err} }

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "create product: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }
