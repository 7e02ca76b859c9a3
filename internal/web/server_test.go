package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceverse-signup/internal/forms"
	"voiceverse-signup/internal/models"
	"voiceverse-signup/internal/session"
	"voiceverse-signup/internal/workflow"
)

type fakeBackend struct {
	newsletter func(ctx context.Context, email string) error
	waitlist   func(ctx context.Context, in models.WaitlistInput) error
	contact    func(ctx context.Context, in models.ContactInput) error
}

func ok[T any](context.Context, T) error { return nil }

func newTestServer(t *testing.T, b fakeBackend, opts Options) (http.Handler, *session.Registry) {
	t.Helper()
	if b.newsletter == nil {
		b.newsletter = ok[string]
	}
	if b.waitlist == nil {
		b.waitlist = ok[models.WaitlistInput]
	}
	if b.contact == nil {
		b.contact = ok[models.ContactInput]
	}
	views := session.NewRegistry(func(onDismiss func()) session.Forms {
		return session.Forms{
			Newsletter: forms.NewNewsletterForm(b.newsletter, workflow.ResetAfter(time.Hour)),
			Waitlist:   forms.NewWaitlistForm(b.waitlist, onDismiss, workflow.ResetAfter(time.Hour)),
			Contact:    forms.NewContactForm(b.contact, workflow.ResetAfter(time.Hour)),
		}
	}, time.Hour, zerolog.Nop())

	opts.Views = views
	opts.Log = zerolog.Nop()
	if opts.RateLimit == 0 {
		opts.RateLimit = 600
		opts.RateBurst = 100
	}
	return NewServer(opts).Routes(), views
}

func do(h http.Handler, method, path, contentType, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func viewCookieOf(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == viewCookie {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", viewCookie)
	return nil
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) viewState {
	t.Helper()
	var s viewState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{}, Options{})
	rec := do(h, http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSessionStartsIdle(t *testing.T) {
	h, views := newTestServer(t, fakeBackend{}, Options{})

	rec := do(h, http.MethodGet, "/api/session", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := viewCookieOf(t, rec)
	assert.True(t, cookie.HttpOnly)

	s := decodeState(t, rec)
	assert.Equal(t, cookie.Value, s.ID)
	assert.Equal(t, models.StatusIdle, s.Newsletter.Kind)
	assert.Equal(t, models.StatusIdle, s.Waitlist.Kind)
	assert.False(t, s.Waitlist.Open)
	assert.True(t, s.Waitlist.Input.Newsletter)
	assert.Equal(t, models.StatusIdle, s.Contact.Kind)

	rec = do(h, http.MethodGet, "/api/session", "", "", cookie)
	assert.Equal(t, cookie.Value, decodeState(t, rec).ID)
	assert.Equal(t, 1, views.Len())
}

func TestNewsletterSubmit(t *testing.T) {
	var got string
	h, _ := newTestServer(t, fakeBackend{newsletter: func(_ context.Context, email string) error {
		got = email
		return nil
	}}, Options{})

	rec := do(h, http.MethodPost, "/api/newsletter/submit", "application/json", `{"email":" ada@example.com "}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	s := decodeState(t, rec)
	assert.Equal(t, "ada@example.com", got)
	assert.Equal(t, models.StatusSuccess, s.Newsletter.Kind)
	assert.Equal(t, forms.NewsletterMessages.Success, s.Newsletter.Message)
	assert.Empty(t, s.Newsletter.Email)
}

func TestNewsletterSubmitValidation(t *testing.T) {
	called := false
	h, _ := newTestServer(t, fakeBackend{newsletter: func(context.Context, string) error {
		called = true
		return nil
	}}, Options{})

	rec := do(h, http.MethodPost, "/api/newsletter/submit", "application/json", `{"email":"not-an-email"}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation", resp.Error)
	assert.Equal(t, "Enter a valid email address.", resp.Fields["email"])
	require.NotNil(t, resp.State)
	assert.Equal(t, models.StatusIdle, resp.State.Newsletter.Kind)
	assert.False(t, called)
}

func TestNewsletterSubmitFailure(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{newsletter: func(context.Context, string) error {
		return errors.New("upstream down")
	}}, Options{})

	rec := do(h, http.MethodPost, "/api/newsletter/submit", "application/json", `{"email":"ada@example.com"}`, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "submission_failed", resp.Error)
	assert.Equal(t, forms.NewsletterMessages.Error, resp.Message)
	assert.Equal(t, models.StatusError, resp.State.Newsletter.Kind)
	assert.Equal(t, "ada@example.com", resp.State.Newsletter.Email, "failed submissions keep the input")

	cookie := viewCookieOf(t, rec)
	rec = do(h, http.MethodPost, "/api/newsletter/dismiss", "", "", cookie)
	assert.Equal(t, models.StatusIdle, decodeState(t, rec).Newsletter.Kind)
}

func TestConcurrentSubmitIsBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	h, _ := newTestServer(t, fakeBackend{newsletter: func(context.Context, string) error {
		close(started)
		<-release
		return nil
	}}, Options{})

	rec := do(h, http.MethodGet, "/api/session", "", "", nil)
	cookie := viewCookieOf(t, rec)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- do(h, http.MethodPost, "/api/newsletter/submit", "application/json", `{"email":"ada@example.com"}`, cookie)
	}()
	<-started

	rec = do(h, http.MethodPost, "/api/newsletter/submit", "application/json", "", cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(h, http.MethodGet, "/api/session", "", "", cookie)
	assert.Equal(t, models.StatusLoading, decodeState(t, rec).Newsletter.Kind)

	close(release)
	first := <-done
	assert.Equal(t, http.StatusOK, first.Code)
}

func TestRejectedSubmitKeepsNewsletterEmail(t *testing.T) {
	var got []string
	h, _ := newTestServer(t, fakeBackend{newsletter: func(_ context.Context, email string) error {
		got = append(got, email)
		return nil
	}}, Options{})

	rec := do(h, http.MethodPost, "/api/newsletter/submit", "application/json", `{"email":"a@b.com"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := viewCookieOf(t, rec)

	rec = do(h, http.MethodPost, "/api/newsletter/submit", "application/json", `{"email":"other@x.com"}`, cookie)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.State.Newsletter.Email)

	rec = do(h, http.MethodGet, "/api/session", "", "", cookie)
	s := decodeState(t, rec)
	assert.Empty(t, s.Newsletter.Email)
	assert.Equal(t, models.StatusSuccess, s.Newsletter.Kind)
	assert.Equal(t, []string{"a@b.com"}, got)
}

func TestRejectedHTMLSubmitKeepsBuffers(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{}, Options{})

	rec := do(h, http.MethodPost, "/newsletter", "application/x-www-form-urlencoded", url.Values{"email": {"a@b.com"}}.Encode(), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := viewCookieOf(t, rec)

	form := url.Values{"firstName": {"Ada"}, "lastName": {"Lovelace"}, "email": {"ada@example.com"}, "role": {"Developer"}}
	rec = do(h, http.MethodPost, "/waitlist", "application/x-www-form-urlencoded", form.Encode(), cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	do(h, http.MethodPost, "/newsletter", "application/x-www-form-urlencoded", url.Values{"email": {"other@x.com"}}.Encode(), cookie)
	form.Set("firstName", "Grace")
	do(h, http.MethodPost, "/waitlist", "application/x-www-form-urlencoded", form.Encode(), cookie)

	s := decodeState(t, do(h, http.MethodGet, "/api/session", "", "", cookie))
	assert.Empty(t, s.Newsletter.Email)
	assert.Equal(t, "Ada", s.Waitlist.Input.FirstName)
}

func TestWaitlistEditAndSubmit(t *testing.T) {
	var got models.WaitlistInput
	h, _ := newTestServer(t, fakeBackend{waitlist: func(_ context.Context, in models.WaitlistInput) error {
		got = in
		return nil
	}}, Options{})

	rec := do(h, http.MethodPost, "/api/waitlist/open", "", "", nil)
	cookie := viewCookieOf(t, rec)
	assert.True(t, decodeState(t, rec).Waitlist.Open)

	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","role":"Developer","interests":[],"referralSource":"","newsletter":true}`
	rec = do(h, http.MethodPut, "/api/waitlist", "application/json", body, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(h, http.MethodPost, "/api/waitlist/interests", "application/json", `{"interest":"Voice Commerce"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Voice Commerce"}, decodeState(t, rec).Waitlist.Input.Interests)

	rec = do(h, http.MethodPost, "/api/waitlist/submit", "", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s := decodeState(t, rec)
	assert.Equal(t, models.StatusSuccess, s.Waitlist.Kind)
	assert.Equal(t, forms.WaitlistMessages.Success, s.Waitlist.Message)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, []string{"Voice Commerce"}, got.Interests)

	rec = do(h, http.MethodPost, "/api/waitlist/submit", "", "", cookie)
	assert.Equal(t, http.StatusConflict, rec.Code, "success blocks resubmission until reset")
}

func TestPatchWaitlistField(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{}, Options{})

	rec := do(h, http.MethodPatch, "/api/waitlist", "application/json", `{"name":"firstName","value":" Ada "}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ada", decodeState(t, rec).Waitlist.Input.FirstName)

	rec = do(h, http.MethodPatch, "/api/waitlist", "application/json", `{"name":"favouriteColour","value":"blue"}`, viewCookieOf(t, rec))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactEditAndSubmit(t *testing.T) {
	var got models.ContactInput
	h, _ := newTestServer(t, fakeBackend{contact: func(_ context.Context, in models.ContactInput) error {
		got = in
		return nil
	}}, Options{})

	rec := do(h, http.MethodPut, "/api/contact", "application/json", `{"name":"Ada","email":"ada@example.com","subject":"Hi","message":""}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := viewCookieOf(t, rec)

	rec = do(h, http.MethodPost, "/api/contact/submit", "", "", cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"message": "This field is required."}, resp.Fields)

	rec = do(h, http.MethodPatch, "/api/contact", "application/json", `{"name":"message","value":"Hello there"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello there", decodeState(t, rec).Contact.Input.Message)

	rec = do(h, http.MethodPost, "/api/contact/submit", "", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s := decodeState(t, rec)
	assert.Equal(t, models.StatusSuccess, s.Contact.Kind)
	assert.Equal(t, forms.ContactMessages.Success, s.Contact.Message)
	assert.Equal(t, models.ContactInput{}, s.Contact.Input)
	assert.Equal(t, "Hello there", got.Message)
}

func TestContactSubmitWithBodyAndDismiss(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{contact: func(context.Context, models.ContactInput) error {
		return errors.New("mailbox full")
	}}, Options{})

	body := `{"name":"Ada","email":"ada@example.com","subject":"Hi","message":"Hello"}`
	rec := do(h, http.MethodPost, "/api/contact/submit", "application/json", body, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, forms.ContactMessages.Error, resp.Message)
	assert.Equal(t, "Hello", resp.State.Contact.Input.Message)

	rec = do(h, http.MethodPost, "/api/contact/dismiss", "", "", viewCookieOf(t, rec))
	assert.Equal(t, models.StatusIdle, decodeState(t, rec).Contact.Kind)
}

func TestToggleInterestRequiresValue(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{}, Options{})
	rec := do(h, http.MethodPost, "/api/waitlist/interests", "application/json", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownJSONFieldRejected(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{}, Options{})
	rec := do(h, http.MethodPut, "/api/newsletter", "application/json", `{"mail":"x@example.com"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSessionDropsView(t *testing.T) {
	h, views := newTestServer(t, fakeBackend{}, Options{})
	cookie := viewCookieOf(t, do(h, http.MethodGet, "/api/session", "", "", nil))
	require.Equal(t, 1, views.Len())

	rec := do(h, http.MethodDelete, "/api/session", "", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, views.Len())
	assert.Equal(t, -1, viewCookieOf(t, rec).MaxAge)
}

func TestLandingPage(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{}, Options{})
	rec := do(h, http.MethodGet, "/", "", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `id="newsletter"`)
	assert.NotContains(t, rec.Body.String(), `id="waitlist"`)
}

func TestHTMLNewsletterForm(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{}, Options{})
	form := url.Values{"email": {"ada@example.com"}}.Encode()

	rec := do(h, http.MethodPost, "/newsletter", "application/x-www-form-urlencoded", form, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#newsletter", rec.Header().Get("Location"))

	rec = do(h, http.MethodGet, "/", "", "", viewCookieOf(t, rec))
	assert.Contains(t, rec.Body.String(), forms.NewsletterMessages.Success)
}

func TestHTMLNewsletterFormInvalid(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{}, Options{})
	form := url.Values{"email": {"nope"}}.Encode()

	rec := do(h, http.MethodPost, "/newsletter", "application/x-www-form-urlencoded", form, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid email address.")
	assert.Contains(t, rec.Body.String(), `value="nope"`)
}

func TestHTMLWaitlistFlow(t *testing.T) {
	var got models.WaitlistInput
	h, _ := newTestServer(t, fakeBackend{waitlist: func(_ context.Context, in models.WaitlistInput) error {
		got = in
		return nil
	}}, Options{})

	rec := do(h, http.MethodPost, "/waitlist/open", "", "", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := viewCookieOf(t, rec)

	rec = do(h, http.MethodGet, "/", "", "", cookie)
	assert.Contains(t, rec.Body.String(), `id="waitlist"`)

	form := url.Values{
		"firstName":  {"Ada"},
		"lastName":   {"Lovelace"},
		"email":      {"ada@example.com"},
		"role":       {"Developer"},
		"interests":  {"Voice Gaming", "Voice Gaming"},
		"newsletter": {"on"},
	}.Encode()
	rec = do(h, http.MethodPost, "/waitlist", "application/x-www-form-urlencoded", form, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"Voice Gaming"}, got.Interests)
	assert.True(t, got.Newsletter)

	rec = do(h, http.MethodPost, "/waitlist/close", "", "", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = do(h, http.MethodGet, "/", "", "", cookie)
	assert.NotContains(t, rec.Body.String(), `id="waitlist"`)
}

func TestHTMLWaitlistFormInvalid(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{}, Options{})
	form := url.Values{"firstName": {"Ada"}}.Encode()

	rec := do(h, http.MethodPost, "/waitlist", "application/x-www-form-urlencoded", form, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="waitlist"`)
	assert.Contains(t, body, `value="Ada"`)
	assert.Contains(t, body, `data-field="lastName"`)
	assert.Contains(t, body, `data-field="role"`)
}

func TestHTMLContactForm(t *testing.T) {
	var got models.ContactInput
	h, _ := newTestServer(t, fakeBackend{contact: func(_ context.Context, in models.ContactInput) error {
		got = in
		return nil
	}}, Options{})

	form := url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"subject": {"Partnership"},
		"message": {"Let's talk"},
	}.Encode()
	rec := do(h, http.MethodPost, "/contact", "application/x-www-form-urlencoded", form, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#contact", rec.Header().Get("Location"))
	assert.Equal(t, "Partnership", got.Subject)

	rec = do(h, http.MethodGet, "/", "", "", viewCookieOf(t, rec))
	assert.Contains(t, rec.Body.String(), forms.ContactMessages.Success)
}

func TestHTMLContactFormInvalid(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{}, Options{})
	form := url.Values{"name": {"Ada"}, "email": {"nope"}}.Encode()

	rec := do(h, http.MethodPost, "/contact", "application/x-www-form-urlencoded", form, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="contact"`)
	assert.Contains(t, body, `value="Ada"`)
	assert.Contains(t, body, "Enter a valid email address.")
	assert.Contains(t, body, `data-field="subject"`)
	assert.Contains(t, body, `data-field="message"`)
}

func TestHTMLFormRateLimitedAsText(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{}, Options{RateLimit: 1, RateBurst: 1})
	form := url.Values{"email": {"nope"}}.Encode()

	rec := do(h, http.MethodPost, "/newsletter", "application/x-www-form-urlencoded", form, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(h, http.MethodPost, "/newsletter", "application/x-www-form-urlencoded", form, viewCookieOf(t, rec))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Too many requests.")
	assert.NotContains(t, rec.Body.String(), "rate_limited")
}

func TestSubmitRateLimited(t *testing.T) {
	h, _ := newTestServer(t, fakeBackend{newsletter: func(context.Context, string) error {
		return errors.New("fail")
	}}, Options{RateLimit: 1, RateBurst: 1})

	rec := do(h, http.MethodPost, "/api/newsletter/submit", "application/json", `{"email":"ada@example.com"}`, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	rec = do(h, http.MethodPost, "/api/newsletter/submit", "application/json", `{"email":"ada@example.com"}`, viewCookieOf(t, rec))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = do(h, http.MethodGet, "/api/session", "", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "reads are not limited")
}
