package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"voiceverse-signup/internal/forms"
	"voiceverse-signup/internal/models"
	"voiceverse-signup/internal/session"
	"voiceverse-signup/internal/workflow"
)

const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	State   *viewState        `json:"state,omitempty"`
}

type newsletterState struct {
	models.Status
	Email string `json:"email"`
}

type waitlistState struct {
	models.Status
	Open  bool                 `json:"open"`
	Input models.WaitlistInput `json:"input"`
}

type contactState struct {
	models.Status
	Input models.ContactInput `json:"input"`
}

type viewState struct {
	ID         string          `json:"id"`
	Newsletter newsletterState `json:"newsletter"`
	Waitlist   waitlistState   `json:"waitlist"`
	Contact    contactState    `json:"contact"`
}

func stateOf(v *session.View) *viewState {
	return &viewState{
		ID: v.ID,
		Newsletter: newsletterState{
			Status: v.Newsletter.Status(),
			Email:  v.Newsletter.Email(),
		},
		Waitlist: waitlistState{
			Status: v.Waitlist.Status(),
			Open:   v.WaitlistOpen(),
			Input:  v.Waitlist.Input(),
		},
		Contact: contactState{
			Status: v.Contact.Status(),
			Input:  v.Contact.Input(),
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSON reads an optional JSON body into dst. An empty body leaves dst
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// submitStatus maps the outcome of a form submit to an HTTP status
func submitStatus(err error) (int, errorResponse) {
	var verr *forms.ValidationError
	var serr *workflow.SubmissionError
	switch {
	case err == nil:
		return http.StatusOK, errorResponse{}
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, errorResponse{Error: "validation", Message: "Please fix the highlighted fields.", Fields: verr.Fields}
	case errors.Is(err, workflow.ErrBusy):
		return http.StatusConflict, errorResponse{Error: "busy", Message: "A submission is already in progress."}
	case errors.Is(err, workflow.ErrClosed):
		return http.StatusGone, errorResponse{Error: "closed", Message: "This form is no longer available. Reload the page."}
	case errors.As(err, &serr):
		return http.StatusBadGateway, errorResponse{Error: "submission_failed", Message: serr.Message}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal", Message: "Unexpected error."}
	}
}
