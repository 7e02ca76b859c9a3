package web

import (
	"net/http"

	"voiceverse-signup/internal/models"
	"voiceverse-signup/internal/session"
)

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateOf(s.view(w, r)))
}

// deleteSession is the unmount of a view: its forms are discarded
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(viewCookie); err == nil {
		s.views.Drop(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: viewCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

type emailRequest struct {
	Email *string `json:"email"`
}

func (s *Server) putNewsletter(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if req.Email != nil {
		v.Newsletter.SetEmail(*req.Email)
	}
	writeJSON(w, http.StatusOK, stateOf(v))
}

func (s *Server) submitNewsletter(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	ctx, cancel := s.submitContext(r)
	defer cancel()

	var err error
	if req.Email != nil {
		err = v.Newsletter.SubmitEmail(ctx, *req.Email)
	} else {
		err = v.Newsletter.Submit(ctx)
	}
	s.writeSubmit(w, v.ID, "newsletter", err, stateOf(v))
}

func (s *Server) dismissNewsletter(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	v.Newsletter.Dismiss()
	writeJSON(w, http.StatusOK, stateOf(v))
}

func (s *Server) putWaitlist(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	in := models.NewWaitlistInput()
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	v.Waitlist.Replace(in)
	writeJSON(w, http.StatusOK, stateOf(v))
}

type fieldRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// fieldSetter is a form that edits one named field at a time
type fieldSetter interface {
	SetField(name, value string) error
}

// patchField applies a single field edit, as typing in one input does
func (s *Server) patchField(form func(*session.View) fieldSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := s.view(w, r)
		var req fieldRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
			return
		}
		if err := form(v).SetField(req.Name, req.Value); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, stateOf(v))
	}
}

func waitlistOf(v *session.View) fieldSetter { return v.Waitlist }

func contactOf(v *session.View) fieldSetter { return v.Contact }

type interestRequest struct {
	Interest string `json:"interest"`
}

func (s *Server) toggleInterest(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	var req interestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if req.Interest == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "interest is required"})
		return
	}
	v.Waitlist.ToggleInterest(req.Interest)
	writeJSON(w, http.StatusOK, stateOf(v))
}

func (s *Server) openWaitlist(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	v.OpenWaitlist()
	writeJSON(w, http.StatusOK, stateOf(v))
}

func (s *Server) submitWaitlist(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	ctx, cancel := s.submitContext(r)
	defer cancel()
	err := v.Waitlist.Submit(ctx)
	s.writeSubmit(w, v.ID, "waitlist", err, stateOf(v))
}

func (s *Server) dismissWaitlist(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	v.Waitlist.Dismiss()
	writeJSON(w, http.StatusOK, stateOf(v))
}

func (s *Server) putContact(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	var in models.ContactInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	v.Contact.Replace(in)
	writeJSON(w, http.StatusOK, stateOf(v))
}

// submitContact sends the buffered message, or the one in the body when
// there is one
func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	var in *models.ContactInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	ctx, cancel := s.submitContext(r)
	defer cancel()

	var err error
	if in != nil {
		err = v.Contact.SubmitInput(ctx, *in)
	} else {
		err = v.Contact.Submit(ctx)
	}
	s.writeSubmit(w, v.ID, "contact", err, stateOf(v))
}

func (s *Server) dismissContact(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	v.Contact.Dismiss()
	writeJSON(w, http.StatusOK, stateOf(v))
}

func (s *Server) writeSubmit(w http.ResponseWriter, viewID, form string, err error, state *viewState) {
	code, resp := submitStatus(err)
	if code == http.StatusOK {
		writeJSON(w, code, state)
		return
	}
	if code >= http.StatusInternalServerError {
		s.log.Warn().Err(err).Str("view", viewID).Str("form", form).Int("status", code).Msg("Submission not completed")
	}
	resp.State = state
	writeJSON(w, code, resp)
}
