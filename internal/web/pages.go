package web

import (
	"errors"
	"net/http"

	"voiceverse-signup/internal/components"
	"voiceverse-signup/internal/forms"
	"voiceverse-signup/internal/models"
	"voiceverse-signup/internal/session"
)

var (
	waitlistFields = []string{"firstName", "lastName", "email", "role", "company", "referralSource", "newsletter"}
	contactFields      = []string{"name", "email", "subject", "message"}
)

func (s *Server) landingPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, pageState(s.view(w, r)))
}

func pageState(v *session.View) components.PageState {
	return components.PageState{
		Newsletter:      v.Newsletter.Status(),
		NewsletterEmail: v.Newsletter.Email(),
		Waitlist:        v.Waitlist.Status(),
		WaitlistInput:   v.Waitlist.Input(),
		WaitlistOpen:    v.WaitlistOpen(),
		Contact:         v.Contact.Status(),
		ContactInput:    v.Contact.Input(),
	}
}

func (s *Server) renderPage(w http.ResponseWriter, status int, state components.PageState) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := components.LandingPage(state).Render(w); err != nil {
		s.log.Error().Err(err).Msg("Failed to render landing page")
	}
}

// newsletterForm handles the plain HTML newsletter form. Validation errors
// re-render the page, anything else redirects back to the section.
func (s *Server) newsletterForm(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	ctx, cancel := s.submitContext(r)
	defer cancel()
	err := v.Newsletter.SubmitEmail(ctx, r.PostForm.Get("email"))

	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		state := pageState(v)
		state.NewsletterErrors = verr.Fields
		s.renderPage(w, http.StatusUnprocessableEntity, state)
		return
	}
	if code, _ := submitStatus(err); code >= http.StatusInternalServerError {
		s.log.Warn().Err(err).Str("view", v.ID).Str("form", "newsletter").Msg("Submission not completed")
	}
	http.Redirect(w, r, "/#newsletter", http.StatusSeeOther)
}

func (s *Server) waitlistForm(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	in := models.NewWaitlistInput()
	for _, name := range waitlistFields {
		if err := in.SetField(name, r.PostForm.Get(name)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	in.SetInterests(r.PostForm["interests"])
	v.OpenWaitlist()

	ctx, cancel := s.submitContext(r)
	defer cancel()
	err := v.Waitlist.SubmitInput(ctx, in)

	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		state := pageState(v)
		state.WaitlistErrors = verr.Fields
		s.renderPage(w, http.StatusUnprocessableEntity, state)
		return
	}
	if code, _ := submitStatus(err); code >= http.StatusInternalServerError {
		s.log.Warn().Err(err).Str("view", v.ID).Str("form", "waitlist").Msg("Submission not completed")
	}
	http.Redirect(w, r, "/#waitlist", http.StatusSeeOther)
}

func (s *Server) contactForm(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	var in models.ContactInput
	for _, name := range contactFields {
		if err := in.SetField(name, r.PostForm.Get(name)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	ctx, cancel := s.submitContext(r)
	defer cancel()
	err := v.Contact.SubmitInput(ctx, in)

	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		state := pageState(v)
		state.ContactErrors = verr.Fields
		s.renderPage(w, http.StatusUnprocessableEntity, state)
		return
	}
	if code, _ := submitStatus(err); code >= http.StatusInternalServerError {
		s.log.Warn().Err(err).Str("view", v.ID).Str("form", "contact").Msg("Submission not completed")
	}
	http.Redirect(w, r, "/#contact", http.StatusSeeOther)
}

func (s *Server) openWaitlistForm(w http.ResponseWriter, r *http.Request) {
	s.view(w, r).OpenWaitlist()
	http.Redirect(w, r, "/#waitlist", http.StatusSeeOther)
}

// closeWaitlistForm hides the modal and clears a failed status
func (s *Server) closeWaitlistForm(w http.ResponseWriter, r *http.Request) {
	v := s.view(w, r)
	v.Waitlist.Dismiss()
	v.CloseWaitlist()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
