package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// SignupKind identifies which form produced a signup
type SignupKind string

const (
	KindNewsletter SignupKind = "newsletter"
	KindWaitlist   SignupKind = "waitlist"
)

// Signup represents a stored newsletter subscription or waitlist entry
type Signup struct {
	ID             string     `json:"id"`
	Kind           SignupKind `json:"kind"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name,omitempty"`
	LastName       string     `json:"last_name,omitempty"`
	Role           string     `json:"role,omitempty"`
	Company        string     `json:"company,omitempty"`
	Interests      []string   `json:"interests,omitempty"`
	ReferralSource string     `json:"referral_source,omitempty"`
	Newsletter     bool       `json:"newsletter"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Name returns the display name of the person behind the signup.
func (s Signup) Name() string {
	switch {
	case s.FirstName != "" && s.LastName != "":
		return s.FirstName + " " + s.LastName
	case s.FirstName != "":
		return s.FirstName
	default:
		return s.Email
	}
}

// NewsletterInput is the newsletter form buffer
type NewsletterInput struct {
	Email string `json:"email" validate:"required,email"`
}

// WaitlistInput is the waitlist form buffer
type WaitlistInput struct {
	FirstName      string   `json:"firstName" validate:"required"`
	LastName       string   `json:"lastName" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Role           string   `json:"role" validate:"required,waitlist_role"`
	Company        string   `json:"company"`
	Interests      []string `json:"interests"`
	ReferralSource string   `json:"referralSource" validate:"omitempty,referral_source"`
	Newsletter     bool     `json:"newsletter"`
}

// NewWaitlistInput returns an empty waitlist buffer. Newsletter opt-in is on
// by default.
func NewWaitlistInput() WaitlistInput {
	return WaitlistInput{
		Interests:  []string{},
		Newsletter: true,
	}
}

// SetField updates a field by its form name. Values are trimmed.
func (w *WaitlistInput) SetField(name, value string) error {
	value = strings.TrimSpace(value)
	switch name {
	case "firstName":
		w.FirstName = value
	case "lastName":
		w.LastName = value
	case "email":
		w.Email = value
	case "role":
		w.Role = value
	case "company":
		w.Company = value
	case "referralSource":
		w.ReferralSource = value
	case "newsletter":
		// a checked HTML checkbox posts "on"
		w.Newsletter = value == "on" || value == "true"
	default:
		return fmt.Errorf("unknown waitlist field %q", name)
	}
	return nil
}

// HasInterest reports whether interest is selected
func (w WaitlistInput) HasInterest(interest string) bool {
	return slices.Contains(w.Interests, interest)
}

// ToggleInterest removes interest if selected and appends it otherwise.
// Interests outside the Interests list are accepted as-is.
func (w *WaitlistInput) ToggleInterest(interest string) {
	if i := slices.Index(w.Interests, interest); i >= 0 {
		w.Interests = slices.Delete(w.Interests, i, i+1)
		return
	}
	w.Interests = append(w.Interests, interest)
}

// SetInterests replaces the selection, dropping duplicates while keeping the
// first occurrence order.
func (w *WaitlistInput) SetInterests(interests []string) {
	out := make([]string, 0, len(interests))
	for _, interest := range interests {
		if !slices.Contains(out, interest) {
			out = append(out, interest)
		}
	}
	w.Interests = out
}

// Clone returns a copy that shares no memory with w
func (w WaitlistInput) Clone() WaitlistInput {
	w.Interests = slices.Clone(w.Interests)
	if w.Interests == nil {
		w.Interests = []string{}
	}
	return w
}

// Signup converts the buffer into a waitlist record
func (w WaitlistInput) Signup() Signup {
	return Signup{
		Kind:           KindWaitlist,
		Email:          w.Email,
		FirstName:      w.FirstName,
		LastName:       w.LastName,
		Role:           w.Role,
		Company:        w.Company,
		Interests:      slices.Clone(w.Interests),
		ReferralSource: w.ReferralSource,
		Newsletter:     w.Newsletter,
	}
}
