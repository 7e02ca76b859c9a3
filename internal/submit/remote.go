package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"voiceverse-signup/internal/models"
)

// Remote posts signups to an HTTP backend as JSON
type Remote struct {
	client *resty.Client
}

type newsletterRequest struct {
	Email string `json:"email"`
}

type remoteError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewRemote targets baseURL; POST {baseURL}/newsletter, /waitlist and /contact
func NewRemote(baseURL, apiKey string, timeout time.Duration) *Remote {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "voiceverse-signup")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &Remote{client: client}
}

func (r *Remote) SubmitNewsletter(ctx context.Context, email string) error {
	return r.post(ctx, "/newsletter", newsletterRequest{Email: email})
}

func (r *Remote) SubmitWaitlist(ctx context.Context, input models.WaitlistInput) error {
	return r.post(ctx, "/waitlist", input)
}

func (r *Remote) SubmitContact(ctx context.Context, input models.ContactInput) error {
	return r.post(ctx, "/contact", input)
}

func (r *Remote) post(ctx context.Context, path string, body any) error {
	var apiErr remoteError
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&apiErr).
		Post(path)
	if err != nil {
		return fmt.Errorf("failed to post %s: %w", path, err)
	}
	if resp.IsError() {
		detail := apiErr.Message
		if detail == "" {
			detail = apiErr.Error
		}
		if detail == "" {
			detail = resp.Status()
		}
		return fmt.Errorf("backend rejected %s: %d %s", path, resp.StatusCode(), detail)
	}
	return nil
}
