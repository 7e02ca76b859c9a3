package models

import (
	"fmt"
	"strings"
	"time"
)

// ContactInput is the contact form buffer
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=4000"`
}

// SetField updates a field by its form name. Values are trimmed.
func (c *ContactInput) SetField(name, value string) error {
	value = strings.TrimSpace(value)
	switch name {
	case "name":
		c.Name = value
	case "email":
		c.Email = value
	case "subject":
		c.Subject = value
	case "message":
		c.Message = value
	default:
		return fmt.Errorf("unknown contact field %q", name)
	}
	return nil
}

// Trimmed returns a copy with surrounding whitespace removed from every field
func (c ContactInput) Trimmed() ContactInput {
	return ContactInput{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Subject: strings.TrimSpace(c.Subject),
		Message: strings.TrimSpace(c.Message),
	}
}

// ContactMessage is a stored contact form submission
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactMessage converts the buffer into a record
func (c ContactInput) ContactMessage() ContactMessage {
	return ContactMessage{
		Name:    c.Name,
		Email:   c.Email,
		Subject: c.Subject,
		Message: c.Message,
	}
}
