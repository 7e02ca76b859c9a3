package models

// StatusKind represents the phase of a form submission
type StatusKind string

const (
	StatusIdle    StatusKind = "idle"
	StatusLoading StatusKind = "loading"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the user-visible state of a form
type Status struct {
	Kind    StatusKind `json:"status"`
	Message string     `json:"message"`
}

// Idle returns the resting status. It never carries a message.
func Idle() Status { return Status{Kind: StatusIdle} }

func Loading(message string) Status { return Status{Kind: StatusLoading, Message: message} }

func Success(message string) Status { return Status{Kind: StatusSuccess, Message: message} }

func Error(message string) Status { return Status{Kind: StatusError, Message: message} }

// Terminal reports whether the status ends a submission
func (s Status) Terminal() bool {
	return s.Kind == StatusSuccess || s.Kind == StatusError
}

// AcceptsSubmit reports whether a new submission may start from this status
func (s Status) AcceptsSubmit() bool {
	return s.Kind == StatusIdle || s.Kind == StatusError || s.Kind == ""
}
