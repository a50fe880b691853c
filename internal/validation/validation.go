package validation

import (
	"fmt"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"go-movie-api/internal/model"
	"go-movie-api/pkg/apierror"
)

const (
	BirthdayLayout    = "2006-01-02"
	maxPasswordBytes  = 72
	codeInvalidFields = "VALIDATION_FAILED"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{5,32}$`)

// Errors collects field violations in the order they were found.
type Errors struct {
	fields []string
}

func (e *Errors) Add(field string, reason string) {
	e.fields = append(e.fields, fmt.Sprintf("%s: %s", field, reason))
}

func (e *Errors) Empty() bool {
	return len(e.fields) == 0
}

// Err returns nil when nothing was added.
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return apierror.Wrap(model.ErrInvalidInput, codeInvalidFields, "Request validation failed",
		strings.Join(e.fields, "; "), http.StatusUnprocessableEntity)
}

func Username(errs *Errors, username string) {
	if !usernamePattern.MatchString(username) {
		errs.Add("username", "must be 5-32 letters or digits")
	}
}

func Password(errs *Errors, password string) {
	switch {
	case password == "":
		errs.Add("password", "is required")
	case len(password) > maxPasswordBytes:
		errs.Add("password", "must not exceed 72 bytes")
	}
}

func Email(errs *Errors, email string) {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != strings.TrimSpace(email) {
		errs.Add("email", "must be a valid address")
	}
}

// Birthday parses an optional YYYY-MM-DD date; the empty string yields nil.
func Birthday(errs *Errors, value string, now time.Time) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.Parse(BirthdayLayout, value)
	if err != nil {
		errs.Add("birthday", "must be formatted YYYY-MM-DD")
		return nil
	}
	if t.After(now) {
		errs.Add("birthday", "must not be in the future")
		return nil
	}
	return &t
}

// Registration validates a sign-up payload and returns the parsed birthday.
func Registration(req model.RegisterRequest, now time.Time) (*time.Time, error) {
	var errs Errors
	Username(&errs, req.Username)
	Password(&errs, req.Password)
	Email(&errs, req.Email)
	birthday := Birthday(&errs, req.Birthday, now)
	return birthday, errs.Err()
}

// Update validates only the fields present in a partial edit.
func Update(req model.UpdateUserRequest, now time.Time) (*time.Time, error) {
	var errs Errors
	if req.Username != nil {
		Username(&errs, *req.Username)
	}
	if req.Password != nil {
		Password(&errs, *req.Password)
	}
	if req.Email != nil {
		Email(&errs, *req.Email)
	}
	var birthday *time.Time
	if req.Birthday != nil {
		birthday = Birthday(&errs, *req.Birthday, now)
	}
	return birthday, errs.Err()
}
