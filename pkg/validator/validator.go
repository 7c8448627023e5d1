package validator

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// Usernames allow letters, numbers and underscores only.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func ValidateRegister(username, email, displayName, bio, password string) ValidationErrors {
	errs := make(ValidationErrors)

	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 {
		errs.Add("username", "Username must be at least 3 characters")
	} else if len(username) > 30 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, and underscores")
	}

	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		errs.Add("display_name", "Display name is required")
	} else if utf8.RuneCountInString(displayName) > 50 {
		errs.Add("display_name", "Display name is too long")
	}

	if utf8.RuneCountInString(bio) > 160 {
		errs.Add("bio", "Bio must be at most 160 characters")
	}

	if len(password) < 6 {
		errs.Add("password", "Password must be at least 6 characters")
	}

	return errs
}

func ValidateLogin(username, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(username) == "" {
		errs.Add("username", "Username is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidatePost(content string) ValidationErrors {
	errs := make(ValidationErrors)

	// Limits count characters, not bytes.
	if content == "" {
		errs.Add("content", "Content is required")
	} else if utf8.RuneCountInString(content) > 500 {
		errs.Add("content", "Content must be at most 500 characters")
	}

	return errs
}

func ValidateComment(content string) ValidationErrors {
	errs := make(ValidationErrors)

	if content == "" {
		errs.Add("content", "Content is required")
	} else if utf8.RuneCountInString(content) > 280 {
		errs.Add("content", "Content must be at most 280 characters")
	}

	return errs
}

func ValidateVerificationReason(reason string) ValidationErrors {
	errs := make(ValidationErrors)

	reason = strings.TrimSpace(reason)
	if n := utf8.RuneCountInString(reason); n < 10 {
		errs.Add("reason", "Reason must be at least 10 characters")
	} else if n > 500 {
		errs.Add("reason", "Reason must be at most 500 characters")
	}

	return errs
}
