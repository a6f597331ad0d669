package validator

import (
	"net/mail"
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

const (
	minPasswordLength = 6
	maxNameLength     = 100
	maxTitleLength    = 200
	maxReviewLength   = 10000
)

func ValidateCreateUser(name, email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateName(name, errs)
	validateEmail(email, errs)

	if utf8.RuneCountInString(password) < minPasswordLength {
		errs.Add("password", "Password must be at least 6 characters")
	}

	return errs
}

func ValidateUpdateUser(name *string) ValidationErrors {
	errs := make(ValidationErrors)
	if name != nil {
		validateName(*name, errs)
	}
	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateRefresh(refreshToken string) ValidationErrors {
	errs := make(ValidationErrors)
	if strings.TrimSpace(refreshToken) == "" {
		errs.Add("refreshToken", "Refresh token is required")
	}
	return errs
}

// ValidateCreateReview treats a nil rating as missing. Zero is a valid rating.
func ValidateCreateReview(title, description string, rating *float64, openLibraryID string) ValidationErrors {
	errs := make(ValidationErrors)

	validateTitle(title, errs)
	validateDescription(description, errs)
	if rating == nil {
		errs.Add("rating", "Rating is required")
	} else {
		validateRating(*rating, errs)
	}

	if strings.TrimSpace(openLibraryID) == "" {
		errs.Add("openLibraryId", "Open Library ID is required")
	}

	return errs
}

func ValidateUpdateReview(title, description *string, rating *float64) ValidationErrors {
	errs := make(ValidationErrors)

	if title != nil {
		validateTitle(*title, errs)
	}
	if description != nil {
		validateDescription(*description, errs)
	}
	if rating != nil {
		validateRating(*rating, errs)
	}

	return errs
}

func ValidateReadingStatus(openLibraryID, status string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(openLibraryID) == "" {
		errs.Add("openLibraryId", "Open Library ID is required")
	}

	switch status {
	case "want_to_read", "reading", "read":
	case "":
		errs.Add("status", "Status is required")
	default:
		errs.Add("status", "Status must be want_to_read, reading or read")
	}

	return errs
}

func validateName(name string, errs ValidationErrors) {
	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Name is required")
	} else if utf8.RuneCountInString(name) > maxNameLength {
		errs.Add("name", "Name is too long")
	}
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}

func validateTitle(title string, errs ValidationErrors) {
	title = strings.TrimSpace(title)
	if title == "" {
		errs.Add("title", "Title is required")
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		errs.Add("title", "Title is too long")
	}
}

func validateDescription(description string, errs ValidationErrors) {
	description = strings.TrimSpace(description)
	if description == "" {
		errs.Add("description", "Description is required")
	} else if utf8.RuneCountInString(description) > maxReviewLength {
		errs.Add("description", "Description is too long")
	}
}

func validateRating(rating float64, errs ValidationErrors) {
	if rating < 0 || rating > 5 {
		errs.Add("rating", "Rating must be between 0 and 5")
	}
}
