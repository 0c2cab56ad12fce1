package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"aibuddy-backend/internal/models"
)

const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	classGrades = optionSet(models.ClassGrades)
	languages   = optionSet(models.Languages)
)

// ValidateRegistration checks every field of the form and returns a message
// per failing field. An empty map means the input is valid.
func ValidateRegistration(in models.RegistrationInput) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(in.FullName) == "" {
		errs[models.FieldFullName] = "Full name is required"
	}
	if strings.TrimSpace(in.GuardianName) == "" {
		errs[models.FieldGuardianName] = "Guardian name is required"
	}

	if msg := validateOption(in.ClassGrade, classGrades, "Class/Grade is required", "Please select a valid class/grade"); msg != "" {
		errs[models.FieldClassGrade] = msg
	}
	if msg := validateOption(in.Language, languages, "Language is required", "Please select a valid language"); msg != "" {
		errs[models.FieldLanguage] = msg
	}

	if strings.TrimSpace(in.Location) == "" {
		errs[models.FieldLocation] = "Location is required"
	}

	if strings.TrimSpace(in.Email) == "" {
		errs[models.FieldEmail] = "Email address is required"
	} else if !IsEmail(in.Email) {
		errs[models.FieldEmail] = "Please enter a valid email address"
	}

	if in.Password == "" {
		errs[models.FieldPassword] = "Password is required"
	} else if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		errs[models.FieldPassword] = "Password must be at least 6 characters"
	}

	// Checked against the password as typed, whether or not the password itself is valid.
	if in.ConfirmPassword == "" {
		errs[models.FieldConfirmPassword] = "Please confirm your password"
	} else if in.ConfirmPassword != in.Password {
		errs[models.FieldConfirmPassword] = "Passwords do not match"
	}

	return errs
}

// IsEmail matches local@domain.tld with no whitespace.
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

func validateOption(value string, allowed map[string]bool, requiredMsg, invalidMsg string) string {
	if value == "" {
		return requiredMsg
	}
	if !allowed[value] {
		return invalidMsg
	}
	return ""
}

func optionSet(opts []models.Option) map[string]bool {
	set := make(map[string]bool, len(opts))
	for _, o := range opts {
		set[o.Value] = true
	}
	return set
}
