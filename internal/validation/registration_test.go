package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aibuddy-backend/internal/models"
)

func validInput() models.RegistrationInput {
	return models.RegistrationInput{
		FullName:        "Asha Verma",
		GuardianName:    "Ravi Verma",
		ClassGrade:      "grade-5",
		Language:        "hindi",
		Location:        "Pune",
		Email:           "asha@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	assert.Empty(t, ValidateRegistration(validInput()))
}

func TestValidateRegistration_RequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
		blank func(*models.RegistrationInput)
	}{
		{"empty full name", models.FieldFullName, func(in *models.RegistrationInput) { in.FullName = "" }},
		{"whitespace full name", models.FieldFullName, func(in *models.RegistrationInput) { in.FullName = "   " }},
		{"whitespace guardian", models.FieldGuardianName, func(in *models.RegistrationInput) { in.GuardianName = "\t" }},
		{"no grade", models.FieldClassGrade, func(in *models.RegistrationInput) { in.ClassGrade = "" }},
		{"no language", models.FieldLanguage, func(in *models.RegistrationInput) { in.Language = "" }},
		{"whitespace location", models.FieldLocation, func(in *models.RegistrationInput) { in.Location = "  " }},
		{"whitespace email", models.FieldEmail, func(in *models.RegistrationInput) { in.Email = " " }},
		{"empty password", models.FieldPassword, func(in *models.RegistrationInput) { in.Password = "" }},
		{"empty confirmation", models.FieldConfirmPassword, func(in *models.RegistrationInput) { in.ConfirmPassword = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.blank(&in)

			errs := ValidateRegistration(in)
			assert.NotEmpty(t, errs)
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestValidateRegistration_AllEmpty(t *testing.T) {
	errs := ValidateRegistration(models.RegistrationInput{})
	assert.Len(t, errs, 8)
	assert.Equal(t, "Full name is required", errs[models.FieldFullName])
	assert.Equal(t, "Email address is required", errs[models.FieldEmail])
	assert.Equal(t, "Please confirm your password", errs[models.FieldConfirmPassword])
}

func TestIsEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.co", true},
		{"first.last@school.example.org", true},
		{"a@b", false},
		{"@b.co", false},
		{"a@.co", false},
		{"a b@c.co", false},
		{"a@b .co", false},
		{"a@@b.co", false},
	}

	for _, tc := range tests {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.want, IsEmail(tc.email))
		})
	}
}

func TestValidateRegistration_Password(t *testing.T) {
	in := validInput()
	in.Password = "abc12"
	in.ConfirmPassword = "abc12"

	errs := ValidateRegistration(in)
	assert.Equal(t, "Password must be at least 6 characters", errs[models.FieldPassword])
	assert.NotContains(t, errs, models.FieldConfirmPassword)

	in.Password = "äöüßéè"
	in.ConfirmPassword = "äöüßéè"
	assert.Empty(t, ValidateRegistration(in), "length counts characters, not bytes")
}

func TestValidateRegistration_ConfirmMismatchIndependentOfPassword(t *testing.T) {
	in := validInput()
	in.Password = "abc"
	in.ConfirmPassword = "abd"

	errs := ValidateRegistration(in)
	assert.Equal(t, "Password must be at least 6 characters", errs[models.FieldPassword])
	assert.Equal(t, "Passwords do not match", errs[models.FieldConfirmPassword])

	in = validInput()
	in.ConfirmPassword = "secret2"
	errs = ValidateRegistration(in)
	assert.NotContains(t, errs, models.FieldPassword)
	assert.Equal(t, "Passwords do not match", errs[models.FieldConfirmPassword])
}

func TestValidateRegistration_UnknownOptions(t *testing.T) {
	in := validInput()
	in.ClassGrade = "grade-13"
	in.Language = "klingon"

	errs := ValidateRegistration(in)
	assert.Equal(t, "Please select a valid class/grade", errs[models.FieldClassGrade])
	assert.Equal(t, "Please select a valid language", errs[models.FieldLanguage])
}
