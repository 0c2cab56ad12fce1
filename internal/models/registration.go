package models

// Form field names, as sent to the registration webhook.
const (
	FieldFullName        = "fullName"
	FieldGuardianName    = "guardianName"
	FieldClassGrade      = "classGrade"
	FieldLanguage        = "language"
	FieldLocation        = "location"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// RegistrationInput is one registration form session.
type RegistrationInput struct {
	FullName        string `json:"fullName"`
	GuardianName    string `json:"guardianName"`
	ClassGrade      string `json:"classGrade"`
	Language        string `json:"language"`
	Location        string `json:"location"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Option is a selectable value of an enumerated form field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var ClassGrades = []Option{
	{Value: "kindergarten", Label: "Kindergarten"},
	{Value: "grade-1", Label: "Grade 1"},
	{Value: "grade-2", Label: "Grade 2"},
	{Value: "grade-3", Label: "Grade 3"},
	{Value: "grade-4", Label: "Grade 4"},
	{Value: "grade-5", Label: "Grade 5"},
	{Value: "grade-6", Label: "Grade 6"},
	{Value: "grade-7", Label: "Grade 7"},
	{Value: "grade-8", Label: "Grade 8"},
	{Value: "grade-9", Label: "Grade 9"},
	{Value: "grade-10", Label: "Grade 10"},
	{Value: "grade-11", Label: "Grade 11"},
	{Value: "grade-12", Label: "Grade 12"},
}

var Languages = []Option{
	{Value: "english", Label: "English"},
	{Value: "spanish", Label: "Spanish"},
	{Value: "french", Label: "French"},
	{Value: "german", Label: "German"},
	{Value: "mandarin", Label: "Mandarin"},
	{Value: "hindi", Label: "Hindi"},
	{Value: "arabic", Label: "Arabic"},
	{Value: "other", Label: "Other"},
}

type RegistrationOptions struct {
	ClassGrades []Option `json:"class_grades"`
	Languages   []Option `json:"languages"`
}

type RegistrationResponse struct {
	Message         string            `json:"message"`
	WebhookResponse string            `json:"webhook_response,omitempty"`
	Form            RegistrationInput `json:"form"`
}

type RegistrationErrorResponse struct {
	Error           APIError          `json:"error"`
	WebhookResponse string            `json:"webhook_response,omitempty"`
	Form            RegistrationInput `json:"form"`
}
