// registration.go - Validates and normalizes sign-up payloads
//
// Every field rule runs at once so the client gets all problems in one
// response; the store uniqueness check only runs once the payload is sound.

package registration

import (
	"context"
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"

	"go-journal-backend/apperr"
	"go-journal-backend/models"
)

const (
	MinPasswordLength = 6  // characters
	MaxPasswordBytes  = 72 // bcrypt ignores anything past this
	MinNameLength     = 2
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Input is the raw registration payload as sent by the client.
type Input struct {
	FirstName       string `json:"firstName"`
	MiddleName      string `json:"middleName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	UserType        string `json:"userType"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	StudentID       string `json:"studentId"`
	Course          string `json:"course"`
	Semester        string `json:"semester"`
	AdminCode       string `json:"adminCode"`
	Department      string `json:"department"`
}

// Registration is a validated payload ready to be hashed and stored.
type Registration struct {
	FirstName   string
	MiddleName  string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
	Profile     models.Profile
}

// EmailChecker looks up whether an email is already taken.
type EmailChecker interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

type Validator struct {
	users  EmailChecker
	region string
}

func NewValidator(users EmailChecker, phoneRegion string) *Validator {
	return &Validator{users: users, region: strings.ToUpper(phoneRegion)}
}

// Validate returns a normalized Registration or an *apperr.Error of kind
// Validation (bad fields), Conflict (email taken) or Operational.
func (v *Validator) Validate(ctx context.Context, in Input) (Registration, error) {
	in = normalize(in)

	if err := Check(in); err != nil {
		return Registration{}, err
	}

	exists, err := v.users.EmailExists(ctx, in.Email)
	if err != nil {
		return Registration{}, apperr.Operational("failed to check email", err)
	}
	if exists {
		return Registration{}, apperr.Conflict("Email already registered", nil)
	}

	return Registration{
		FirstName:   in.FirstName,
		MiddleName:  in.MiddleName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: normalizePhone(in.PhoneNumber, v.region),
		Password:    in.Password,
		Profile:     profileOf(in),
	}, nil
}

// Check runs the field rules only. It expects a normalized Input.
func Check(in Input) error {
	rules := []*validation.FieldRules{
		validation.Field(&in.FirstName,
			validation.Required.Error("First name is required"),
			validation.RuneLength(MinNameLength, 0).Error("First name must be at least 2 characters"),
		),
		validation.Field(&in.LastName,
			validation.Required.Error("Last name is required"),
			validation.RuneLength(MinNameLength, 0).Error("Last name must be at least 2 characters"),
		),
		validation.Field(&in.Email,
			validation.Required.Error("Email is required"),
			validation.Match(emailPattern).Error("Please enter a valid email address"),
		),
		validation.Field(&in.PhoneNumber, validation.Required.Error("Phone number is required")),
		validation.Field(&in.UserType,
			validation.Required.Error("User type is required"),
			validation.In(string(models.RoleStudent), string(models.RoleAdmin)).Error("User type must be student or admin"),
		),
		validation.Field(&in.Password,
			validation.Required.Error("Password is required"),
			validation.RuneLength(MinPasswordLength, 0).Error("Password must be at least 6 characters long"),
			validation.By(maxBytes(MaxPasswordBytes, "Password must be at most 72 bytes")),
		),
		validation.Field(&in.ConfirmPassword, validation.By(equals(in.Password))),
	}

	switch models.Role(in.UserType) {
	case models.RoleStudent:
		rules = append(rules,
			validation.Field(&in.StudentID, validation.Required.Error("Student ID is required")),
			validation.Field(&in.Course, validation.Required.Error("Course is required")),
		)
	case models.RoleAdmin:
		rules = append(rules,
			validation.Field(&in.AdminCode, validation.Required.Error("Admin code is required")),
			validation.Field(&in.Department, validation.Required.Error("Department is required")),
		)
	}

	err := validation.ValidateStruct(&in, rules...)
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return apperr.Operational("failed to validate registration", err)
	}

	fields := make(map[string]string, len(errs))
	for name, fieldErr := range errs {
		fields[name] = fieldErr.Error()
	}
	return apperr.Validation(summary(fields, models.Role(in.UserType)), fields)
}

func equals(want string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != want {
			return errors.New("Passwords do not match")
		}
		return nil
	}
}

func maxBytes(limit int, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > limit {
			return errors.New(msg)
		}
		return nil
	}
}

var requiredFields = []string{"firstName", "lastName", "email", "phoneNumber", "password", "userType"}

// summary picks the headline message, in the order the checks are listed:
// presence, name length, email shape, password length, confirmation, role
// fields.
func summary(fields map[string]string, role models.Role) string {
	for _, name := range requiredFields {
		if msg, ok := fields[name]; ok && strings.HasSuffix(msg, "is required") {
			return "All required fields must be filled"
		}
	}
	for _, name := range []string{"firstName", "lastName"} {
		if msg, ok := fields[name]; ok {
			return msg
		}
	}
	if _, ok := fields["email"]; ok {
		return "Please enter a valid email address"
	}
	if msg, ok := fields["password"]; ok {
		return msg
	}
	if _, ok := fields["confirmPassword"]; ok {
		return "Passwords do not match"
	}
	if msg, ok := fields["userType"]; ok {
		return msg
	}
	if role == models.RoleAdmin {
		return "Admin code and Department are required for administrators"
	}
	return "Student ID and Course are required for students"
}

func normalize(in Input) Input {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.MiddleName = strings.TrimSpace(in.MiddleName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = NormalizeEmail(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.UserType = strings.ToLower(strings.TrimSpace(in.UserType))
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.Course = strings.TrimSpace(in.Course)
	in.Semester = strings.TrimSpace(in.Semester)
	in.AdminCode = strings.TrimSpace(in.AdminCode)
	in.Department = strings.TrimSpace(in.Department)
	return in
}

// NormalizeEmail gives the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func profileOf(in Input) models.Profile {
	if models.Role(in.UserType) == models.RoleAdmin {
		return models.AdminProfile{AdminCode: in.AdminCode, Department: in.Department}
	}
	return models.StudentProfile{StudentID: in.StudentID, Course: in.Course, Semester: in.Semester}
}

// normalizePhone formats numbers libphonenumber understands as E.164 and
// leaves anything else as typed.
func normalizePhone(raw, region string) string {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
