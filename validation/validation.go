package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"ardu.app/feed/models"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyComment     = errors.New("comment text is empty")
	ErrCommentTooLong   = errors.New("comment is too long")
)

const MaxCommentLen = 500

var validate = validator.New()

// Struct runs the validate tags of v and folds field errors into one
// ErrInvalidInput with a readable message.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "required_without":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "alphanum":
		return field + " may only contain letters and digits"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func Register(req models.RegisterRequest) error {
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return Struct(req)
}

func Login(req models.LoginRequest) error {
	return Struct(req)
}

// UserUpdate trims the request and requires at least one field.
func UserUpdate(req models.UserUpdateRequest) (models.UserUpdateRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.MobileNumber = strings.TrimSpace(req.MobileNumber)
	req.AvatarURL = strings.TrimSpace(req.AvatarURL)
	if req.Empty() {
		return req, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	return req, Struct(req)
}

func Post(req models.PostRequest) error {
	return Struct(req)
}

// Comment trims text and rejects empty or oversized bodies. The trimmed
// text is what gets sent.
func Comment(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyComment
	}
	if len([]rune(text)) > MaxCommentLen {
		return "", fmt.Errorf("%w: at most %d characters", ErrCommentTooLong, MaxCommentLen)
	}
	return text, nil
}
