package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/itchan-dev/msgboard/shared/errors"
)

const DefaultMaxTextLength = 10_000

type TextValidator struct {
	maxLength int
}

func New(maxLength int) *TextValidator {
	if maxLength <= 0 {
		maxLength = DefaultMaxTextLength
	}
	return &TextValidator{maxLength: maxLength}
}

func (v *TextValidator) Text(text string) error {
	if strings.TrimSpace(text) == "" {
		return &errors.ErrorWithStatusCode{Message: "text is empty", StatusCode: 400}
	}
	if utf8.RuneCountInString(text) > v.maxLength {
		return &errors.ErrorWithStatusCode{Message: "text is too long", StatusCode: 400}
	}
	return nil
}

func (v *TextValidator) Password(password string) error {
	if password == "" {
		return &errors.ErrorWithStatusCode{Message: "delete_password is empty", StatusCode: 400}
	}
	return nil
}
