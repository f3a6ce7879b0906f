package config

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/thoreinstein/uimpit/internal/errors"
)

// Validation errors for settings fields.
var (
	ErrUnknownKey       = errors.New("unknown setting")
	ErrEmptyPath        = errors.New("path must not be empty")
	ErrInvalidLanguage  = errors.New("invalid language tag")
	ErrInvalidRetention = errors.New("backup.retention must be >= 1")
)

// FieldError ties a validation error to a setting key.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return e.Key + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Validate checks s and returns every problem found, or nil.
func Validate(s *Settings) []error {
	if s == nil {
		return []error{errors.New("settings are nil")}
	}

	var errs []error
	if strings.TrimSpace(s.ConfigPath) == "" {
		errs = append(errs, &FieldError{Key: KeyConfigPath, Err: ErrEmptyPath})
	}
	if strings.TrimSpace(s.LangDir) == "" {
		errs = append(errs, &FieldError{Key: KeyLangDir, Err: ErrEmptyPath})
	}
	if _, err := language.Parse(s.Language); err != nil {
		errs = append(errs, &FieldError{
			Key: KeyLanguage,
			Err: errors.Wrapf(ErrInvalidLanguage, "%q", s.Language),
		})
	}
	if s.Backup.Retention < 1 {
		errs = append(errs, &FieldError{Key: KeyBackupRetention, Err: ErrInvalidRetention})
	}
	return errs
}
