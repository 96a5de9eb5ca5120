// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// UsernameTag is the struct tag name of the username rule.
const UsernameTag = "username"

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// usernameValidate checks single usernames outside of struct validation.
var usernameValidate = newValidate()

// ValidateUsername reports [ErrInvalidUsername] unless username has 3 to 30
// characters drawn from letters, digits and underscore.
func ValidateUsername(username string) error {
	if err := usernameValidate.Var(username, UsernameTag); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsername, err)
	}
	return nil
}

// newValidate returns a validator/v10 instance with the username rule
// registered.
func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// registration cannot fail for a non-empty tag and a non-nil func
	_ = v.RegisterValidation(UsernameTag, validateUsernameField)
	return v
}

func validateUsernameField(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}
