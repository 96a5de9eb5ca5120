// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// RequestValidator validates request DTOs using their `validate` struct tags.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator returns a Validator that understands the standard
// validator/v10 tags plus the "username" rule.
func NewRequestValidator() Validator {
	return &RequestValidator{validate: newValidate()}
}

// Validate checks obj, a struct or pointer to struct. When fields are given
// only those struct fields are checked. Failures are reported as
// [ErrMissingRequiredFields] or [ErrInvalidUsername], wrapping the
// underlying field errors.
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	t := reflect.TypeOf(obj)
	if t == nil {
		return ErrUnsupportedType
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ErrUnsupportedType
	}

	var err error
	if len(fields) > 0 {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	} else {
		err = v.validate.StructCtx(ctx, obj)
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrUnsupportedType, err)
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == UsernameTag {
			return fmt.Errorf("%w: %w", ErrInvalidUsername, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrMissingRequiredFields, err)
}
