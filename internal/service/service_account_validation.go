// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/decklister/internal/validators"
	"github.com/MKhiriev/decklister/models"
)

// AccountValidationService rejects requests with missing required fields
// before they reach the wrapped AccountRegistry.
type AccountValidationService struct {
	inner     AccountRegistry
	validator validators.Validator
}

func NewAccountValidationService() AccountRegistryWrapper {
	return &AccountValidationService{
		validator: validators.NewRequestValidator(),
	}
}

func (v *AccountValidationService) Register(ctx context.Context, req models.RegisterRequest) (models.Token, error) {
	// username format is checked by the registry after the nonce is consumed
	if err := v.validate(ctx, req); err != nil {
		return models.Token{}, err
	}
	return v.inner.Register(ctx, req)
}

func (v *AccountValidationService) Login(ctx context.Context, req models.LoginRequest) (models.Token, error) {
	if err := v.validate(ctx, req); err != nil {
		return models.Token{}, err
	}
	return v.inner.Login(ctx, req)
}

func (v *AccountValidationService) Wrap(inner AccountRegistry) AccountRegistry {
	v.inner = inner
	return v
}

func (v *AccountValidationService) validate(ctx context.Context, req any) error {
	err := v.validator.Validate(ctx, req)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, validators.ErrInvalidUsername):
		return fmt.Errorf("%w: %w", ErrInvalidUsername, err)
	case errors.Is(err, validators.ErrMissingRequiredFields):
		return fmt.Errorf("%w: %w", ErrMissingFields, err)
	default:
		return fmt.Errorf("error during request validation: %w", err)
	}
}
