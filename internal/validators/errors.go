// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")

	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidUsername       = errors.New("username must be 3-30 alphanumeric characters or underscores")
)
