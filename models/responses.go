// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// NonceResponse carries a freshly issued registration nonce.
type NonceResponse struct {
	Nonce string `json:"nonce"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// LoginResponse is returned after a successful login. UUID tells the client
// which deck identity the account protects.
type LoginResponse struct {
	Token    string `json:"token"`
	UUID     string `json:"uuid"`
	Username string `json:"username"`
}

// ShareResponse carries the id of a newly created share.
type ShareResponse struct {
	UUID string `json:"uuid"`
}

// ErrorResponse is the body of every error response.
//
// Protected is set only when the resource belongs to a protected deck
// identity, so clients can route the user to a login flow instead of
// treating the failure as a bug.
type ErrorResponse struct {
	Error     string `json:"error"`
	Protected bool   `json:"protected,omitempty"`
}
