// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ReconcileReport lists disagreements between account records and the
// deck-identity reverse index.
type ReconcileReport struct {
	// DanglingPointers are deck identities whose reverse-index entry names a
	// missing account or an account bound to another identity.
	DanglingPointers []string `json:"danglingPointers"`

	// MissingPointers are usernames whose account has no reverse-index entry.
	MissingPointers []string `json:"missingPointers"`

	// Fixed reports whether the disagreements were repaired.
	Fixed bool `json:"fixed"`
}

// Consistent reports whether no disagreement was found.
func (r ReconcileReport) Consistent() bool {
	return len(r.DanglingPointers) == 0 && len(r.MissingPointers) == 0
}
