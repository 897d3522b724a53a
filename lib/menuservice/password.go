// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menuservice

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bureau-foundation/kiosk/lib/secret"
)

// DemoPassword is the admin password accepted by development
// deployments that configure no credential.
const DemoPassword = "admin123"

// HashPassword bcrypt-hashes an admin password read at startup.
func HashPassword(password *secret.Buffer) ([]byte, error) {
	if password == nil || password.Len() == 0 {
		return nil, secret.ErrEmpty
	}
	hash, err := bcrypt.GenerateFromPassword(password.Bytes(), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing admin password: %w", err)
	}
	return hash, nil
}

// ParseHash checks that a configured hash is a usable bcrypt hash.
func ParseHash(encoded string) ([]byte, error) {
	hash := []byte(encoded)
	if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	return hash, nil
}
