package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost for delete passwords; tests lower it
var passwordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash stored in place of a delete password.
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, passwordCost)
}

// HashPasswordWithCost is HashPassword with an explicit bcrypt cost.
func HashPasswordWithCost(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(digest(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash exactly.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(password)) == nil
}

// digest fits passwords of any length under bcrypt's 72 byte input limit.
func digest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

// UseMinCost makes hashing cheap. Only meant for tests.
func UseMinCost() {
	passwordCost = bcrypt.MinCost
}
