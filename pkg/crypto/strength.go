package crypto

import "github.com/nbutton23/zxcvbn-go"

// PasswordEntropy estimates the entropy (in bits) of password. Words in
// userInputs, typically the display name, are treated as known to an attacker.
func PasswordEntropy(password string, userInputs ...string) float64 {
	return zxcvbn.PasswordStrength(password, userInputs).Entropy
}

// IsStrongPassword reports whether password meets minEntropy bits.
func IsStrongPassword(password string, minEntropy float64, userInputs ...string) bool {
	return PasswordEntropy(password, userInputs...) >= minEntropy
}
