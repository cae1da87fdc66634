package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted one-way hash of the password. bcrypt embeds a
// random per-call salt, so equal passwords never hash to equal strings.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against its stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
