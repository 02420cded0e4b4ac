package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the salted bcrypt digest of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored digest.
// The comparison is constant-time and the result is a plain boolean;
// it never propagates an error to the caller.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
