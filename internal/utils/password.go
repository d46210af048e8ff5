package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes an account password with bcrypt. The cost comes
// from BCRYPT_COST; anything below bcrypt's default is raised to it so a
// misconfigured environment cannot weaken stored credentials.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a stored hash against a login attempt in
// constant time.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
