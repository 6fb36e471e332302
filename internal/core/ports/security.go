package ports

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify fails closed: any error, including a malformed hash, is false.
	Verify(plaintext, hash string) bool
}

// TokenIssuer creates and checks signed session tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	// Verify checks signature and expiry and returns the user ID claim.
	Verify(token string) (string, error)
}
