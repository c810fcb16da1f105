package ports

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs and validates JWTs (HS256, shared secret). All tokens
// carry sub (email), iat and exp; access and refresh tokens additionally
// carry a scope claim and validation rejects a scope mismatch. Email
// verification tokens carry no scope and EmailFromToken checks none.
type TokenIssuer interface {
	IssueAccessToken(email string, expiresInSeconds int64) (string, error)
	IssueRefreshToken(email string) (string, error)
	IssueEmailToken(email string) (string, error)
	ValidateAccessToken(token string) (email string, err error)
	ValidateRefreshToken(token string) (email string, err error)
	EmailFromToken(token string) (email string, err error)
}
