package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed tokens, bad signatures and expired tokens.
	ErrInvalidToken = errors.New("invalid user token")
	// ErrMissingIdentity means the token verified but carried no identity claim.
	ErrMissingIdentity = errors.New("user token has no identity claim")
)

// IdentityClaim is the claim holding the user's identifier (their email address).
const IdentityClaim = "id"

// ValidMethods are the HMAC algorithms accepted for a shared signing key.
var ValidMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// Identity is the caller proven by a verified token.
type Identity struct {
	ID     string
	Claims map[string]any
}

// Verifier validates bearer tokens signed with a shared key.
type Verifier struct {
	now    func() time.Time
	leeway time.Duration
}

// NewVerifier returns a verifier using the wall clock.
func NewVerifier() *Verifier {
	return &Verifier{now: time.Now}
}

// WithClock overrides the clock; used by tests.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// WithLeeway tolerates clock skew on exp and nbf.
func (v *Verifier) WithLeeway(d time.Duration) *Verifier {
	v.leeway = d
	return v
}

// Verify checks token against key and extracts the identity claim. exp and
// nbf are enforced when present.
func (v *Verifier) Verify(token, key string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(key), nil },
		jwt.WithValidMethods(ValidMethods),
		jwt.WithTimeFunc(v.now),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, _ := claims[IdentityClaim].(string)
	if strings.TrimSpace(id) == "" {
		return Identity{}, ErrMissingIdentity
	}
	return Identity{ID: id, Claims: claims}, nil
}

// SignHS256 issues an HS256 token carrying claims. Tokens are normally
// issued by the account service; this is used by tests and local tooling.
func SignHS256(claims map[string]any, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims)).SignedString(secret)
}
