// Package auth verifies the bearer tokens that gate the API.
//
// Tokens are issued by the external account service. This package only
// checks the signature, expiry and (optionally) issuer, then places the
// caller's identity on the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/interviewhub/internal/app/system/jsonutil"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims is the identity carried on the request context.
type Claims struct {
	UserID string
	Role   string
}

type ctxKey string

const claimsKey ctxKey = "claims"

// CurrentClaims returns the caller's claims and a found flag.
func CurrentClaims(r *http.Request) (*Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*Claims)
	return c, ok
}

// WithClaims returns a copy of ctx carrying c.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// WithTestClaims injects claims into r, bypassing token verification.
func WithTestClaims(r *http.Request, c *Claims) *http.Request {
	return r.WithContext(WithClaims(r.Context(), c))
}

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// userIDClaims are checked in order; the account service has used each.
var userIDClaims = []string{"_id", "id", "userId", "sub"}

// Verifier validates HMAC-signed JWTs.
type Verifier struct {
	secret []byte
	issuer string
	log    *zap.Logger
}

// NewVerifier returns a Verifier for secret. issuer may be empty.
func NewVerifier(secret, issuer string, logger *zap.Logger) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{secret: []byte(secret), issuer: issuer, log: logger}, nil
}

// Parse validates raw and extracts the caller's claims.
func (v *Verifier) Parse(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	mc := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, mc, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c := &Claims{}
	for _, k := range userIDClaims {
		if s, ok := mc[k].(string); ok && s != "" {
			c.UserID = s
			break
		}
	}
	if c.UserID == "" {
		return nil, fmt.Errorf("%w: no user id claim", ErrInvalidToken)
	}
	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}
	return c, nil
}

// bearer extracts the token from the Authorization header.
func bearer(r *http.Request) (string, error) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", ErrMissingToken
	}
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(tok), nil
}

// Require rejects requests without a valid bearer token with 401 and
// injects Claims for the rest.
func (v *Verifier) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearer(r)
		if err != nil {
			jsonutil.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}
		c, err := v.Parse(raw)
		if err != nil {
			v.log.Debug("rejected bearer token",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			jsonutil.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), c)))
	})
}
