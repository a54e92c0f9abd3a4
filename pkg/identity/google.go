package identity

import (
	"context"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
)

// Identity is the verified subject behind an externally issued ID token.
type Identity struct {
	Subject   string
	Email     string
	Name      string
	Picture   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Verifier validates an ID token and returns the identity it asserts.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleVerifier checks Google-issued ID tokens against the OAuth client ID.
type GoogleVerifier struct {
	audience string
	validate validateFunc
}

// NewGoogleVerifier constructs a verifier for the given OAuth client ID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{audience: clientID, validate: idtoken.Validate}
}

// Verify validates signature, audience and expiry, then extracts the profile claims.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "ID token is required")
	}

	payload, err := v.validate(ctx, token, v.audience)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.NameUnauthorized, appErrors.ErrUnauthorized.Status, "ID token is invalid")
	}

	email := claimString(payload.Claims, "email")
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "ID token does not carry an email")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "email is not verified")
	}

	return &Identity{
		Subject:   payload.Subject,
		Email:     strings.ToLower(email),
		Name:      claimString(payload.Claims, "name"),
		Picture:   claimString(payload.Claims, "picture"),
		IssuedAt:  time.Unix(payload.IssuedAt, 0).UTC(),
		ExpiresAt: time.Unix(payload.Expires, 0).UTC(),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	value, _ := claims[key].(string)
	return value
}
