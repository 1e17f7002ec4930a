package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-market-go/internal/domain/person"
	"google.golang.org/api/idtoken"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrEmailNotVerified  = errors.New("email not verified")
	ErrNotConfigured     = errors.New("google sign-in is not configured")
)

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleVerifier checks Google ID tokens issued for our client id.
type GoogleVerifier struct {
	clientID string
	validate validateFunc
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (person.Identity, error) {
	if v.clientID == "" {
		return person.Identity{}, ErrNotConfigured
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return person.Identity{}, ErrInvalidCredential
	}

	payload, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return person.Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return identityFromClaims(payload.Claims)
}

func identityFromClaims(claims map[string]interface{}) (person.Identity, error) {
	email, _ := claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return person.Identity{}, ErrInvalidCredential
	}
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return person.Identity{}, ErrEmailNotVerified
	}

	name, _ := claims["name"].(string)
	if name == "" {
		given, _ := claims["given_name"].(string)
		family, _ := claims["family_name"].(string)
		name = strings.TrimSpace(given + " " + family)
	}

	return person.Identity{Email: email, Name: name}, nil
}
