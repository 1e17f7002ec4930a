package auth

import (
	"context"
	"time"

	"campus-market-go/internal/config"
	persondomain "campus-market-go/internal/domain/person"
	"campus-market-go/pkg/logger"
)

type People interface {
	SignIn(ctx context.Context, identity persondomain.Identity) (*persondomain.Person, bool, error)
	UpdateContact(ctx context.Context, personID uint, update persondomain.ContactUpdate) (*persondomain.Person, error)
}

type Verifier interface {
	Verify(ctx context.Context, credential string) (persondomain.Identity, error)
}

type OAuth interface {
	Enabled() bool
	AuthCodeURL() (url string, state string, err error)
	Exchange(ctx context.Context, code string) (persondomain.Identity, error)
}

type Sessions interface {
	Issue(email string) (string, time.Time, error)
}

type Handlers struct {
	People   People
	Verifier Verifier
	OAuth    OAuth
	Sessions Sessions
	cfg      config.AuthConfig
	log      logger.Logger
}

func New(people People, verifier Verifier, oauth OAuth, sessions Sessions, cfg config.AuthConfig, log logger.Logger) *Handlers {
	return &Handlers{
		People:   people,
		Verifier: verifier,
		OAuth:    oauth,
		Sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}
