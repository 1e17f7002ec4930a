package person

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-market-go/internal/domain/campus"
	"campus-market-go/internal/domain/contact"
	"campus-market-go/pkg/logger"
	"gorm.io/gorm"
)

type Service struct {
	repo      Repository
	refresher ContactRefresher
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, refresher ContactRefresher, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, refresher: refresher, log: log, now: time.Now}
}

func (s *Service) GetByID(ctx context.Context, id uint) (*Person, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Person, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

// SignIn returns the person for a verified identity, creating it on first
// sign-in. created reports whether a new record was stored.
func (s *Service) SignIn(ctx context.Context, identity Identity) (*Person, bool, error) {
	email := normalizeEmail(identity.Email)
	if email == "" {
		return nil, false, ErrEmailRequired
	}
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Name == "" {
			if err := s.repo.UpdateName(ctx, existing.ID, name); err != nil {
				return nil, false, err
			}
			existing.Name = name
		}
		return existing, false, nil
	case !errors.Is(err, ErrPersonNotFound):
		return nil, false, err
	}

	person := &Person{
		Name:             name,
		Email:            email,
		IsSubscribed:     true,
		Campus:           campus.Normalize(email, campus.Others),
		LastNotification: s.now(),
	}
	if err := s.repo.Create(ctx, person); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent first sign-in.
			existing, getErr := s.repo.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	s.log.Info("person.sign_in: person created", "user_id", person.ID, "campus", person.Campus)
	return person, true, nil
}

// UpdateContact stores a new phone and/or hostel and refreshes the contact
// link of the person's listings.
func (s *Service) UpdateContact(ctx context.Context, personID uint, update ContactUpdate) (*Person, error) {
	var result Person
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		person, err := tx.GetByID(ctx, personID)
		if err != nil {
			return err
		}

		phone := person.Phone
		if update.Phone != nil {
			phone = contact.NormalizePhonePtr(update.Phone)
		}

		hostel := person.HostelName
		if update.Hostel != nil {
			hostel = nil
			if name := strings.TrimSpace(*update.Hostel); name != "" {
				exists, err := tx.HostelExists(ctx, name)
				if err != nil {
					return err
				}
				if !exists {
					return ErrHostelNotFound
				}
				hostel = &name
			}
		}

		if err := tx.UpdateContact(ctx, person.ID, phone, hostel); err != nil {
			return err
		}

		normalized := campus.Normalize(person.Email, person.Campus)
		if normalized != person.Campus {
			if err := tx.UpdateCampus(ctx, person.ID, normalized); err != nil {
				return err
			}
		}

		person.Phone = phone
		person.HostelName = hostel
		person.Campus = normalized
		result = *person
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.refresher != nil {
		if err := s.refresher.RefreshSellerContacts(ctx, result.ID, result.Phone); err != nil {
			return nil, fmt.Errorf("refresh seller contacts: %w", err)
		}
	}
	return &result, nil
}

// AssignCampus stores a campus produced by geolocation. The code goes through
// the same normalization as every save, so an institutional address still wins.
func (s *Service) AssignCampus(ctx context.Context, personID uint, code campus.Code) (campus.Code, error) {
	person, err := s.repo.GetByID(ctx, personID)
	if err != nil {
		return "", err
	}

	normalized := campus.Normalize(person.Email, code)
	if normalized == person.Campus {
		return normalized, nil
	}
	if err := s.repo.UpdateCampus(ctx, person.ID, normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// normalizeEmail is the stored and looked-up form of an address. Session
// subjects are lowercased the same way.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
