package reaction

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"campus-market-go/pkg/logger"
	"gorm.io/gorm"
)

type Service struct {
	repo Repository
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, log: log}
}

// React toggles the person's reaction on an item: no reaction creates one,
// the same emoji removes it and a different emoji replaces it in place.
// The returned summary carries the person's resulting emoji in MyEmoji.
func (s *Service) React(ctx context.Context, itemID, personID uint, emoji string) (*Summary, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, ErrEmojiRequired
	}
	if utf8.RuneCountInString(emoji) > MaxEmojiLength {
		return nil, ErrEmojiTooLong
	}

	if err := s.ensureItem(ctx, itemID); err != nil {
		return nil, err
	}

	mine, err := s.toggle(ctx, itemID, personID, emoji)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent first reaction won the insert; toggle against it.
		s.log.Debug("reaction.react: retrying after concurrent insert", "item_id", itemID, "user_id", personID)
		mine, err = s.toggle(ctx, itemID, personID, emoji)
	}
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	summary := Summarize(entries, personID)
	summary.MyEmoji = mine
	return &summary, nil
}

func (s *Service) toggle(ctx context.Context, itemID, personID uint, emoji string) (*string, error) {
	var mine *string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.GetForUpdate(ctx, itemID, personID)
		if errors.Is(err, ErrReactionNotFound) {
			mine = &emoji
			return tx.Create(ctx, &Reaction{ItemID: itemID, PersonID: personID, ReactionType: emoji})
		}
		if err != nil {
			return err
		}

		if existing.ReactionType == emoji {
			mine = nil
			return tx.Delete(ctx, existing.ID)
		}
		mine = &emoji
		return tx.UpdateType(ctx, existing.ID, emoji)
	})
	if err != nil {
		return nil, err
	}
	return mine, nil
}

func (s *Service) Summarize(ctx context.Context, itemID, viewerID uint) (*Summary, error) {
	if err := s.ensureItem(ctx, itemID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	summary := Summarize(entries, viewerID)
	return &summary, nil
}

// SummarizeBatch loads the reactions of all itemIDs with a single query.
func (s *Service) SummarizeBatch(ctx context.Context, itemIDs []uint, viewerID uint) (map[uint]Badge, error) {
	if len(itemIDs) == 0 {
		return map[uint]Badge{}, nil
	}
	entries, err := s.repo.ListByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	return Badges(entries, itemIDs, viewerID), nil
}

func (s *Service) ensureItem(ctx context.Context, itemID uint) error {
	exists, err := s.repo.ItemExists(ctx, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrItemNotFound
	}
	return nil
}
