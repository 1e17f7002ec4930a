package reaction

import (
	"context"
	"errors"

	reactiondomain "campus-market-go/internal/domain/reaction"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entryColumns = "reactions.item_id, reactions.person_id, reactions.reaction_type AS emoji, persons.name AS person_name, reactions.created_at"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(reactiondomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ItemExists(ctx context.Context, itemID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("items").
		Where("id = ?", itemID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, itemID, personID uint) (*reactiondomain.Reaction, error) {
	var reaction reactiondomain.Reaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_id = ? AND person_id = ?", itemID, personID).
		Take(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reactiondomain.ErrReactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *PostgresRepository) Create(ctx context.Context, reaction *reactiondomain.Reaction) error {
	err := r.db.WithContext(ctx).Create(reaction).Error
	if isUniqueViolation(err) {
		return gorm.ErrDuplicatedKey
	}
	return err
}

func (r *PostgresRepository) UpdateType(ctx context.Context, id uint, emoji string) error {
	return r.db.WithContext(ctx).
		Model(&reactiondomain.Reaction{}).
		Where("id = ?", id).
		Update("reaction_type", emoji).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&reactiondomain.Reaction{}, id).Error
}

func (r *PostgresRepository) ListByItem(ctx context.Context, itemID uint) ([]reactiondomain.Entry, error) {
	var entries []reactiondomain.Entry
	if err := r.entries(ctx).
		Where("reactions.item_id = ?", itemID).
		Order("reactions.created_at DESC, reactions.id DESC").
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresRepository) ListByItems(ctx context.Context, itemIDs []uint) ([]reactiondomain.Entry, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var entries []reactiondomain.Entry
	if err := r.entries(ctx).
		Where("reactions.item_id IN ?", itemIDs).
		Order("reactions.item_id, reactions.created_at DESC, reactions.id DESC").
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresRepository) entries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reactions").
		Select(entryColumns).
		Joins("JOIN persons ON persons.id = reactions.person_id")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
