package person

import (
	"context"
	"errors"

	"campus-market-go/internal/domain/campus"
	persondomain "campus-market-go/internal/domain/person"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(persondomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint) (*persondomain.Person, error) {
	var person persondomain.Person
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, persondomain.ErrPersonNotFound
		}
		return nil, err
	}
	return &person, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*persondomain.Person, error) {
	var person persondomain.Person
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, persondomain.ErrPersonNotFound
		}
		return nil, err
	}
	return &person, nil
}

func (r *PostgresRepository) Create(ctx context.Context, person *persondomain.Person) error {
	err := r.db.WithContext(ctx).Create(person).Error
	if isUniqueViolation(err) {
		return gorm.ErrDuplicatedKey
	}
	return err
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id uint, name string) error {
	return r.updates(ctx, id, map[string]interface{}{"name": name})
}

func (r *PostgresRepository) UpdateContact(ctx context.Context, id uint, phone, hostel *string) error {
	return r.updates(ctx, id, map[string]interface{}{
		"phone":       phone,
		"hostel_name": hostel,
	})
}

func (r *PostgresRepository) UpdateCampus(ctx context.Context, id uint, code campus.Code) error {
	return r.updates(ctx, id, map[string]interface{}{"campus": code})
}

func (r *PostgresRepository) HostelExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("hostels").
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) updates(ctx context.Context, id uint, values map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&persondomain.Person{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return persondomain.ErrPersonNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
