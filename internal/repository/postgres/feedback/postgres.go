package feedback

import (
	"context"

	feedbackdomain "campus-market-go/internal/domain/feedback"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the feedback and its images in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, feedback *feedbackdomain.Feedback) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images").Create(feedback).Error; err != nil {
			return err
		}
		if len(feedback.Images) == 0 {
			return nil
		}
		for i := range feedback.Images {
			feedback.Images[i].FeedbackID = feedback.ID
		}
		return tx.Create(&feedback.Images).Error
	})
}
