package feedback

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"campus-market-go/pkg/logger"
)

type Service struct {
	repo   Repository
	images ImageStore
	log    logger.Logger
}

func NewService(repo Repository, images ImageStore, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, images: images, log: log}
}

// Submit stores feedback from personID, which is nil for anonymous visitors.
func (s *Service) Submit(ctx context.Context, personID *uint, message string, uploads []Upload) (*Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrMessageRequired
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}
	if len(uploads) > MaxImages {
		return nil, ErrTooManyImages
	}
	if len(uploads) > 0 && s.images == nil {
		return nil, ErrStorageUnavailable
	}

	feedback := &Feedback{PersonID: personID, Message: message}
	for _, upload := range uploads {
		key, url, err := s.images.Put(ctx, "feedback", upload.Filename, upload.Content)
		if err != nil {
			s.cleanup(ctx, feedback.Images)
			return nil, fmt.Errorf("store feedback image %q: %w", upload.Filename, err)
		}
		feedback.Images = append(feedback.Images, Image{ObjectKey: key, URL: url})
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		s.cleanup(ctx, feedback.Images)
		return nil, err
	}

	s.log.Info("feedback.submit: feedback stored", "feedback_id", feedback.ID, "images", len(feedback.Images))
	return feedback, nil
}

func (s *Service) cleanup(ctx context.Context, images []Image) {
	for _, image := range images {
		if err := s.images.Delete(ctx, image.ObjectKey); err != nil {
			s.log.InternalError("feedback.submit: failed to delete object", err, "key", image.ObjectKey)
		}
	}
}
