package service

import (
	"context"

	"royale-rivals/internal/domain"
	"royale-rivals/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type FeedbackInput struct {
	Type        string `json:"type" validate:"required,oneof=bug feature other"`
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
}

type FeedbackService struct {
	feedback *repository.FeedbackRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewFeedbackService(feedback *repository.FeedbackRepository, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{feedback: feedback, validate: validator.New(), logger: logger}
}

func (s *FeedbackService) Submit(ctx context.Context, userID int64, in FeedbackInput) (*domain.Feedback, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err, "invalid feedback")
	}
	f, err := s.feedback.Create(ctx, domain.Feedback{
		UserID:      userID,
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", userID).Str("type", f.Type).Msg("feedback received")
	return f, nil
}
