package review

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"roomsewa/internal/domain"
	"roomsewa/internal/repository"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("user already reviewed this room")
	ErrRoomNotFound    = repository.ErrRoomNotFound
)

type Service struct {
	reviews *repository.ReviewRepository
	rooms   *repository.RoomRepository
}

func NewService(reviews *repository.ReviewRepository, rooms *repository.RoomRepository) *Service {
	return &Service{reviews: reviews, rooms: rooms}
}

func (s *Service) CreateReview(ctx context.Context, userID int64, req CreateReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrValidation
	}

	if _, err := s.rooms.GetByID(ctx, req.RoomID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		UserID:  userID,
		RoomID:  req.RoomID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	if err := s.refreshScore(ctx, req.RoomID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Service) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	roomID, err := s.reviews.GetRoomID(ctx, reviewID)
	if err != nil {
		return ErrNotFound
	}

	affected, err := s.reviews.Delete(ctx, reviewID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return s.refreshScore(ctx, roomID)
}

func (s *Service) ListByRoom(ctx context.Context, roomID int64) ([]domain.Review, error) {
	return s.reviews.ListByRoom(ctx, roomID)
}

// refreshScore recomputes the denormalized rating on the room row.
func (s *Service) refreshScore(ctx context.Context, roomID int64) error {
	average, count, err := s.reviews.RoomScore(ctx, roomID)
	if err != nil {
		return err
	}
	return s.rooms.UpdateScore(ctx, roomID, average, count)
}
