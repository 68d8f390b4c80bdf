package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"roomsewa/internal/domain"
	"roomsewa/internal/pkg/validator"
	"roomsewa/internal/repository"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrForbidden    = errors.New("forbidden")
	ErrRoomNotFound = repository.ErrRoomNotFound
	ErrNotFound     = repository.ErrServiceNotFound
)

type Service struct {
	rooms    *repository.RoomRepository
	services *repository.ServiceRepository
	history  *repository.HistoryRepository
}

func NewService(rooms *repository.RoomRepository, services *repository.ServiceRepository, history *repository.HistoryRepository) *Service {
	return &Service{rooms: rooms, services: services, history: history}
}

/* ---------- ROOMS ---------- */

func (s *Service) CreateRoom(ctx context.Context, landlordID int64, req CreateRoomRequest) (*domain.Room, error) {
	room := &domain.Room{
		LandlordID:     landlordID,
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		City:           req.City,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		RoomType:       domain.RoomType(req.RoomType),
		Amenities:      strings.Join(req.Amenities, ","),
		AvailableFrom:  req.AvailableFrom,
		AvailableUntil: req.AvailableUntil,
		PosterImageURL: req.PosterImageURL,
		Status:         domain.RoomPending,
	}
	if errs := validator.Validate(room); errs != nil {
		return nil, errs
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) UpdateRoom(ctx context.Context, userID int64, role string, roomID int64, req UpdateRoomRequest) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.LandlordID != userID && role != "admin" {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		room.Title = *req.Title
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.Price != nil && *req.Price >= 0 {
		room.Price = *req.Price
	}
	if req.City != nil {
		room.City = *req.City
	}
	if req.Address != nil {
		room.Address = *req.Address
	}
	if req.Amenities != nil {
		room.Amenities = strings.Join(req.Amenities, ",")
	}
	if req.AvailableFrom != nil {
		room.AvailableFrom = *req.AvailableFrom
	}
	if req.AvailableUntil != nil {
		room.AvailableUntil = req.AvailableUntil
	}
	if req.PosterImageURL != nil {
		room.PosterImageURL = *req.PosterImageURL
	}

	// Any edit sends the listing back through moderation.
	if role != "admin" {
		room.Status = domain.RoomPending
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// GetRoom records a view in the user's history when the viewer is known.
func (s *Service) GetRoom(ctx context.Context, viewerID, roomID int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if viewerID > 0 && viewerID != room.LandlordID {
		_ = s.history.Record(ctx, &domain.History{
			UserID: viewerID,
			RoomID: roomID,
			Action: domain.ActionViewed,
		})
	}
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, f repository.RoomFilters) ([]domain.Room, int64, error) {
	// Public listings only show approved rooms.
	if f.Status == "" {
		f.Status = string(domain.RoomApproved)
	}
	return s.rooms.List(ctx, f)
}

func (s *Service) ModerateRoom(ctx context.Context, roomID int64, status string) (*domain.Room, error) {
	st := domain.RoomStatus(status)
	if st != domain.RoomApproved && st != domain.RoomRejected {
		return nil, ErrValidation
	}
	if err := s.rooms.UpdateStatus(ctx, roomID, st); err != nil {
		return nil, err
	}
	return s.rooms.GetByID(ctx, roomID)
}

// RecentHistory lists the user's recent room views and bookings.
func (s *Service) RecentHistory(ctx context.Context, userID int64, limit int) ([]domain.History, error) {
	return s.history.ListByUser(ctx, userID, limit)
}

/* ---------- SERVICES & SLOTS ---------- */

func (s *Service) CreateService(ctx context.Context, providerID int64, req CreateServiceRequest) (*domain.Service, error) {
	svc := &domain.Service{
		ProviderID:  providerID,
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return s.services.GetByID(ctx, id)
}

func (s *Service) ListServices(ctx context.Context, page, perPage int) ([]domain.Service, int64, error) {
	return s.services.List(ctx, page, perPage)
}

// GenerateSlots expands the request window into equal-length available slots
// and appends them. Only the provider may add slots to their service.
func (s *Service) GenerateSlots(ctx context.Context, userID int64, role string, serviceID int64, req GenerateSlotsRequest) (int, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return 0, err
	}
	if svc.ProviderID != userID && role != "admin" {
		return 0, ErrForbidden
	}

	start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	if err != nil {
		return 0, ErrValidation
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
	if err != nil {
		return 0, ErrValidation
	}
	if end.Before(start) || req.CloseHour <= req.OpenHour || req.SlotMinutes <= 0 {
		return 0, ErrValidation
	}

	price := req.PricePerSlot
	if price == 0 {
		price = svc.BasePrice
	}

	step := time.Duration(req.SlotMinutes) * time.Minute
	var slots []domain.Slot
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		open := day.Add(time.Duration(req.OpenHour) * time.Hour)
		close := day.Add(time.Duration(req.CloseHour) * time.Hour)
		for at := open; !at.Add(step).After(close); at = at.Add(step) {
			slots = append(slots, domain.Slot{
				StartTime: at,
				EndTime:   at.Add(step),
				Price:     price,
			})
		}
	}

	if err := s.services.AddSlots(ctx, serviceID, slots); err != nil {
		return 0, err
	}
	return len(slots), nil
}
