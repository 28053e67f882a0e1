package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/teamdesk-api/internal/dto"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomImageRequired = errors.New("at least one image is required")
)

// RoomValidationError lists the fields that failed validation.
type RoomValidationError struct {
	Fields []string
}

func (e *RoomValidationError) Error() string {
	return fmt.Sprintf("invalid room fields: %v", e.Fields)
}

// RoomInput carries every editable room field.
type RoomInput struct {
	Name             string                `validate:"required,max=255"`
	Description      string                `validate:"max=5000"`
	Address          string                `validate:"max=255"`
	Neighborhood     string                `validate:"max=120"`
	City             string                `validate:"max=120"`
	State            string                `validate:"max=60"`
	ZipCode          string                `validate:"max=20"`
	Images           []string              `validate:"min=1,dive,required"`
	Modalities       []models.RoomModality `validate:"unique,dive,oneof=hourly shift fixed"`
	Specialties      []string              `validate:"dive,required"`
	Amenities        []string              `validate:"dive,required"`
	Equipment        []string              `validate:"dive,required"`
	PricePerHour     *float64              `validate:"omitempty,gte=0"`
	PricePerShift    *float64              `validate:"omitempty,gte=0"`
	PriceFixed       *float64              `validate:"omitempty,gte=0"`
	NightAvailable   bool
	WeekendAvailable bool
	HostInfo         models.Contact
	ManagerInfo      models.Contact
}

// RoomPatch is a sparse room update; nil fields are left alone.
type RoomPatch struct {
	Name             *string
	Description      *string
	Address          *string
	Neighborhood     *string
	City             *string
	State            *string
	ZipCode          *string
	Images           *[]string
	Modalities       *[]models.RoomModality
	Specialties      *[]string
	Amenities        *[]string
	Equipment        *[]string
	PricePerHour     **float64
	PricePerShift    **float64
	PriceFixed       **float64
	NightAvailable   *bool
	WeekendAvailable *bool
	HostInfo         *models.Contact
	ManagerInfo      *models.Contact
}

// RoomService manages the clinic-room marketplace.
type RoomService struct {
	roomRepo repository.RoomRepository
	feed     realtime.Publisher
	validate *validator.Validate
}

func NewRoomService(roomRepo repository.RoomRepository, feed realtime.Publisher) *RoomService {
	return &RoomService{
		roomRepo: roomRepo,
		feed:     feed,
		validate: validator.New(),
	}
}

func (s *RoomService) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// SearchRooms fetches every room and filters the adapted list.
func (s *RoomService) SearchRooms(ctx context.Context, filter dto.RoomFilter) ([]dto.RoomDTO, error) {
	rooms, err := s.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(dto.ToRoomDTOs(rooms)), nil
}

func (s *RoomService) GetRoom(ctx context.Context, id uint64) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return room, nil
}

// CreateRoom validates and stores a room. A room needs at least one image.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomInput, creatorID uint64) (*models.Room, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}

	room := &models.Room{CreatedBy: creatorID}
	applyRoomInput(room, input)

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	announce(ctx, s.feed, models.TableRooms, realtime.EventInsert, room.ID, nil)
	return room, nil
}

// UpdateRoom applies a sparse update; the merged room must still be valid.
func (s *RoomService) UpdateRoom(ctx context.Context, id uint64, patch RoomPatch) (*models.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	input := roomInputOf(*room)
	patch.applyTo(&input)
	if err := s.check(input); err != nil {
		return nil, err
	}
	applyRoomInput(room, input)

	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	announce(ctx, s.feed, models.TableRooms, realtime.EventUpdate, id, nil)
	return room, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, id uint64) error {
	if err := s.roomRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to delete room: %w", err)
	}

	announce(ctx, s.feed, models.TableRooms, realtime.EventDelete, id, nil)
	return nil
}

// PublicRoom returns the read-only share view of a room.
func (s *RoomService) PublicRoom(ctx context.Context, id uint64) (*dto.PublicRoomDTO, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	view := dto.ToPublicRoomDTO(*room)
	return &view, nil
}

func (s *RoomService) check(input RoomInput) error {
	if len(input.Images) == 0 {
		return ErrRoomImageRequired
	}

	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate room: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &RoomValidationError{Fields: fields}
}

func applyRoomInput(room *models.Room, in RoomInput) {
	room.Name = in.Name
	room.Description = in.Description
	room.Address = in.Address
	room.Neighborhood = in.Neighborhood
	room.City = in.City
	room.State = in.State
	room.ZipCode = in.ZipCode
	room.Images = in.Images
	room.Modalities = in.Modalities
	room.Specialties = in.Specialties
	room.Amenities = in.Amenities
	room.Equipment = in.Equipment
	room.PricePerHour = in.PricePerHour
	room.PricePerShift = in.PricePerShift
	room.PriceFixed = in.PriceFixed
	room.NightAvailable = in.NightAvailable
	room.WeekendAvailable = in.WeekendAvailable
	room.HostInfo = in.HostInfo
	room.ManagerInfo = in.ManagerInfo
}

func roomInputOf(room models.Room) RoomInput {
	return RoomInput{
		Name:             room.Name,
		Description:      room.Description,
		Address:          room.Address,
		Neighborhood:     room.Neighborhood,
		City:             room.City,
		State:            room.State,
		ZipCode:          room.ZipCode,
		Images:           room.Images,
		Modalities:       room.Modalities,
		Specialties:      room.Specialties,
		Amenities:        room.Amenities,
		Equipment:        room.Equipment,
		PricePerHour:     room.PricePerHour,
		PricePerShift:    room.PricePerShift,
		PriceFixed:       room.PriceFixed,
		NightAvailable:   room.NightAvailable,
		WeekendAvailable: room.WeekendAvailable,
		HostInfo:         room.HostInfo,
		ManagerInfo:      room.ManagerInfo,
	}
}

func (p RoomPatch) applyTo(in *RoomInput) {
	setIf(&in.Name, p.Name)
	setIf(&in.Description, p.Description)
	setIf(&in.Address, p.Address)
	setIf(&in.Neighborhood, p.Neighborhood)
	setIf(&in.City, p.City)
	setIf(&in.State, p.State)
	setIf(&in.ZipCode, p.ZipCode)
	setIf(&in.Images, p.Images)
	setIf(&in.Modalities, p.Modalities)
	setIf(&in.Specialties, p.Specialties)
	setIf(&in.Amenities, p.Amenities)
	setIf(&in.Equipment, p.Equipment)
	setIf(&in.PricePerHour, p.PricePerHour)
	setIf(&in.PricePerShift, p.PricePerShift)
	setIf(&in.PriceFixed, p.PriceFixed)
	setIf(&in.NightAvailable, p.NightAvailable)
	setIf(&in.WeekendAvailable, p.WeekendAvailable)
	setIf(&in.HostInfo, p.HostInfo)
	setIf(&in.ManagerInfo, p.ManagerInfo)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
