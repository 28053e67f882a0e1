package dto

import (
	"fmt"
	"time"

	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/utils"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ContactDTO is a host or manager contact
type ContactDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RoomDTO represents a room in API responses
type RoomDTO struct {
	ID               uint64                `json:"id"`
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	Address          string                `json:"address"`
	Neighborhood     string                `json:"neighborhood"`
	City             string                `json:"city"`
	State            string                `json:"state"`
	ZipCode          string                `json:"zipCode"`
	Images           []string              `json:"images"`
	Modalities       []models.RoomModality `json:"modalities"`
	Specialties      []string              `json:"specialties"`
	Amenities        []string              `json:"amenities"`
	Equipment        []string              `json:"equipment"`
	PricePerHour     *float64              `json:"pricePerHour"`
	PricePerShift    *float64              `json:"pricePerShift"`
	PriceFixed       *float64              `json:"priceFixed"`
	NightAvailable   bool                  `json:"nightAvailable"`
	WeekendAvailable bool                  `json:"weekendAvailable"`
	HostInfo         ContactDTO            `json:"hostInfo"`
	ManagerInfo      ContactDTO            `json:"managerInfo"`
	CreatedBy        uint64                `json:"createdBy"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

// PublicRoomDTO is the unauthenticated share view of a room
type PublicRoomDTO struct {
	ID               uint64                `json:"id"`
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	Neighborhood     string                `json:"neighborhood"`
	City             string                `json:"city"`
	State            string                `json:"state"`
	Images           []string              `json:"images"`
	Modalities       []models.RoomModality `json:"modalities"`
	Specialties      []string              `json:"specialties"`
	Amenities        []string              `json:"amenities"`
	Equipment        []string              `json:"equipment"`
	Prices           []string              `json:"prices"`
	NightAvailable   bool                  `json:"nightAvailable"`
	WeekendAvailable bool                  `json:"weekendAvailable"`
	ManagerName      string                `json:"managerName"`
	ContactLink      string                `json:"contactLink"`
}

var pricePrinter = message.NewPrinter(language.BrazilianPortuguese)

func formatPrice(v float64, suffix string) string {
	return pricePrinter.Sprintf("R$ %v/%s", number.Decimal(v, number.MaxFractionDigits(2)), suffix)
}

// PriceLabels returns one label per price that is set, in the order
// hourly, shift, monthly.
func (r RoomDTO) PriceLabels() []string {
	labels := make([]string, 0, 3)
	if r.PricePerHour != nil {
		labels = append(labels, formatPrice(*r.PricePerHour, "h"))
	}
	if r.PricePerShift != nil {
		labels = append(labels, formatPrice(*r.PricePerShift, "turno"))
	}
	if r.PriceFixed != nil {
		labels = append(labels, formatPrice(*r.PriceFixed, "mês"))
	}
	return labels
}

// LowestPrice returns the smallest price set on the room.
func (r RoomDTO) LowestPrice() (float64, bool) {
	var lowest float64
	found := false
	for _, p := range []*float64{r.PricePerHour, r.PricePerShift, r.PriceFixed} {
		if p == nil {
			continue
		}
		if !found || *p < lowest {
			lowest = *p
			found = true
		}
	}
	return lowest, found
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func ToRoomDTO(room models.Room) RoomDTO {
	modalities := room.Modalities
	if modalities == nil {
		modalities = []models.RoomModality{}
	}

	return RoomDTO{
		ID:               room.ID,
		Name:             room.Name,
		Description:      room.Description,
		Address:          room.Address,
		Neighborhood:     room.Neighborhood,
		City:             room.City,
		State:            room.State,
		ZipCode:          room.ZipCode,
		Images:           nonNil(room.Images),
		Modalities:       modalities,
		Specialties:      nonNil(room.Specialties),
		Amenities:        nonNil(room.Amenities),
		Equipment:        nonNil(room.Equipment),
		PricePerHour:     room.PricePerHour,
		PricePerShift:    room.PricePerShift,
		PriceFixed:       room.PriceFixed,
		NightAvailable:   room.NightAvailable,
		WeekendAvailable: room.WeekendAvailable,
		HostInfo:         ContactDTO(room.HostInfo),
		ManagerInfo:      ContactDTO(room.ManagerInfo),
		CreatedBy:        room.CreatedBy,
		CreatedAt:        room.CreatedAt,
		UpdatedAt:        room.UpdatedAt,
	}
}

func ToRoomDTOs(rooms []models.Room) []RoomDTO {
	out := make([]RoomDTO, len(rooms))
	for i, r := range rooms {
		out[i] = ToRoomDTO(r)
	}
	return out
}

// ContactMessage is the text pre-filled in the share page contact link.
func ContactMessage(roomName string) string {
	return fmt.Sprintf("Olá! Tenho interesse na sala %s.", roomName)
}

// ToPublicRoomDTO renders the share view. The contact link opens a chat
// with the manager's phone pre-filled with a message about the room.
func ToPublicRoomDTO(room models.Room) PublicRoomDTO {
	full := ToRoomDTO(room)
	return PublicRoomDTO{
		ID:               full.ID,
		Name:             full.Name,
		Description:      full.Description,
		Neighborhood:     full.Neighborhood,
		City:             full.City,
		State:            full.State,
		Images:           full.Images,
		Modalities:       full.Modalities,
		Specialties:      full.Specialties,
		Amenities:        full.Amenities,
		Equipment:        full.Equipment,
		Prices:           full.PriceLabels(),
		NightAvailable:   full.NightAvailable,
		WeekendAvailable: full.WeekendAvailable,
		ManagerName:      full.ManagerInfo.Name,
		ContactLink:      utils.WhatsAppLink(full.ManagerInfo.Phone, ContactMessage(full.Name)),
	}
}
