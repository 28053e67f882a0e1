package models

import "time"

type RoomModality string

const (
	ModalityHourly RoomModality = "hourly"
	ModalityShift  RoomModality = "shift"
	ModalityFixed  RoomModality = "fixed"
)

// Contact is stored as a JSON blob in host_info / manager_info.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Room struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	Name             string         `gorm:"type:varchar(255);not null" json:"name"`
	Description      string         `gorm:"type:text" json:"description"`
	Address          string         `gorm:"type:varchar(255)" json:"address"`
	Neighborhood     string         `gorm:"type:varchar(120)" json:"neighborhood"`
	City             string         `gorm:"type:varchar(120)" json:"city"`
	State            string         `gorm:"type:varchar(60)" json:"state"`
	ZipCode          string         `gorm:"type:varchar(20)" json:"zip_code"`
	Images           []string       `gorm:"serializer:json;type:text" json:"images"`
	Modalities       []RoomModality `gorm:"serializer:json;type:text" json:"modalities"`
	Specialties      []string       `gorm:"serializer:json;type:text" json:"specialties"`
	Amenities        []string       `gorm:"serializer:json;type:text" json:"amenities"`
	Equipment        []string       `gorm:"serializer:json;type:text" json:"equipment"`
	PricePerHour     *float64       `json:"price_per_hour"`
	PricePerShift    *float64       `json:"price_per_shift"`
	PriceFixed       *float64       `json:"price_fixed"`
	NightAvailable   bool           `gorm:"not null;default:false" json:"night_available"`
	WeekendAvailable bool           `gorm:"not null;default:false" json:"weekend_available"`
	HostInfo         Contact        `gorm:"serializer:json;type:text" json:"host_info"`
	ManagerInfo      Contact        `gorm:"serializer:json;type:text" json:"manager_info"`
	CreatedBy        uint64         `gorm:"not null" json:"created_by"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
