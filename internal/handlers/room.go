package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamdesk-api/internal/dto"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/middleware"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/services"
)

type RoomHandler struct {
	rooms *services.RoomService
}

func NewRoomHandler(rooms *services.RoomService) *RoomHandler {
	return &RoomHandler{
		rooms: rooms,
	}
}

type roomRequest struct {
	Name             *string                `json:"name"`
	Description      *string                `json:"description"`
	Address          *string                `json:"address"`
	Neighborhood     *string                `json:"neighborhood"`
	City             *string                `json:"city"`
	State            *string                `json:"state"`
	ZipCode          *string                `json:"zipCode"`
	Images           *[]string              `json:"images"`
	Modalities       *[]models.RoomModality `json:"modalities"`
	Specialties      *[]string              `json:"specialties"`
	Amenities        *[]string              `json:"amenities"`
	Equipment        *[]string              `json:"equipment"`
	PricePerHour     *float64               `json:"pricePerHour"`
	PricePerShift    *float64               `json:"pricePerShift"`
	PriceFixed       *float64               `json:"priceFixed"`
	NightAvailable   *bool                  `json:"nightAvailable"`
	WeekendAvailable *bool                  `json:"weekendAvailable"`
	HostInfo         *models.Contact        `json:"hostInfo"`
	ManagerInfo      *models.Contact        `json:"managerInfo"`
}

// patch converts the request into a sparse update. Prices cannot be cleared
// through JSON null; send 0 instead.
func (r roomRequest) patch() services.RoomPatch {
	p := services.RoomPatch{
		Name:             r.Name,
		Description:      r.Description,
		Address:          r.Address,
		Neighborhood:     r.Neighborhood,
		City:             r.City,
		State:            r.State,
		ZipCode:          r.ZipCode,
		Images:           r.Images,
		Modalities:       r.Modalities,
		Specialties:      r.Specialties,
		Amenities:        r.Amenities,
		Equipment:        r.Equipment,
		NightAvailable:   r.NightAvailable,
		WeekendAvailable: r.WeekendAvailable,
		HostInfo:         r.HostInfo,
		ManagerInfo:      r.ManagerInfo,
	}
	if r.PricePerHour != nil {
		p.PricePerHour = &r.PricePerHour
	}
	if r.PricePerShift != nil {
		p.PricePerShift = &r.PricePerShift
	}
	if r.PriceFixed != nil {
		p.PriceFixed = &r.PriceFixed
	}
	return p
}

// input builds a full room from the request; absent fields stay zero.
func (r roomRequest) input() services.RoomInput {
	in := services.RoomInput{
		PricePerHour:  r.PricePerHour,
		PricePerShift: r.PricePerShift,
		PriceFixed:    r.PriceFixed,
	}
	deref(&in.Name, r.Name)
	deref(&in.Description, r.Description)
	deref(&in.Address, r.Address)
	deref(&in.Neighborhood, r.Neighborhood)
	deref(&in.City, r.City)
	deref(&in.State, r.State)
	deref(&in.ZipCode, r.ZipCode)
	deref(&in.Images, r.Images)
	deref(&in.Modalities, r.Modalities)
	deref(&in.Specialties, r.Specialties)
	deref(&in.Amenities, r.Amenities)
	deref(&in.Equipment, r.Equipment)
	deref(&in.NightAvailable, r.NightAvailable)
	deref(&in.WeekendAvailable, r.WeekendAvailable)
	deref(&in.HostInfo, r.HostInfo)
	deref(&in.ManagerInfo, r.ManagerInfo)
	return in
}

func deref[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ListRooms returns every room, filtered when search parameters are given
func (h *RoomHandler) ListRooms(c *gin.Context) {
	var filter dto.RoomFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	rooms, err := h.rooms.SearchRooms(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms,
	})
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	room, err := h.rooms.GetRoom(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoomDTO(*room))
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	room, err := h.rooms.CreateRoom(c.Request.Context(), req.input(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRoomDTO(*room))
}

func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	room, err := h.rooms.UpdateRoom(c.Request.Context(), id, req.patch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoomDTO(*room))
}

func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.rooms.DeleteRoom(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PublicRoom serves the unauthenticated share view
func (h *RoomHandler) PublicRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	view, err := h.rooms.PublicRoom(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
