package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/teamdesk-api/internal/models"
)

func price(v float64) *float64 { return &v }

func TestPriceLabelsHourlyOnly(t *testing.T) {
	room := RoomDTO{PricePerHour: price(150)}

	labels := room.PriceLabels()

	require.Len(t, labels, 1)
	assert.Equal(t, "R$ 150/h", labels[0])
}

func TestPriceLabelsAllPrices(t *testing.T) {
	room := RoomDTO{
		PricePerHour:  price(150),
		PricePerShift: price(400),
		PriceFixed:    price(2000),
	}

	assert.Equal(t, []string{"R$ 150/h", "R$ 400/turno", "R$ 2.000/mês"}, room.PriceLabels())
}

func TestPriceLabelsNoPrice(t *testing.T) {
	assert.Empty(t, RoomDTO{}.PriceLabels())
}

func TestToTaskDTOTeamScope(t *testing.T) {
	teamID := uint64(7)

	team := ToTaskDTO(models.Task{ID: 1, TeamID: &teamID})
	general := ToTaskDTO(models.Task{ID: 2, IsGeneral: true})

	assert.Equal(t, "7", team.TeamID)
	assert.False(t, team.IsGeneral)
	assert.Equal(t, "general", general.TeamID)
	assert.True(t, general.IsGeneral)
}

func TestToTaskDTOPlaceholders(t *testing.T) {
	dto := ToTaskDTO(models.Task{ID: 1, IsGeneral: true})

	assert.NotNil(t, dto.Owners)
	assert.NotNil(t, dto.Messages)
	assert.Empty(t, dto.Owners)
}

func TestToTaskDTOKeepsOwnerOrder(t *testing.T) {
	task := models.Task{
		ID: 1,
		Owners: []models.TaskOwner{
			{UserID: 3, Position: 0, User: models.Profile{ID: 3, Name: "Bia"}},
			{UserID: 1, Position: 1, User: models.Profile{ID: 1, Name: "Ana"}},
		},
		Messages: []models.TaskMessage{
			{ID: 10, UserID: 1, Content: "oi", User: models.Profile{ID: 1, Name: "Ana"}},
		},
	}

	dto := ToTaskDTO(task)

	require.Len(t, dto.Owners, 2)
	assert.Equal(t, "Bia", dto.Owners[0].Name)
	assert.Equal(t, "Ana", dto.Owners[1].Name)
	require.Len(t, dto.Messages, 1)
	assert.Equal(t, "Ana", dto.Messages[0].UserName)
}

func TestToTeamDTODerivesMembers(t *testing.T) {
	teamID := uint64(2)
	otherTeam := uint64(3)
	profiles := []models.Profile{
		{ID: 1, Name: "Gestora", Role: models.RoleManager},
		{ID: 2, Name: "Membro", Role: models.RoleMember, TeamID: &teamID},
		{ID: 3, Name: "Outro", Role: models.RoleMember, TeamID: &otherTeam},
		{ID: 4, Name: "Sem time", Role: models.RoleMember},
	}

	dto := ToTeamDTO(models.Team{ID: teamID, Name: "Clínica"}, profiles)

	require.Len(t, dto.Members, 2)
	assert.Equal(t, uint64(1), dto.Members[0].ID)
	assert.Equal(t, uint64(2), dto.Members[1].ID)
	assert.Zero(t, dto.ProjectCount)
}

func TestToPublicRoomDTOContactLink(t *testing.T) {
	room := models.Room{
		ID:           5,
		Name:         "Sala 1",
		PricePerHour: price(80),
		ManagerInfo:  models.Contact{Name: "Rita", Phone: "+55 (11) 98765-4321"},
	}

	dto := ToPublicRoomDTO(room)

	assert.Equal(t, "Rita", dto.ManagerName)
	assert.Equal(t, "https://wa.me/5511987654321?text=Ol%C3%A1%21+Tenho+interesse+na+sala+Sala+1.", dto.ContactLink)
	assert.Equal(t, []string{"R$ 80/h"}, dto.Prices)
	assert.NotNil(t, dto.Images)
}

func TestToCalendarEventDTODate(t *testing.T) {
	start := "09:00"
	event := models.CalendarEvent{
		ID:        1,
		Title:     "Reunião",
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: &start,
		IsGeneral: true,
		Creator:   models.Profile{ID: 1, Name: "Ana"},
	}

	dto := ToCalendarEventDTO(event)

	assert.Equal(t, "2026-03-10", dto.Date)
	assert.Equal(t, "general", dto.TeamID)
	assert.Equal(t, "Ana", dto.CreatorName)
	assert.NotNil(t, dto.Participants)
}
