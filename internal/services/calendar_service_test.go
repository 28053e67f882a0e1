package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/repository"
	"github.com/yukikurage/teamdesk-api/internal/utils"
	"gorm.io/gorm"
)

type CalendarServiceSuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	service *CalendarService
	team    models.Team
	ana     models.Profile
	bruno   models.Profile
	carla   models.Profile
}

func TestCalendarServiceSuite(t *testing.T) {
	suite.Run(t, new(CalendarServiceSuite))
}

func (s *CalendarServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = newTestDB(s.T())
	s.service = NewCalendarService(repository.NewCalendarRepository(s.db), repository.NewTeamRepository(s.db), &recordingFeed{})

	s.team = models.Team{Name: "Clínica"}
	s.Require().NoError(s.db.Create(&s.team).Error)
	s.ana = seedProfile(s.T(), s.db, "ana", models.RoleManager, nil)
	s.bruno = seedProfile(s.T(), s.db, "bruno", models.RoleMember, &s.team.ID)
	s.carla = seedProfile(s.T(), s.db, "carla", models.RoleMember, nil)
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func clock(v string) *string {
	return &v
}

func (s *CalendarServiceSuite) titles(events []models.CalendarEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func (s *CalendarServiceSuite) TestCreateDefaultsAndValidation() {
	_, err := s.service.CreateEvent(s.ctx, CreateEventInput{Title: " ", Date: day(1)}, s.ana.ID)
	s.ErrorIs(err, ErrTitleRequired)

	_, err = s.service.CreateEvent(s.ctx, CreateEventInput{Title: "Reunião"}, s.ana.ID)
	s.ErrorIs(err, ErrDateRequired)

	_, err = s.service.CreateEvent(s.ctx, CreateEventInput{Title: "Reunião", Date: day(1), StartTime: clock("9h")}, s.ana.ID)
	s.ErrorIs(err, ErrInvalidEventTime)

	_, err = s.service.CreateEvent(s.ctx, CreateEventInput{Title: "Reunião", Date: day(1), TeamID: "abc"}, s.ana.ID)
	s.ErrorIs(err, ErrInvalidTeamID)

	event, err := s.service.CreateEvent(s.ctx, CreateEventInput{
		Title:          "Reunião",
		Date:           day(1),
		StartTime:      clock("09:00"),
		EndTime:        clock("10:30"),
		TeamID:         "general",
		ParticipantIDs: []uint64{s.bruno.ID, s.bruno.ID, s.carla.ID},
	}, s.ana.ID)
	s.Require().NoError(err)
	s.Equal(models.EventTypeEvent, event.Type)
	s.True(event.IsGeneral)
	s.Nil(event.TeamID)
	s.Equal("ana", event.Creator.Name)
	s.Len(event.Participants, 2)
}

func (s *CalendarServiceSuite) TestVisibility() {
	create := func(title string, d int, team string, creator uint64, participants ...uint64) {
		_, err := s.service.CreateEvent(s.ctx, CreateEventInput{
			Title: title, Date: day(d), TeamID: team, ParticipantIDs: participants,
		}, creator)
		s.Require().NoError(err)
	}
	create("team", 3, utils.FormatID(s.team.ID), s.ana.ID)
	create("general", 1, "general", s.ana.ID)
	create("private", 2, "", s.ana.ID)
	s.Require().NoError(s.db.Model(&models.CalendarEvent{}).Where("title = ?", "private").
		Updates(map[string]interface{}{"is_general": false}).Error)
	other := models.Team{Name: "Financeiro"}
	s.Require().NoError(s.db.Create(&other).Error)
	create("invited", 4, utils.FormatID(other.ID), s.ana.ID, s.carla.ID)

	all, err := s.service.ListEvents(s.ctx, ViewerOf(s.ana))
	s.Require().NoError(err)
	s.Equal([]string{"general", "private", "team", "invited"}, s.titles(all))

	bruno, err := s.service.ListEvents(s.ctx, ViewerOf(s.bruno))
	s.Require().NoError(err)
	s.Equal([]string{"general", "team"}, s.titles(bruno))

	carla, err := s.service.ListEvents(s.ctx, ViewerOf(s.carla))
	s.Require().NoError(err)
	s.Equal([]string{"general", "invited"}, s.titles(carla))
}

func (s *CalendarServiceSuite) TestUnknownTeamIsRejected() {
	missing := utils.FormatID(s.team.ID + 100)

	_, err := s.service.CreateEvent(s.ctx, CreateEventInput{Title: "Reunião", Date: day(1), TeamID: missing}, s.ana.ID)
	s.ErrorIs(err, ErrTeamNotFound)

	event, err := s.service.CreateEvent(s.ctx, CreateEventInput{Title: "Reunião", Date: day(1), TeamID: "general"}, s.ana.ID)
	s.Require().NoError(err)

	_, err = s.service.UpdateEvent(s.ctx, event.ID, UpdateEventInput{TeamID: &missing})
	s.ErrorIs(err, ErrTeamNotFound)

	stored, err := s.service.GetEvent(s.ctx, event.ID)
	s.Require().NoError(err)
	s.True(stored.IsGeneral)
	s.Nil(stored.TeamID)
}

func (s *CalendarServiceSuite) TestUpdate() {
	event, err := s.service.CreateEvent(s.ctx, CreateEventInput{
		Title: "Plantão", Date: day(5), StartTime: clock("08:00"), ParticipantIDs: []uint64{s.bruno.ID},
	}, s.ana.ID)
	s.Require().NoError(err)

	location := "Sala 2"
	updated, err := s.service.UpdateEvent(s.ctx, event.ID, UpdateEventInput{Location: &location})
	s.Require().NoError(err)
	s.Equal("Sala 2", updated.Location)
	s.Require().NotNil(updated.StartTime)
	s.Len(updated.Participants, 1)

	participants := []uint64{s.carla.ID}
	updated, err = s.service.UpdateEvent(s.ctx, event.ID, UpdateEventInput{ClearTimes: true, ParticipantIDs: &participants})
	s.Require().NoError(err)
	s.Nil(updated.StartTime)
	s.Require().Len(updated.Participants, 1)
	s.Equal(s.carla.ID, updated.Participants[0].UserID)

	_, err = s.service.UpdateEvent(s.ctx, event.ID, UpdateEventInput{EndTime: clock("25:00")})
	s.ErrorIs(err, ErrInvalidEventTime)

	s.Require().NoError(s.service.DeleteEvent(s.ctx, event.ID))
	_, err = s.service.GetEvent(s.ctx, event.ID)
	s.ErrorIs(err, ErrEventNotFound)
}
