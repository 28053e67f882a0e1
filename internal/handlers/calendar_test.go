package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/teamdesk-api/internal/dto"
	"github.com/yukikurage/teamdesk-api/internal/models"
)

type CalendarHandlerTestSuite struct {
	apiSuite
	ana     []*http.Cookie
	brunoID uint64
	bruno   []*http.Cookie
	carlaID uint64
	carla   []*http.Cookie
}

func TestCalendarHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CalendarHandlerTestSuite))
}

func (s *CalendarHandlerTestSuite) SetupTest() {
	s.apiSuite.SetupTest()
	_, s.ana = s.signup("Ana", "ana@example.com")
	s.brunoID, s.bruno = s.signup("Bruno", "bruno@example.com")
	s.carlaID, s.carla = s.signup("Carla", "carla@example.com")
}

func (s *CalendarHandlerTestSuite) createEvent(body gin.H) dto.CalendarEventDTO {
	w := s.do(http.MethodPost, "/api/calendar", body, s.ana)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var event dto.CalendarEventDTO
	s.decode(w, &event)
	return event
}

func (s *CalendarHandlerTestSuite) listTitles(cookies []*http.Cookie) []string {
	w := s.do(http.MethodGet, "/api/calendar", nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Events []dto.CalendarEventDTO `json:"events"`
	}
	s.decode(w, &resp)
	titles := make([]string, len(resp.Events))
	for i, e := range resp.Events {
		titles[i] = e.Title
	}
	return titles
}

func (s *CalendarHandlerTestSuite) TestCreateDefaults() {
	event := s.createEvent(gin.H{"title": "Reunião geral", "date": "2026-11-10", "startTime": "09:00"})
	s.Equal(models.EventTypeEvent, event.Type)
	s.Equal("2026-11-10", event.Date)
	s.Equal("general", event.TeamID)
	s.Require().NotNil(event.StartTime)
	s.Equal("09:00", *event.StartTime)
	s.Equal("Ana", event.CreatorName)
}

func (s *CalendarHandlerTestSuite) TestCreateValidation() {
	w := s.do(http.MethodPost, "/api/calendar", gin.H{"title": "Sem data"}, s.ana)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/calendar", gin.H{"title": "Hora ruim", "date": "2026-11-10", "startTime": "9h"}, s.ana)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/calendar", gin.H{"title": "Tipo ruim", "date": "2026-11-10", "type": "party"}, s.ana)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *CalendarHandlerTestSuite) TestVisibilityFollowsParticipants() {
	s.createEvent(gin.H{"title": "Geral", "date": "2026-11-12"})

	w := s.do(http.MethodPost, "/api/teams", gin.H{"name": "Clínica"}, s.ana)
	s.Require().Equal(http.StatusCreated, w.Code)
	var team dto.TeamDTO
	s.decode(w, &team)

	s.createEvent(gin.H{
		"title":          "Consulta",
		"type":           "health",
		"date":           "2026-11-11",
		"teamId":         fmt.Sprint(team.ID),
		"participantIds": []uint64{s.brunoID},
	})

	s.Equal([]string{"Consulta", "Geral"}, s.listTitles(s.ana))
	s.Equal([]string{"Consulta", "Geral"}, s.listTitles(s.bruno))
	s.Equal([]string{"Geral"}, s.listTitles(s.carla))
}

func (s *CalendarHandlerTestSuite) createTeam(name string) dto.TeamDTO {
	w := s.do(http.MethodPost, "/api/teams", gin.H{"name": name}, s.ana)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var team dto.TeamDTO
	s.decode(w, &team)
	return team
}

func (s *CalendarHandlerTestSuite) TestHiddenEventsCannotBeChanged() {
	clinic := s.createTeam("Clínica")
	finance := s.createTeam("Financeiro")
	s.setTeam(s.carlaID, finance.ID)

	event := s.createEvent(gin.H{
		"title":          "Consulta",
		"date":           "2026-11-11",
		"teamId":         fmt.Sprint(clinic.ID),
		"participantIds": []uint64{s.brunoID},
	})
	path := fmt.Sprintf("/api/calendar/%d", event.ID)

	s.Empty(s.listTitles(s.carla))
	w := s.do(http.MethodPatch, path, gin.H{"title": "Alterado"}, s.carla)
	s.Equal(http.StatusNotFound, w.Code)
	w = s.do(http.MethodDelete, path, nil, s.carla)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal([]string{"Consulta"}, s.listTitles(s.ana))

	w = s.do(http.MethodPatch, path, gin.H{"location": "Sala 3"}, s.bruno)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.CalendarEventDTO
	s.decode(w, &updated)
	s.Equal("Consulta", updated.Title)
	s.Equal("Sala 3", updated.Location)
}

func (s *CalendarHandlerTestSuite) TestUpdateAndDelete() {
	event := s.createEvent(gin.H{"title": "Treinamento", "date": "2026-11-10", "startTime": "14:00", "endTime": "15:00"})

	w := s.do(http.MethodPatch, fmt.Sprintf("/api/calendar/%d", event.ID), gin.H{"location": "Sala 2", "clearTimes": true}, s.ana)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var got dto.CalendarEventDTO
	s.decode(w, &got)
	s.Equal("Sala 2", got.Location)
	s.Nil(got.StartTime)
	s.Nil(got.EndTime)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/calendar/%d", event.ID), gin.H{"date": "amanhã"}, s.ana)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/calendar/%d", event.ID), nil, s.ana)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/calendar/%d", event.ID), nil, s.ana)
	s.Equal(http.StatusNotFound, w.Code)
}
