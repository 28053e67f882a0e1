package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/teamdesk-api/internal/dto"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/repository"
)

type RoomServiceSuite struct {
	suite.Suite
	ctx     context.Context
	feed    *recordingFeed
	service *RoomService
}

func TestRoomServiceSuite(t *testing.T) {
	suite.Run(t, new(RoomServiceSuite))
}

func (s *RoomServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.feed = &recordingFeed{}
	s.service = NewRoomService(repository.NewRoomRepository(newTestDB(s.T())), s.feed)
}

func validRoom() RoomInput {
	price := 2000.0
	return RoomInput{
		Name:         "Sala Jardins",
		Neighborhood: "Jardins",
		City:         "São Paulo",
		Images:       []string{"https://cdn.example.com/a.jpg"},
		Modalities:   []models.RoomModality{models.ModalityFixed},
		Specialties:  []string{"Psicologia"},
		PriceFixed:   &price,
		ManagerInfo:  models.Contact{Name: "Marta", Phone: "(11) 98765-4321"},
	}
}

func (s *RoomServiceSuite) TestCreateRequiresImage() {
	in := validRoom()
	in.Images = nil

	_, err := s.service.CreateRoom(s.ctx, in, 1)
	s.ErrorIs(err, ErrRoomImageRequired)
	s.Empty(s.feed.tables())
}

func (s *RoomServiceSuite) TestCreateRejectsInvalidFields() {
	in := validRoom()
	in.Name = ""
	in.Modalities = []models.RoomModality{"daily"}

	_, err := s.service.CreateRoom(s.ctx, in, 1)
	var verr *RoomValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "Name")
	s.Len(verr.Fields, 2)
}

func (s *RoomServiceSuite) TestPatchKeepsUntouchedFields() {
	room, err := s.service.CreateRoom(s.ctx, validRoom(), 1)
	s.Require().NoError(err)

	name := "Sala Paulista"
	hourly := 80.0
	hourlyPtr := &hourly
	updated, err := s.service.UpdateRoom(s.ctx, room.ID, RoomPatch{Name: &name, PricePerHour: &hourlyPtr})
	s.Require().NoError(err)
	s.Equal("Sala Paulista", updated.Name)
	s.Equal("Jardins", updated.Neighborhood)
	s.Require().NotNil(updated.PricePerHour)
	s.Equal(80.0, *updated.PricePerHour)

	empty := []string{}
	_, err = s.service.UpdateRoom(s.ctx, room.ID, RoomPatch{Images: &empty})
	s.ErrorIs(err, ErrRoomImageRequired)

	got, err := s.service.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal([]string{"https://cdn.example.com/a.jpg"}, got.Images)
	s.Equal(models.Contact{Name: "Marta", Phone: "(11) 98765-4321"}, got.ManagerInfo)
}

func (s *RoomServiceSuite) TestSearchAndPublicView() {
	_, err := s.service.CreateRoom(s.ctx, validRoom(), 1)
	s.Require().NoError(err)
	other := validRoom()
	other.Name = "Consultório Moema"
	other.Neighborhood = "Moema"
	other.Specialties = []string{"Odontologia"}
	second, err := s.service.CreateRoom(s.ctx, other, 1)
	s.Require().NoError(err)

	found, err := s.service.SearchRooms(s.ctx, dto.RoomFilter{Text: "sao paulo", Specialty: "odontologia"})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(second.ID, found[0].ID)

	public, err := s.service.PublicRoom(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal("Marta", public.ManagerName)
	s.Equal([]string{"R$ 2.000/mês"}, public.Prices)
	s.Contains(public.ContactLink, "https://wa.me/5511987654321?text=")

	_, err = s.service.PublicRoom(s.ctx, 999)
	s.ErrorIs(err, ErrRoomNotFound)
}

func (s *RoomServiceSuite) TestDelete() {
	room, err := s.service.CreateRoom(s.ctx, validRoom(), 1)
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteRoom(s.ctx, room.ID))
	s.ErrorIs(s.service.DeleteRoom(s.ctx, room.ID), ErrRoomNotFound)
	s.Equal([]string{models.TableRooms, models.TableRooms}, s.feed.tables())
}
