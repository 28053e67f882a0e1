package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/teamdesk-api/internal/constants"
	"github.com/yukikurage/teamdesk-api/internal/database"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/liveview"
	"github.com/yukikurage/teamdesk-api/internal/middleware"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/repository"
	"github.com/yukikurage/teamdesk-api/internal/services"
	"github.com/yukikurage/teamdesk-api/internal/storage"
	"github.com/yukikurage/teamdesk-api/internal/translator"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// apiSuite runs the full router against an in-memory database, an
// in-process feed and a cookie session store.
type apiSuite struct {
	suite.Suite
	db       *gorm.DB
	hub      *realtime.Hub
	registry *liveview.Registry
	router   *gin.Engine
}

func (s *apiSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(translator.Init(translator.LanguagePtBR))
}

func (s *apiSuite) SetupTest() {
	db, err := database.Open(sqlite.Open(":memory:"), logger.Silent)
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(database.MigrateDB(db))
	s.db = db

	s.hub = realtime.NewHub()
	s.registry = liveview.NewRegistry()

	store, err := storage.NewDiskStore(s.T().TempDir(), "http://files.test")
	s.Require().NoError(err)

	profileRepo := repository.NewProfileRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	notifier := services.NewNotifier(notificationRepo, s.hub)

	s.router = gin.New()
	s.router.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	s.router.Use(middleware.LanguageMiddleware(translator.LanguagePtBR))
	RegisterRoutes(s.router, Dependencies{
		DB:       db,
		Profiles: services.NewProfileService(profileRepo, teamRepo, s.hub),
		Tasks:    services.NewTaskService(repository.NewTaskRepository(db), profileRepo, teamRepo, notifier, s.hub, nil),
		Teams:    services.NewTeamService(teamRepo, profileRepo, s.hub),
		Inbox:    services.NewInboxService(notificationRepo, s.hub),
		Rooms:    services.NewRoomService(repository.NewRoomRepository(db), s.hub),
		Calendar: services.NewCalendarService(repository.NewCalendarRepository(db), teamRepo, s.hub),
		Uploads:  services.NewUploadService(store),
		Registry: s.registry,
		Feed:     s.hub,
		Logger:   zap.NewNop(),
	})
}

func (s *apiSuite) TearDownTest() {
	s.registry.CloseAll()
	s.hub.Close()
	sqlDB, _ := s.db.DB()
	sqlDB.Close()
}

// do sends a JSON request carrying the given session cookies.
func (s *apiSuite) do(method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signup registers a user through the API and logs them in.
func (s *apiSuite) signup(name, email string) (uint64, []*http.Cookie) {
	w := s.do(http.MethodPost, "/api/auth/signup", gin.H{"name": name, "email": email, "password": "supersecret"}, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	return s.login(email, "supersecret")
}

func (s *apiSuite) login(email, password string) (uint64, []*http.Cookie) {
	w := s.do(http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password}, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var user struct {
		ID uint64 `json:"id"`
	}
	s.decode(w, &user)
	return user.ID, w.Result().Cookies()
}

func (s *apiSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *apiSuite) errorCode(w *httptest.ResponseRecorder) string {
	var apiErr apierrors.APIError
	s.decode(w, &apiErr)
	return apiErr.Code
}

func (s *apiSuite) setTeam(userID, teamID uint64) {
	s.Require().NoError(s.db.Model(&models.Profile{}).Where("id = ?", userID).Update("team_id", teamID).Error)
}
