package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/teamdesk-api/internal/constants"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/services"
	"github.com/yukikurage/teamdesk-api/internal/translator"
)

type profileStub map[uint64]models.Profile

func (s profileStub) GetUser(_ context.Context, id uint64) (*models.Profile, error) {
	p, ok := s[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return &p, nil
}

type taskStub map[uint64]models.Task

func (s taskStub) GetTask(_ context.Context, id uint64) (*models.Task, error) {
	t, ok := s[id]
	if !ok {
		return nil, services.ErrTaskNotFound
	}
	return &t, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter logs the request in as userID (when non-zero) before the
// middleware under test runs.
func newRouter(userID uint64, handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			sessions.Default(c).Set(constants.ContextKeyUserID, userID)
		}
		c.Next()
	})
	r.GET("/t/:id", append(handlers, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})...)
	return r
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRequireAuth(t *testing.T) {
	teamID := uint64(4)
	profiles := profileStub{7: {ID: 7, Role: models.RoleMember, TeamID: &teamID}}

	var got Session
	capture := func(c *gin.Context) {
		got, _ = GetSession(c)
		c.Next()
	}

	w := serve(newRouter(7, RequireAuth(profiles), capture), "/t/1")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, uint64(7), got.UserID)
	assert.Equal(t, services.Viewer{UserID: 7, Role: models.RoleMember, TeamID: &teamID}, got.Viewer())

	w = serve(newRouter(0, RequireAuth(profiles)), "/t/1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(newRouter(99, RequireAuth(profiles)), "/t/1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireManager(t *testing.T) {
	profiles := profileStub{
		1: {ID: 1, Role: models.RoleManager},
		2: {ID: 2, Role: models.RoleMember},
	}

	assert.Equal(t, http.StatusNoContent, serve(newRouter(1, RequireAuth(profiles), RequireManager()), "/t/1").Code)
	assert.Equal(t, http.StatusForbidden, serve(newRouter(2, RequireAuth(profiles), RequireManager()), "/t/1").Code)
}

func TestRequireTaskAccess(t *testing.T) {
	profiles := profileStub{
		1: {ID: 1, Role: models.RoleMember},
		2: {ID: 2, Role: models.RoleMember},
	}
	tasks := taskStub{
		10: {ID: 10, IsGeneral: true},
		11: {ID: 11, Owners: []models.TaskOwner{{TaskID: 11, UserID: 1}}},
	}

	chain := func(userID uint64) *gin.Engine {
		return newRouter(userID, RequireAuth(profiles), RequireTaskAccess(tasks))
	}

	assert.Equal(t, http.StatusNoContent, serve(chain(2), "/t/10").Code)
	assert.Equal(t, http.StatusNoContent, serve(chain(1), "/t/11").Code)
	assert.Equal(t, http.StatusNotFound, serve(chain(2), "/t/11").Code)
	assert.Equal(t, http.StatusNotFound, serve(chain(1), "/t/12").Code)
	assert.Equal(t, http.StatusBadRequest, serve(chain(1), "/t/abc").Code)
}

func TestLanguageMiddleware(t *testing.T) {
	require.NoError(t, translator.Init(translator.LanguagePtBR))

	r := gin.New()
	r.Use(LanguageMiddleware(translator.LanguagePtBR))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetLang(c))
	})

	for header, want := range map[string]string{
		"":               "pt-BR",
		"en-US,en;q=0.9": "en",
		"pt-BR":          "pt-BR",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Accept-Language", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Body.String(), "header %q", header)
	}
}
