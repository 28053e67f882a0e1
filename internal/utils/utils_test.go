package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/teamdesk-api/internal/constants"
)

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("+55 (11) 98888-7777", "Olá! Tenho interesse na sala Azul.")

	assert.Equal(t, "https://wa.me/5511988887777?text=Ol%C3%A1%21+Tenho+interesse+na+sala+Azul.", link)
}

func TestWhatsAppLink_NoDigits(t *testing.T) {
	assert.Empty(t, WhatsAppLink("n/a", "hi"))
}

func TestParsePageQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/inbox?page=3&limit=10", nil)

	query := ParsePageQuery(c)
	assert.Equal(t, 3, query.Page)
	assert.Equal(t, 10, query.Limit)
	assert.Equal(t, 20, query.Offset())
}

func TestParsePageQuery_OutOfRange(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/inbox?page=0&limit=1000", nil)

	query := ParsePageQuery(c)
	assert.Equal(t, 1, query.Page)
	assert.Equal(t, constants.MaxPageSize, query.Limit)
}

func TestParsePageQuery_Garbage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/inbox?page=abc&limit=-4", nil)

	query := ParsePageQuery(c)
	assert.Equal(t, 1, query.Page)
	assert.Equal(t, constants.DefaultPageSize, query.Limit)
	assert.Equal(t, 0, query.Offset())
}

func TestPageQueryMeta(t *testing.T) {
	query := PageQuery{Page: 2, Limit: 10}

	assert.True(t, query.Meta(21).HasMore)
	assert.False(t, query.Meta(20).HasMore)
	assert.Equal(t, int64(20), query.Meta(20).Total)
}
