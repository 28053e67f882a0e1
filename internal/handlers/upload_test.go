package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type UploadHandlerTestSuite struct {
	apiSuite
	ana []*http.Cookie
}

func TestUploadHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UploadHandlerTestSuite))
}

func (s *UploadHandlerTestSuite) SetupTest() {
	s.apiSuite.SetupTest()
	_, s.ana = s.signup("Ana", "ana@example.com")
}

func (s *UploadHandlerTestSuite) upload(files map[string]string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		s.Require().NoError(err)
		_, err = part.Write([]byte(content))
		s.Require().NoError(err)
	}
	s.Require().NoError(mw.WriteField("note", "fotos"))
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range s.ana {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *UploadHandlerTestSuite) TestUploadMany() {
	w := s.upload(map[string]string{"frente.JPG": "jpeg", "audio.webm": "webm"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		URLs []string `json:"urls"`
	}
	s.decode(w, &resp)
	s.Require().Len(resp.URLs, 2)

	exts := make([]string, 0, 2)
	for _, u := range resp.URLs {
		s.True(strings.HasPrefix(u, "http://files.test/uploads/"), u)
		exts = append(exts, u[strings.LastIndex(u, "."):])
	}
	s.ElementsMatch([]string{".jpg", ".webm"}, exts)
}

func (s *UploadHandlerTestSuite) TestUploadWithoutFiles() {
	w := s.upload(nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/uploads", nil, s.ana)
	s.Equal(http.StatusBadRequest, w.Code)
}
