package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/services"
)

type UploadHandler struct {
	uploads *services.UploadService
}

func NewUploadHandler(uploads *services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
	}
}

// Upload stores every multipart "files" part and returns their public URLs
// in the order the uploads finished.
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		apierrors.BadRequest(c, "noFiles")
		return
	}

	headers := form.File["files"]
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		files = append(files, services.UploadFile{
			Filename: fh.Filename,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	urls, err := h.uploads.UploadAll(c.Request.Context(), files)
	if err != nil {
		if len(files) == 0 {
			respondError(c, err)
			return
		}
		_ = c.Error(err)
		apierrors.InternalError(c, "uploadFailed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"urls": urls,
	})
}
