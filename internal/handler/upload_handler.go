package handler

import (
	"echoboard/internal/storage"
	"echoboard/pkg/response"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	presigner storage.Presigner
}

func NewUploadHandler(presigner storage.Presigner) *UploadHandler {
	return &UploadHandler{presigner: presigner}
}

type PresignRequest struct {
	Kind        string `json:"kind" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// Presign godoc
// @Summary      Presigned PUT URL for a project or profile picture
// @Tags         Uploads
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body PresignRequest true "Picture kind and MIME type"
// @Success      200 {object} map[string]any
// @Failure      400 {object} map[string]any
// @Router       /uploads/presign [post]
func (h *UploadHandler) Presign(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var req PresignRequest
	if !bind(c, &req) {
		return
	}

	upload, err := h.presigner.PresignUpload(c.Request.Context(), userID, req.Kind, req.ContentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", gin.H{
		"key":        upload.Key,
		"upload_url": upload.UploadURL,
		"public_url": upload.PublicURL,
	})
}
