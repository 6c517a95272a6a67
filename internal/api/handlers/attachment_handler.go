package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/internal/application"
	"github.com/linskybing/orgflow/pkg/response"
	"github.com/rs/zerolog/log"
)

type AttachmentHandler struct {
	svc *application.AttachmentService
}

func NewAttachmentHandler(svc *application.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// UploadAttachment godoc
// @Summary Upload a file for a form's file field
// @Description The returned id is what a file field of an application carries.
// @Tags attachments
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Success 201 {object} attachment.Attachment
// @Failure 400 {object} response.ErrorResponse "Missing, empty or oversized file"
// @Router /attachments [post]
func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "cannot read uploaded file"})
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	att, err := h.svc.Upload(c.Request.Context(), caller, fh.Filename, f, fh.Size, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, att)
}

// DownloadAttachment godoc
// @Summary Download an attachment of the group
// @Tags attachments
// @Security BearerAuth
// @Produce octet-stream
// @Param id path int true "Attachment ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorResponse "Attachment not found"
// @Router /attachments/{id} [get]
func (h *AttachmentHandler) DownloadAttachment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	att, body, err := h.svc.Download(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer body.Close()

	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Length", strconv.FormatInt(att.Size, 10))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		log.Warn().Err(err).Uint("attachment_id", att.ID).Msg("attachment stream interrupted")
	}
}
