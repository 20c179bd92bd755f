package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/service"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/response"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/storage"
)

// multipartSlack headroom for multipart boundaries and form fields
const multipartSlack = 1 << 20

// MediaHandler stored files
type MediaHandler struct {
	mediaSvc       service.MediaService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewMediaHandler creates a MediaHandler
func NewMediaHandler(mediaSvc service.MediaService, maxUploadBytes int64, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc, maxUploadBytes: maxUploadBytes, logger: logger}
}

// Upload POST /api/v1/media/upload (multipart field "file")
func (h *MediaHandler) Upload(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartSlack)
	}

	var form dto.UploadMediaForm
	if err := c.ShouldBind(&form); err != nil {
		if isTooLarge(err) {
			respondError(c, service.ErrFileTooLarge)
			return
		}
		respondBindError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respondError(c, service.ErrFileTooLarge)
			return
		}
		response.BadRequest(c, 10001, "file is required")
		return
	}

	f, err := header.Open()
	if err != nil {
		h.logger.Error("open uploaded file", zap.Error(err))
		response.InternalError(c)
		return
	}
	defer f.Close()

	media, err := h.mediaSvc.Upload(c.Request.Context(), callerID, &service.UploadFile{
		FileName:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      f,
	}, form.Visibility)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, media)
}

// List GET /api/v1/media
func (h *MediaHandler) List(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var query dto.MediaListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.mediaSvc.List(c.Request.Context(), callerID, role, &query)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, query.GetPage(), query.GetLimit())
}

// Get GET /api/v1/media/:id
func (h *MediaHandler) Get(c *gin.Context) {
	callerID, role, id, ok := h.readTarget(c)
	if !ok {
		return
	}

	media, err := h.mediaSvc.Get(c.Request.Context(), callerID, role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, media)
}

// UpdateVisibility PATCH /api/v1/media/:id/visibility
func (h *MediaHandler) UpdateVisibility(c *gin.Context) {
	callerID, role, id, ok := h.target(c)
	if !ok {
		return
	}

	var req dto.UpdateVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	media, err := h.mediaSvc.UpdateVisibility(c.Request.Context(), callerID, role, id, req.Visibility)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, media)
}

// Rename PATCH /api/v1/media/:id/rename
func (h *MediaHandler) Rename(c *gin.Context) {
	callerID, role, id, ok := h.target(c)
	if !ok {
		return
	}

	var req dto.RenameMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	media, err := h.mediaSvc.Rename(c.Request.Context(), callerID, role, id, req.FileName)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, media)
}

// DownloadURL GET /api/v1/media/:id/download-url
func (h *MediaHandler) DownloadURL(c *gin.Context) {
	callerID, role, id, ok := h.readTarget(c)
	if !ok {
		return
	}

	link, err := h.mediaSvc.DownloadURL(c.Request.Context(), callerID, role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, link)
}

// Download GET /api/v1/media/:id/download
func (h *MediaHandler) Download(c *gin.Context) {
	callerID, role, id, ok := h.readTarget(c)
	if !ok {
		return
	}

	body, media, err := h.mediaSvc.Download(c.Request.Context(), callerID, role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer body.Close()

	streamFile(c, h.logger, body, media.Size, media.MimeType, media.FileName)
}

// SoftDelete DELETE /api/v1/media/:id
func (h *MediaHandler) SoftDelete(c *gin.Context) {
	callerID, role, id, ok := h.target(c)
	if !ok {
		return
	}

	if err := h.mediaSvc.SoftDelete(c.Request.Context(), callerID, role, id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "media deleted"})
}

// HardDelete DELETE /api/v1/media/:id/hard
func (h *MediaHandler) HardDelete(c *gin.Context) {
	callerID, role, id, ok := h.target(c)
	if !ok {
		return
	}

	if err := h.mediaSvc.HardDelete(c.Request.Context(), callerID, role, id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "media permanently deleted"})
}

// Restore PATCH /api/v1/media/:id/restore
func (h *MediaHandler) Restore(c *gin.Context) {
	callerID, role, id, ok := h.target(c)
	if !ok {
		return
	}

	media, err := h.mediaSvc.Restore(c.Request.Context(), callerID, role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, media)
}

// readTarget allows anonymous callers; the service only lets them read public media
func (h *MediaHandler) readTarget(c *gin.Context) (uint, string, uint, bool) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return 0, "", 0, false
	}
	callerID, role := OptionalCaller(c)
	return callerID, role, id, true
}

func (h *MediaHandler) target(c *gin.Context) (uint, string, uint, bool) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return 0, "", 0, false
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return 0, "", 0, false
	}
	return callerID, role, id, true
}

// ────── LocalFileHandler ──────

// LocalFileHandler serves presigned URLs issued by the local storage driver
type LocalFileHandler struct {
	local  *storage.LocalStorage
	logger *zap.Logger
}

// NewLocalFileHandler creates a LocalFileHandler
func NewLocalFileHandler(local *storage.LocalStorage, logger *zap.Logger) *LocalFileHandler {
	return &LocalFileHandler{local: local, logger: logger}
}

// Serve GET /api/v1/media/local/*key
func (h *LocalFileHandler) Serve(c *gin.Context) {
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}

	if !h.local.VerifySignature(key, c.Query("expires"), c.Query("signature")) {
		response.Forbidden(c, 10003, "invalid or expired download link")
		return
	}

	body, info, err := h.local.Download(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			response.NotFound(c, service.ErrMediaNotFound.Code, service.ErrMediaNotFound.Message)
			return
		}
		h.logger.Error("local download", zap.String("key", key), zap.Error(err))
		response.InternalError(c)
		return
	}
	defer body.Close()

	name := c.Query("name")
	if name == "" {
		name = key
	}
	streamFile(c, h.logger, body, info.Size, info.ContentType, name)
}

func streamFile(c *gin.Context, logger *zap.Logger, body io.Reader, size int64, contentType, fileName string) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(fileName))
	c.Header("Content-Type", contentType)
	if size > 0 {
		c.Header("Content-Length", strconv.FormatInt(size, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		logger.Warn("stream file", zap.String("file", fileName), zap.Error(err))
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
