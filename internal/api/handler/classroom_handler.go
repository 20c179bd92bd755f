package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/service"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/response"
)

// ClassroomHandler classroom lifecycle
type ClassroomHandler struct {
	classroomSvc service.ClassroomService
}

// NewClassroomHandler creates a ClassroomHandler
func NewClassroomHandler(classroomSvc service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomSvc: classroomSvc}
}

// Create POST /api/v1/classroom
func (h *ClassroomHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	classroom, err := h.classroomSvc.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, classroom)
}

// Update PUT /api/v1/classroom/:id
func (h *ClassroomHandler) Update(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	classroom, err := h.classroomSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, classroom)
}

// Get GET /api/v1/classroom/:id
func (h *ClassroomHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	classroom, err := h.classroomSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, classroom)
}

// List GET /api/v1/classroom
func (h *ClassroomHandler) List(c *gin.Context) {
	var query dto.ClassroomListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.classroomSvc.List(c.Request.Context(), &query)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, query.GetPage(), query.GetLimit())
}

// ListDeleted GET /api/v1/classroom/deleted
func (h *ClassroomHandler) ListDeleted(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.classroomSvc.ListDeleted(c.Request.Context(), &query)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, query.GetPage(), query.GetLimit())
}

// Delete DELETE /api/v1/classroom/:id
func (h *ClassroomHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.classroomSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "classroom deleted"})
}

// Restore PATCH /api/v1/classroom/:id/restore
func (h *ClassroomHandler) Restore(c *gin.Context) {
	h.transition(c, h.classroomSvc.Restore)
}

// Archive PATCH /api/v1/classroom/:id/archive
func (h *ClassroomHandler) Archive(c *gin.Context) {
	h.transition(c, h.classroomSvc.Archive)
}

// Unarchive PATCH /api/v1/classroom/:id/unarchive
func (h *ClassroomHandler) Unarchive(c *gin.Context) {
	h.transition(c, h.classroomSvc.Unarchive)
}

func (h *ClassroomHandler) transition(c *gin.Context, fn func(ctx context.Context, id uint) (*dto.ClassroomResponse, error)) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	classroom, err := fn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, classroom)
}
