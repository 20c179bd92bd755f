package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/service"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/response"
)

// LectureHandler classroom content
type LectureHandler struct {
	lectureSvc service.LectureService
}

// NewLectureHandler creates a LectureHandler
func NewLectureHandler(lectureSvc service.LectureService) *LectureHandler {
	return &LectureHandler{lectureSvc: lectureSvc}
}

// Create POST /api/v1/lecture
func (h *LectureHandler) Create(c *gin.Context) {
	var req dto.CreateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lecture, err := h.lectureSvc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, lecture)
}

// Update PUT /api/v1/lecture/:id
func (h *LectureHandler) Update(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lecture, err := h.lectureSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, lecture)
}

// Delete DELETE /api/v1/lecture/:id
func (h *LectureHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.lectureSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "lecture deleted"})
}

// Get GET /api/v1/lecture/:id
func (h *LectureHandler) Get(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	lecture, err := h.lectureSvc.Get(c.Request.Context(), callerID, role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, lecture)
}

// Tree GET /api/v1/lecture/classroom/:classroomId/tree
func (h *LectureHandler) Tree(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}
	classroomID, ok := ParseIDParam(c, "classroomId")
	if !ok {
		return
	}

	tree, err := h.lectureSvc.Tree(c.Request.Context(), callerID, role, classroomID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, tree)
}
