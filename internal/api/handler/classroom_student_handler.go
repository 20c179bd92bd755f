package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/service"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/response"
)

// ClassroomStudentHandler classroom membership
type ClassroomStudentHandler struct {
	memberSvc service.ClassroomStudentService
}

// NewClassroomStudentHandler creates a ClassroomStudentHandler
func NewClassroomStudentHandler(memberSvc service.ClassroomStudentService) *ClassroomStudentHandler {
	return &ClassroomStudentHandler{memberSvc: memberSvc}
}

// ListStudents GET /api/v1/classroom-student/:classroomId/students
func (h *ClassroomStudentHandler) ListStudents(c *gin.Context) {
	classroomID, ok := ParseIDParam(c, "classroomId")
	if !ok {
		return
	}

	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.memberSvc.ListStudents(c.Request.Context(), classroomID, &query)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, query.GetPage(), query.GetLimit())
}

// MyClassrooms GET /api/v1/classroom-student/my
func (h *ClassroomStudentHandler) MyClassrooms(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.memberSvc.MyClassrooms(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// Leave DELETE /api/v1/classroom-student/:classroomId/leave
func (h *ClassroomStudentHandler) Leave(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	classroomID, ok := ParseIDParam(c, "classroomId")
	if !ok {
		return
	}

	if err := h.memberSvc.Leave(c.Request.Context(), studentID, classroomID); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "left classroom"})
}

// Remove DELETE /api/v1/classroom-student/:classroomId/students/:studentId
func (h *ClassroomStudentHandler) Remove(c *gin.Context) {
	h.memberAction(c, h.memberSvc.Remove, "student removed")
}

// Block PATCH /api/v1/classroom-student/:classroomId/students/:studentId/block
func (h *ClassroomStudentHandler) Block(c *gin.Context) {
	h.memberAction(c, h.memberSvc.Block, "student blocked")
}

// Unblock PATCH /api/v1/classroom-student/:classroomId/students/:studentId/unblock
func (h *ClassroomStudentHandler) Unblock(c *gin.Context) {
	h.memberAction(c, h.memberSvc.Unblock, "student unblocked")
}

func (h *ClassroomStudentHandler) memberAction(c *gin.Context, fn func(ctx context.Context, classroomID, studentID uint) error, done string) {
	classroomID, ok := ParseIDParam(c, "classroomId")
	if !ok {
		return
	}
	studentID, ok := ParseIDParam(c, "studentId")
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), classroomID, studentID); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: done})
}
