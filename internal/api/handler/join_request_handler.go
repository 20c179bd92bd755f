package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/service"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/response"
)

// JoinRequestHandler enrolment workflow
type JoinRequestHandler struct {
	joinSvc service.JoinRequestService
}

// NewJoinRequestHandler creates a JoinRequestHandler
func NewJoinRequestHandler(joinSvc service.JoinRequestService) *JoinRequestHandler {
	return &JoinRequestHandler{joinSvc: joinSvc}
}

// Create POST /api/v1/join-request
func (h *JoinRequestHandler) Create(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJoinRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	jr, err := h.joinSvc.Create(c.Request.Context(), studentID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, jr)
}

// Approve PATCH /api/v1/join-request/:id/approve
func (h *JoinRequestHandler) Approve(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	jr, err := h.joinSvc.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, jr)
}

// Reject PATCH /api/v1/join-request/:id/reject
func (h *JoinRequestHandler) Reject(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	jr, err := h.joinSvc.Reject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, jr)
}

// List GET /api/v1/join-request
func (h *JoinRequestHandler) List(c *gin.Context) {
	var query dto.JoinRequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.joinSvc.List(c.Request.Context(), &query)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, query.GetPage(), query.GetLimit())
}

// ListMine GET /api/v1/join-request/my
func (h *JoinRequestHandler) ListMine(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var query dto.JoinRequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.joinSvc.ListMine(c.Request.Context(), studentID, &query)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, query.GetPage(), query.GetLimit())
}
