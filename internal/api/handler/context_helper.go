package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/api/middleware"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/response"
)

// MustGetUserID reads the caller id set by JWTAuth.
// On false a 401 is already written and the caller should return.
func MustGetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, 10002, "unauthenticated")
		return 0, false
	}
	return id, true
}

// MustGetRole reads the caller role set by JWTAuth
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.CtxRole)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// MustGetCaller user id and role together
func MustGetCaller(c *gin.Context) (uint, string, bool) {
	id, ok := MustGetUserID(c)
	if !ok {
		return 0, "", false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return 0, "", false
	}
	return id, role, true
}

// OptionalCaller user id and role when the request carried a token, zero values otherwise
func OptionalCaller(c *gin.Context) (uint, string) {
	id, _ := c.Get(middleware.CtxUserID)
	role, _ := c.Get(middleware.CtxRole)
	uid, _ := id.(uint)
	r, _ := role.(string)
	return uid, r
}

// tokenInfo jti and expiry of the access token in use
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString(middleware.CtxTokenJTI)
	exp, _ := c.Get(middleware.CtxTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}

// ParseIDParam reads a positive integer path parameter, writing 400 otherwise
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
