package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/labelworks/internal/audit/domain"
	userdomain "github.com/smallbiznis/labelworks/internal/user/domain"
)

const targetUser = "user"

func (s *Server) ListUsers(c *gin.Context) {
	filter := userdomain.ListFilter{Role: strings.TrimSpace(c.Query("role"))}
	if raw := strings.TrimSpace(c.Query("includeInactive")); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			AbortWithError(c, newValidationError("includeInactive", "wrong_type", "expected boolean"))
			return
		}
		filter.IncludeInactive = includeInactive
	}

	resp, err := s.userSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetUserByID(c *gin.Context) {
	resp, err := s.userSvc.GetByID(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateUser(c *gin.Context) {
	var req userdomain.CreateUserRequest
	if !bindBody(c, &req) {
		return
	}

	resp, err := s.userSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionCreate, targetUser, resp.ID.String(), map[string]any{
		"username": resp.Username,
		"role":     resp.Role,
	})
	c.JSON(http.StatusCreated, resp)
}
