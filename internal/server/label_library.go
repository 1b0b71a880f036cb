package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/labelworks/internal/audit/domain"
	labeldomain "github.com/smallbiznis/labelworks/internal/labelspec/domain"
)

const targetLabelSpec = "label_spec"

func (s *Server) ListLabelSpecs(c *gin.Context) {
	resp, err := s.labelSvc.List(c.Request.Context(), labeldomain.ListFilter{
		Search:       strings.TrimSpace(c.Query("search")),
		LabelTypes:   queryList(c, "labelTypes"),
		PrintMethods: queryList(c, "printMethods"),
		Tags:         queryList(c, "tags"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetLabelSpecByID(c *gin.Context) {
	resp, err := s.labelSvc.GetByID(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateLabelSpec(c *gin.Context) {
	var req labeldomain.LabelSpec
	if !bindBody(c, &req) {
		return
	}
	if req.CreatedBy == "" {
		req.CreatedBy = actorOf(c)
	}

	resp, err := s.labelSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionCreate, targetLabelSpec, resp.ID.String(), map[string]any{
		"labelName": resp.LabelName,
	})
	c.JSON(http.StatusCreated, resp)
}

// UpdateLabelSpec serves both PUT and PATCH; only the keys present in the
// body are changed.
func (s *Server) UpdateLabelSpec(c *gin.Context) {
	var patch labeldomain.LabelSpec
	fields, ok := bindPatch(c, &patch)
	if !ok {
		return
	}

	resp, err := s.labelSvc.Update(c.Request.Context(), labeldomain.UpdateRequest{
		ID:     pathID(c),
		Patch:  patch,
		Fields: fields,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionUpdate, targetLabelSpec, resp.ID.String(), map[string]any{
		"fields": fields,
	})
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteLabelSpec(c *gin.Context) {
	id := pathID(c)
	if err := s.labelSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionDelete, targetLabelSpec, id, nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) DuplicateLabelSpec(c *gin.Context) {
	var req labeldomain.DuplicateRequest
	if !bindBody(c, &req) {
		return
	}
	req.ID = pathID(c)

	resp, err := s.labelSvc.Duplicate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionDuplicate, targetLabelSpec, resp.ID.String(), map[string]any{
		"sourceId":  req.ID,
		"labelName": resp.LabelName,
	})
	c.JSON(http.StatusCreated, resp)
}
