package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/labelworks/internal/audit/domain"
	materialdomain "github.com/smallbiznis/labelworks/internal/material/domain"
)

const targetMaterial = "material"

func (s *Server) ListMaterials(c *gin.Context) {
	supplierID, err := queryIDParam(c, "supplierId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.materialSvc.List(c.Request.Context(), materialdomain.ListFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Category:   strings.TrimSpace(c.Query("category")),
		Type:       strings.TrimSpace(c.Query("type")),
		SupplierID: supplierID,
		Status:     strings.TrimSpace(c.Query("status")),
		Tags:       queryList(c, "tags"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetMaterialByID(c *gin.Context) {
	resp, err := s.materialSvc.GetByID(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateMaterial(c *gin.Context) {
	var req materialdomain.Material
	if !bindBody(c, &req) {
		return
	}

	resp, err := s.materialSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionCreate, targetMaterial, resp.ID.String(), map[string]any{
		"name":     resp.Name,
		"category": resp.Category,
	})
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateMaterial(c *gin.Context) {
	var patch materialdomain.Material
	fields, ok := bindPatch(c, &patch)
	if !ok {
		return
	}

	resp, err := s.materialSvc.Update(c.Request.Context(), materialdomain.UpdateRequest{
		ID:     pathID(c),
		Patch:  patch,
		Fields: fields,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionUpdate, targetMaterial, resp.ID.String(), map[string]any{
		"fields": fields,
	})
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteMaterial(c *gin.Context) {
	id := pathID(c)
	if err := s.materialSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionDelete, targetMaterial, id, nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) SearchMaterialsBySpecification(c *gin.Context) {
	var req materialdomain.SpecificationQuery
	if !bindBody(c, &req) {
		return
	}

	resp, err := s.materialSvc.SearchBySpecification(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
