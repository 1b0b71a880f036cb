package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/labelworks/internal/audit/domain"
	supplierdomain "github.com/smallbiznis/labelworks/internal/supplier/domain"
)

const (
	targetSupplier        = "supplier"
	targetSupplierContact = "supplier_contact"
)

func (s *Server) ListSuppliers(c *gin.Context) {
	resp, err := s.supplierSvc.List(c.Request.Context(), supplierdomain.ListFilter{
		Search:             strings.TrimSpace(c.Query("search")),
		SupplierType:       strings.TrimSpace(c.Query("supplierType")),
		SupplierGrade:      strings.TrimSpace(c.Query("supplierGrade")),
		ApprovalStatus:     strings.TrimSpace(c.Query("approvalStatus")),
		MaterialCategories: queryList(c, "materialCategories"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetSupplierByID(c *gin.Context) {
	resp, err := s.supplierSvc.GetByID(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateSupplier(c *gin.Context) {
	var req supplierdomain.Supplier
	if !bindBody(c, &req) {
		return
	}

	resp, err := s.supplierSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionCreate, targetSupplier, resp.ID.String(), map[string]any{
		"businessName": resp.BusinessName,
	})
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateSupplier(c *gin.Context) {
	var patch supplierdomain.Supplier
	fields, ok := bindPatch(c, &patch)
	if !ok {
		return
	}

	resp, err := s.supplierSvc.Update(c.Request.Context(), supplierdomain.UpdateRequest{
		ID:     pathID(c),
		Patch:  patch,
		Fields: fields,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionUpdate, targetSupplier, resp.ID.String(), map[string]any{
		"fields": fields,
	})
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteSupplier(c *gin.Context) {
	id := pathID(c)
	if err := s.supplierSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionDelete, targetSupplier, id, nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) SetSupplierApproval(c *gin.Context) {
	var req supplierdomain.ApprovalRequest
	if !bindBody(c, &req) {
		return
	}
	req.ID = pathID(c)

	resp, err := s.supplierSvc.SetApproval(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionApproval, targetSupplier, resp.ID.String(), map[string]any{
		"approvalStatus": resp.ApprovalStatus,
	})
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListSupplierContacts(c *gin.Context) {
	resp, err := s.supplierSvc.ListContacts(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateSupplierContact(c *gin.Context) {
	var req supplierdomain.SupplierContact
	if !bindBody(c, &req) {
		return
	}

	resp, err := s.supplierSvc.CreateContact(c.Request.Context(), pathID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionCreate, targetSupplierContact, resp.ID.String(), map[string]any{
		"supplierId": resp.SupplierID.String(),
		"name":       resp.Name,
	})
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateSupplierContact(c *gin.Context) {
	var patch supplierdomain.SupplierContact
	fields, ok := bindPatch(c, &patch)
	if !ok {
		return
	}

	resp, err := s.supplierSvc.UpdateContact(c.Request.Context(), supplierdomain.UpdateContactRequest{
		ID:     pathID(c),
		Patch:  patch,
		Fields: fields,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionUpdate, targetSupplierContact, resp.ID.String(), map[string]any{
		"fields": fields,
	})
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteSupplierContact(c *gin.Context) {
	id := pathID(c)
	if err := s.supplierSvc.DeleteContact(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionDelete, targetSupplierContact, id, nil)
	c.Status(http.StatusNoContent)
}
