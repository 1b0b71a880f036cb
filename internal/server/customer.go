package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/labelworks/internal/audit/domain"
	customerdomain "github.com/smallbiznis/labelworks/internal/customer/domain"
)

const targetCustomer = "customer"

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerdomain.Customer
	if !bindBody(c, &req) {
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionCreate, targetCustomer, resp.ID.String(), map[string]any{
		"name": resp.Name,
	})
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListCustomers(c *gin.Context) {
	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerFilter{
		Search: strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var patch customerdomain.Customer
	fields, ok := bindPatch(c, &patch)
	if !ok {
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), customerdomain.UpdateCustomerRequest{
		ID:     pathID(c),
		Patch:  patch,
		Fields: fields,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionUpdate, targetCustomer, resp.ID.String(), map[string]any{
		"fields": fields,
	})
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	id := pathID(c)
	if err := s.customerSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionDelete, targetCustomer, id, nil)
	c.Status(http.StatusNoContent)
}
