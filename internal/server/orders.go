package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/labelworks/internal/audit/domain"
	labeldomain "github.com/smallbiznis/labelworks/internal/labelspec/domain"
	orderdomain "github.com/smallbiznis/labelworks/internal/order/domain"
	"github.com/smallbiznis/labelworks/internal/providers/pdf"
)

const targetOrder = "order"

func (s *Server) ListOrders(c *gin.Context) {
	customerID, err := queryIDParam(c, "customerId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	assignedTo, err := queryIDParam(c, "assignedTo")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	labelSpecID, err := queryIDParam(c, "labelSpecId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	dateFrom, err := queryTimeParam(c, "dateFrom", false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	dateTo, err := queryTimeParam(c, "dateTo", true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.orderSvc.List(c.Request.Context(), orderdomain.ListFilter{
		Status:      strings.TrimSpace(c.Query("status")),
		CustomerID:  customerID,
		AssignedTo:  assignedTo,
		LabelSpecID: labelSpecID,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		Search:      strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetOrderByID(c *gin.Context) {
	resp, err := s.orderSvc.GetByID(c.Request.Context(), pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("order_number", resp.OrderNumber)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetOrderStats(c *gin.Context) {
	resp, err := s.orderSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetNextOrderNumber(c *gin.Context) {
	number, err := s.orderSvc.NextNumber(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orderNumber": number})
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderdomain.Order
	if !bindBody(c, &req) {
		return
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("order_number", resp.OrderNumber)
	s.record(c, auditdomain.ActionCreate, targetOrder, resp.ID.String(), map[string]any{
		"orderNumber": resp.OrderNumber,
		"totalAmount": resp.TotalAmount.String(),
	})
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateOrder(c *gin.Context) {
	var patch orderdomain.Order
	fields, ok := bindPatch(c, &patch)
	if !ok {
		return
	}

	resp, err := s.orderSvc.Update(c.Request.Context(), orderdomain.UpdateRequest{
		ID:     pathID(c),
		Patch:  patch,
		Fields: fields,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("order_number", resp.OrderNumber)
	s.record(c, auditdomain.ActionUpdate, targetOrder, resp.ID.String(), map[string]any{
		"orderNumber": resp.OrderNumber,
		"fields":      fields,
	})
	c.JSON(http.StatusOK, resp)
}

func (s *Server) TransitionOrder(c *gin.Context) {
	var req orderdomain.TransitionRequest
	if !bindBody(c, &req) {
		return
	}
	req.ID = pathID(c)

	resp, err := s.orderSvc.Transition(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("order_number", resp.OrderNumber)
	s.record(c, auditdomain.ActionTransition, targetOrder, resp.ID.String(), map[string]any{
		"orderNumber": resp.OrderNumber,
		"status":      resp.Status,
	})
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteOrder(c *gin.Context) {
	id := pathID(c)
	if err := s.orderSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.record(c, auditdomain.ActionDelete, targetOrder, id, nil)
	c.Status(http.StatusNoContent)
}

// RenderOrderSheet streams the printable PDF of an order and its label.
func (s *Server) RenderOrderSheet(c *gin.Context) {
	ctx := c.Request.Context()

	view, err := s.orderSvc.GetByID(ctx, pathID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set("order_number", view.OrderNumber)

	var spec *labeldomain.LabelSpec
	if view.LabelSpecID != nil {
		found, err := s.labelSvc.GetByID(ctx, view.LabelSpecID.String())
		switch {
		case err == nil:
			spec = &found
		case !errors.Is(err, labeldomain.ErrNotFound):
			AbortWithError(c, err)
			return
		}
	}

	reader, err := s.pdf.GenerateOrderSheet(ctx, pdf.NewOrderSheet(view, spec, s.clock.Now()))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdf.FileName(view.OrderNumber)))
	c.Data(http.StatusOK, "application/pdf", data)
}
