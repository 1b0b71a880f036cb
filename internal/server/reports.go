package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/smallbiznis/labelworks/internal/report/domain"
)

func (s *Server) GetReport(c *gin.Context) {
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

	resp, err := s.reportSvc.Generate(c.Request.Context(), reportdomain.Request{
		ReportType: strings.TrimSpace(c.Query("reportType")),
		DateFrom:   dateFrom,
		DateTo:     dateTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
