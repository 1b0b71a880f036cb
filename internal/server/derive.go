package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/labelworks/internal/derive"
	"github.com/smallbiznis/labelworks/internal/schema"
)

type orderTotalRequest struct {
	Quantity  int64           `json:"quantity" validate:"gte=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"gte=0"`
}

type moqPriceRequest struct {
	Width     decimal.Decimal `json:"width" validate:"gte=0"`
	Length    decimal.Decimal `json:"length" validate:"gte=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"gte=0"`
}

type toleranceRequest struct {
	QualityGrade string `json:"qualityGrade" validate:"omitempty,enum=quality_grade"`
}

type spotColorsRequest struct {
	SpotColorCount int      `json:"spotColorCount" validate:"gte=0"`
	PantoneColors  []string `json:"pantoneColors"`
}

// DeriveOrderTotal previews the total the server stores for an order.
func (s *Server) DeriveOrderTotal(c *gin.Context) {
	var req orderTotalRequest
	if !bindValidated(c, &req) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalAmount": derive.TotalAmount(req.Quantity, req.UnitPrice)})
}

func (s *Server) DeriveMOQPrice(c *gin.Context) {
	var req moqPriceRequest
	if !bindValidated(c, &req) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"minimumOrderQuantity": derive.MOQPrice(req.Width, req.Length, req.UnitPrice)})
}

func (s *Server) DeriveTolerance(c *gin.Context) {
	var req toleranceRequest
	if !bindValidated(c, &req) {
		return
	}

	tolerance, ok := derive.DefaultTolerance(s.quality.Get(), req.QualityGrade)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"colorDifferenceValue": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"colorDifferenceValue": tolerance})
}

func (s *Server) DeriveSpotColors(c *gin.Context) {
	var req spotColorsRequest
	if !bindValidated(c, &req) {
		return
	}
	if limit := s.quality.Get().MaxSpotColors; limit > 0 && req.SpotColorCount > limit {
		AbortWithError(c, schema.Invalid("spotColorCount", schema.CodeOutOfRange, "exceeds the configured maximum"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"pantoneColors": derive.ResizeSpotColors(req.PantoneColors, req.SpotColorCount)})
}

func bindValidated(c *gin.Context, dst any) bool {
	if !bindBody(c, dst) {
		return false
	}
	if err := schema.Validate(dst); err != nil {
		AbortWithError(c, err)
		return false
	}
	return true
}
