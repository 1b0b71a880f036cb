package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/labelworks/internal/schema"
)

// ListEnums exposes every closed value set so clients can build their
// selection lists from the same source the validator uses.
func (s *Server) ListEnums(c *gin.Context) {
	c.JSON(http.StatusOK, schema.Enums())
}
