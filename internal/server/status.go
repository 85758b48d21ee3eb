package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	recorddomain "github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
)

// Health stays 200 while the store is usable and reports degraded with a
// 503 once the storage handle has failed.
func (s *Server) Health(c *gin.Context) {
	if err := s.handle.Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) GetStatus(c *gin.Context) {
	report := s.inspector.Report(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"report": report,
		"lines":  report.Lines(),
	}})
}

func (s *Server) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"services":        recorddomain.Services,
		"payment_methods": recorddomain.PaymentMethods,
		"statuses":        recorddomain.Statuses,
	}})
}
