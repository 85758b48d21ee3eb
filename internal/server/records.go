package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/pestdesk/internal/export"
	recorddomain "github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
	"go.uber.org/zap"
)

type createRecordRequest struct {
	Name          string          `json:"name" binding:"required"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	Service       string          `json:"service" binding:"required,pest_service"`
	VisitDate     string          `json:"visit_date" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Paid          bool            `json:"paid"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,payment_method"`
	Status        string          `json:"service_status" binding:"omitempty,service_status"`
}

type updateRecordRequest struct {
	Status string `json:"service_status" binding:"required,service_status"`
	Paid   *bool  `json:"paid" binding:"required"`
}

func (s *Server) CreateRecord(c *gin.Context) {
	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	visitDate, err := recorddomain.ParseDate(req.VisitDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	record, err := s.recordSvc.Create(c.Request.Context(), recorddomain.CreateRecordRequest{
		Name:          strings.TrimSpace(req.Name),
		Phone:         strings.TrimSpace(req.Phone),
		Address:       strings.TrimSpace(req.Address),
		Service:       req.Service,
		VisitDate:     visitDate,
		Amount:        req.Amount,
		Paid:          req.Paid,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": record})
}

func (s *Server) UpdateRecord(c *gin.Context) {
	id, err := parseRecordID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	record, err := s.recordSvc.Update(c.Request.Context(), recorddomain.UpdateRecordRequest{
		ID:     id,
		Status: req.Status,
		Paid:   *req.Paid,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}

func (s *Server) GetRecordByID(c *gin.Context) {
	id, err := parseRecordID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	record, err := s.recordSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}

func (s *Server) ListRecords(c *gin.Context) {
	var query struct {
		Status  string `form:"status"`
		Payment string `form:"payment"`
		Service string `form:"service"`
		Limit   string `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	limit, err := parseOptionalInt(query.Limit)
	if err != nil || (limit != nil && *limit <= 0) {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}
	pageSize := s.dashboardCfg.Get().PageSize
	if limit != nil {
		pageSize = *limit
	}

	resp, err := s.recordSvc.List(c.Request.Context(), recorddomain.ListRecordRequest{
		Status:  query.Status,
		Payment: query.Payment,
		Service: query.Service,
		Limit:   pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportRecords(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	records, err := s.recordSvc.LoadAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, records); err != nil {
		s.log.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		AbortWithError(c, ErrInternal)
		return
	}

	filename := export.Filename(s.clock.Now(), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
