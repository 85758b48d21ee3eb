package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/pestdesk/internal/clock"
	"github.com/smallbiznis/pestdesk/internal/observability/metrics"
	"github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
	"github.com/smallbiznis/pestdesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Handle  *db.Handle
	Log     *zap.Logger
	Clock   clock.Clock
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	handle   *db.Handle
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	metrics  *metrics.Metrics
	validate *validator.Validate
	version  atomic.Uint64
}

// contactDraft carries the free-text fields checked by struct tags.
type contactDraft struct {
	Name    string `validate:"required,max=200"`
	Phone   string `validate:"max=32"`
	Address string `validate:"max=500"`
}

var _ domain.Service = (*Service)(nil)

func New(p Params) domain.Service {
	return &Service{
		handle:   p.Handle,
		log:      p.Log.Named("servicerecord.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		metrics:  p.Metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRecordRequest) (domain.ServiceRecord, error) {
	record, err := s.buildRecord(req)
	if err != nil {
		return domain.ServiceRecord{}, err
	}

	conn, err := s.conn()
	if err != nil {
		return domain.ServiceRecord{}, err
	}

	if err := s.repo.Insert(ctx, conn, &record); err != nil {
		return domain.ServiceRecord{}, s.storageError("insert", err)
	}

	version := s.version.Add(1)
	s.metrics.RecordCreated(version)
	s.log.Info("service record created",
		zap.Int64("id", record.ID),
		zap.String("service", string(record.Service)),
		zap.String("status", string(record.Status)),
		zap.Uint64("version", version),
	)
	return record, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRecordRequest) (domain.ServiceRecord, error) {
	if req.ID <= 0 {
		return domain.ServiceRecord{}, domain.ErrInvalidID
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return domain.ServiceRecord{}, err
	}

	conn, err := s.conn()
	if err != nil {
		return domain.ServiceRecord{}, err
	}

	if err := s.repo.UpdateStatusAndPaid(ctx, conn, req.ID, status, req.Paid); err != nil {
		return domain.ServiceRecord{}, s.storageError("update", err)
	}

	version := s.version.Add(1)
	s.metrics.RecordUpdated(string(status), version)
	s.log.Info("service record updated",
		zap.Int64("id", req.ID),
		zap.String("status", string(status)),
		zap.Bool("paid", req.Paid),
		zap.Uint64("version", version),
	)

	item, err := s.repo.FindByID(ctx, conn, req.ID)
	if err != nil {
		return domain.ServiceRecord{}, s.storageError("find", err)
	}
	if item == nil {
		return domain.ServiceRecord{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.ServiceRecord, error) {
	if id <= 0 {
		return domain.ServiceRecord{}, domain.ErrInvalidID
	}

	conn, err := s.conn()
	if err != nil {
		return domain.ServiceRecord{}, err
	}

	item, err := s.repo.FindByID(ctx, conn, id)
	if err != nil {
		return domain.ServiceRecord{}, s.storageError("find", err)
	}
	if item == nil {
		return domain.ServiceRecord{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) LoadAll(ctx context.Context) ([]domain.ServiceRecord, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, conn, domain.ListRecordFilter{})
	if err != nil {
		return nil, s.storageError("load_all", err)
	}
	return records, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRecordRequest) (domain.ListRecordResponse, error) {
	filter, err := parseFilter(req)
	if err != nil {
		return domain.ListRecordResponse{}, err
	}

	conn, err := s.conn()
	if err != nil {
		return domain.ListRecordResponse{}, err
	}

	records, err := s.repo.List(ctx, conn, filter)
	if err != nil {
		return domain.ListRecordResponse{}, s.storageError("list", err)
	}

	filter.Limit = 0
	total, err := s.repo.Count(ctx, conn, filter)
	if err != nil {
		return domain.ListRecordResponse{}, s.storageError("count", err)
	}

	all, err := s.repo.Count(ctx, conn, domain.ListRecordFilter{})
	if err != nil {
		return domain.ListRecordResponse{}, s.storageError("count", err)
	}

	return domain.ListRecordResponse{
		Records: records,
		Shown:   len(records),
		Total:   total,
		All:     all,
	}, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	conn, err := s.conn()
	if err != nil {
		return 0, err
	}

	total, err := s.repo.Count(ctx, conn, domain.ListRecordFilter{})
	if err != nil {
		return 0, s.storageError("count", err)
	}
	return total, nil
}

func (s *Service) Version() uint64 {
	return s.version.Load()
}

func (s *Service) conn() (*gorm.DB, error) {
	conn, err := s.handle.Conn()
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *Service) buildRecord(req domain.CreateRecordRequest) (domain.ServiceRecord, error) {
	draft := contactDraft{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
	}
	if err := s.validate.Struct(draft); err != nil {
		return domain.ServiceRecord{}, contactError(err)
	}

	service, err := domain.ParseService(req.Service)
	if err != nil {
		return domain.ServiceRecord{}, err
	}

	method := domain.PaymentCash
	if strings.TrimSpace(req.PaymentMethod) != "" {
		if method, err = domain.ParsePaymentMethod(req.PaymentMethod); err != nil {
			return domain.ServiceRecord{}, err
		}
	}

	status := domain.StatusOngoing
	if strings.TrimSpace(req.Status) != "" {
		if status, err = domain.ParseStatus(req.Status); err != nil {
			return domain.ServiceRecord{}, err
		}
	}

	if req.Amount.IsNegative() {
		return domain.ServiceRecord{}, domain.ErrInvalidAmount
	}
	if req.VisitDate.IsZero() {
		return domain.ServiceRecord{}, domain.ErrInvalidVisitDate
	}

	return domain.ServiceRecord{
		Name:          draft.Name,
		Phone:         draft.Phone,
		Address:       draft.Address,
		Service:       service,
		VisitDate:     domain.NewDate(req.VisitDate.Time),
		Amount:        req.Amount,
		Paid:          req.Paid,
		PaymentMethod: method,
		Status:        status,
		CreatedAt:     s.clock.Now().UTC().Truncate(time.Second),
	}, nil
}

func contactError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ErrInvalidName
	}
	switch verrs[0].Field() {
	case "Phone":
		return domain.ErrInvalidPhone
	case "Address":
		return domain.ErrInvalidAddress
	default:
		return domain.ErrInvalidName
	}
}

func parseFilter(req domain.ListRecordRequest) (domain.ListRecordFilter, error) {
	filter := domain.ListRecordFilter{Limit: req.Limit}

	if value := strings.TrimSpace(req.Status); value != "" && !strings.EqualFold(value, "all") {
		status, err := domain.ParseStatus(value)
		if err != nil {
			return domain.ListRecordFilter{}, err
		}
		filter.Status = status
	}

	switch domain.PaymentFilter(strings.ToLower(strings.TrimSpace(req.Payment))) {
	case "", domain.PaymentFilterAll:
	case domain.PaymentFilterPaid:
		paid := true
		filter.Paid = &paid
	case domain.PaymentFilterUnpaid:
		paid := false
		filter.Paid = &paid
	default:
		return domain.ListRecordFilter{}, domain.ErrInvalidPaymentFilter
	}

	if value := strings.TrimSpace(req.Service); value != "" && !strings.EqualFold(value, "all") {
		service, err := domain.ParseService(value)
		if err != nil {
			return domain.ListRecordFilter{}, err
		}
		filter.Service = service
	}

	return filter, nil
}

func (s *Service) storageError(operation string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.metrics.StorageError(operation)
	s.log.Error("record store operation failed", zap.String("operation", operation), zap.Error(err))
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, operation, err)
}
