package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/dto"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/repository"
	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
)

const (
	msgBachelorNotFound      = "Không tìm thấy sinh viên với Student ID"
	msgRequestAlreadyPending = "Sinh viên này đã có một yêu cầu đang chờ xử lý."
	msgNoPendingRequest      = "Không tìm thấy sinh viên hoặc không có yêu cầu nào đang chờ xử lý."
	msgMissingInfoPending    = "Bạn đang có một yêu cầu đang chờ xử lý."

	defaultRequestLimit = 20
	maxRequestLimit     = 100
)

type bachelorStore interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Bachelor, error)
	FindView(ctx context.Context, studentID string) (*models.Bachelor, error)
	Exists(ctx context.Context, studentID string) (bool, error)
	PushPendingRequest(ctx context.Context, studentID string, entry models.CorrectionRequest) (bool, error)
	ResolvePending(ctx context.Context, studentID string, status models.RequestStatus, resolvedBy string, at time.Time) (bool, error)
	ListRequests(ctx context.Context, filter models.BachelorFilter) ([]models.BachelorRequestRow, int, error)
}

type missingInformationStore interface {
	FindPending(ctx context.Context, studentID string) (*models.MissingInformation, error)
	Insert(ctx context.Context, info *models.MissingInformation) error
}

type viewCache interface {
	Get(ctx context.Context, studentID string) (*dto.BachelorView, bool)
	Put(ctx context.Context, view *dto.BachelorView)
}

// BachelorService implements the lookup and correction request workflow.
// The store's conditional updates are the only guard for the single pending
// request invariant; the reads here exist to produce precise errors.
type BachelorService struct {
	bachelors bachelorStore
	missing   missingInformationStore
	cache     viewCache
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// BachelorServiceOption configures the service.
type BachelorServiceOption func(*BachelorService)

// WithViewCache serves repeated lookups from cache.
func WithViewCache(cache viewCache) BachelorServiceOption {
	return func(s *BachelorService) {
		s.cache = cache
	}
}

// WithWorkflowMetrics records workflow outcomes and store timings.
func WithWorkflowMetrics(metrics *MetricsService) BachelorServiceOption {
	return func(s *BachelorService) {
		s.metrics = metrics
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) BachelorServiceOption {
	return func(s *BachelorService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewBachelorService constructs the service with defaults.
func NewBachelorService(bachelors bachelorStore, missing missingInformationStore, logger *zap.Logger, opts ...BachelorServiceOption) *BachelorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &BachelorService{
		bachelors: bachelors,
		missing:   missing,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Find returns the public view of a bachelor with requests omitted and the email masked.
func (s *BachelorService) Find(ctx context.Context, studentID string) (*dto.BachelorView, error) {
	if s.cache != nil {
		if cached, hit := s.cache.Get(ctx, studentID); hit {
			return cached, nil
		}
	}

	start := time.Now()
	bachelor, err := s.bachelors.FindView(ctx, studentID)
	s.observe("find_view", start)
	if err != nil {
		return nil, s.mapLookupError(err, "failed to load bachelor")
	}

	view := toBachelorView(bachelor)
	if s.cache != nil {
		s.cache.Put(ctx, view)
	}
	return view, nil
}

// EnsureExists fails with NotFound when no record has the student ID.
func (s *BachelorService) EnsureExists(ctx context.Context, studentID string) error {
	exists, err := s.bachelors.Exists(ctx, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, "failed to check bachelor")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, msgBachelorNotFound)
	}
	return nil
}

// SubmitImageRequest appends a pending photo correction request.
func (s *BachelorService) SubmitImageRequest(ctx context.Context, req dto.ImageRequest) (err error) {
	defer func() { s.record("submit_image_request", err) }()

	bachelor, err := s.bachelors.FindByStudentID(ctx, req.StudentID)
	if err != nil {
		return s.mapLookupError(err, "failed to load bachelor")
	}
	if bachelor.PendingRequest() != nil {
		return appErrors.Clone(appErrors.ErrConflict, msgRequestAlreadyPending)
	}

	entry := models.CorrectionRequest{
		ID:          s.newID(),
		Type:        models.RequestTypeImage,
		NewImageURL: req.NewImageURL,
		Note:        req.Note,
		Status:      models.RequestStatusPending,
		CreatedAt:   s.now(),
	}

	start := time.Now()
	pushed, err := s.bachelors.PushPendingRequest(ctx, req.StudentID, entry)
	s.observe("push_request", start)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, "failed to store request")
	}
	if pushed {
		s.logger.Info("image request submitted", zap.String("student_id", req.StudentID), zap.String("request_id", entry.ID))
		return nil
	}

	// Lost a race: either the record vanished or another request became pending.
	exists, err := s.bachelors.Exists(ctx, req.StudentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, "failed to check bachelor")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, msgBachelorNotFound)
	}
	return appErrors.Clone(appErrors.ErrConflict, msgRequestAlreadyPending)
}

// ResolveRequest transitions the first pending request to approved or rejected.
func (s *BachelorService) ResolveRequest(ctx context.Context, req dto.ResolveRequest) (err error) {
	defer func() { s.record("resolve_request", err) }()

	if !req.Status.IsResolution() {
		return appErrors.NewValidation([]appErrors.Detail{{Field: "status", Message: "Status must be either approved or rejected"}})
	}

	start := time.Now()
	resolved, err := s.bachelors.ResolvePending(ctx, req.StudentID, req.Status, req.ResolvedBy, s.now())
	s.observe("resolve_request", start)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, "failed to resolve request")
	}
	if !resolved {
		return appErrors.Clone(appErrors.ErrNotFound, msgNoPendingRequest)
	}

	s.logger.Info("request resolved",
		zap.String("student_id", req.StudentID),
		zap.String("status", string(req.Status)),
		zap.String("resolved_by", req.ResolvedBy))
	return nil
}

// SubmitMissingInformation files a missing-information request. The stored
// status is always pending regardless of input.
func (s *BachelorService) SubmitMissingInformation(ctx context.Context, req dto.MissingInformationRequest) (err error) {
	defer func() { s.record("submit_missing_information", err) }()

	existing, err := s.missing.FindPending(ctx, req.StudentID)
	switch {
	case err == nil && existing != nil:
		return appErrors.Clone(appErrors.ErrConflict, msgMissingInfoPending)
	case err != nil && !errors.Is(err, mongo.ErrNoDocuments):
		return appErrors.Wrap(err, appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, "failed to load missing information")
	}

	info := &models.MissingInformation{
		StudentID:   req.StudentID,
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Note:        req.Note,
		Status:      models.RequestStatusPending,
		CreatedAt:   s.now(),
	}

	start := time.Now()
	err = s.missing.Insert(ctx, info)
	s.observe("insert_missing_information", start)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return appErrors.Clone(appErrors.ErrConflict, msgMissingInfoPending)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, "failed to store missing information")
	}
	return nil
}

// RequestStatus summarises the latest correction request of a bachelor.
func (s *BachelorService) RequestStatus(ctx context.Context, studentID string) (*dto.RequestStatusView, error) {
	bachelor, err := s.bachelors.FindByStudentID(ctx, studentID)
	if err != nil {
		return nil, s.mapLookupError(err, "failed to load bachelor")
	}

	view := &dto.RequestStatusView{
		StudentID:  bachelor.StudentID,
		HasPending: bachelor.PendingRequest() != nil,
	}
	if latest := bachelor.LatestRequest(); latest != nil {
		view.Latest = &dto.RequestSummary{
			ID:         latest.ID,
			Type:       latest.Type,
			Status:     latest.Status,
			CreatedAt:  latest.CreatedAt,
			ResolvedAt: latest.ResolvedAt,
		}
	}
	return view, nil
}

// ListRequests pages through requests in a status, pending by default.
func (s *BachelorService) ListRequests(ctx context.Context, query dto.RequestListQuery) (*dto.RequestListResult, error) {
	status := query.Status
	if status == "" {
		status = models.RequestStatusPending
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultRequestLimit
	}
	if limit > maxRequestLimit {
		limit = maxRequestLimit
	}

	start := time.Now()
	rows, total, err := s.bachelors.ListRequests(ctx, models.BachelorFilter{
		Status: status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	s.observe("list_requests", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, "failed to list requests")
	}

	items := make([]dto.RequestListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.RequestListItem{
			StudentID:   row.StudentID,
			FullName:    row.FullName,
			Faculty:     row.Faculty,
			Hall:        row.Hall,
			RequestID:   row.Request.ID,
			Status:      row.Request.Status,
			NewImageURL: row.Request.NewImageURL,
			Note:        row.Request.Note,
			CreatedAt:   row.Request.CreatedAt,
			ResolvedAt:  row.Request.ResolvedAt,
			ResolvedBy:  row.Request.ResolvedBy,
		})
	}

	return &dto.RequestListResult{Items: items, TotalItems: total, Page: page, Limit: limit}, nil
}

func (s *BachelorService) mapLookupError(err error, message string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return appErrors.Clone(appErrors.ErrNotFound, msgBachelorNotFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, message)
}

func (s *BachelorService) observe(operation string, start time.Time) {
	s.metrics.ObserveStoreOperation(operation, time.Since(start))
}

func (s *BachelorService) record(operation string, err error) {
	outcome := OutcomeSuccess
	switch {
	case err == nil:
	case appErrors.IsStatus(err, http.StatusConflict):
		outcome = OutcomeConflict
	case appErrors.IsStatus(err, http.StatusNotFound):
		outcome = OutcomeNotFound
	case appErrors.IsStatus(err, http.StatusUnprocessableEntity):
		outcome = OutcomeInvalid
	default:
		outcome = OutcomeError
	}
	s.metrics.RecordWorkflow(operation, outcome)
	if outcome == OutcomeError {
		s.logger.Error("workflow operation failed", zap.String("operation", operation), zap.Error(err))
	}
}

func toBachelorView(b *models.Bachelor) *dto.BachelorView {
	return &dto.BachelorView{
		StudentID:  b.StudentID,
		FullName:   b.FullName,
		Email:      MaskEmail(b.Email),
		Major:      b.Major,
		Faculty:    b.Faculty,
		Date:       b.Date,
		Hall:       b.Hall,
		Session:    b.Session,
		Seat:       b.Seat,
		ParentSeat: b.ParentSeat,
		Images:     b.Images,
	}
}
