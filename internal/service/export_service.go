package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/dto"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/export"
)

const (
	exportPageSize = 100
	exportMaxRows  = 10000
	timeLayout     = "2006-01-02 15:04"
)

type requestLister interface {
	ListRequests(ctx context.Context, query dto.RequestListQuery) (*dto.RequestListResult, error)
}

// Renderer turns a dataset into a downloadable document.
type Renderer interface {
	ContentType() string
	Extension() string
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders staff request worksheets.
type ExportService struct {
	requests  requestLister
	renderers map[string]Renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. CSV and PDF renderers are
// registered unless overridden.
func NewExportService(requests requestLister, logger *zap.Logger, renderers ...Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ExportService{
		requests:  requests,
		renderers: make(map[string]Renderer),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if len(renderers) == 0 {
		renderers = []Renderer{export.NewCSVExporter(), export.NewPDFExporter()}
	}
	for _, r := range renderers {
		svc.renderers[r.Extension()] = r
	}
	return svc
}

// ExportRequests renders every request in the given status.
func (s *ExportService) ExportRequests(ctx context.Context, query dto.RequestExportQuery) (*dto.ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.NewValidation([]appErrors.Detail{{Field: "format", Message: fmt.Sprintf("unsupported format %s", format)}})
	}
	status := query.Status
	if status == "" {
		status = models.RequestStatusPending
	}

	items, err := s.collect(ctx, status)
	if err != nil {
		return nil, err
	}

	body, err := renderer.Render(buildRequestDataset(status, items))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Name, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("requests_%s_%s.%s", sanitizeFilename(string(status)), s.now().Format("20060102_150405"), renderer.Extension())
	s.logger.Info("requests exported", zap.String("status", string(status)), zap.String("format", format), zap.Int("rows", len(items)))
	return &dto.ExportFile{Filename: filename, ContentType: renderer.ContentType(), Body: body}, nil
}

func (s *ExportService) collect(ctx context.Context, status models.RequestStatus) ([]dto.RequestListItem, error) {
	var items []dto.RequestListItem
	for page := 1; len(items) < exportMaxRows; page++ {
		result, err := s.requests.ListRequests(ctx, dto.RequestListQuery{Status: status, Page: page, Limit: exportPageSize})
		if err != nil {
			return nil, err
		}
		items = append(items, result.Items...)
		if len(result.Items) < exportPageSize || len(items) >= result.TotalItems {
			break
		}
	}
	return items, nil
}

func buildRequestDataset(status models.RequestStatus, items []dto.RequestListItem) export.Dataset {
	headers := []string{"Student ID", "Full name", "Faculty", "Hall", "Status", "New image URL", "Note", "Created at", "Resolved at", "Resolved by"}
	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		resolvedAt := ""
		if item.ResolvedAt != nil {
			resolvedAt = item.ResolvedAt.Format(timeLayout)
		}
		rows = append(rows, map[string]string{
			"Student ID":    item.StudentID,
			"Full name":     item.FullName,
			"Faculty":       item.Faculty,
			"Hall":          item.Hall,
			"Status":        string(item.Status),
			"New image URL": item.NewImageURL,
			"Note":          item.Note,
			"Created at":    item.CreatedAt.Format(timeLayout),
			"Resolved at":   resolvedAt,
			"Resolved by":   item.ResolvedBy,
		})
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Image correction requests (%s)", status),
		Headers: headers,
		Rows:    rows,
	}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
