package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/dto"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
	"github.com/MaiNhanKiet/look-up-convocation2025/internal/validation"
	"github.com/MaiNhanKiet/look-up-convocation2025/pkg/response"
)

type bachelorService interface {
	Find(ctx context.Context, studentID string) (*dto.BachelorView, error)
	EnsureExists(ctx context.Context, studentID string) error
	SubmitImageRequest(ctx context.Context, req dto.ImageRequest) error
	ResolveRequest(ctx context.Context, req dto.ResolveRequest) error
	SubmitMissingInformation(ctx context.Context, req dto.MissingInformationRequest) error
	RequestStatus(ctx context.Context, studentID string) (*dto.RequestStatusView, error)
	ListRequests(ctx context.Context, query dto.RequestListQuery) (*dto.RequestListResult, error)
}

type requestExporter interface {
	ExportRequests(ctx context.Context, query dto.RequestExportQuery) (*dto.ExportFile, error)
}

// BachelorHandler exposes lookup and correction request endpoints.
type BachelorHandler struct {
	service   bachelorService
	exporter  requestExporter
	validator *validation.Validator
}

// NewBachelorHandler builds a new handler.
func NewBachelorHandler(service bachelorService, exporter requestExporter, validator *validation.Validator) *BachelorHandler {
	if validator == nil {
		validator = validation.New()
	}
	return &BachelorHandler{service: service, exporter: exporter, validator: validator}
}

// Get godoc
// @Summary Look up a bachelor
// @Description Returns ceremony logistics for a student with the email masked
// @Tags Bachelor
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope{data=dto.BachelorView}
// @Failure 404 {object} response.ErrorEnvelope
// @Failure 422 {object} response.ErrorEnvelope
// @Router /bachelor/{studentId} [get]
func (h *BachelorHandler) Get(c *gin.Context) {
	values, ok := h.validate(c, validation.Schema{validation.StudentIDField()})
	if !ok {
		return
	}

	view, err := h.service.Find(c.Request.Context(), values.Get("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Lấy thông tin tân cử nhân thành công", view)
}

// RequestStatus godoc
// @Summary Current correction request status
// @Tags Bachelor
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope{data=dto.RequestStatusView}
// @Failure 404 {object} response.ErrorEnvelope
// @Failure 422 {object} response.ErrorEnvelope
// @Router /bachelor/{studentId}/request-status [get]
func (h *BachelorHandler) RequestStatus(c *gin.Context) {
	values, ok := h.validate(c, validation.Schema{validation.StudentIDField()})
	if !ok {
		return
	}

	view, err := h.service.RequestStatus(c.Request.Context(), values.Get("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Lấy trạng thái yêu cầu thành công", view)
}

// RequestImage godoc
// @Summary Request a photo correction
// @Tags Bachelor
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param payload body dto.ImageRequest true "Correction payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Failure 409 {object} response.ErrorEnvelope
// @Failure 422 {object} response.ErrorEnvelope
// @Router /bachelor/{studentId}/request-image [post]
func (h *BachelorHandler) RequestImage(c *gin.Context) {
	exists := func(ctx context.Context, studentID string) error {
		return h.service.EnsureExists(ctx, studentID)
	}
	values, ok := h.validate(c, validation.ImageRequestSchema(exists))
	if !ok {
		return
	}

	err := h.service.SubmitImageRequest(c.Request.Context(), dto.ImageRequest{
		StudentID:   values.Get("studentId"),
		NewImageURL: values.Get("newImageUrl"),
		Note:        values.Get("note"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Đã gửi yêu cầu thành công", nil)
}

// MissingInformation godoc
// @Summary File missing personal information
// @Tags Bachelor
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param payload body dto.MissingInformationRequest true "Missing information payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.ErrorEnvelope
// @Failure 422 {object} response.ErrorEnvelope
// @Router /bachelor/{studentId}/missing-information [post]
func (h *BachelorHandler) MissingInformation(c *gin.Context) {
	values, ok := h.validate(c, validation.MissingInformationSchema())
	if !ok {
		return
	}

	err := h.service.SubmitMissingInformation(c.Request.Context(), dto.MissingInformationRequest{
		StudentID:   values.Get("studentId"),
		FullName:    values.Get("fullName"),
		Email:       values.Get("email"),
		PhoneNumber: values.Get("phoneNumber"),
		Note:        values.Get("note"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Đã gửi thông tin thành công", nil)
}

// Approve godoc
// @Summary Resolve the pending correction request
// @Tags Bachelor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param payload body dto.ResolveRequest true "Resolution payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.ErrorEnvelope
// @Failure 403 {object} response.ErrorEnvelope
// @Failure 404 {object} response.ErrorEnvelope
// @Failure 422 {object} response.ErrorEnvelope
// @Router /bachelor/approve/{studentId} [put]
func (h *BachelorHandler) Approve(c *gin.Context) {
	values, ok := h.validate(c, validation.ResolveSchema())
	if !ok {
		return
	}

	req := dto.ResolveRequest{
		StudentID: values.Get("studentId"),
		Status:    models.RequestStatus(values.Get("status")),
	}
	if claims := claimsFromContext(c); claims != nil {
		req.ResolvedBy = claims.Email
	}

	if err := h.service.ResolveRequest(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cập nhật trạng thái yêu cầu thành công", nil)
}

// ListRequests godoc
// @Summary List correction requests
// @Tags Bachelor
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope{data=[]dto.RequestListItem}
// @Failure 401 {object} response.ErrorEnvelope
// @Failure 403 {object} response.ErrorEnvelope
// @Failure 422 {object} response.ErrorEnvelope
// @Router /bachelor/requests [get]
func (h *BachelorHandler) ListRequests(c *gin.Context) {
	values, ok := h.validate(c, validation.RequestListSchema())
	if !ok {
		return
	}

	page, _ := strconv.Atoi(values.Get("page"))
	limit, _ := strconv.Atoi(values.Get("limit"))
	result, err := h.service.ListRequests(c.Request.Context(), dto.RequestListQuery{
		Status: models.RequestStatus(values.Get("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Lấy danh sách yêu cầu thành công", result.Items, &response.Metadata{
		TotalItems:  result.TotalItems,
		CurrentPage: result.Page,
		TotalPages:  result.TotalPages(),
		Limit:       result.Limit,
	})
}

// ExportRequests godoc
// @Summary Export correction requests
// @Tags Bachelor
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf"
// @Param status query string false "pending, approved or rejected"
// @Success 200 {file} file
// @Failure 401 {object} response.ErrorEnvelope
// @Failure 403 {object} response.ErrorEnvelope
// @Failure 422 {object} response.ErrorEnvelope
// @Router /bachelor/requests/export [get]
func (h *BachelorHandler) ExportRequests(c *gin.Context) {
	values, ok := h.validate(c, validation.RequestExportSchema())
	if !ok {
		return
	}

	file, err := h.exporter.ExportRequests(c.Request.Context(), dto.RequestExportQuery{
		Format: values.Get("format"),
		Status: models.RequestStatus(values.Get("status")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}

func (h *BachelorHandler) validate(c *gin.Context, schema validation.Schema) (validation.Values, bool) {
	input, err := inputFromContext(c)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	values, err := h.validator.Run(c.Request.Context(), schema, input)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return values, true
}
