package dto

import (
	"time"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
)

// ImageRequest payload for POST /bachelor/:studentId/request-image.
type ImageRequest struct {
	StudentID   string `json:"-"`
	NewImageURL string `json:"newImageUrl"`
	Note        string `json:"note"`
}

// ResolveRequest payload for PUT /bachelor/approve/:studentId.
type ResolveRequest struct {
	StudentID  string               `json:"-"`
	Status     models.RequestStatus `json:"status"`
	ResolvedBy string               `json:"-"`
}

// MissingInformationRequest payload for POST /bachelor/:studentId/missing-information.
type MissingInformationRequest struct {
	StudentID   string `json:"-"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Note        string `json:"note"`
}

// BachelorView is the public lookup payload: requests omitted, email masked.
type BachelorView struct {
	StudentID  string         `json:"studentId"`
	FullName   string         `json:"fullName"`
	Email      string         `json:"email"`
	Major      string         `json:"major"`
	Faculty    string         `json:"faculty"`
	Date       string         `json:"date"`
	Hall       string         `json:"hall"`
	Session    models.Session `json:"session"`
	Seat       string         `json:"seat"`
	ParentSeat string         `json:"parentSeat"`
	Images     models.Images  `json:"images"`
}

// RequestSummary exposes the caller-visible part of a correction request.
type RequestSummary struct {
	ID         string               `json:"id"`
	Type       models.RequestType   `json:"type"`
	Status     models.RequestStatus `json:"status"`
	CreatedAt  time.Time            `json:"createdAt"`
	ResolvedAt *time.Time           `json:"resolvedAt,omitempty"`
}

// RequestStatusView answers GET /bachelor/:studentId/request-status.
type RequestStatusView struct {
	StudentID  string          `json:"studentId"`
	HasPending bool            `json:"hasPending"`
	Latest     *RequestSummary `json:"latest"`
}

// RequestListItem is one row of the staff request listing.
type RequestListItem struct {
	StudentID   string               `json:"studentId"`
	FullName    string               `json:"fullName"`
	Faculty     string               `json:"faculty"`
	Hall        string               `json:"hall"`
	RequestID   string               `json:"requestId"`
	Status      models.RequestStatus `json:"status"`
	NewImageURL string               `json:"newImageUrl"`
	Note        string               `json:"note"`
	CreatedAt   time.Time            `json:"createdAt"`
	ResolvedAt  *time.Time           `json:"resolvedAt,omitempty"`
	ResolvedBy  string               `json:"resolvedBy,omitempty"`
}

// RequestListQuery mirrors supported listing filters.
type RequestListQuery struct {
	Status models.RequestStatus
	Page   int
	Limit  int
}

// RequestExportQuery selects the export format and status filter.
type RequestExportQuery struct {
	Format string
	Status models.RequestStatus
}

// RequestListResult carries a page of requests and pagination details.
type RequestListResult struct {
	Items      []RequestListItem
	TotalItems int
	Page       int
	Limit      int
}

// TotalPages derives the page count from totals.
func (r RequestListResult) TotalPages() int {
	if r.Limit <= 0 || r.TotalItems == 0 {
		return 0
	}
	return (r.TotalItems + r.Limit - 1) / r.Limit
}

// ExportFile is a rendered staff worksheet.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
