package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RequestStatus captures workflow states for correction requests and submissions.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// IsResolution reports whether the status is a terminal decision a reviewer may apply.
func (s RequestStatus) IsResolution() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// RequestType enumerates the kinds of correction request embedded in a bachelor record.
type RequestType string

const (
	RequestTypeImage RequestType = "image"
)

// Session is the ceremony block a bachelor is assigned to.
type Session struct {
	Number       int    `bson:"number" json:"number"`
	Checkin      string `bson:"checkin" json:"checkin"`
	Presentation string `bson:"presentation" json:"presentation"`
}

// Images holds the photo references shown on the LED wall and in the exhibit.
type Images struct {
	Led     string `bson:"led" json:"led"`
	Exhibit string `bson:"exhibit" json:"exhibit"`
}

// CorrectionRequest is a request entry embedded in a bachelor record.
type CorrectionRequest struct {
	ID          string        `bson:"id" json:"id"`
	Type        RequestType   `bson:"type" json:"type"`
	NewImageURL string        `bson:"newImageUrl,omitempty" json:"newImageUrl,omitempty"`
	Note        string        `bson:"note,omitempty" json:"note,omitempty"`
	Status      RequestStatus `bson:"status" json:"status"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	ResolvedAt  *time.Time    `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	ResolvedBy  string        `bson:"resolvedBy,omitempty" json:"resolvedBy,omitempty"`
}

// Bachelor is the subject record of a graduating student. Records are
// imported in bulk; the service only appends or resolves requests.
type Bachelor struct {
	ID          bson.ObjectID       `bson:"_id,omitempty" json:"-"`
	StudentID   string              `bson:"studentId" json:"studentId"`
	FullName    string              `bson:"fullName" json:"fullName"`
	Email       string              `bson:"email" json:"email"`
	Major       string              `bson:"major" json:"major"`
	Faculty     string              `bson:"faculty" json:"faculty"`
	Date        string              `bson:"date" json:"date"`
	Hall        string              `bson:"hall" json:"hall"`
	Session     Session             `bson:"session" json:"session"`
	Seat        string              `bson:"seat" json:"seat"`
	ParentSeat  string              `bson:"parentSeat" json:"parentSeat"`
	Images      Images              `bson:"images" json:"images"`
	Requests    []CorrectionRequest `bson:"requests,omitempty" json:"requests,omitempty"`
	IsRequested bool                `bson:"isRequested,omitempty" json:"isRequested,omitempty"`
}

// PendingRequest returns the outstanding request, if any.
func (b *Bachelor) PendingRequest() *CorrectionRequest {
	for i := range b.Requests {
		if b.Requests[i].Status == RequestStatusPending {
			return &b.Requests[i]
		}
	}
	return nil
}

// LatestRequest returns the most recently created request, if any.
func (b *Bachelor) LatestRequest() *CorrectionRequest {
	var latest *CorrectionRequest
	for i := range b.Requests {
		if latest == nil || !b.Requests[i].CreatedAt.Before(latest.CreatedAt) {
			latest = &b.Requests[i]
		}
	}
	return latest
}

// BachelorFilter constrains staff listings of requests.
type BachelorFilter struct {
	Status RequestStatus
	Limit  int
	Offset int
}

// BachelorRequestRow flattens one correction request with the owning record's
// display fields for staff listings.
type BachelorRequestRow struct {
	StudentID string            `bson:"studentId"`
	FullName  string            `bson:"fullName"`
	Faculty   string            `bson:"faculty"`
	Hall      string            `bson:"hall"`
	Request   CorrectionRequest `bson:"requests"`
}
