package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MissingInformation is a standalone filing from a student whose record lacks
// personal details. At most one pending filing may exist per student.
type MissingInformation struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID   string        `bson:"studentId" json:"studentId"`
	FullName    string        `bson:"fullName" json:"fullName"`
	Email       string        `bson:"email" json:"email"`
	PhoneNumber string        `bson:"phoneNumber" json:"phoneNumber"`
	Note        string        `bson:"note" json:"note"`
	Status      RequestStatus `bson:"status" json:"status"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}
