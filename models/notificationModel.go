package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationRecord is the audit trail entry written for every
// notification job, whether it was delivered, logged in place of a missing
// transport, or failed in transit.
type NotificationRecord struct {
	ID          primitive.ObjectID `bson:"_id" json:"-"`
	OrderNumber string             `bson:"order_number" json:"orderNumber"`
	Recipient   string             `bson:"recipient" json:"recipient"`
	Subject     string             `bson:"subject" json:"subject"`
	Outcome     string             `bson:"outcome" json:"outcome"`
	Detail      string             `bson:"detail,omitempty" json:"detail,omitempty"`
	IsRead      bool               `bson:"is_read" json:"isRead"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
