package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bitefactory-backend/models"
)

func notificationFilter(unreadOnly bool) bson.M {
	if unreadOnly {
		return bson.M{"is_read": false}
	}
	return bson.M{}
}

func notificationReadUpdate() bson.D {
	return bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_read", Value: true},
	}}}
}

// GetNotifications lists the dispatch audit trail for the dashboard,
// newest first. ?unread=true narrows to records not yet acknowledged.
func GetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		filter := notificationFilter(c.Query("unread") == "true")
		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err := notificationCollection.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing notifications"})
			return
		}
		var records []models.NotificationRecord
		if err := cursor.All(ctx, &records); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while decoding notifications"})
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

// MarkNotificationRead acknowledges one audit record.
func MarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		id, err := primitive.ObjectIDFromHex(c.Param("notification_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
			return
		}

		result, err := notificationCollection.UpdateOne(ctx, bson.M{"_id": id}, notificationReadUpdate())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "notification update failed"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"marked_read": result.ModifiedCount})
	}
}
