package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNotificationFilter(t *testing.T) {
	assert.Equal(t, bson.M{"is_read": false}, notificationFilter(true))
	assert.Equal(t, bson.M{}, notificationFilter(false))
}

func TestNotificationReadUpdateOnlyTouchesReadFlag(t *testing.T) {
	update := notificationReadUpdate()
	require.Len(t, update, 1)
	assert.Equal(t, "$set", update[0].Key)

	set, ok := update[0].Value.(bson.D)
	require.True(t, ok)
	require.Len(t, set, 1)
	assert.Equal(t, "is_read", set[0].Key)
	assert.Equal(t, true, set[0].Value)
}
