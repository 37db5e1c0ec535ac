package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"customer", "admin", "delivery_boy"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), r)
	}
	_, err := ParseRole("user")
	assert.Error(t, err)
}

func TestOrderDecodesUserReferenceForms(t *testing.T) {
	uid := primitive.NewObjectID()
	oid := primitive.NewObjectID()

	populated := `{"_id":"` + oid.Hex() + `","user":{"_id":"` + uid.Hex() + `","name":"Ada"},"orderItems":[],"totalPrice":4,"status":"Pending","createdAt":"2024-05-01T10:00:00Z"}`
	var o Order
	require.NoError(t, json.Unmarshal([]byte(populated), &o))
	assert.Equal(t, uid, o.User.ID)
	assert.Equal(t, "Ada", o.User.Name)
	assert.Nil(t, o.DeliveryBoy)

	bare := `{"_id":"` + oid.Hex() + `","user":"` + uid.Hex() + `","deliveryBoy":"` + uid.Hex() + `","status":"PickedUp"}`
	o = Order{}
	require.NoError(t, json.Unmarshal([]byte(bare), &o))
	assert.Equal(t, uid, o.User.ID)
	assert.Empty(t, o.User.Name)
	require.NotNil(t, o.DeliveryBoy)
	assert.Equal(t, uid, o.DeliveryBoy.ID)
	assert.Equal(t, oid.Hex()[:8], o.ShortID())
	assert.False(t, o.AwaitingPickup())
}

func TestOrderStatusSets(t *testing.T) {
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, OrderStatus("Shipped").Valid())
	assert.False(t, StatusPending.Settable())
	assert.True(t, StatusDelivered.Settable())
	assert.Equal(t, "Out For Delivery", StatusOutForDelivery.Label())
}

func TestResolveAsset(t *testing.T) {
	assert.Equal(t, "", ResolveAsset("http://localhost:5000", ""))
	assert.Equal(t, "https://cdn/x.png", ResolveAsset("http://localhost:5000", "https://cdn/x.png"))
	assert.Equal(t, "http://localhost:5000/uploads/x.png", ResolveAsset("http://localhost:5000/", "/uploads/x.png"))
}

func TestUserHelpers(t *testing.T) {
	users := []User{
		{ID: primitive.NewObjectID(), Role: RoleCustomer},
		{ID: primitive.NewObjectID(), Role: RoleDeliveryBoy},
		{ID: primitive.NewObjectID(), Role: RoleAdmin},
	}
	assert.False(t, users[0].Manageable())
	assert.True(t, users[1].Manageable())
	require.Len(t, DeliveryBoys(users), 1)
	u, ok := FindUser(users, users[2].ID)
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, u.Role)
}
