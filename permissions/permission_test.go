package permissions_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofcoz/permissions"
)

func TestGet_LoadsEmbeddedPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)
	assert.NotEmpty(t, data.Endpoints)
	assert.False(t, data.Skip)
}

func TestPermissionData_FindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name      string
		path      string
		method    string
		wantSkip  bool
		wantRoles []string
	}{
		{name: "public login", path: "/v1/auth/login", method: http.MethodPost, wantSkip: true},
		{name: "room list with trailing slash", path: "/v1/rooms/", method: http.MethodGet, wantSkip: true},
		{name: "logout is public", path: "/v1/auth/logout", method: http.MethodPost, wantSkip: true},
		{name: "quote is public", path: "/v1/bookings/quote", method: http.MethodPost, wantSkip: true},
		{name: "confirm payment is admin only", path: "/v1/bookings/{id}/confirm-payment", method: http.MethodPost, wantRoles: []string{"admin", "superadmin"}},
		{name: "unknown route", path: "/v1/unknown", method: http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.wantSkip, permission.Skip)
			assert.Equal(t, tt.wantRoles, permission.Permissions)
		})
	}
}

func TestPermission_Allows(t *testing.T) {
	adminOnly := permissions.Permission{Permissions: []string{"admin", "superadmin"}}

	assert.True(t, adminOnly.Allows("admin"))
	assert.False(t, adminOnly.Allows("user"))
	assert.True(t, permissions.Permission{}.Allows("user"))
}

func TestPermissionData_FindWithoutGet(t *testing.T) {
	data := &permissions.PermissionData{Endpoints: []permissions.Permission{
		{Path: "/v1/rooms/", Method: http.MethodGet, Skip: true},
	}}

	assert.True(t, data.FindPermissions("/v1/rooms", http.MethodGet).Skip)
}
