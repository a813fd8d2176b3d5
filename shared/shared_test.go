package shared_test

import (
	"context"
	"errors"
	"ofcoz/shared"
	cacheMocks "ofcoz/shared/cache/mocks"
	"ofcoz/shared/constant"
	"ofcoz/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		input    string
		expected *bool
	}{
		{input: "", expected: nil},
		{input: "true", expected: boolPtr(true)},
		{input: "0", expected: boolPtr(false)},
		{input: "F", expected: boolPtr(false)},
		{input: "maybe", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestConvertStringToNumbers(t *testing.T) {
	i, err := shared.ConvertStringToInt(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, i)

	_, err = shared.ConvertStringToInt("twelve")
	assert.Error(t, err)

	f, err := shared.ConvertStringToFloat("1.5")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, f, 0.0001)
}

func TestCalculateTotalPage(t *testing.T) {
	assert.Equal(t, 1, shared.CalculateTotalPage(0, 10))
	assert.Equal(t, 1, shared.CalculateTotalPage(100, 0))
	assert.Equal(t, 10, shared.CalculateTotalPage(100, 10))
	assert.Equal(t, 11, shared.CalculateTotalPage(101, 10))
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Purpose  string   `db:"purpose"`
		Guests   *int     `db:"guests"`
		Status   string   `db:"status"`
		Skipped  string   `db:"-"`
		Untagged string
	}

	zero := 0
	result := shared.TransformFields(update{
		Purpose:  "team meeting",
		Guests:   &zero,
		Skipped:  "ignored",
		Untagged: "ignored",
	}, "admin-1")

	assert.Equal(t, "team meeting", result["purpose"])
	assert.Equal(t, &zero, result["guests"])
	assert.NotContains(t, result, "status")
	assert.NotContains(t, result, "-")
	assert.Equal(t, "admin-1", result[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, result[constant.FieldModifiedAt])
	assert.Len(t, result, 4)
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID("b-1", "id", "bookings")

	where, args := filter.GetWhereClause()

	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, "b-1", args["id"])
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get", shared.BuildCacheKey("booking:get"))
	assert.Equal(t, "booking:get:b-1", shared.BuildCacheKey("booking:get", "b-1"))
	assert.Equal(t, "limiter:1.2.3.4:curl", shared.BuildCacheKey("limiter", "1.2.3.4", "curl"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	filterA := shared.FilterByID("room-1", "room_id", "bookings")
	filterB := shared.FilterByID("room-2", "room_id", "bookings")

	keyA := shared.BuildCacheKeyWithQuery("booking:gets", params, filterA)

	assert.Equal(t, keyA, shared.BuildCacheKeyWithQuery("booking:gets", params, filterA))
	assert.NotEqual(t, keyA, shared.BuildCacheKeyWithQuery("booking:gets", params, filterB))
	assert.Contains(t, keyA, "booking:gets:")
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "booking:gets*").Return(nil)
	mockCache.EXPECT().Clear(gomock.Any(), "booking:count*").Return(errors.New("redis down"))

	shared.InvalidateCaches(context.Background(), mockCache, "booking:gets", "booking:count")
}

func TestActor(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)

	userID, role := shared.Actor(ctx)

	assert.Equal(t, "user-1", userID)
	assert.True(t, shared.IsAdmin(role))
	assert.True(t, shared.IsAdmin(constant.RoleSuperAdmin))
	assert.False(t, shared.IsAdmin(constant.RoleUser))

	emptyID, emptyRole := shared.Actor(context.Background())
	assert.Empty(t, emptyID)
	assert.Empty(t, emptyRole)
}

func boolPtr(b bool) *bool {
	return &b
}
