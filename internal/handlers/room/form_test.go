package room

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, fields map[string]string) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/rooms", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func TestParseRoomForm(t *testing.T) {
	t.Run("create keeps zero for absent numbers", func(t *testing.T) {
		form, err := parseRoomForm(multipartRequest(t, map[string]string{
			"id":           "7",
			"name":         "Ragdoll Room",
			"capacity":     "4",
			"price_hourly": "12.5",
			"active":       "false",
		}))
		require.NoError(t, err)

		req := form.create()
		assert.Equal(t, "7", req.ID)
		assert.Equal(t, 4, req.Capacity)
		assert.InDelta(t, 12.5, req.PriceHourly, 0.001)
		assert.Zero(t, req.PriceDaily)
		require.NotNil(t, req.Active)
		assert.False(t, *req.Active)
		assert.Nil(t, req.Image)
	})

	t.Run("update leaves absent fields nil", func(t *testing.T) {
		form, err := parseRoomForm(multipartRequest(t, map[string]string{"price_daily": "80"}))
		require.NoError(t, err)

		req := form.update()
		assert.Nil(t, req.Capacity)
		assert.Nil(t, req.PriceHourly)
		require.NotNil(t, req.PriceDaily)
		assert.InDelta(t, 80.0, *req.PriceDaily, 0.001)
		assert.Nil(t, req.Active)
	})

	t.Run("bad numbers are rejected", func(t *testing.T) {
		_, err := parseRoomForm(multipartRequest(t, map[string]string{"capacity": "lots"}))
		assert.ErrorContains(t, err, "capacity")

		_, err = parseRoomForm(multipartRequest(t, map[string]string{"price_monthly": "cheap"}))
		assert.ErrorContains(t, err, "price_monthly")
	})

	t.Run("not multipart", func(t *testing.T) {
		_, err := parseRoomForm(httptest.NewRequest(http.MethodPost, "/v1/rooms", nil))
		assert.Error(t, err)
	})
}

func TestListFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/rooms?name=cal&active=true", nil)

	filter := listFilter(req)

	assert.Len(t, filter.Filters, 2)
}
