package wifi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorodok-inc/gorodok/internal/infrastructure/wifi"
	"github.com/gorodok-inc/gorodok/internal/interfaces/http/handlers/testutil"
)

func newTestDirectory(t *testing.T) *wifi.Directory {
	t.Helper()
	d, err := wifi.NewDirectory([]wifi.Point{
		{ID: "wp-1", Name: "Центральная площадь", Address: "пл. Ленина", Lat: 55.7539, Lon: 37.6208},
		{ID: "wp-2", Name: "Парк Горького", Address: "ул. Крымский Вал, 9", Lat: 55.7298, Lon: 37.6011},
		{ID: "wp-3", Name: "ВДНХ", Address: "пр. Мира, 119", Lat: 55.8262, Lon: 37.6377},
	})
	require.NoError(t, err)
	return d
}

func TestWifiHandler_Points(t *testing.T) {
	h := NewWifiHandler(newTestDirectory(t), testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/wifi/points", nil)
	h.Points(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp PointsResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.OK)
	assert.Len(t, resp.Points, 3)
}

func TestWifiHandler_Nearest(t *testing.T) {
	h := NewWifiHandler(newTestDirectory(t), testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/wifi/points/nearest", nil)
	testutil.SetQueryParams(c, map[string]string{"lat": "55.73", "lon": "37.60", "limit": "2"})
	h.Nearest(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		OK     bool `json:"ok"`
		Points []struct {
			ID             string  `json:"id"`
			DistanceMeters float64 `json:"distanceMeters"`
		} `json:"points"`
	}
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.Len(t, resp.Points, 2)
	assert.Equal(t, "wp-2", resp.Points[0].ID)
	assert.Equal(t, "wp-1", resp.Points[1].ID)
	assert.Less(t, resp.Points[0].DistanceMeters, resp.Points[1].DistanceMeters)
}

func TestWifiHandler_Nearest_BadParams(t *testing.T) {
	h := NewWifiHandler(newTestDirectory(t), testutil.NewMockLogger())

	for _, params := range []map[string]string{
		{"lon": "37.6"},
		{"lat": "55.7"},
		{"lat": "55.7", "lon": "37.6", "limit": "0"},
		{"lat": "155.7", "lon": "37.6"},
	} {
		c, w := testutil.NewTestContext(http.MethodGet, "/api/wifi/points/nearest", nil)
		testutil.SetQueryParams(c, params)
		h.Nearest(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", params)
	}
}
