package admin

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/shared/biztime"
)

var now = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func mustReport(t *testing.T, id string, typ vo.ReportType, status vo.ReportStatus, ts time.Time, payload string) *report.Report {
	t.Helper()
	var raw json.RawMessage
	if payload != "" {
		raw = json.RawMessage(payload)
	}
	r, err := report.ReconstructReport(id, typ, "", status, ts, ts, &report.UserSnapshot{ID: "1", Name: "Иван"}, raw)
	require.NoError(t, err)
	return r
}

func fixture(t *testing.T) []*report.Report {
	return []*report.Report{
		mustReport(t, "RPT-1-aaaaaa", vo.TypeSecurity, vo.StatusNew, now.Add(-2*time.Hour), `{"address":"ул. Мира, 3"}`),
		mustReport(t, "RPT-2-bbbbbb", vo.TypeWifiProblem, vo.StatusResolved, now.Add(-3*24*time.Hour), `{"pointId":"p1","coords":{"lat":55.75,"lon":37.61}}`),
		mustReport(t, "RPT-3-cccccc", vo.TypeGraffiti, vo.StatusNew, now.Add(-10*24*time.Hour), ""),
		mustReport(t, "RPT-4-dddddd", vo.TypeWifiSuggestion, vo.StatusRejected, now.Add(-45*24*time.Hour), ""),
		mustReport(t, "RPT-5-eeeeee", vo.TypeWifiProblem, vo.StatusNew, now.Add(-30*time.Minute), ""),
	}
}

func TestAggregate(t *testing.T) {
	stats := Aggregate(fixture(t), now)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.ByCategory["security"])
	assert.Equal(t, 2, stats.ByCategory["wifi"])
	assert.Equal(t, 1, stats.ByCategory["graffiti"])
	assert.Equal(t, 1, stats.ByCategory["suggestions"])
	assert.Equal(t, 3, stats.ByStatus["new"])
	assert.Equal(t, 0, stats.ByStatus["in_progress"])
	assert.Equal(t, 1, stats.ByStatus["resolved"])
	assert.Equal(t, 1, stats.ByStatus["rejected"])
	assert.Equal(t, 2, stats.Today)
	assert.Equal(t, 3, stats.Week)
	assert.Equal(t, 4, stats.Month)
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil, now)
	assert.Zero(t, stats.Total)
	assert.Len(t, stats.ByCategory, 4)
	assert.Len(t, stats.ByStatus, 4)
}

func TestFilter_AndSemantics(t *testing.T) {
	status := vo.StatusNew
	category := vo.CategoryWifi

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no filter", filter: Filter{}, want: []string{"RPT-5-eeeeee", "RPT-1-aaaaaa", "RPT-2-bbbbbb", "RPT-3-cccccc", "RPT-4-dddddd"}},
		{name: "status only", filter: Filter{Status: &status}, want: []string{"RPT-5-eeeeee", "RPT-1-aaaaaa", "RPT-3-cccccc"}},
		{name: "category only", filter: Filter{Category: &category}, want: []string{"RPT-5-eeeeee", "RPT-2-bbbbbb"}},
		{name: "status and category", filter: Filter{Status: &status, Category: &category}, want: []string{"RPT-5-eeeeee"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(fixture(t), tt.filter)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID())
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSortDesc_Stable(t *testing.T) {
	ts := now.Add(-time.Hour)
	a := mustReport(t, "RPT-1-aaaaaa", vo.TypeGraffiti, vo.StatusNew, ts, "")
	b := mustReport(t, "RPT-2-bbbbbb", vo.TypeGraffiti, vo.StatusNew, ts, "")
	c := mustReport(t, "RPT-3-cccccc", vo.TypeGraffiti, vo.StatusNew, now, "")

	list := []*report.Report{a, b, c}
	SortDesc(list)
	assert.Equal(t, []*report.Report{c, a, b}, list)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	reports := fixture(t)
	reports = append(reports, mustReport(t, "RPT-6-ffffff", vo.TypeSecurity, vo.StatusNew, now,
		`{"description":"он сказал \"стоп\", потом ушёл\nвторая строка"}`))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, reports))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(reports)+1)

	header := records[0]
	assert.Equal(t, reports[0].FieldNames(), header)
	for i, rec := range records[1:] {
		assert.Len(t, rec, len(header))
		assert.Equal(t, reports[i].ID(), rec[0])
	}

	last := records[len(records)-1]
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(last[len(last)-1]), &payload))
	assert.Contains(t, payload["description"], `"стоп"`)
}

func TestWriteCSV_QuotesEveryValue(t *testing.T) {
	r := mustReport(t, "RPT-1-aaaaaa", vo.TypeGraffiti, vo.StatusNew, now, "")

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*report.Report{r}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], `"RPT-1-aaaaaa","graffiti","new",`))
}

func TestWriteCSV_LineBreaksInScalarFields(t *testing.T) {
	r, err := report.ReconstructReport("RPT-7-gggggg", vo.TypeSecurity, "theft\nnight", vo.StatusNew, now, now,
		&report.UserSnapshot{ID: "1", Name: "Иван\r\nПетров"}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*report.Report{r}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"theft\nnight"`)
	assert.NotContains(t, buf.String(), "\r")

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Len(t, records[1], len(records[0]))
}

func TestAggregate_CalendarDayInBusinessTimezone(t *testing.T) {
	require.NoError(t, biztime.Init("Europe/Moscow"))
	msk := biztime.Location()
	at := time.Date(2026, 5, 6, 0, 30, 0, 0, msk)

	reports := []*report.Report{
		mustReport(t, "RPT-1-aaaaaa", vo.TypeSecurity, vo.StatusNew, time.Date(2026, 5, 5, 23, 30, 0, 0, msk), ""),
		mustReport(t, "RPT-2-bbbbbb", vo.TypeSecurity, vo.StatusNew, time.Date(2026, 5, 6, 0, 10, 0, 0, msk), ""),
		mustReport(t, "RPT-3-cccccc", vo.TypeGraffiti, vo.StatusNew, time.Date(2026, 4, 28, 23, 59, 0, 0, msk), ""),
	}

	stats := Aggregate(reports, at)

	assert.Equal(t, 1, stats.Today)
	assert.Equal(t, 2, stats.Week)
	assert.Equal(t, 3, stats.Month)
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, fixture(t)))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string         `json:"id"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "RPT-2-bbbbbb", fc.Features[0].ID)
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	assert.Equal(t, []float64{37.61, 55.75}, fc.Features[0].Geometry.Coordinates)
	assert.Equal(t, "resolved", fc.Features[0].Properties["status"])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("GeoJSON")
	require.NoError(t, err)
	assert.Equal(t, FormatGeoJSON, f)
	assert.Equal(t, "application/geo+json", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}
