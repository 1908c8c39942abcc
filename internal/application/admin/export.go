package admin

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
)

type Format string

const (
	FormatCSV     Format = "csv"
	FormatGeoJSON Format = "geojson"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatGeoJSON:
		return FormatGeoJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatGeoJSON {
		return "application/geo+json"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Extension() string {
	if f == FormatGeoJSON {
		return "geojson"
	}
	return "csv"
}

// Export writes reports in the given format.
func Export(w io.Writer, f Format, reports []*report.Report) error {
	if f == FormatGeoJSON {
		return WriteGeoJSON(w, reports)
	}
	return WriteCSV(w, reports)
}

// WriteCSV writes a header row taken from the fields of the first report
// and one row per report. Every value is double-quoted with embedded quotes
// doubled; object-valued fields are written as their JSON encoding. An empty
// set produces no output.
func WriteCSV(w io.Writer, reports []*report.Report) error {
	if len(reports) == 0 {
		return nil
	}

	bw := bufio.NewWriter(w)
	header := reports[0].FieldNames()
	writeRow(bw, header)

	row := make([]string, len(header))
	for _, r := range reports {
		for i, name := range header {
			row[i], _ = r.Field(name)
		}
		writeRow(bw, row)
	}

	return bw.Flush()
}

func writeRow(w *bufio.Writer, values []string) {
	for i, v := range values {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(quoteField(v))
	}
	w.WriteByte('\n')
}

// fieldEscaper keeps each record on one physical line.
var fieldEscaper = strings.NewReplacer(`"`, `""`, "\r\n", `\n`, "\n", `\n`, "\r", `\r`)

func quoteField(v string) string {
	return `"` + fieldEscaper.Replace(v) + `"`
}

// WriteGeoJSON writes a FeatureCollection with one point feature per report
// that carries coordinates. Reports without coordinates are skipped.
func WriteGeoJSON(w io.Writer, reports []*report.Report) error {
	fc := geojson.NewFeatureCollection()

	for _, r := range reports {
		payload, err := r.TypedPayload()
		if err != nil {
			continue
		}
		coords := payload.Coordinates()
		if coords == nil {
			continue
		}

		feature := geojson.NewPointFeature([]float64{coords.Lon, coords.Lat})
		feature.ID = r.ID()
		feature.SetProperty("type", r.Type().String())
		feature.SetProperty("status", r.Status().String())
		feature.SetProperty("timestamp", r.Snapshot().Timestamp)
		if r.Subtype() != "" {
			feature.SetProperty("subtype", r.Subtype())
		}
		if u := r.User(); u != nil {
			feature.SetProperty("user", u.DisplayName())
		}
		fc.AddFeature(feature)
	}

	raw, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	_, err = w.Write(raw)
	return err
}
