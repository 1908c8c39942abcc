package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
)

func firstInvalidField(t *testing.T, p Payload) string {
	t.Helper()
	err := p.Validate()
	if err == nil {
		return ""
	}
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	return ve.Field
}

func TestSecurityPayload_Validate(t *testing.T) {
	coords := &vo.Coordinates{Lat: 55.75, Lon: 37.61}

	tests := []struct {
		name   string
		mutate func(p *SecurityPayload)
		field  string
	}{
		{"valid with address", func(p *SecurityPayload) {}, ""},
		{"valid with coordinates", func(p *SecurityPayload) { p.Address = ""; p.Location = coords }, ""},
		{"empty name", func(p *SecurityPayload) { p.Name = "  " }, "name"},
		{"bad phone", func(p *SecurityPayload) { p.Phone = "12345" }, "phone"},
		{"no location", func(p *SecurityPayload) { p.Address = "" }, "location"},
		{"both locations", func(p *SecurityPayload) { p.Location = coords }, "location"},
		{"no category", func(p *SecurityPayload) { p.Category = "" }, "category"},
		{"short description", func(p *SecurityPayload) { p.Description = strings.Repeat("ж", 29) }, "description"},
		{"padded short description", func(p *SecurityPayload) { p.Description = "  " + strings.Repeat("ж", 29) + "  " }, "description"},
		// first unmet constraint wins
		{"name before phone", func(p *SecurityPayload) { p.Name = ""; p.Phone = "" }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validSecurityPayload()
			tt.mutate(&p)
			assert.Equal(t, tt.field, firstInvalidField(t, p))
		})
	}
}

func TestCharCount_NormalizesCombiningMarks(t *testing.T) {
	// "й" written as и + combining breve counts as one character
	decomposed := "\u0438\u0306"
	assert.Equal(t, 1, CharCount(decomposed))
	assert.Equal(t, 3, CharCount("  abc "))
}

func TestGraffitiPayload_Validate(t *testing.T) {
	photo := NewPhoto("wall.png", pngHeader)
	require.Equal(t, "image/png", photo.MimeType)

	tests := []struct {
		name    string
		payload GraffitiPayload
		field   string
		message string
	}{
		{"valid", GraffitiPayload{Location: "двор", Description: "теги", Photos: []Photo{photo}}, "", ""},
		{"no photos", GraffitiPayload{Location: "двор", Description: "теги"}, "photos", "add at least one photo"},
		{"too many photos", GraffitiPayload{Location: "двор", Description: "теги", Photos: []Photo{photo, photo, photo, photo}}, "photos", ""},
		{"too large", GraffitiPayload{Location: "двор", Description: "теги", Photos: []Photo{{Name: "big.jpg", Size: MaxPhotoSize + 1, MimeType: "image/jpeg"}}}, "photos", ""},
		{"declared image but text bytes", GraffitiPayload{Location: "двор", Description: "теги", Photos: []Photo{{Name: "x.jpg", Size: 4, MimeType: "image/jpeg", Data: []byte("text")}}}, "photos", ""},
		{"not an image", GraffitiPayload{Location: "двор", Description: "теги", Photos: []Photo{{Name: "doc.pdf", Size: 10, MimeType: "application/pdf"}}}, "photos", ""},
		{"no location", GraffitiPayload{Description: "теги", Photos: []Photo{photo}}, "location", ""},
		{"no description", GraffitiPayload{Location: "двор", Photos: []Photo{photo}}, "description", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.field, firstInvalidField(t, tt.payload))
			if tt.message != "" {
				assert.EqualError(t, tt.payload.Validate(), tt.message)
			}
		})
	}
}

func TestWifiPayloads_Validate(t *testing.T) {
	assert.Equal(t, "", firstInvalidField(t, WifiProblemPayload{PointID: "p1", Description: "медленно"}))
	assert.Equal(t, "pointId", firstInvalidField(t, WifiProblemPayload{Description: "медленно"}))
	assert.Equal(t, "description", firstInvalidField(t, WifiProblemPayload{PointID: "p1"}))

	assert.Equal(t, "", firstInvalidField(t, WifiSuggestionPayload{Name: "Парк", Address: "ул. Мира"}))
	assert.Equal(t, "name", firstInvalidField(t, WifiSuggestionPayload{Address: "ул. Мира"}))
	assert.Equal(t, "address", firstInvalidField(t, WifiSuggestionPayload{Name: "Парк"}))
}

func TestDecodePayload(t *testing.T) {
	for _, typ := range vo.AllTypes {
		p, err := DecodePayload(typ, []byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, typ, p.Type())
	}

	p, err := DecodePayload(vo.TypeSecurity, []byte(`{"name":"a","location":{"lat":1,"lon":2}}`))
	require.NoError(t, err)
	assert.Equal(t, &vo.Coordinates{Lat: 1, Lon: 2}, p.Coordinates())

	_, err = DecodePayload(vo.ReportType("parking"), nil)
	assert.Error(t, err)

	_, err = DecodePayload(vo.TypeGraffiti, []byte(`[1,2]`))
	assert.Error(t, err)
}
