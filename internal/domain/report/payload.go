package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
)

// MinDescriptionLength is the minimal security description length in characters.
const MinDescriptionLength = 30

// Payload is the category-specific part of a report. The set of variants is
// closed: SecurityPayload, GraffitiPayload, WifiProblemPayload and
// WifiSuggestionPayload.
type Payload interface {
	Type() vo.ReportType
	Subtype() string
	// Validate returns the first unmet constraint as a *ValidationError.
	Validate() error
	// Coordinates returns the report position, or nil when only text is known.
	Coordinates() *vo.Coordinates
	sealed()
}

// SecurityPayload is a security incident. Location and Address are mutually
// exclusive.
type SecurityPayload struct {
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Location    *vo.Coordinates `json:"location,omitempty"`
	Address     string          `json:"address,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Urgency     string          `json:"urgency,omitempty"`
}

func (SecurityPayload) Type() vo.ReportType { return vo.TypeSecurity }

func (p SecurityPayload) Subtype() string { return p.Category }

func (p SecurityPayload) Coordinates() *vo.Coordinates { return p.Location }

func (SecurityPayload) sealed() {}

func (p SecurityPayload) Validate() error {
	if err := p.ValidateIdentity(); err != nil {
		return err
	}
	if err := p.ValidateLocation(); err != nil {
		return err
	}
	return p.ValidateDetails()
}

// ValidateIdentity checks the name and phone.
func (p SecurityPayload) ValidateIdentity() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "enter your name")
	}
	if !vo.IsRussianMobile(p.Phone) {
		return invalid("phone", "enter a valid mobile phone number")
	}
	return nil
}

// ValidateLocation requires exactly one of coordinates or address.
func (p SecurityPayload) ValidateLocation() error {
	hasAddress := strings.TrimSpace(p.Address) != ""
	if p.Location == nil && !hasAddress {
		return invalid("location", "set your location or enter an address")
	}
	if p.Location != nil && hasAddress {
		return invalid("location", "use either your location or an address, not both")
	}
	if p.Location != nil {
		if _, err := vo.NewCoordinates(p.Location.Lat, p.Location.Lon); err != nil {
			return invalid("location", "location coordinates are out of range")
		}
	}
	return nil
}

// ValidateDetails checks the incident category and description.
func (p SecurityPayload) ValidateDetails() error {
	if strings.TrimSpace(p.Category) == "" {
		return invalid("category", "choose an incident category")
	}
	if CharCount(p.Description) < MinDescriptionLength {
		return invalid("description", fmt.Sprintf("description must be at least %d characters", MinDescriptionLength))
	}
	return nil
}

// GraffitiPayload is a graffiti sighting.
type GraffitiPayload struct {
	Location    string          `json:"location"`
	Coords      *vo.Coordinates `json:"coords,omitempty"`
	Description string          `json:"description"`
	Photos      []Photo         `json:"photos"`
}

func (GraffitiPayload) Type() vo.ReportType { return vo.TypeGraffiti }

func (GraffitiPayload) Subtype() string { return "" }

func (p GraffitiPayload) Coordinates() *vo.Coordinates { return p.Coords }

func (GraffitiPayload) sealed() {}

func (p GraffitiPayload) Validate() error {
	if strings.TrimSpace(p.Location) == "" {
		return invalid("location", "enter where the graffiti is")
	}
	if strings.TrimSpace(p.Description) == "" {
		return invalid("description", "describe the graffiti")
	}
	return validatePhotos(p.Photos)
}

// WifiProblemPayload reports a problem with a known Wi-Fi point.
type WifiProblemPayload struct {
	PointID     string          `json:"pointId"`
	PointName   string          `json:"pointName,omitempty"`
	Problem     string          `json:"problem,omitempty"`
	Description string          `json:"description"`
	Coords      *vo.Coordinates `json:"coords,omitempty"`
}

func (WifiProblemPayload) Type() vo.ReportType { return vo.TypeWifiProblem }

func (p WifiProblemPayload) Subtype() string { return p.Problem }

func (p WifiProblemPayload) Coordinates() *vo.Coordinates { return p.Coords }

func (WifiProblemPayload) sealed() {}

func (p WifiProblemPayload) Validate() error {
	if strings.TrimSpace(p.PointID) == "" {
		return invalid("pointId", "select a Wi-Fi point")
	}
	if strings.TrimSpace(p.Description) == "" {
		return invalid("description", "describe the problem")
	}
	return nil
}

// WifiSuggestionPayload proposes a new Wi-Fi point.
type WifiSuggestionPayload struct {
	Name    string          `json:"name"`
	Address string          `json:"address"`
	Comment string          `json:"comment,omitempty"`
	Coords  *vo.Coordinates `json:"coords,omitempty"`
}

func (WifiSuggestionPayload) Type() vo.ReportType { return vo.TypeWifiSuggestion }

func (WifiSuggestionPayload) Subtype() string { return "" }

func (p WifiSuggestionPayload) Coordinates() *vo.Coordinates { return p.Coords }

func (WifiSuggestionPayload) sealed() {}

func (p WifiSuggestionPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "enter a name for the place")
	}
	if strings.TrimSpace(p.Address) == "" {
		return invalid("address", "enter the address")
	}
	return nil
}

// DecodePayload parses raw JSON into the variant owned by t.
func DecodePayload(t vo.ReportType, raw []byte) (Payload, error) {
	switch t {
	case vo.TypeSecurity:
		return decodeInto[SecurityPayload](raw)
	case vo.TypeGraffiti:
		return decodeInto[GraffitiPayload](raw)
	case vo.TypeWifiProblem:
		return decodeInto[WifiProblemPayload](raw)
	case vo.TypeWifiSuggestion:
		return decodeInto[WifiSuggestionPayload](raw)
	}
	return nil, fmt.Errorf("invalid report type: %s", t)
}

func decodeInto[P Payload](raw []byte) (Payload, error) {
	var p P
	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", p.Type(), err)
	}
	return p, nil
}

// CharCount counts user-visible characters: NFC-normalised, trimmed, in runes.
func CharCount(s string) int {
	return len([]rune(strings.TrimSpace(norm.NFC.String(s))))
}
