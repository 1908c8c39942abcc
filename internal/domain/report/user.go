package report

import (
	"bytes"
	"encoding/json"
	"strings"
)

// UserSnapshot is a denormalized copy of the submitter taken at creation
// time. It is never refreshed from the user record.
type UserSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// UnmarshalJSON accepts the id either as a string or as a number, since chat
// platforms hand out numeric user ids.
func (u *UserSnapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Name  string          `json:"name"`
		Phone string          `json:"phone"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.Name = raw.Name
	u.Phone = raw.Phone
	u.ID = ""

	id := bytes.TrimSpace(raw.ID)
	if len(id) == 0 || bytes.Equal(id, []byte("null")) {
		return nil
	}
	if id[0] == '"' {
		return json.Unmarshal(id, &u.ID)
	}
	var n json.Number
	if err := json.Unmarshal(id, &n); err != nil {
		return err
	}
	u.ID = n.String()
	return nil
}

// DisplayName returns the name, or the id when no name was captured.
func (u *UserSnapshot) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.ID
}
