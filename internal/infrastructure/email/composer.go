package email

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/shared/biztime"
	"github.com/gorodok-inc/gorodok/internal/shared/services/markdown"
)

var typeTitles = map[vo.ReportType]string{
	vo.TypeSecurity:       "Security incident",
	vo.TypeWifiProblem:    "Wi-Fi problem",
	vo.TypeWifiSuggestion: "Wi-Fi point suggestion",
	vo.TypeGraffiti:       "Graffiti",
}

// Composer turns a stored report into a notification.
type Composer struct {
	renderer markdown.Renderer
	webapp   Webapp
}

func NewComposer(renderer markdown.Renderer, platform, version string) *Composer {
	return &Composer{
		renderer: renderer,
		webapp:   Webapp{Platform: platform, Version: version},
	}
}

func (c *Composer) Compose(r *report.Report, to string) (*Notification, error) {
	title := typeTitles[r.Type()]
	subject := fmt.Sprintf("[%s] %s", title, r.ID())
	if r.Subtype() != "" {
		subject = fmt.Sprintf("[%s: %s] %s", title, r.Subtype(), r.ID())
	}

	body := c.body(r, title)
	html, err := c.renderer.ToHTML(body)
	if err != nil {
		return nil, err
	}

	webapp := c.webapp
	webapp.User = r.User().DisplayName()

	return &Notification{
		To:      to,
		Subject: subject,
		Text:    body,
		HTML:    html,
		Meta: map[string]string{
			"reportId":  r.ID(),
			"type":      r.Type().String(),
			"category":  r.Category().String(),
			"timestamp": biztime.FormatISO(r.Timestamp()),
		},
		Webapp: webapp,
	}, nil
}

func (c *Composer) body(r *report.Report, title string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- **ID:** %s\n", markdown.Escape(r.ID()))
	if r.Subtype() != "" {
		fmt.Fprintf(&b, "- **Category:** %s\n", markdown.Escape(r.Subtype()))
	}
	fmt.Fprintf(&b, "- **Submitted:** %s\n",
		r.Timestamp().In(biztime.Location()).Format("02.01.2006 15:04 MST"))
	if u := r.User(); u != nil {
		from := markdown.Escape(u.DisplayName())
		if u.Phone != "" {
			from += " (" + markdown.Escape(u.Phone) + ")"
		}
		fmt.Fprintf(&b, "- **From:** %s\n", from)
	}

	fields := payloadFields(r.Payload())
	if len(fields) > 0 {
		b.WriteString("\n## Details\n\n")
		for _, f := range fields {
			fmt.Fprintf(&b, "- **%s:** %s\n", markdown.Escape(f[0]), markdown.Escape(f[1]))
		}
	}
	return b.String()
}

// payloadFields flattens the top level of the payload object into sorted
// key/value pairs. Nested values are kept as compact JSON.
func payloadFields(raw json.RawMessage) [][2]string {
	var obj map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &obj) != nil {
		return nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		v := obj[k]
		var s string
		if json.Unmarshal(v, &s) != nil {
			s = string(v)
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, [2]string{k, s})
	}
	return out
}
