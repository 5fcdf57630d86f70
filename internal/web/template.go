package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/habitat-control/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"rfc3339": func(t time.Time) string {
		if t.IsZero() {
			return "—"
		}
		return t.UTC().Format(time.RFC3339)
	},
	"orDash": func(s string) string {
		if s == "" {
			return "—"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Habitat Control</title>
<style>
body { font-family: monospace; max-width: 720px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
.connected { color: green; }
.disconnected { color: red; }
.error { color: red; }
</style>
</head>
<body>
<h1>Habitat Control</h1>

<h2>Controllers</h2>
<table>
<tr><th>Name</th><th>Last Transition</th><th>Reading</th><th>Fired At</th><th>Messages</th></tr>
{{range .Controllers}}<tr>
<td>{{.Name}}</td>
<td>{{orDash .LastContent}}</td>
<td>{{orDash .LastReadState}}</td>
<td>{{rfc3339 .LastFired}}</td>
<td>{{.Messages}}</td>
</tr>{{end}}
</table>

<h2>Daemon</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{rfc3339 .StartTime}}</td></tr>
<tr><th>Instance</th><td>{{.InstanceID}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}})</td></tr>
<tr><th>Messages</th><td>{{.MessageCount}}</td></tr>
<tr><th>Errors</th><td{{if .LastError}} class="error"{{end}}>{{.ErrorCount}}{{if .LastError}} — {{.LastError}}{{end}}</td></tr>
</table>

<h2>Recent Messages</h2>
<table>
<tr><th>Time</th><th>Controller</th><th>Transition</th><th>Reading</th></tr>
{{range .RecentNewestFirst}}<tr>
<td>{{rfc3339 .Timestamp}}</td>
<td>{{.Name}}</td>
<td>{{.Content}}</td>
<td>{{orDash .ReadState}}</td>
</tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

// templateData wraps a snapshot with helpers the template needs.
type templateData struct {
	status.Snapshot
	Uptime time.Duration
}

// RecentNewestFirst returns the recent messages newest-first for
// display.
func (d templateData) RecentNewestFirst() []statusMessage {
	out := make([]statusMessage, 0, len(d.Recent))
	for i := len(d.Recent) - 1; i >= 0; i-- {
		m := d.Recent[i]
		out = append(out, statusMessage{
			Name:      m.Name,
			Content:   m.Content,
			Timestamp: m.Timestamp,
			ReadState: m.ReadState,
		})
	}
	return out
}

type statusMessage struct {
	Name      string
	Content   string
	Timestamp time.Time
	ReadState string
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := templateData{Snapshot: snap, Uptime: snap.Uptime()}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
