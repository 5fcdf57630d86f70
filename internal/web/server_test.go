package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/habitat-control/internal/control"
	"github.com/sweeney/habitat-control/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:      1000,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":8080",
	}
	tr := status.NewTracker(start, "instance-1", []string{"heater", "grow-light"}, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Record(control.Message{
		Name:      "heater",
		Content:   "Below Threshold",
		Timestamp: time.Date(2026, 3, 1, 0, 5, 0, 0, time.UTC),
		ReadState: "19.5",
	})
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if len(sj.Status.Controllers) != 2 {
		t.Fatalf("controllers: got %d, want 2", len(sj.Status.Controllers))
	}
	if sj.Status.Controllers[0].Name != "heater" {
		t.Errorf("first controller: got %q, want heater", sj.Status.Controllers[0].Name)
	}
	if sj.Status.Controllers[0].LastContent != "Below Threshold" {
		t.Errorf("last content: got %q", sj.Status.Controllers[0].LastContent)
	}
	if sj.Status.Controllers[0].LastReadState != "19.5" {
		t.Errorf("last read state: got %q", sj.Status.Controllers[0].LastReadState)
	}
	if sj.Status.Controllers[1].LastContent != "" {
		t.Errorf("grow-light should have no activity yet, got %q", sj.Status.Controllers[1].LastContent)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT.Broker: got %q", sj.Status.MQTT.Broker)
	}
	if len(sj.Status.Recent) != 1 {
		t.Fatalf("recent messages: got %d, want 1", len(sj.Status.Recent))
	}
	if sj.Status.Recent[0].Timestamp != "2026-03-01T00:05:00Z" {
		t.Errorf("recent timestamp: got %q", sj.Status.Recent[0].Timestamp)
	}
	if sj.Status.InstanceID != "instance-1" {
		t.Errorf("instance id: got %q", sj.Status.InstanceID)
	}
	if sj.Status.Config.PollMs != 1000 {
		t.Errorf("Config.PollMs: got %d, want 1000", sj.Status.Config.PollMs)
	}
}

func TestHTMLEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Record(control.Message{
		Name:      "grow-light",
		Content:   "Activated",
		Timestamp: time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC),
	})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	html := string(body)

	for _, want := range []string{"Habitat Control", "heater", "grow-light", "Activated"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}
