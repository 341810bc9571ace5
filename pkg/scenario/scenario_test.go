package scenario

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/offlinefirst/squirrel/pkg/geometry"
	"github.com/offlinefirst/squirrel/pkg/inject"
)

func TestLoadAndRunFlick(t *testing.T) {
	script, err := Load("testdata/flick.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	transcript, err := Run(script, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !transcript.Balanced || transcript.Active {
		t.Fatalf("expected balanced idle transcript, got balanced=%t active=%t", transcript.Balanced, transcript.Active)
	}
	stats := transcript.Stats
	if stats.Interactions != 2 {
		t.Fatalf("expected two interactions, got %d", stats.Interactions)
	}
	if stats.MomentumDropped != 1 {
		t.Fatalf("expected one dropped momentum event, got %d", stats.MomentumDropped)
	}
	if stats.Drags != 10 {
		t.Fatalf("expected the first drag to flush in ten steps, got %d", stats.Drags)
	}
	if stats.Restores != 2 {
		t.Fatalf("expected two cursor restores, got %d", stats.Restores)
	}

	var ups []Entry
	for _, e := range transcript.Entries {
		if e.Kind == "mouse_up" {
			ups = append(ups, e)
		}
	}
	if len(ups) != 2 {
		t.Fatalf("expected two mouse ups, got %d", len(ups))
	}
	if ups[0].Point != (geometry.Point{X: 200, Y: 500}) {
		t.Fatalf("expected first release at the full target, got %v", ups[0].Point)
	}
	if ups[1].Point != (geometry.Point{X: 200, Y: 400}) {
		t.Fatalf("expected cancelled release at the origin, got %v", ups[1].Point)
	}
}

func TestRunDrainUsesFastCadence(t *testing.T) {
	script, err := Parse([]byte(`
screens: [{x: 0, y: 0, width: 1000, height: 2000}]
targets: [{x: 0, y: 0, width: 400, height: 800}]
steps:
  - scroll: {x: 200, y: 400, delta: 100}
  - scroll: {x: 900, y: 400, delta: 5}
  - ticks: 10
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	transcript, err := Run(script, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if transcript.Active {
		t.Fatalf("expected drain to finish within ten ticks")
	}
	last := transcript.Entries[len(transcript.Entries)-1]
	if last.Kind != "mouse_up" || last.At.Milliseconds() != 10 {
		t.Fatalf("expected release after ten 1ms ticks, got %s at %v", last.Kind, last.At)
	}
}

func TestRunSettleAndFailures(t *testing.T) {
	script, err := Parse([]byte(`
screens: [{x: 0, y: 0, width: 1000, height: 2000}]
targets: [{x: 0, y: 0, width: 400, height: 800}]
steps:
  - scroll: {x: 200, y: 400, delta: 40}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	transcript, err := Run(script, Options{Settle: true, FailKinds: []inject.Kind{inject.KindMouseDragged}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if transcript.Active || !transcript.Balanced {
		t.Fatalf("expected settle to release the button")
	}
	if transcript.Stats.PostFailures != 10 {
		t.Fatalf("expected ten failed drags, got %d", transcript.Stats.PostFailures)
	}
	if transcript.Stats.Restores != 1 {
		t.Fatalf("expected settle to fire the restore")
	}

	var text bytes.Buffer
	if err := transcript.WriteText(&text); err != nil {
		t.Fatalf("write text: %v", err)
	}
	if !strings.Contains(text.String(), "(failed)") || !strings.Contains(text.String(), "Balanced: true") {
		t.Fatalf("unexpected text transcript:\n%s", text.String())
	}

	var out bytes.Buffer
	if err := transcript.WriteJSON(&out); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json transcript: %v", err)
	}
	if decoded["balanced"] != true {
		t.Fatalf("expected balanced flag in json, got %v", decoded["balanced"])
	}
}

func TestParseRejectsBadScripts(t *testing.T) {
	cases := map[string]string{
		"no steps":     "targets: []\n",
		"two actions":  "steps:\n  - {ticks: 2, cancel: true}\n",
		"bad phase":    "steps:\n  - scroll: {x: 1, y: 1, delta: 1, phase: sideways}\n",
		"unknown key":  "steps:\n  - wiggle: true\n",
		"bad settings": "settings: {step_count: -1}\nsteps:\n  - ticks: 1\n",
	}
	for name, body := range cases {
		if _, err := Parse([]byte(body)); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestDisableStepStopsInteraction(t *testing.T) {
	script, err := Parse([]byte(`
screens: [{x: 0, y: 0, width: 1000, height: 2000}]
targets: [{x: 0, y: 0, width: 400, height: 800}]
steps:
  - scroll: {x: 200, y: 400, delta: 100}
  - ticks: 3
  - enabled: false
  - scroll: {x: 200, y: 400, delta: 100}
  - advance: 1s
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	transcript, err := Run(script, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if transcript.Stats.Interactions != 1 || transcript.Stats.Restores != 0 {
		t.Fatalf("unexpected stats after disable: %+v", transcript.Stats)
	}
	last := transcript.Entries[len(transcript.Entries)-1]
	if last.Kind != "mouse_up" || last.Point != (geometry.Point{X: 200, Y: 430}) {
		t.Fatalf("expected release at the dragged position, got %+v", last)
	}
}
