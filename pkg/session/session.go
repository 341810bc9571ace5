// Package session writes the JSON report describing one run of the
// translator: what it was configured with, which backends were available,
// how the enable switch moved and what the engine did.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/offlinefirst/squirrel/pkg/config"
	"github.com/offlinefirst/squirrel/pkg/engine"
)

// SchemaVersion captures the report version for compatibility checks.
const SchemaVersion = 1

// Settings records the engine settings the session started with.
type Settings struct {
	NaturalScrolling  bool   `json:"natural_scrolling"`
	StepCount         int    `json:"step_count"`
	TickInterval      string `json:"tick_interval"`
	DrainTickInterval string `json:"drain_tick_interval"`
	RestoreCursor     string `json:"restore_cursor"`
	RestoreDelay      string `json:"restore_delay"`
	CancelKey         int    `json:"cancel_key"`
	Targets           int    `json:"targets"`
	Screens           int    `json:"screens"`
}

// Status summarises the lifecycle of a session.
type Status struct {
	State       string            `json:"state"`
	Summary     string            `json:"summary,omitempty"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	EndedAt     *time.Time        `json:"ended_at,omitempty"`
	Termination string            `json:"termination,omitempty"`
	Timeline    []TimelineEntry   `json:"timeline,omitempty"`
	Subsystems  []SubsystemStatus `json:"subsystems,omitempty"`
}

// TimelineEntry records a switch transition or a configuration reload.
type TimelineEntry struct {
	State     string    `json:"state"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SubsystemStatus captures availability details for the tap or injector.
type SubsystemStatus struct {
	Name       string `json:"name"`
	Available  bool   `json:"available"`
	Provider   string `json:"provider,omitempty"`
	Permission string `json:"permission,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Report is the durable record of a session.
type Report struct {
	SchemaVersion int          `json:"schema_version"`
	SessionID     string       `json:"session_id"`
	CreatedAt     time.Time    `json:"created_at"`
	Hostname      string       `json:"hostname"`
	AppVersion    string       `json:"app_version"`
	ConfigSource  string       `json:"config_source"`
	Settings      Settings     `json:"settings"`
	Status        Status       `json:"status"`
	Stats         engine.Stats `json:"stats"`
}

// Options captures the knobs for creating a new report.
type Options struct {
	SessionID  string
	CreatedAt  time.Time
	Hostname   string
	AppVersion string
	Config     config.Config
}

// New constructs a pending report.
func New(opts Options) Report {
	cfg := opts.Config
	return Report{
		SchemaVersion: SchemaVersion,
		SessionID:     opts.SessionID,
		CreatedAt:     opts.CreatedAt.UTC(),
		Hostname:      opts.Hostname,
		AppVersion:    opts.AppVersion,
		ConfigSource:  cfg.Source,
		Settings: Settings{
			NaturalScrolling:  cfg.Scroll.NaturalScrolling,
			StepCount:         cfg.Scroll.StepCount,
			TickInterval:      cfg.Scroll.TickInterval.String(),
			DrainTickInterval: cfg.Scroll.DrainTickInterval.String(),
			RestoreCursor:     cfg.Scroll.RestoreCursor,
			RestoreDelay:      cfg.Scroll.RestoreDelay.String(),
			CancelKey:         cfg.CancelKey,
			Targets:           len(cfg.Targets),
			Screens:           len(cfg.Screens),
		},
		Status: Status{State: "pending"},
	}
}

// Record appends a timeline entry.
func (r *Report) Record(state, reason string, at time.Time) {
	r.Status.Timeline = append(r.Status.Timeline, TimelineEntry{
		State:     state,
		Reason:    reason,
		Timestamp: at.UTC(),
	})
}

// Start marks the session running.
func (r *Report) Start(at time.Time) {
	started := at.UTC()
	r.Status.State = "running"
	r.Status.StartedAt = &started
}

// Finish marks the session ended. A non-nil err marks it failed.
func (r *Report) Finish(at time.Time, termination string, stats engine.Stats, err error) {
	ended := at.UTC()
	r.Status.EndedAt = &ended
	r.Status.Termination = termination
	r.Stats = stats
	if err != nil {
		r.Status.State = "failed"
		r.Status.Summary = err.Error()
		return
	}
	r.Status.State = "completed"
	r.Status.Summary = fmt.Sprintf("%d interactions, %d drags", stats.Interactions, stats.Drags)
}

// Save writes the report JSON to disk with indentation for readability.
func Save(r Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Load reads a report JSON file from disk.
func Load(path string) (Report, error) {
	var r Report
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read report: %w", err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}

// ResolvePath chooses a report file name derived from the timestamp and
// avoids collisions with earlier sessions.
func ResolvePath(dir string, now time.Time) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("report directory must not be empty")
	}

	base := "session_" + now.UTC().Format("20060102_150405")
	candidate := base
	suffix := 1
	for {
		path := filepath.Join(dir, candidate+".json")
		_, err := os.Stat(path)
		if err == nil {
			candidate = fmt.Sprintf("%s_%02d", base, suffix)
			suffix++
			continue
		}
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		return "", fmt.Errorf("inspect report directory: %w", err)
	}
}
