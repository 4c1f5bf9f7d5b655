package eventstore

import (
	"encoding/json"
	"time"
)

// Event type names.
const (
	TypeRunStarted    = "RunStarted"
	TypeCourseSynced  = "CourseSynced"
	TypeCourseSkipped = "CourseSkipped"
	TypeFileFailed    = "FileFailed"
	TypeRunCompleted  = "RunCompleted"
)

// Run statuses carried by RunCompleted and the history projection.
const (
	StatusRunning  = "running"
	StatusSuccess  = "success"
	StatusPartial  = "partial"
	StatusCanceled = "canceled"
)

// FileCounts tallies per-file outcomes.
type FileCounts struct {
	Updated  int `json:"updated"`
	Current  int `json:"current"`
	Unlinked int `json:"unlinked"`
	Errored  int `json:"errored"`
}

// Add accumulates other into c.
func (c *FileCounts) Add(other FileCounts) {
	c.Updated += other.Updated
	c.Current += other.Current
	c.Unlinked += other.Unlinked
	c.Errored += other.Errored
}

// RunStartedData is the RunStarted payload.
type RunStartedData struct {
	Courses []string `json:"courses"`
	DryRun  bool     `json:"dry_run"`
	Trigger string   `json:"trigger,omitempty"` // manual, schedule, watch
}

// CourseSyncedData is the CourseSynced payload.
type CourseSyncedData struct {
	Course     string     `json:"course"`
	Files      FileCounts `json:"files"`
	DurationMS int64      `json:"duration_ms"`
}

// CourseSkippedData is the CourseSkipped payload.
type CourseSkippedData struct {
	Course string `json:"course"`
	Reason string `json:"reason"`
}

// FileFailedData is the FileFailed payload.
type FileFailedData struct {
	Course string `json:"course"`
	File   string `json:"file"`
	Error  string `json:"error"`
}

// RunCompletedData is the RunCompleted payload; it doubles as the
// notification body.
type RunCompletedData struct {
	Status         string     `json:"status"`
	CoursesSynced  int        `json:"courses_synced"`
	CoursesSkipped int        `json:"courses_skipped"`
	Files          FileCounts `json:"files"`
	DurationMS     int64      `json:"duration_ms"`
	DryRun         bool       `json:"dry_run"`
}

func newEvent(runID, eventType string, data any) (*BaseEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, wrap(err, ErrMarshalPayloadFailed).
			WithContext("run_id", runID).
			WithContext("event_type", eventType).
			Build()
	}
	return &BaseEvent{
		EventRunID:     runID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   payload,
	}, nil
}

// NewRunStarted creates a RunStarted event.
func NewRunStarted(runID string, data RunStartedData) (*BaseEvent, error) {
	return newEvent(runID, TypeRunStarted, data)
}

// NewCourseSynced creates a CourseSynced event.
func NewCourseSynced(runID string, data CourseSyncedData) (*BaseEvent, error) {
	ev, err := newEvent(runID, TypeCourseSynced, data)
	if err != nil {
		return nil, err
	}
	ev.EventMetadata = map[string]string{"course": data.Course}
	return ev, nil
}

// NewCourseSkipped creates a CourseSkipped event.
func NewCourseSkipped(runID string, data CourseSkippedData) (*BaseEvent, error) {
	ev, err := newEvent(runID, TypeCourseSkipped, data)
	if err != nil {
		return nil, err
	}
	ev.EventMetadata = map[string]string{"course": data.Course}
	return ev, nil
}

// NewFileFailed creates a FileFailed event.
func NewFileFailed(runID string, data FileFailedData) (*BaseEvent, error) {
	ev, err := newEvent(runID, TypeFileFailed, data)
	if err != nil {
		return nil, err
	}
	ev.EventMetadata = map[string]string{"course": data.Course, "file": data.File}
	return ev, nil
}

// NewRunCompleted creates a RunCompleted event.
func NewRunCompleted(runID string, data RunCompletedData) (*BaseEvent, error) {
	return newEvent(runID, TypeRunCompleted, data)
}

// DecodeRunCompleted reads the payload of a RunCompleted event.
func DecodeRunCompleted(ev Event) (RunCompletedData, error) {
	var data RunCompletedData
	err := json.Unmarshal(ev.Payload(), &data)
	return data, err
}
