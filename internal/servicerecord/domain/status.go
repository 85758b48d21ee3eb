package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a service visit.
type Status string

const (
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
	StatusScheduled Status = "Scheduled"
)

var Statuses = []Status{StatusOngoing, StatusCompleted, StatusCancelled, StatusScheduled}

// legacyStatuses maps retired tokens to their canonical replacement. Reads,
// writes and the startup normalization pass all consult this table.
var legacyStatuses = map[string]Status{
	"Finished": StatusCompleted,
}

// LegacyStatuses returns a copy of the legacy token table.
func LegacyStatuses() map[string]Status {
	out := make(map[string]Status, len(legacyStatuses))
	for token, status := range legacyStatuses {
		out[token] = status
	}
	return out
}

// ParseStatus accepts canonical and legacy tokens, ignoring case and surrounding space.
func ParseStatus(value string) (Status, error) {
	value = strings.TrimSpace(value)
	for _, status := range Statuses {
		if strings.EqualFold(value, string(status)) {
			return status, nil
		}
	}
	for token, status := range legacyStatuses {
		if strings.EqualFold(value, token) {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil && s == s.Canonical()
}

// Canonical resolves legacy tokens; unknown values are returned unchanged.
func (s Status) Canonical() Status {
	parsed, err := ParseStatus(string(s))
	if err != nil {
		return s
	}
	return parsed
}

// Scan normalizes stored values. Empty and unrecognized values read as
// Ongoing so the observed status is always canonical.
func (s *Status) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		raw = ""
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported status type %T", src)
	}

	parsed, err := ParseStatus(raw)
	if err != nil {
		*s = StatusOngoing
		return nil
	}
	*s = parsed
	return nil
}

func (s Status) Value() (driver.Value, error) {
	parsed, err := ParseStatus(string(s))
	if err != nil {
		return nil, err
	}
	return string(parsed), nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidStatus
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
