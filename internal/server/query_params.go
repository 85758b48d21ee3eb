package server

import (
	"strconv"
	"strings"

	recorddomain "github.com/smallbiznis/pestdesk/internal/servicerecord/domain"
)

func parseOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseRecordID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, recorddomain.ErrInvalidID
	}
	return id, nil
}
