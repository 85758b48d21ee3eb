package db

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

var ErrUnavailable = errors.New("storage_unavailable")

// Handle owns the process-wide connection. A handle whose open or
// initialization failed stays in place and reports ErrUnavailable, so the
// process keeps serving health and status endpoints in degraded mode.
type Handle struct {
	mu   sync.RWMutex
	db   *gorm.DB
	path string
	err  error
}

func NewHandle(path string, conn *gorm.DB) *Handle {
	return &Handle{db: conn, path: path}
}

func Unavailable(path string, cause error) *Handle {
	h := &Handle{path: path}
	h.MarkUnavailable(cause)
	return h
}

func (h *Handle) Path() string {
	return h.path
}

// Conn returns the live connection or an error wrapping ErrUnavailable.
func (h *Handle) Conn() (*gorm.DB, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.err != nil {
		return nil, h.err
	}
	if h.db == nil {
		return nil, ErrUnavailable
	}
	return h.db, nil
}

// Err reports why the handle is degraded, or nil.
func (h *Handle) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

func (h *Handle) MarkUnavailable(cause error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cause == nil {
		cause = errors.New("unknown cause")
	}
	if errors.Is(cause, ErrUnavailable) {
		h.err = cause
		return
	}
	h.err = fmt.Errorf("%w: %w", ErrUnavailable, cause)
}

func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	h.db = nil
	return sqlDB.Close()
}
