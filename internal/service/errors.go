package service

import (
	"errors"

	"golang-maintenance/internal/schedule"
)

// ErrInvalidScheduleParameters is raised at validation time, before any
// generation runs. It aliases the schedule package's sentinel so callers can
// match either.
var ErrInvalidScheduleParameters = schedule.ErrInvalidParameters

var (
	// ErrReconciliationFailed wraps any failure inside a generation or
	// reconciliation pass; the transaction has already been rolled back when
	// the caller sees it.
	ErrReconciliationFailed = errors.New("reconciliation failed")

	// ErrInvalidTransition is an attempted status change outside the
	// transition table. With all known statuses mutually reachable this
	// currently only means an unknown status value.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNoHistory is undo on an execution with an empty audit log.
	ErrNoHistory = errors.New("no status history to undo")

	ErrTemplateNotFound  = errors.New("template not found")
	ErrExecutionNotFound = errors.New("execution not found")
)
