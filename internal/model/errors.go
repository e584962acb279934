// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the error taxonomy of a run.
//
// Errors fall in three groups. A ConfigurationError is raised before any
// iteration starts and aborts the run. A MalformedRecordError describes a
// single bad input line; the stage that meets it drops the line, counts it
// and carries on. A PartitionExecutionError means a partition kept failing
// after the executor's own retries, and the whole traversal is abandoned.
package model

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the sentinel matched by every ConfigurationError.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports an invalid or incomplete run setup.
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

// NewConfigurationError builds a ConfigurationError for the given field.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "invalid configuration: " + msg
}

// Is makes errors.Is(err, ErrConfiguration) hold for any ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// MalformedRecordError describes an input line that could not be parsed.
type MalformedRecordError struct {
	Line   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %q: %s", e.Line, e.Reason)
}

// PartitionExecutionError is returned when a partition still fails after all
// retry attempts.
type PartitionExecutionError struct {
	Pass      string
	Partition int
	Attempts  int
	Err       error
}

func (e *PartitionExecutionError) Error() string {
	return fmt.Sprintf("pass %q: partition %d failed after %d attempt(s): %v", e.Pass, e.Partition, e.Attempts, e.Err)
}

func (e *PartitionExecutionError) Unwrap() error {
	return e.Err
}
