// errors.go: Error types for the Loki push client
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokipush

import (
	"errors"
	"fmt"
)

// Err is the sentinel matched by every error this package returns.
// Callers can check errors.Is(err, lokipush.Err) to catch any failure
// broadly, or errors.As with one of the concrete types below to handle
// a specific failure class.
var Err = errors.New("loki push error")

// ConfigurationError reports invalid constructor arguments.
// It is returned by New only, never by a push call.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid loki configuration: " + e.Reason
}

func (e *ConfigurationError) Is(target error) bool { return target == Err }

// ConnectionError reports a transport-level failure reaching the Loki
// endpoint: DNS resolution, connect, TLS handshake, or timeout. The
// endpoint was never confirmed to have received the entry.
type ConnectionError struct {
	// URL is the full push endpoint the request was addressed to.
	URL string

	// Err is the underlying transport error.
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to Loki at %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == Err }

// PushError reports that Loki was reachable but rejected the push with a
// status other than 204 No Content.
type PushError struct {
	// StatusCode is the HTTP status Loki responded with.
	StatusCode int

	// ResponseText is the raw response body, capped at 64KiB.
	ResponseText string
}

func (e *PushError) Error() string {
	return fmt.Sprintf("failed to push log to Loki (status_code=%d)", e.StatusCode)
}

func (e *PushError) Is(target error) bool { return target == Err }
