// iris_writer.go: Iris SyncWriter adapter backed by the Loki pusher
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokipush

import (
	"context"
	"sync/atomic"

	"github.com/agilira/iris"
)

// Writer adapts a Pusher to the iris.SyncWriter interface so Iris loggers
// can ship their records to Loki.
//
// Every record becomes one synchronous push; the record's level string is
// used as the severity level. The writer is safe for concurrent use.
type Writer struct {
	pusher         *Pusher
	onError        func(error)
	recordsWritten int64
	errors         int64
}

// NewWriter wraps a pusher for use as an iris.SyncWriter.
//
// onError, if non-nil, is invoked with every push failure in addition to
// the error being returned from WriteRecord.
func NewWriter(pusher *Pusher, onError func(error)) *Writer {
	return &Writer{
		pusher:  pusher,
		onError: onError,
	}
}

// WriteRecord implements iris.SyncWriter by pushing the record to Loki.
func (w *Writer) WriteRecord(record *iris.Record) error {
	atomic.AddInt64(&w.recordsWritten, 1)

	err := w.pusher.CustomLevel(context.Background(), record.Level.String(), record.Msg)
	if err != nil {
		atomic.AddInt64(&w.errors, 1)
		if w.onError != nil {
			w.onError(err)
		}
		return err
	}

	return nil
}
