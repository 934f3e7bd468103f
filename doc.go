// Package lokipush provides a synchronous client for the Grafana Loki push API.
//
// This package sends individual structured log entries to a Loki instance over
// HTTP. Each push builds one stream (merged labels plus a single timestamped
// line), POSTs it to the push endpoint, and maps the outcome to a small typed
// error taxonomy. It deliberately performs no batching, retrying, buffering,
// or compression: one call is exactly one network attempt, and every failure
// is reported to the caller.
//
// # Architecture
//
// The package has two surfaces:
//
//	Pusher — the core client: level methods and CustomLevel, one POST per call
//	Writer — an iris.SyncWriter adapter that routes Iris records through a Pusher
//
// The Pusher holds only immutable configuration after construction, so a
// single instance can be shared freely across goroutines; concurrency safety
// reduces to that of the underlying http.Client.
//
// # Basic Usage
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    lokipush "github.com/agilira/loki-push"
//	)
//
//	func main() {
//	    pusher, err := lokipush.New(lokipush.Config{
//	        BaseURL: "http://localhost:3100",
//	        Labels:  map[string]string{"app": "my-app"},
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    ctx := context.Background()
//	    pusher.Info(ctx, "application started")
//	    pusher.Error(ctx, "db down",
//	        lokipush.WithExtras(map[string]interface{}{"db": "pg"}),
//	        lokipush.WithLabels(map[string]string{"env": "staging"}))
//	}
//
// # Configuration Options
//
// The Config struct supports:
//   - BaseURL: Loki base URL without trailing slash (required)
//   - PushPath: push API path (default: "/loki/api/v1/push")
//   - SeverityLabel: stream label key for the level (default: "level")
//   - Auth: optional basic-auth credential pair
//   - Labels: static labels merged into every stream
//   - Timeout: HTTP request timeout (default: 10s)
//
// # Label Merging
//
// Stream labels are built per push from three layers: the configured default
// labels, then any WithLabels call labels, then the severity label. Later
// layers win on conflicting keys, so the severity label always reflects the
// invoked level. Merging produces a fresh map on every call; neither the
// configured map nor the caller's map is ever mutated.
//
// # Error Handling
//
// Every failure is one of three types, all matching the package sentinel Err:
//   - ConfigurationError: invalid constructor arguments, from New only
//   - ConnectionError: transport failure (DNS, connect, TLS, timeout)
//   - PushError: Loki responded with a status other than 204
//
// Use errors.Is(err, lokipush.Err) to catch broadly, or errors.As with a
// concrete type to branch on the failure class:
//
//	var pushErr *lokipush.PushError
//	if errors.As(err, &pushErr) {
//	    log.Printf("loki rejected entry: %d %s", pushErr.StatusCode, pushErr.ResponseText)
//	}
//
// # Iris Integration
//
// Writer implements iris.SyncWriter, pushing each record synchronously:
//
//	pusher, _ := lokipush.New(lokipush.Config{BaseURL: "http://localhost:3100"})
//	writer := lokipush.NewWriter(pusher, func(err error) {
//	    log.Printf("loki writer error: %v", err)
//	})
//	logger := iris.New(iris.WithSyncWriter(writer))
//
// Because each record is a blocking round trip, this adapter suits low-volume
// or test workloads; high-throughput deployments should use a batching writer.
//
// # Thread Safety
//
// All public methods are safe for concurrent use. There is no Close: the
// pusher owns no goroutines or buffers that outlive a call.
package lokipush
