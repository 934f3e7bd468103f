// integration_e2e_test.go: e2e tests for the Loki pusher
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokipush

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestEndToEndIntegration verifies that the pusher can actually send data to a
// Loki endpoint and that every request carries the expected envelope.
func TestEndToEndIntegration(t *testing.T) {
	// Create a mock Loki server
	var mu sync.Mutex
	var receivedRequests []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/loki/api/v1/push" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		mu.Lock()
		receivedRequests = append(receivedRequests, req)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	pusher, err := New(Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
		Labels: map[string]string{
			"service": "test",
			"env":     "integration",
		},
	})
	if err != nil {
		t.Fatalf("Failed to create pusher: %v", err)
	}

	ctx := context.Background()
	pushes := []struct {
		do      func() error
		message string
	}{
		{func() error { return pusher.Info(ctx, "Test info message") }, "Test info message"},
		{func() error { return pusher.Warn(ctx, "Test warning message") }, "Test warning message"},
		{func() error {
			return pusher.Error(ctx, "Test error message",
				WithExtras(map[string]interface{}{"request_id": "abc-def"}))
		}, "Test error message"},
	}

	for _, p := range pushes {
		if err := p.do(); err != nil {
			t.Errorf("push failed: %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if len(receivedRequests) != len(pushes) {
		t.Fatalf("Expected %d requests, got %d", len(pushes), len(receivedRequests))
	}

	// Verify request structure
	for i, req := range receivedRequests {
		streams, ok := req["streams"].([]interface{})
		if !ok {
			t.Errorf("Request %d: missing or invalid streams field", i)
			continue
		}

		if len(streams) != 1 {
			t.Errorf("Request %d: expected 1 stream, got %d", i, len(streams))
			continue
		}

		stream, ok := streams[0].(map[string]interface{})
		if !ok {
			t.Errorf("Request %d: invalid stream format", i)
			continue
		}

		labels, ok := stream["stream"].(map[string]interface{})
		if !ok {
			t.Errorf("Request %d: missing or invalid labels", i)
			continue
		}

		if labels["service"] != "test" || labels["env"] != "integration" {
			t.Errorf("Request %d: incorrect labels: %v", i, labels)
		}
		if labels["level"] == nil || labels["level"] == "" {
			t.Errorf("Request %d: missing severity label", i)
		}

		values, ok := stream["values"].([]interface{})
		if !ok {
			t.Errorf("Request %d: missing or invalid values", i)
			continue
		}

		if len(values) != 1 {
			t.Errorf("Request %d: expected exactly 1 value, got %d", i, len(values))
		}
	}

	// Verify all messages were sent
	allContent := ""
	for _, req := range receivedRequests {
		if reqBytes, err := json.Marshal(req); err == nil {
			allContent += string(reqBytes)
		}
	}

	for _, p := range pushes {
		if !strings.Contains(allContent, p.message) {
			t.Errorf("Message not found in requests: %s", p.message)
		}
	}
}

// TestPusherErrorHandling verifies error mapping with an unreachable endpoint.
func TestPusherErrorHandling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	url := server.URL
	server.Close()

	pusher, err := New(Config{
		BaseURL: url,
		Timeout: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Failed to create pusher: %v", err)
	}

	err = pusher.Info(context.Background(), "Test message")
	if err == nil {
		t.Fatal("Expected error for unreachable endpoint")
	}

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("Expected *ConnectionError, got %T", err)
	}
	if !errors.Is(err, Err) {
		t.Error("Error should match the package sentinel")
	}
}
