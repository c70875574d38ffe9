package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-1")
	ctx = logg.WithUserID(ctx, "user-1")
	ctx = logg.WithProductID(ctx, "prod-1")
	logg.Info(ctx, "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not json: %v", err)
	}
	for key, want := range map[string]string{
		"service":    "test",
		"request_id": "req-1",
		"user_id":    "user-1",
		"product_id": "prod-1",
		"message":    "hello",
	} {
		if entry[key] != want {
			t.Errorf("field %q = %v, want %q", key, entry[key], want)
		}
	}
}

func TestErrorIncludesStack(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	logg.Error(context.Background(), "boom", errors.New("db down"))

	out := buf.String()
	if !strings.Contains(out, "db down") {
		t.Fatalf("error cause missing: %s", out)
	}
	if !strings.Contains(out, "stack") {
		t.Fatalf("stack missing: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	if got := ParseLevel("debug"); got != zerolog.DebugLevel {
		t.Errorf("parse debug = %v", got)
	}
	if got := ParseLevel(""); got != zerolog.InfoLevel {
		t.Errorf("empty default = %v", got)
	}
	if got := ParseLevel("bogus"); got != zerolog.InfoLevel {
		t.Errorf("bogus default = %v", got)
	}
}
