// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stretchr/testify/require"
)

// LogEntry is one parsed JSON log line.
type LogEntry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   map[string]any
}

// Has reports whether the entry carries key with a value equal to want.
// Numbers are compared by value, since JSON decodes them as float64.
func (e LogEntry) Has(key string, want any) bool {
	got, ok := e.Attrs[key]
	if !ok {
		return false
	}
	if f, isFloat := got.(float64); isFloat {
		switch w := want.(type) {
		case int:
			return f == float64(w)
		case int64:
			return f == float64(w)
		case float64:
			return f == w
		}
	}
	return fmt.Sprint(got) == fmt.Sprint(want)
}

// ParseJSONLogEntries parses the JSON lines in buf without consuming it.
func ParseJSONLogEntries(buf *bytes.Buffer) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			return nil, err
		}

		e := LogEntry{Attrs: make(map[string]any, len(raw))}
		for k, v := range raw {
			switch k {
			case slog.TimeKey:
				if ts, ok := v.(string); ok {
					e.Time, _ = time.Parse(time.RFC3339Nano, ts) //nolint:errcheck // zero time on malformed input
				}
			case slog.LevelKey:
				e.Level, _ = v.(string)
			case slog.MessageKey:
				e.Message, _ = v.(string)
			default:
				e.Attrs[k] = v
			}
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

// TB is the part of testing.TB the helpers use. *testing.T and
// ginkgo.GinkgoT() both satisfy it.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
}

// TestHelper captures a debug-level JSON logger in memory.
//
//	th := logging.NewTestHelper(t)
//	lg := th.Logger.Logger()
//	r := router.MustNew(router.WithLogger(lg), router.WithDiagnostics(logging.DiagnosticHandler(lg)))
//	...
//	th.AssertLog(t, "DEBUG", "router frozen", map[string]any{"routes": 3})
type TestHelper struct {
	Logger *Logger
	Buffer *bytes.Buffer
}

// NewTestHelper creates a [TestHelper]. opts are applied after the
// in-memory defaults.
func NewTestHelper(t TB, opts ...Option) *TestHelper {
	t.Helper()

	buf := &bytes.Buffer{}
	base := []Option{WithJSONHandler(), WithOutput(buf), WithLevel(LevelDebug)}
	return &TestHelper{
		Logger: MustNew(append(base, opts...)...),
		Buffer: buf,
	}
}

// Logs returns every captured entry.
func (th *TestHelper) Logs() ([]LogEntry, error) {
	return ParseJSONLogEntries(th.Buffer)
}

// LastLog returns the most recent entry.
func (th *TestHelper) LastLog() (*LogEntry, error) {
	entries, err := th.Logs()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no log entries found")
	}
	return &entries[len(entries)-1], nil
}

// Find returns the entries with message msg. Unparsable output yields nil.
func (th *TestHelper) Find(msg string) []LogEntry {
	entries, _ := th.Logs() //nolint:errcheck // treated as no match
	var found []LogEntry
	for _, e := range entries {
		if e.Message == msg {
			found = append(found, e)
		}
	}
	return found
}

// ContainsLog reports whether any entry has message msg.
func (th *TestHelper) ContainsLog(msg string) bool {
	return len(th.Find(msg)) > 0
}

// ContainsAttr reports whether any entry carries key with value.
func (th *TestHelper) ContainsAttr(key string, value any) bool {
	entries, _ := th.Logs() //nolint:errcheck // treated as no match
	for _, e := range entries {
		if e.Has(key, value) {
			return true
		}
	}
	return false
}

// CountLevel returns the number of entries at level ("DEBUG", "INFO"...).
func (th *TestHelper) CountLevel(level string) int {
	entries, _ := th.Logs() //nolint:errcheck // treated as no entries
	n := 0
	for _, e := range entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Reset discards captured output.
func (th *TestHelper) Reset() {
	th.Buffer.Reset()
}

// AssertLog fails t unless an entry matches level, msg and every attr.
func (th *TestHelper) AssertLog(t TB, level, msg string, attrs map[string]any) {
	t.Helper()

	entries, err := th.Logs()
	require.NoError(t, err, "failed to parse logs")

next:
	for _, e := range entries {
		if e.Level != level || e.Message != msg {
			continue
		}
		for k, want := range attrs {
			if !e.Has(k, want) {
				continue next
			}
		}
		return
	}
	require.Fail(t, "log entry not found", "level=%s msg=%s attrs=%v", level, msg, attrs)
}
