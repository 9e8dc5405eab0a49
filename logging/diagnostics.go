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
	"context"
	"log/slog"
	"maps"
	"slices"

	"rivaas.dev/kernel/router"
)

// DiagnosticHandler writes router diagnostics to logger.
//
// Every event is logged with its kind and its fields as flat attributes, in
// key order. Rejected mutations of a frozen router log at Warn, everything
// else at Debug.
//
//	lg := logging.MustNew(logging.WithConsoleHandler(), logging.WithDebugLevel())
//	r := router.MustNew(router.WithDiagnostics(logging.DiagnosticHandler(lg.Logger())))
func DiagnosticHandler(logger *slog.Logger) router.DiagnosticHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return router.DiagnosticHandlerFunc(func(e router.DiagnosticEvent) {
		level := slog.LevelDebug
		if e.Kind == router.DiagFrozenMutation {
			level = slog.LevelWarn
		}

		attrs := make([]slog.Attr, 0, len(e.Fields)+1)
		attrs = append(attrs, slog.String("kind", string(e.Kind)))
		for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
			attrs = append(attrs, slog.Any(k, e.Fields[k]))
		}
		logger.LogAttrs(context.Background(), level, e.Message, attrs...)
	})
}
