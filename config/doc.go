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

// Package config loads the declarative part of a router setup: the global
// middleware list, named middleware groups and the bodies of the synthetic
// 404, 405 and 500 responses.
//
// Documents are YAML, TOML or JSON. Wherever a list of middleware references
// is expected, a comma separated string is accepted as well:
//
//	middleware: [request_id, access_log]
//	middleware_groups:
//	  api: throttle, auth
//	defaults:
//	  not_found_body: nothing here
//
// Several sources can be combined; later sources override earlier ones and
// unset fields fall back to [Default]:
//
//	cfg, err := config.New(ctx,
//	    config.File("routing.yaml"),
//	    config.Env("KERNEL_"),
//	)
//	r := router.MustNew(router.WithConfig(cfg))
package config
