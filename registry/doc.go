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

// Package registry holds the pluggable name→behavior maps the pattern
// compiler resolves against: type casters, constraint validators, and
// value transforms.
//
// Each registry is constructed with its built-ins and is open to external
// registration; there are no package-level singletons. Construct the
// registries once at process start, register custom entries, and hand the
// values to the compiler:
//
//	types := registry.NewTypes()
//	types.RegisterStrong("sku", func(raw string) (any, error) {
//	    if !skuRe.MatchString(raw) {
//	        return nil, fmt.Errorf("%w: %q is not a sku", registry.ErrCast, raw)
//	    }
//	    return raw, nil
//	})
//
//	c := pattern.MustNew(pattern.WithTypes(types))
//
// Registration is safe at any time, but the intended shape is register at
// startup, resolve forever after.
package registry
