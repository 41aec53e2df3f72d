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

package pattern

import "errors"

var (
	// ErrDelimitersInvalid indicates that the configured parameter
	// delimiters are not two distinct non-structural runes.
	ErrDelimitersInvalid = errors.New("parameter delimiters must be two distinct runes")

	// ErrCacheSizeInvalid indicates that the cache max size must be positive.
	ErrCacheSizeInvalid = errors.New("cache max size must be positive")

	// ErrCacheTTLInvalid indicates that the cache TTL must be positive when set.
	ErrCacheTTLInvalid = errors.New("cache ttl must be positive")

	// ErrNilCompiler indicates that a cache was constructed without a compiler.
	ErrNilCompiler = errors.New("compiler must not be nil")

	// ErrNilPattern indicates that a nil pattern was added to a matcher.
	ErrNilPattern = errors.New("pattern must not be nil")

	// ErrDuplicateParam indicates that a parameter name appears more than
	// once in a single pattern.
	ErrDuplicateParam = errors.New("duplicate parameter name")

	// ErrUnknownType indicates that a parameter names a type with no
	// registered caster.
	ErrUnknownType = errors.New("unknown parameter type")

	// ErrUnknownConstraint indicates an unrecognized constraint operator.
	ErrUnknownConstraint = errors.New("unknown constraint operator")

	// ErrUnknownTransform indicates an unrecognized transform name.
	ErrUnknownTransform = errors.New("unknown transform")

	// ErrSplatNotLast indicates that segments follow a splat, which would
	// be unreachable.
	ErrSplatNotLast = errors.New("splat must be the final segment")

	// ErrAmbiguousPatterns indicates that two patterns share identical
	// specificity and could both match some input.
	ErrAmbiguousPatterns = errors.New("patterns are ambiguous")
)
