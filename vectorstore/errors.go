// Copyright 2025 Poiesic Systems
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


package vectorstore

import "errors"

var (
	// ErrEmbedderRequired is returned when a store is created without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIndexRequired is returned when a store is created without an index.
	ErrIndexRequired = errors.New("index required")

	// ErrInvalidDimension indicates a non-positive index dimensionality.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrDimensionMismatch indicates a vector that does not match the
	// index dimensionality.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrCountMismatch indicates misaligned document and identifier
	// sequences. This is an internal invariant violation, not a
	// recoverable condition.
	ErrCountMismatch = errors.New("document/id count mismatch")

	// ErrCorruptStore indicates persisted artifacts that fail integrity
	// or consistency checks on load.
	ErrCorruptStore = errors.New("corrupt vector store")
)
