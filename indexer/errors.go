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


package indexer

import "errors"

var (
	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrContentColumnsRequired is returned when the content column list is empty.
	ErrContentColumnsRequired = errors.New("at least one content column is required")

	// ErrSourceNotFound is returned when the source table file does not exist.
	ErrSourceNotFound = errors.New("source table not found")

	// ErrIDColumnNotFound is returned when the designated id column is
	// absent from the source table.
	ErrIDColumnNotFound = errors.New("id column not in table")

	// ErrEmptyTable is returned when the source table holds no rows.
	ErrEmptyTable = errors.New("source table is empty")
)
