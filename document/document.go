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


package document

import (
	"fmt"
	"strings"

	"github.com/poiesic/eventide/table"
)

// Separator joins the content-column values of one row.
const Separator = "\n\n"

// Document is one retrieval unit: the concatenated content of the
// designated text columns plus every remaining column as metadata.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// FromTable builds one document per table row, in row order. The values
// of contentColumns are joined with Separator in the given column order;
// empty and null values are skipped. All other columns become the row's
// metadata.
//
// Every name in contentColumns must exist in the table; otherwise no
// documents are produced and the missing names are reported. The
// function is pure: no I/O, no calls to collaborators.
func FromTable(tbl *table.Table, contentColumns []string) ([]Document, error) {
	var missing []string
	for _, col := range contentColumns {
		if !tbl.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	contentSet := make(map[string]bool, len(contentColumns))
	for _, col := range contentColumns {
		contentSet[col] = true
	}

	documents := make([]Document, 0, tbl.Len())
	for _, row := range tbl.Rows() {
		parts := make([]string, 0, len(contentColumns))
		for _, col := range contentColumns {
			if text := stringValue(row[col]); text != "" {
				parts = append(parts, text)
			}
		}

		metadata := make(map[string]any, len(row))
		for key, value := range row {
			if !contentSet[key] {
				metadata[key] = value
			}
		}

		documents = append(documents, Document{
			Content:  strings.Join(parts, Separator),
			Metadata: metadata,
		})
	}
	return documents, nil
}

// stringValue renders a content cell; nil is treated as empty.
func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
