// Copyright 2025 Finsight Labs
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


// Package catalog loads the card catalog from its source, caches it, and
// builds embedded snapshots for retrieval. A snapshot is immutable once
// built; readers always see either the previous complete snapshot or the new
// one, never a mix.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/finsight/cardpilot/core"
)

// Source produces the raw catalog rows.
type Source interface {
	// Fetch returns every catalog product. Implementations should return the
	// rows in the source's own order; downstream code treats that order as
	// the canonical catalog order.
	Fetch(ctx context.Context) ([]core.Product, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]core.Product, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context) ([]core.Product, error) {
	return f(ctx)
}

// Column spellings accepted for the two fixed product fields. Everything
// else in the header lands in the attribute map as-is.
var (
	nameColumns = []string{"name", "card_name", "card name", "product_name", "product name", "product", "card"}
	urlColumns  = []string{"url", "link", "apply_url", "apply url", "application_url", "application url"}
)

// CSVSource reads the catalog from a CSV file with a header row.
type CSVSource struct {
	path   string
	logger *slog.Logger
}

var _ Source = (*CSVSource)(nil)

// NewCSVSource creates a Source reading from the CSV file at path.
func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{path: path, logger: logger}
}

// Fetch parses the file. Rows without a name are skipped with a warning;
// product IDs are derived from the name.
func (s *CSVSource) Fetch(ctx context.Context) ([]core.Product, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	nameCol, urlCol := -1, -1
	for i, column := range header {
		normalized := strings.ToLower(strings.TrimSpace(column))
		if nameCol < 0 && containsColumn(nameColumns, normalized) {
			nameCol = i
		}
		if urlCol < 0 && containsColumn(urlColumns, normalized) {
			urlCol = i
		}
	}
	if nameCol < 0 {
		return nil, ErrMissingNameColumn
	}

	var products []core.Product
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}

		product := rowToProduct(header, row, nameCol, urlCol)
		if product.Name == "" {
			s.logger.Warn("skipping catalog row without a name", "line", line)
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func rowToProduct(header, row []string, nameCol, urlCol int) core.Product {
	product := core.Product{}
	for i, value := range row {
		if i >= len(header) {
			break
		}
		value = strings.TrimSpace(value)
		switch i {
		case nameCol:
			product.Name = value
		case urlCol:
			product.URL = value
		default:
			if value == "" {
				continue
			}
			if product.Attributes == nil {
				product.Attributes = make(map[string]string)
			}
			product.Attributes[strings.TrimSpace(header[i])] = value
		}
	}
	if product.Name != "" {
		product.Id = core.IDFromContent(product.Name)
	}
	return product
}

func containsColumn(columns []string, name string) bool {
	for _, column := range columns {
		if column == name {
			return true
		}
	}
	return false
}
