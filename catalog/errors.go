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


package catalog

import "errors"

var (
	// ErrSourceRequired is returned when a Catalog is constructed without a
	// source.
	ErrSourceRequired = errors.New("catalog source is required")

	// ErrEmbedderRequired is returned when an Index is constructed without
	// an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmptyCatalog indicates the source produced no usable products.
	ErrEmptyCatalog = errors.New("catalog contains no products")

	// ErrNoSnapshot indicates no snapshot has been built or loaded yet.
	ErrNoSnapshot = errors.New("no snapshot available")

	// ErrMissingNameColumn indicates a CSV source has no recognizable name
	// column in its header.
	ErrMissingNameColumn = errors.New("csv header has no name column")
)
