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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidProduct indicates a Product failed validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrEmptyProductName indicates the Name field is empty.
	ErrEmptyProductName = errors.New("product name cannot be empty")

	// ErrInvalidVector indicates a ProductVector failed validation.
	ErrInvalidVector = errors.New("invalid product vector")

	// ErrEmptyVector indicates the embedding slice is empty.
	ErrEmptyVector = errors.New("embedding vector cannot be empty")

	// ErrOrphanVector indicates a vector references no live product.
	ErrOrphanVector = errors.New("vector references no product in snapshot")

	// ErrNoEligibleCandidates indicates every candidate was excluded by
	// filters or assembly policies. Callers use it to distinguish "nothing
	// matched" from a failure.
	ErrNoEligibleCandidates = errors.New("no eligible candidates")

	// ErrNegativeLength indicates serialized data declared a negative
	// collection length.
	ErrNegativeLength = errors.New("negative length")
)
