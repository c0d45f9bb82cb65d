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

import "fmt"

// ValidateProduct validates a Product according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//
// NOT validated:
//   - URL (some catalog rows legitimately lack one)
//   - Attributes (open map, anything the source carried is allowed)
//   - ID (0 means "derive from name")
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}

	if product.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyProductName)
	}

	return nil
}

// ValidateSnapshot validates a Snapshot's structural invariants:
//   - every product passes ValidateProduct
//   - every vector is non-empty and references a live product
//   - there are no more vectors than products
func ValidateSnapshot(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: snapshot is nil", ErrInvalidProduct)
	}

	for i := range snap.Products {
		if err := ValidateProduct(&snap.Products[i]); err != nil {
			return err
		}
	}

	if len(snap.Vectors) > len(snap.Products) {
		return fmt.Errorf("%w: %d vectors for %d products", ErrOrphanVector,
			len(snap.Vectors), len(snap.Products))
	}

	for i := range snap.Vectors {
		if len(snap.Vectors[i].Vector) == 0 {
			return fmt.Errorf("%w: %w", ErrInvalidVector, ErrEmptyVector)
		}
		if snap.ProductByID(snap.Vectors[i].Id) == nil {
			return fmt.Errorf("%w: id %d", ErrOrphanVector, snap.Vectors[i].Id)
		}
	}

	return nil
}
