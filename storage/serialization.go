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


package storage

import (
	"github.com/finsight/cardpilot/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalProduct serializes a Product to bytes.
func MarshalProduct(product *core.Product) []byte {
	buf := make([]byte, core.ProductMUS.Size(*product))
	core.ProductMUS.Marshal(*product, buf)
	return buf
}

// UnmarshalProduct deserializes a Product from bytes.
func UnmarshalProduct(data []byte) (*core.Product, error) {
	product, _, err := core.ProductMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// MarshalProductVector serializes a ProductVector to bytes.
func MarshalProductVector(vector *core.ProductVector) []byte {
	buf := make([]byte, core.ProductVectorMUS.Size(*vector))
	core.ProductVectorMUS.Marshal(*vector, buf)
	return buf
}

// UnmarshalProductVector deserializes a ProductVector from bytes.
func UnmarshalProductVector(data []byte) (*core.ProductVector, error) {
	vector, _, err := core.ProductVectorMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &vector, nil
}

// MarshalSnapshot serializes a Snapshot to bytes.
func MarshalSnapshot(snap *core.Snapshot) []byte {
	buf := make([]byte, core.SnapshotMUS.Size(*snap))
	core.SnapshotMUS.Marshal(*snap, buf)
	return buf
}

// UnmarshalSnapshot deserializes a Snapshot from bytes.
func UnmarshalSnapshot(data []byte) (*core.Snapshot, error) {
	snap, _, err := core.SnapshotMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
