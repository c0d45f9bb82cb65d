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

import (
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted types. Collections are length-prefixed;
// attribute maps are written in sorted key order so the same value always
// produces the same bytes.
var (
	IDMUS            = idMUS{}
	ProductMUS       = productMUS{}
	ProductVectorMUS = productVectorMUS{}
	SnapshotMUS      = snapshotMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type productMUS struct{}

func (productMUS) Marshal(p Product, bs []byte) (n int) {
	n = IDMUS.Marshal(p.Id, bs)
	n += ord.String.Marshal(p.Name, bs[n:])
	n += ord.String.Marshal(p.URL, bs[n:])
	n += varint.Int.Marshal(len(p.Attributes), bs[n:])
	for _, key := range sortedKeys(p.Attributes) {
		n += ord.String.Marshal(key, bs[n:])
		n += ord.String.Marshal(p.Attributes[key], bs[n:])
	}
	return n
}

func (productMUS) Unmarshal(bs []byte) (p Product, n int, err error) {
	var n1 int
	if p.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if p.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.URL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	var count int
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if count < 0 {
		return p, n, ErrNegativeLength
	}
	if count > 0 {
		p.Attributes = make(map[string]string, count)
	}
	for i := 0; i < count; i++ {
		var key, value string
		if key, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return p, n + n1, err
		}
		n += n1
		if value, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return p, n + n1, err
		}
		n += n1
		p.Attributes[key] = value
	}
	return p, n, nil
}

func (productMUS) Size(p Product) (size int) {
	size = IDMUS.Size(p.Id)
	size += ord.String.Size(p.Name)
	size += ord.String.Size(p.URL)
	size += varint.Int.Size(len(p.Attributes))
	for key, value := range p.Attributes {
		size += ord.String.Size(key)
		size += ord.String.Size(value)
	}
	return size
}

func (productMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = ProductMUS.Unmarshal(bs)
	return n, err
}

type productVectorMUS struct{}

func (productVectorMUS) Marshal(v ProductVector, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Int.Marshal(len(v.Vector), bs[n:])
	for _, component := range v.Vector {
		n += varint.Float32.Marshal(component, bs[n:])
	}
	return n
}

func (productVectorMUS) Unmarshal(bs []byte) (v ProductVector, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	var count int
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if count < 0 {
		return v, n, ErrNegativeLength
	}
	v.Vector = make([]float32, count)
	for i := 0; i < count; i++ {
		if v.Vector[i], n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
			return v, n + n1, err
		}
		n += n1
	}
	return v, n, nil
}

func (productVectorMUS) Size(v ProductVector) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Int.Size(len(v.Vector))
	for _, component := range v.Vector {
		size += varint.Float32.Size(component)
	}
	return size
}

func (productVectorMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = ProductVectorMUS.Unmarshal(bs)
	return n, err
}

type snapshotMUS struct{}

func (snapshotMUS) Marshal(s Snapshot, bs []byte) (n int) {
	n = varint.Int.Marshal(len(s.Products), bs)
	for i := range s.Products {
		n += ProductMUS.Marshal(s.Products[i], bs[n:])
	}
	n += varint.Int.Marshal(len(s.Vectors), bs[n:])
	for i := range s.Vectors {
		n += ProductVectorMUS.Marshal(s.Vectors[i], bs[n:])
	}
	n += varint.Int64.Marshal(s.BuiltAt.UnixMicro(), bs[n:])
	return n
}

func (snapshotMUS) Unmarshal(bs []byte) (s Snapshot, n int, err error) {
	var n1, count int
	if count, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	if count < 0 {
		return s, n, ErrNegativeLength
	}
	s.Products = make([]Product, count)
	for i := 0; i < count; i++ {
		if s.Products[i], n1, err = ProductMUS.Unmarshal(bs[n:]); err != nil {
			return s, n + n1, err
		}
		n += n1
	}
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if count < 0 {
		return s, n, ErrNegativeLength
	}
	s.Vectors = make([]ProductVector, count)
	for i := 0; i < count; i++ {
		if s.Vectors[i], n1, err = ProductVectorMUS.Unmarshal(bs[n:]); err != nil {
			return s, n + n1, err
		}
		n += n1
	}
	var builtAt int64
	if builtAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	s.BuiltAt = time.UnixMicro(builtAt).UTC()
	return s, n, nil
}

func (snapshotMUS) Size(s Snapshot) (size int) {
	size = varint.Int.Size(len(s.Products))
	for i := range s.Products {
		size += ProductMUS.Size(s.Products[i])
	}
	size += varint.Int.Size(len(s.Vectors))
	for i := range s.Vectors {
		size += ProductVectorMUS.Size(s.Vectors[i])
	}
	size += varint.Int64.Size(s.BuiltAt.UnixMicro())
	return size
}

func (snapshotMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = SnapshotMUS.Unmarshal(bs)
	return n, err
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
