// Copyright 2025 The chatting-with-docs authors
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
	"time"

	"github.com/douglasmakey/chatting-with-docs/core"
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the stored types. The schema is three small
// structs, so they are written by hand instead of generated.
var (
	EntryMUS      = entrySer{}
	CollectionMUS = collectionSer{}
	MetadataMUS   = metadataSer{}

	vectorSer = ord.NewSliceSer[float32](raw.Float32)
)

type metadataSer struct{}

var _ mus.Serializer[core.Metadata] = metadataSer{}

func (metadataSer) Marshal(m core.Metadata, bs []byte) (n int) {
	n = ord.String.Marshal(m.Source, bs)
	n += varint.Int.Marshal(m.Page, bs[n:])
	return n
}

func (metadataSer) Unmarshal(bs []byte) (m core.Metadata, n int, err error) {
	m.Source, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	m.Page, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (metadataSer) Size(m core.Metadata) int {
	return ord.String.Size(m.Source) + varint.Int.Size(m.Page)
}

func (metadataSer) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	return
}

type entrySer struct{}

var _ mus.Serializer[core.Entry] = entrySer{}

func (entrySer) Marshal(e core.Entry, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(e.Id), bs)
	n += ord.String.Marshal(e.Text, bs[n:])
	n += MetadataMUS.Marshal(e.Metadata, bs[n:])
	n += varint.Int.Marshal(e.ChunkIndex, bs[n:])
	n += vectorSer.Marshal(e.Vector, bs[n:])
	n += varint.Int64.Marshal(e.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (entrySer) Unmarshal(bs []byte) (e core.Entry, n int, err error) {
	var (
		id    uint64
		micro int64
		n1    int
	)
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	e.Id = core.ID(id)

	e.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Metadata, n1, err = MetadataMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Vector, n1, err = vectorSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	micro, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.InsertedAt = time.UnixMicro(micro).UTC()
	return
}

func (entrySer) Size(e core.Entry) int {
	return varint.Uint64.Size(uint64(e.Id)) +
		ord.String.Size(e.Text) +
		MetadataMUS.Size(e.Metadata) +
		varint.Int.Size(e.ChunkIndex) +
		vectorSer.Size(e.Vector) +
		varint.Int64.Size(e.InsertedAt.UnixMicro())
}

func (entrySer) Skip(bs []byte) (n int, err error) {
	var n1 int
	for _, skip := range []func([]byte) (int, error){
		varint.Uint64.Skip,
		ord.String.Skip,
		MetadataMUS.Skip,
		varint.Int.Skip,
		vectorSer.Skip,
		varint.Int64.Skip,
	} {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type collectionSer struct{}

var _ mus.Serializer[core.Collection] = collectionSer{}

func (collectionSer) Marshal(c core.Collection, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(c.Id), bs)
	n += ord.String.Marshal(c.Name, bs[n:])
	n += varint.Int64.Marshal(c.CreatedAt.UnixMicro(), bs[n:])
	return n
}

func (collectionSer) Unmarshal(bs []byte) (c core.Collection, n int, err error) {
	var (
		id    uint64
		micro int64
		n1    int
	)
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	c.Id = core.ID(id)

	c.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	micro, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.CreatedAt = time.UnixMicro(micro).UTC()
	return
}

func (collectionSer) Size(c core.Collection) int {
	return varint.Uint64.Size(uint64(c.Id)) +
		ord.String.Size(c.Name) +
		varint.Int64.Size(c.CreatedAt.UnixMicro())
}

func (collectionSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	for _, skip := range []func([]byte) (int, error){
		varint.Uint64.Skip,
		ord.String.Skip,
		varint.Int64.Skip,
	} {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(entry *core.Entry) []byte {
	buf := make([]byte, EntryMUS.Size(*entry))
	EntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (*core.Entry, error) {
	entry, _, err := EntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarshalCollection serializes a Collection to bytes.
func MarshalCollection(collection *core.Collection) []byte {
	buf := make([]byte, CollectionMUS.Size(*collection))
	CollectionMUS.Marshal(*collection, buf)
	return buf
}

// UnmarshalCollection deserializes a Collection from bytes.
func UnmarshalCollection(data []byte) (*core.Collection, error) {
	collection, _, err := CollectionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &collection, nil
}
