package gatekeeper

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/gatekeeper/errors"
)

// Metadata is the header every persisted model carries. Schema is the
// version of the model encoding and must be at least 1.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema"`
}

var _ proto.Message = (*Metadata)(nil)

func (m *Metadata) Reset()         { *m = Metadata{} }
func (m *Metadata) String() string { return proto.CompactTextString(m) }
func (*Metadata) ProtoMessage()    {}

// Validate returns an error if the header is missing or uses an unknown
// schema version.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema must be at least 1")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when
// implementing model Copy methods to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
