package allowlist

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/gatekeeper"
)

// Entry is the stored verification status of a single address.
type Entry struct {
	Metadata *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Allowed is true when the address may receive tokens.
	Allowed bool `protobuf:"varint,2,opt,name=allowed,proto3" json:"allowed"`
	// TransactionID is the multisig transaction that last changed this
	// entry.
	TransactionID uint64 `protobuf:"varint,3,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id"`
}

func (m *Entry) Reset()         { *m = Entry{} }
func (m *Entry) String() string { return proto.CompactTextString(m) }
func (*Entry) ProtoMessage()    {}
