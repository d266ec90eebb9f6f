package multisig

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/gatekeeper"
)

// Registry is the single record holding the owner set, the approval
// threshold and the identity allowed to change them.
type Registry struct {
	Metadata *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owners may submit, confirm and revoke transactions. Order is not
	// meaningful.
	Owners []gatekeeper.Address `protobuf:"bytes,2,rep,name=owners,proto3,casttype=github.com/iov-one/gatekeeper.Address" json:"owners"`
	// Threshold is the number of confirmations that executes a
	// transaction.
	Threshold uint32 `protobuf:"varint,3,opt,name=threshold,proto3" json:"threshold"`
	// Manager is the only identity allowed to change the owner set and
	// the threshold.
	Manager gatekeeper.Address `protobuf:"bytes,4,opt,name=manager,proto3,casttype=github.com/iov-one/gatekeeper.Address" json:"manager"`
}

func (m *Registry) Reset()         { *m = Registry{} }
func (m *Registry) String() string { return proto.CompactTextString(m) }
func (*Registry) ProtoMessage()    {}

// Transaction is a proposed change of the allowlist status of a single
// address.
type Transaction struct {
	Metadata *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// ID is the position of this transaction in the ledger.
	ID uint64 `protobuf:"varint,2,opt,name=id,proto3" json:"id"`
	// Target is the address which allowlist status is changed.
	Target gatekeeper.Address `protobuf:"bytes,3,opt,name=target,proto3,casttype=github.com/iov-one/gatekeeper.Address" json:"target"`
	Action Action             `protobuf:"varint,4,opt,name=action,proto3,casttype=Action" json:"action"`
	// Executed is set once the action was applied. An executed
	// transaction never changes again.
	Executed bool `protobuf:"varint,5,opt,name=executed,proto3" json:"executed"`
	// Confirmations lists owners that confirmed this transaction, each
	// at most once.
	Confirmations []gatekeeper.Address `protobuf:"bytes,6,rep,name=confirmations,proto3,casttype=github.com/iov-one/gatekeeper.Address" json:"confirmations"`
	Submitter     gatekeeper.Address   `protobuf:"bytes,7,opt,name=submitter,proto3,casttype=github.com/iov-one/gatekeeper.Address" json:"submitter"`
}

func (m *Transaction) Reset()         { *m = Transaction{} }
func (m *Transaction) String() string { return proto.CompactTextString(m) }
func (*Transaction) ProtoMessage()    {}

// SubmitMsg proposes a new transaction. The submitter confirms it
// immediately.
type SubmitMsg struct {
	Metadata *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Target   gatekeeper.Address   `protobuf:"bytes,2,opt,name=target,proto3,casttype=github.com/iov-one/gatekeeper.Address" json:"target"`
	Action   Action               `protobuf:"varint,3,opt,name=action,proto3,casttype=Action" json:"action"`
}

func (m *SubmitMsg) Reset()         { *m = SubmitMsg{} }
func (m *SubmitMsg) String() string { return proto.CompactTextString(m) }
func (*SubmitMsg) ProtoMessage()    {}

// ConfirmMsg adds the confirmation of the caller to a transaction.
type ConfirmMsg struct {
	Metadata      *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	TransactionID uint64               `protobuf:"varint,2,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id"`
}

func (m *ConfirmMsg) Reset()         { *m = ConfirmMsg{} }
func (m *ConfirmMsg) String() string { return proto.CompactTextString(m) }
func (*ConfirmMsg) ProtoMessage()    {}

// RevokeMsg withdraws the confirmation of the caller from a transaction.
type RevokeMsg struct {
	Metadata      *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	TransactionID uint64               `protobuf:"varint,2,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id"`
}

func (m *RevokeMsg) Reset()         { *m = RevokeMsg{} }
func (m *RevokeMsg) String() string { return proto.CompactTextString(m) }
func (*RevokeMsg) ProtoMessage()    {}

// ExecuteMsg executes a transaction that already has enough
// confirmations, for example after the threshold was lowered.
type ExecuteMsg struct {
	Metadata      *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	TransactionID uint64               `protobuf:"varint,2,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id"`
}

func (m *ExecuteMsg) Reset()         { *m = ExecuteMsg{} }
func (m *ExecuteMsg) String() string { return proto.CompactTextString(m) }
func (*ExecuteMsg) ProtoMessage()    {}

// AddOwnerMsg adds an address to the owner set.
type AddOwnerMsg struct {
	Metadata *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Owner    gatekeeper.Address   `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/gatekeeper.Address" json:"owner"`
}

func (m *AddOwnerMsg) Reset()         { *m = AddOwnerMsg{} }
func (m *AddOwnerMsg) String() string { return proto.CompactTextString(m) }
func (*AddOwnerMsg) ProtoMessage()    {}

// RemoveOwnerMsg removes an address from the owner set.
type RemoveOwnerMsg struct {
	Metadata *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Owner    gatekeeper.Address   `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/gatekeeper.Address" json:"owner"`
}

func (m *RemoveOwnerMsg) Reset()         { *m = RemoveOwnerMsg{} }
func (m *RemoveOwnerMsg) String() string { return proto.CompactTextString(m) }
func (*RemoveOwnerMsg) ProtoMessage()    {}

// SetThresholdMsg changes the number of confirmations required.
type SetThresholdMsg struct {
	Metadata  *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Threshold uint32               `protobuf:"varint,2,opt,name=threshold,proto3" json:"threshold"`
}

func (m *SetThresholdMsg) Reset()         { *m = SetThresholdMsg{} }
func (m *SetThresholdMsg) String() string { return proto.CompactTextString(m) }
func (*SetThresholdMsg) ProtoMessage()    {}

// SetManagerMsg hands the allowlist manager role to another identity.
type SetManagerMsg struct {
	Metadata *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Manager  gatekeeper.Address   `protobuf:"bytes,2,opt,name=manager,proto3,casttype=github.com/iov-one/gatekeeper.Address" json:"manager"`
}

func (m *SetManagerMsg) Reset()         { *m = SetManagerMsg{} }
func (m *SetManagerMsg) String() string { return proto.CompactTextString(m) }
func (*SetManagerMsg) ProtoMessage()    {}
