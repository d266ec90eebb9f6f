package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/gatekeeper"
)

// TokenInfo describes the issued token.
type TokenInfo struct {
	Metadata *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Name     string               `protobuf:"bytes,2,opt,name=name,proto3" json:"name"`
	Symbol   string               `protobuf:"bytes,3,opt,name=symbol,proto3" json:"symbol"`
	Decimals uint32               `protobuf:"varint,4,opt,name=decimals,proto3" json:"decimals"`
	// Supply is the number of tokens in circulation, in the smallest
	// unit. It only decreases, by burning.
	Supply uint64 `protobuf:"varint,5,opt,name=supply,proto3" json:"supply"`
}

func (m *TokenInfo) Reset()         { *m = TokenInfo{} }
func (m *TokenInfo) String() string { return proto.CompactTextString(m) }
func (*TokenInfo) ProtoMessage()    {}

// Wallet is the balance of a single address.
type Wallet struct {
	Metadata *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Balance  uint64               `protobuf:"varint,2,opt,name=balance,proto3" json:"balance"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

// TransferMsg moves tokens from the caller to the destination.
type TransferMsg struct {
	Metadata    *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Destination gatekeeper.Address   `protobuf:"bytes,2,opt,name=destination,proto3,casttype=github.com/iov-one/gatekeeper.Address" json:"destination"`
	Amount      uint64               `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
}

func (m *TransferMsg) Reset()         { *m = TransferMsg{} }
func (m *TransferMsg) String() string { return proto.CompactTextString(m) }
func (*TransferMsg) ProtoMessage()    {}

// BurnMsg destroys tokens owned by the caller.
type BurnMsg struct {
	Metadata *gatekeeper.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Amount   uint64               `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

func (m *BurnMsg) Reset()         { *m = BurnMsg{} }
func (m *BurnMsg) String() string { return proto.CompactTextString(m) }
func (*BurnMsg) ProtoMessage()    {}
