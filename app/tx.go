package app

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
)

// Tx is the request processed by the engine. It carries exactly one
// message.
type Tx struct {
	Msg gatekeeper.Msg
}

var _ gatekeeper.Tx = (*Tx)(nil)

// NewTx wraps given message.
func NewTx(msg gatekeeper.Msg) *Tx {
	return &Tx{Msg: msg}
}

// GetMsg returns the wrapped message.
func (tx *Tx) GetMsg() (gatekeeper.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "no message")
	}
	return tx.Msg, nil
}

// MsgRegistry maps message paths to constructors so that transports can
// decode a message from its JSON representation.
type MsgRegistry struct {
	msgs map[string]func() gatekeeper.Msg
}

// NewMsgRegistry returns an empty registry.
func NewMsgRegistry() *MsgRegistry {
	return &MsgRegistry{msgs: make(map[string]func() gatekeeper.Msg)}
}

// Register adds a message constructor. The path is taken from the message
// it returns. Registering the same path twice panics.
func (r *MsgRegistry) Register(fn func() gatekeeper.Msg) {
	path := fn().Path()
	if _, ok := r.msgs[path]; ok {
		panic(fmt.Sprintf("re-registering message: %s", path))
	}
	r.msgs[path] = fn
}

// Paths returns all registered message paths in alphabetical order.
func (r *MsgRegistry) Paths() []string {
	paths := make([]string, 0, len(r.msgs))
	for p := range r.msgs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Decode builds the message registered under path from its JSON
// representation. A message without metadata gets the current schema.
func (r *MsgRegistry) Decode(path string, raw []byte) (gatekeeper.Msg, error) {
	fn, ok := r.msgs[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "unknown message path %q", path)
	}
	msg := fn()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, msg); err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "cannot decode %s: %s", path, err)
		}
	}
	setDefaultMetadata(msg)
	return msg, nil
}

var metadataType = reflect.TypeOf(&gatekeeper.Metadata{})

func setDefaultMetadata(msg gatekeeper.Msg) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}
	f := v.Elem().FieldByName("Metadata")
	if f.IsValid() && f.Type() == metadataType && f.IsNil() && f.CanSet() {
		f.Set(reflect.ValueOf(&gatekeeper.Metadata{Schema: 1}))
	}
}
