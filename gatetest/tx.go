package gatetest

import "github.com/iov-one/gatekeeper"

// Tx represents a single request carrying a message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg gatekeeper.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ gatekeeper.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (gatekeeper.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message that can be routed but carries no content.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by the validate method.
	Err error
}

var _ gatekeeper.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
