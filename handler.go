package gatekeeper

import (
	"encoding/json"
	"reflect"

	"github.com/iov-one/gatekeeper/errors"
)

// Msg is a single operation request. It knows the path of the handler
// that processes it and can validate its own content.
type Msg interface {
	// Path returns the path used to route the message to its handler,
	// for example "multisig/confirm".
	Path() string

	// Validate performs a sanity checks that do not require any state.
	Validate() error
}

// Tx represents a single request carrying one message, processed atomically.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}

	// Big thanks to Andrew Gerrand for this code:
	// https://groups.google.com/forum/#!topic/golang-nuts/pwLd4YHQ3Cg
	v := reflect.ValueOf(destination)
	if v.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "invalid destination, must be a pointer")
	}

	src := reflect.ValueOf(msg)
	if src.Kind() == reflect.Ptr {
		src = src.Elem()
	}

	dest := v.Elem()
	if !src.Type().AssignableTo(dest.Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dest.Set(src)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

// Handler is a core engine that can process a few specific messages
// This could represent "confirm a transaction", or "transfer tokens"
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction
// without changing the state.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// CheckResult captures any non-error information from a dry run.
type CheckResult struct {
	// Log is human-readable informational string
	Log string `json:"log,omitempty"`
}

// DeliverResult captures any non-error information from executing a
// message.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the id of a newly
	// submitted transaction.
	Data []byte `json:"data,omitempty"`
	// Log is human-readable informational string
	Log string `json:"log,omitempty"`
	// Events lists all notifications raised by this message. It is
	// filled in by the app once the change is written.
	Events []Event `json:"events,omitempty"`
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// QueryHandler is anything that can return the current state for a given
// query data.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, data []byte) (interface{}, error)
}

// QueryRegistry is used to register queries.
type QueryRegistry interface {
	Register(path string, h QueryHandler)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %q options: %s", key, err)
	}
	return nil
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(ctx Context, opts Options, db KVStore) error
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer(inits)
}

type chainInitializer []Initializer

func (c chainInitializer) FromGenesis(ctx Context, opts Options, db KVStore) error {
	for _, i := range c {
		if err := i.FromGenesis(ctx, opts, db); err != nil {
			return err
		}
	}
	return nil
}
