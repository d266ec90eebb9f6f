package orm

import (
	"reflect"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/store"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	proto.Message
	Validate() error
}

// ModelSlicePtr represents a pointer to a slice of models. Think of it as
// *[]Model Because of Go type system, using []Model type would not work for us.
// Instead we use a placeholder type and the validation is done during the
// runtime.
type ModelSlicePtr interface{}

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db gatekeeper.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given key exists and ErrNotFound
	// otherwise.
	Has(db gatekeeper.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. The model is validated
	// before writing.
	Put(db gatekeeper.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db gatekeeper.KVStore, key []byte) error

	// All loads every stored entity in key order into given destination,
	// which must be a pointer to a slice of models. Keys are returned in
	// the same order.
	All(db gatekeeper.ReadOnlyKVStore, dest ModelSlicePtr) ([][]byte, error)
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as given example under the name prefix.
func NewModelBucket(name string, example Model) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	tp := reflect.TypeOf(example)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	return &modelBucket{
		prefix: []byte(name + ":"),
		model:  tp.Elem(),
	}
}

type modelBucket struct {
	prefix []byte
	model  reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte{}, mb.prefix...), key...)
}

func (mb *modelBucket) One(db gatekeeper.ReadOnlyKVStore, key []byte, dest Model) error {
	if t := reflect.TypeOf(dest); t.Kind() != reflect.Ptr || t.Elem() != mb.model {
		return errors.Wrapf(errors.ErrType, "%s cannot be represented as %T", mb.model, dest)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db gatekeeper.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model)
	}
	return nil
}

func (mb *modelBucket) Put(db gatekeeper.KVStore, key []byte, m Model) error {
	if t := reflect.TypeOf(m); t.Kind() != reflect.Ptr || t.Elem() != mb.model {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.model)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := proto.Marshal(m)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db gatekeeper.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return db.Delete(mb.dbKey(key))
}

func (mb *modelBucket) All(db gatekeeper.ReadOnlyKVStore, dest ModelSlicePtr) ([][]byte, error) {
	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to a slice of models")
	}
	elem := slice.Elem().Type().Elem()
	byPtr := elem.Kind() == reflect.Ptr
	if (byPtr && elem.Elem() != mb.model) || (!byPtr && elem != mb.model) {
		return nil, errors.Wrapf(errors.ErrType, "cannot load %s into %T", mb.model, dest)
	}

	it, err := db.Iterator(mb.prefix, store.PrefixEnd(mb.prefix))
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate")
	}
	rows, err := store.ReadAll(it)
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate")
	}

	keys := make([][]byte, 0, len(rows))
	res := reflect.MakeSlice(slice.Elem().Type(), 0, len(rows))
	for _, row := range rows {
		m := reflect.New(mb.model)
		if err := proto.Unmarshal(row.Value, m.Interface().(proto.Message)); err != nil {
			return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.model, err)
		}
		if byPtr {
			res = reflect.Append(res, m)
		} else {
			res = reflect.Append(res, m.Elem())
		}
		keys = append(keys, row.Key[len(mb.prefix):])
	}
	slice.Elem().Set(res)
	return keys, nil
}
