package orm

import (
	"encoding/binary"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both by NextInt() and by bytes.Compare() on the stored value.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//    _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextInt increments the sequence and returns its state as int.
func (s *Sequence) NextInt(db gatekeeper.KVStore) (int64, error) {
	return s.increment(db, 1)
}

// Latest returns the recently returned value of the sequence. This method does
// not modify the sequence state. Use NextInt to acquire a sequence
// value that was not given to anyone else.
func (s *Sequence) Latest(db gatekeeper.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "cannot read sequence")
	}
	return DecodeSequence(raw)
}

func (s *Sequence) increment(db gatekeeper.KVStore, inc int64) (int64, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	val += inc
	if err := db.Set(s.id, EncodeSequence(val)); err != nil {
		return 0, errors.Wrap(err, "cannot store sequence")
	}
	return val, nil
}

// DecodeSequence converts the stored representation into a number. A
// missing value is zero.
func DecodeSequence(bz []byte) (int64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrapf(errors.ErrState, "invalid sequence value length %d", len(bz))
	}
	return int64(binary.BigEndian.Uint64(bz)), nil
}

// EncodeSequence returns the 8 byte big endian representation of the value.
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}
