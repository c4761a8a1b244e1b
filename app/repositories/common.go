package repositories

import (
	"encoding/binary"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

const (
	// Key prefixes for posts and the id -> sequence index
	PostKeyPrefix      = "post:"
	PostIndexKeyPrefix = "idx:post:"

	// Sequence key for creation order
	PostSeqKey = "seq:post"
)

// getNextID gets the next value of the sequence stored under seqKey.
// Sequences start at 1.
func getNextID(txn *badger.Txn, seqKey string) (uint64, error) {
	var id uint64
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			id, err = decodeSeq(val)
			return err
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	if err := txn.Set([]byte(seqKey), encodeSeq(id)); err != nil {
		return 0, err
	}
	return id, nil
}

func encodeSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func decodeSeq(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errors.Errorf("invalid sequence value of %d bytes", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// postKey sorts in creation order because the sequence is big endian.
func postKey(seq uint64) []byte {
	return append([]byte(PostKeyPrefix), encodeSeq(seq)...)
}

func postIndexKey(id string) []byte {
	return []byte(PostIndexKeyPrefix + id)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal entity")
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return errors.Wrap(err, "failed to unmarshal entity")
	}
	return nil
}
