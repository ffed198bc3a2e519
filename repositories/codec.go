package repositories

import (
	"fmt"

	apperrors "workchat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Row values are encoded with goccy/go-json. Keys carry the ordering
// (zero-padded nanosecond timestamps), so values stay plain documents.

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding row: %w", err)
	}
	return data, nil
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding row: %w", err)
	}
	return nil
}

// storeErr maps a badger failure to the transient-store sentinel so callers
// can branch on errors.Is without knowing the engine.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
}

// getValue reads and decodes one key inside an open transaction.
func getValue(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(data []byte) error {
		return decode(data, v)
	})
}

// setValue encodes and writes one key inside an open transaction.
func setValue(txn *badger.Txn, key []byte, v any) error {
	data, err := encode(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}
