package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/comptaflow/comptaflow/internal/model"
)

// EncodeRecord serializes a record to its JSON document form, the shape both
// backends persist and the sync queue carries.
func EncodeRecord(rec Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return data, nil
}

// DecodeRecord deserializes a JSON document into t's row type.
func DecodeRecord(t Table, data []byte) (Record, error) {
	rec, err := t.NewRecord()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("decoding %s record: %w", t, err)
	}
	return rec, nil
}

// DecodeDoc deserializes a JSON document into a field map for filtering.
func DecodeDoc(data []byte) (Doc, error) {
	var doc Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return doc, nil
}

// JoinValidationErrors collapses a list of invariant violations into a single
// error, or nil when the list is empty.
func JoinValidationErrors(errs []model.ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		e := errs[0]
		return &e
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Description
	}
	return &model.ValidationError{
		EntityID:    errs[0].EntityID,
		Description: strings.Join(msgs, "; "),
	}
}
