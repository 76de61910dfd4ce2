// Package storage loads snapshot payloads from files or streams and writes
// analysis results to disk.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnsupportedPayload is returned for JSON that is neither an object nor
// an array.
var ErrUnsupportedPayload = errors.New("storage: expected a JSON object or array")

// Payload is the raw form of one or more snapshots.
type Payload struct {
	Items [][]byte
	// Batch is true when the input was an array or a {"snapshots": [...]}
	// wrapper, even with a single element.
	Batch bool
}

// DecodePayload accepts a single snapshot object, an array of snapshots, or
// an object whose "snapshots" key holds an array.
func DecodePayload(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("storage: read payload: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("storage: empty payload: %w", ErrUnsupportedPayload)
	}

	switch data[0] {
	case '[':
		items, err := splitArray(data)
		if err != nil {
			return nil, err
		}
		return &Payload{Items: items, Batch: true}, nil
	case '{':
		var wrapper struct {
			Snapshots json.RawMessage `json:"snapshots"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("storage: decode payload: %w", err)
		}
		if s := bytes.TrimSpace(wrapper.Snapshots); len(s) > 0 && s[0] == '[' {
			items, err := splitArray(s)
			if err != nil {
				return nil, err
			}
			return &Payload{Items: items, Batch: true}, nil
		}
		return &Payload{Items: [][]byte{data}}, nil
	default:
		return nil, ErrUnsupportedPayload
	}
}

// LoadPayload reads and decodes the payload stored at path.
func LoadPayload(path string) (*Payload, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	defer file.Close()
	return DecodePayload(file)
}

func splitArray(data []byte) ([][]byte, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("storage: decode payload array: %w", err)
	}
	items := make([][]byte, len(raw))
	for i, r := range raw {
		items[i] = []byte(r)
	}
	return items, nil
}
