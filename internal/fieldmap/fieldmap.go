// Package fieldmap translates client records between the application field
// names (camelCase, used in memory and in the local store) and the storage
// column names used by the remote table.
package fieldmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/julianstephens/clientmgr/internal/models"
)

// renamed lists every field whose storage name differs from its application name.
var renamed = map[string]string{
	"phoneOwner":    "phone_owner",
	"finalDeadline": "final_deadline",
}

var (
	toStorage   map[string]string
	fromStorage map[string]string
	fields      []string
)

func init() {
	fields = clientFields()
	toStorage = make(map[string]string, len(fields))
	fromStorage = make(map[string]string, len(fields))

	for _, f := range fields {
		col := f
		if r, ok := renamed[f]; ok {
			col = r
		}
		if prev, dup := fromStorage[col]; dup {
			panic(fmt.Sprintf("fieldmap: fields %q and %q both map to column %q", prev, f, col))
		}
		toStorage[f] = col
		fromStorage[col] = f
	}
	for f := range renamed {
		if _, ok := toStorage[f]; !ok {
			panic(fmt.Sprintf("fieldmap: renamed field %q is not a client field", f))
		}
	}
}

// clientFields returns the JSON names of every serialized field of models.Client.
func clientFields() []string {
	t := reflect.TypeOf(models.Client{})
	out := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Fields returns the application names of all client fields in declaration order.
func Fields() []string {
	return append([]string(nil), fields...)
}

// Columns returns the storage names of all client fields in declaration order.
func Columns() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = toStorage[f]
	}
	return out
}

// Column returns the storage name for an application field name.
// Names the mapping does not know pass through unchanged.
func Column(field string) string {
	if col, ok := toStorage[field]; ok {
		return col
	}
	return field
}

// Field returns the application name for a storage column name.
// Names the mapping does not know pass through unchanged.
func Field(column string) string {
	if f, ok := fromStorage[column]; ok {
		return f
	}
	return column
}

// ToStorage renames the keys of an application-convention record.
func ToStorage(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[Column(k)] = v
	}
	return out
}

// FromStorage renames the keys of a storage-convention row.
func FromStorage(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[Field(k)] = v
	}
	return out
}

// EncodeClient converts a client into a storage-convention row.
func EncodeClient(c models.Client) (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode client: %w", err)
	}
	rec := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to encode client: %w", err)
	}
	return ToStorage(rec), nil
}

// DecodeClient converts a storage-convention row into a client.
// Columns that are not client fields, such as the owner, are ignored.
func DecodeClient(row map[string]any) (models.Client, error) {
	data, err := json.Marshal(FromStorage(row))
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to decode client row: %w", err)
	}
	var c models.Client
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Client{}, fmt.Errorf("failed to decode client row: %w", err)
	}
	return c, nil
}
