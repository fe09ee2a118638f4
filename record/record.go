// Package record provides RowRecord, one timestamped row of fields for a single device.
package record

import (
	"strconv"
	"strings"

	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/field"
)

// RowRecord holds a device id, a timestamp and an ordered list of fields.
//
// A nil entry in the field list marks an absent measurement. Field names are not checked for
// uniqueness; the write path rejects names it cannot resolve.
//
// Note: RowRecord is NOT safe for concurrent mutation.
type RowRecord struct {
	deviceID  string
	fields    []*field.Field
	timestamp int64
}

// New creates a row record. The fields slice is used as-is.
func New(deviceID string, timestamp int64, fields ...*field.Field) *RowRecord {
	return &RowRecord{deviceID: deviceID, timestamp: timestamp, fields: fields}
}

func (r *RowRecord) DeviceID() string {
	return r.deviceID
}

func (r *RowRecord) SetDeviceID(deviceID string) {
	r.deviceID = deviceID
}

func (r *RowRecord) Timestamp() int64 {
	return r.timestamp
}

func (r *RowRecord) SetTimestamp(ts int64) {
	r.timestamp = ts
}

// Fields returns the field list. The slice is shared with the record.
func (r *RowRecord) Fields() []*field.Field {
	return r.fields
}

func (r *RowRecord) SetFields(fields []*field.Field) {
	r.fields = fields
}

// FieldsNum returns the number of entries, absent ones included.
func (r *RowRecord) FieldsNum() int {
	return len(r.fields)
}

// AddField appends f, which may be nil.
func (r *RowRecord) AddField(f *field.Field) {
	r.fields = append(r.fields, f)
}

// AddFieldValue builds a field from name, value and dt and appends it. A nil value appends an
// absent entry.
func (r *RowRecord) AddFieldValue(name string, value any, dt datatype.DataType) error {
	f, err := field.NewOptional(name, value, dt)
	if err != nil {
		return err
	}
	r.fields = append(r.fields, f)

	return nil
}

// Field returns the entry at index.
func (r *RowRecord) Field(index int) (*field.Field, error) {
	if err := r.checkIndex(index); err != nil {
		return nil, err
	}

	return r.fields[index], nil
}

// SetField replaces the entry at index.
func (r *RowRecord) SetField(index int, f *field.Field) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}
	r.fields[index] = f

	return nil
}

func (r *RowRecord) checkIndex(index int) error {
	if index < 0 || index >= len(r.fields) {
		return errs.Newf(errs.KindIndexOutOfRange, "field index %d out of range [0, %d)", index, len(r.fields))
	}

	return nil
}

// String renders the timestamp followed by each field, separated by two tabs.
func (r *RowRecord) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatInt(r.timestamp, 10))
	for _, f := range r.fields {
		sb.WriteString("\t\t")
		if f == nil {
			sb.WriteString("None")
			continue
		}
		sb.WriteString(f.StringValue())
	}

	return sb.String()
}
