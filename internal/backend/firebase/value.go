package firebase

import (
	"encoding/json"
	"fmt"
	"math"
	"path"
	"strconv"
	"time"

	"taskhub/internal/service"
)

// document is the Firestore REST representation of a document.
type document struct {
	Name       string           `json:"name,omitempty"`
	Fields     map[string]value `json:"fields,omitempty"`
	CreateTime string           `json:"createTime,omitempty"`
	UpdateTime string           `json:"updateTime,omitempty"`
}

type listResponse struct {
	Documents     []document `json:"documents"`
	NextPageToken string     `json:"nextPageToken"`
}

// value is a Firestore typed value. Exactly one field is set.
// NullValue holds the literal JSON null when the value is null.
type value struct {
	NullValue      json.RawMessage `json:"nullValue,omitempty"`
	BooleanValue   *bool           `json:"booleanValue,omitempty"`
	IntegerValue   *string         `json:"integerValue,omitempty"`
	DoubleValue    *float64        `json:"doubleValue,omitempty"`
	StringValue    *string         `json:"stringValue,omitempty"`
	TimestampValue *string         `json:"timestampValue,omitempty"`
}

func encodeDocument(fields service.Fields) (document, error) {
	d := document{Fields: make(map[string]value, len(fields))}
	for k, v := range fields {
		enc, err := encodeValue(v)
		if err != nil {
			return document{}, fmt.Errorf("field %s: %w", k, err)
		}
		d.Fields[k] = enc
	}
	return d, nil
}

func encodeValue(v any) (value, error) {
	switch v := v.(type) {
	case nil:
		return value{NullValue: json.RawMessage("null")}, nil
	case string:
		return value{StringValue: &v}, nil
	case bool:
		return value{BooleanValue: &v}, nil
	case int:
		s := strconv.Itoa(v)
		return value{IntegerValue: &s}, nil
	case int64:
		s := strconv.FormatInt(v, 10)
		return value{IntegerValue: &s}, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return value{}, fmt.Errorf("unsupported float %v", v)
		}
		return value{DoubleValue: &v}, nil
	case time.Time:
		s := v.UTC().Format(time.RFC3339Nano)
		return value{TimestampValue: &s}, nil
	default:
		return value{}, fmt.Errorf("unsupported type %T", v)
	}
}

func (d document) decode() (service.Document, error) {
	fields := make(service.Fields, len(d.Fields))
	for k, v := range d.Fields {
		dec, err := v.decode()
		if err != nil {
			return service.Document{}, fmt.Errorf("document %s field %s: %w", path.Base(d.Name), k, err)
		}
		fields[k] = dec
	}
	return service.Document{ID: path.Base(d.Name), Fields: fields}, nil
}

func (v value) decode() (any, error) {
	switch {
	case v.StringValue != nil:
		return *v.StringValue, nil
	case v.BooleanValue != nil:
		return *v.BooleanValue, nil
	case v.IntegerValue != nil:
		return strconv.ParseInt(*v.IntegerValue, 10, 64)
	case v.DoubleValue != nil:
		return *v.DoubleValue, nil
	case v.TimestampValue != nil:
		return time.Parse(time.RFC3339Nano, *v.TimestampValue)
	case len(v.NullValue) > 0:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported value type")
	}
}
