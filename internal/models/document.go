package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotObject is returned for a request body that is valid JSON but not an
// object.
var ErrNotObject = errors.New("request body must be a JSON object")

// DecodeDocument reads a single JSON object from r and keeps its key order.
// Nested objects decode as bson.D and arrays as bson.A. Integers that fit in
// an int64 stay integers, other numbers are float64. A repeated key keeps its
// first position and its last value. An empty body or a literal null is an
// empty document.
func DecodeDocument(r io.Reader) (bson.D, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return bson.D{}, nil
	}
	if err != nil {
		return nil, err
	}

	var doc bson.D
	switch tok {
	case json.Delim('{'):
		if doc, err = decodeObject(dec); err != nil {
			return nil, err
		}
	case nil:
		doc = bson.D{}
	default:
		return nil, ErrNotObject
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON object")
		}
		return nil, err
	}
	return doc, nil
}

func decodeObject(dec *json.Decoder) (bson.D, error) {
	doc := bson.D{}
	for dec.More() {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid object key %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		doc = Merge(doc, bson.D{{Key: key, Value: value}})
	}
	if _, err := nextToken(dec); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeArray(dec *json.Decoder) (bson.A, error) {
	arr := bson.A{}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	if _, err := nextToken(dec); err != nil {
		return nil, err
	}
	return arr, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := nextToken(dec)
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		if v == '{' {
			return decodeObject(dec)
		}
		return decodeArray(dec)
	case json.Number:
		return toNumber(v)
	default:
		return v, nil
	}
}

// nextToken reads inside an object or array, where running out of input is
// a truncated body.
func nextToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

func toNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("number %s out of range", n)
	}
	return f, nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	if err := writeJSON(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return writeJSON(buf, value)
}

// writeJSON renders v, keeping the element order of bson.D values.
func writeJSON(buf *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case bson.D:
		buf.WriteByte('{')
		for i, e := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeMember(buf, e.Key, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case bson.M:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeMember(buf, k, v[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case bson.A:
		return writeArray(buf, v)
	case []any:
		return writeArray(buf, v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(raw)
		return nil
	}
}

func writeArray(buf *bytes.Buffer, values []any) error {
	buf.WriteByte('[')
	for i, value := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(buf, value); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}
