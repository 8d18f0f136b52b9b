package models

import (
	"bytes"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
)

// Product is a schema-less document from the products collection. ID is the
// store-assigned identifier; Fields holds everything else in stored order.
type Product struct {
	ID     string
	Fields bson.D
}

// reservedFields can only be set by the store.
var reservedFields = []string{"id", "_id"}

// Sanitize returns a copy of body without the reserved identifier keys.
// A nil body yields an empty, non-nil document.
func Sanitize(body bson.D) bson.D {
	out := make(bson.D, 0, len(body))
	for _, e := range body {
		if !slices.Contains(reservedFields, e.Key) {
			out = append(out, e)
		}
	}
	return out
}

// Merge sets every field on doc. Existing keys keep their position and new
// keys are appended in order. doc is modified in place.
func Merge(doc, fields bson.D) bson.D {
	for _, f := range fields {
		i := slices.IndexFunc(doc, func(e bson.E) bool { return e.Key == f.Key })
		if i >= 0 {
			doc[i].Value = f.Value
			continue
		}
		doc = append(doc, f)
	}
	return doc
}

// MarshalJSON renders the product as {"id": ..., ...fields} with id first and
// the fields in stored order. The id always wins over a field of the same name.
func (p Product) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"id":`)
	if err := writeJSON(&buf, p.ID); err != nil {
		return nil, err
	}
	for _, e := range p.Fields {
		if e.Key == "id" {
			continue
		}
		buf.WriteByte(',')
		if err := writeMember(&buf, e.Key, e.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
