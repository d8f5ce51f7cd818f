package settings

import (
	"reflect"
)

// Kind is the declared type of a settings value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "undefined"
	}
}

// KindOf classifies a value as decoded from a settings document. A nil value,
// or one that has no JSON representation, is KindUndefined.
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindUndefined
	case string:
		return KindString
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case bool:
		return KindBoolean
	case map[string]interface{}, Document:
		return KindObject
	case []interface{}:
		return KindArray
	}

	// Values built in code rather than decoded from JSON.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Struct:
		return KindObject
	}
	return KindUndefined
}

// Schema declares the kind of every settings key.
type Schema map[string]Kind

// Document is a settings document as persisted. Nested objects are plain
// map[string]interface{} values and numbers are float64.
type Document map[string]interface{}

// Copy returns a deep copy of doc.
func (doc Document) Copy() Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for key, value := range doc {
		out[key] = deepCopy(value)
	}
	return out
}

// Object returns the nested object stored under key.
func (doc Document) Object(key string) (map[string]interface{}, bool) {
	switch v := doc[key].(type) {
	case map[string]interface{}:
		return v, true
	case Document:
		return v, true
	}
	return nil, false
}

func deepCopy(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			out[key] = deepCopy(value)
		}
		return out
	case Document:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			out[key] = deepCopy(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, value := range v {
			out[i] = deepCopy(value)
		}
		return out
	default:
		return v
	}
}
