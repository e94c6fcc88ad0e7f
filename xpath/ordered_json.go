package xpath

import (
	"encoding/json"
	"errors"
	"io"
)

// orderedObject is a JSON object decoded while preserving the source order
// of its keys. encoding/json has no built-in order-preserving map type, so
// decodeOrdered walks the token stream (json.Decoder.Token) by hand instead
// of unmarshaling into map[string]interface{}, which is the one construct
// in this package that falls back to a standard-library-only approach: no
// dependency retrieved alongside this spec offers a generic, order-
// preserving JSON tree decoder as a direct import (see DESIGN.md).
type orderedObject struct {
	keys []string
	vals []interface{}
}

func decodeOrdered(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeOrderedValue(dec, tok)
}

func decodeOrderedValue(dec *json.Decoder, tok json.Token) (interface{}, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeOrderedObject(dec)
		case '[':
			return decodeOrderedArray(dec)
		default:
			return nil, errors.New("xpath: unexpected JSON delimiter")
		}
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case float64, string, bool, nil:
		return t, nil
	default:
		return t, nil
	}
}

func decodeOrderedObject(dec *json.Decoder) (*orderedObject, error) {
	obj := &orderedObject{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := decodeOrderedValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		obj.keys = append(obj.keys, key)
		obj.vals = append(obj.vals, val)
	}
	// consume closing '}'
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return obj, nil
}

func decodeOrderedArray(dec *json.Decoder) ([]interface{}, error) {
	var arr []interface{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := decodeOrderedValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return arr, nil
}
