package tenant

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
)

var errNullValue = errors.New("stored value is null")

// decodeInto unmarshals raw into a fresh value and only then copies it into
// dest, so a failed decode never leaves dest half-written.
func decodeInto(raw string, dest interface{}) error {
	if bytes.Equal(bytes.TrimSpace([]byte(raw)), []byte("null")) {
		return errNullValue
	}
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("destination must be a non-nil pointer")
	}
	tmp := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal([]byte(raw), tmp.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(tmp.Elem())
	return nil
}
