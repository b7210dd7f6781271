package model

import (
	"database/sql/driver"
	"fmt"
)

// Flag is a boolean column that normalizes driver values once at the scan
// boundary. SQL drivers variously return booleans as bool, int64 0/1 or
// byte strings; every entitlement decision reads through this type so the
// resolvers only ever see strict booleans.
type Flag bool

// Scan implements sql.Scanner.
func (f *Flag) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(v)
	case int64:
		*f = v == 1
	case float64:
		*f = v == 1
	case []byte:
		s := string(v)
		*f = s == "1" || s == "t" || s == "T" || s == "true"
	case string:
		*f = v == "1" || v == "t" || v == "T" || v == "true"
	default:
		return fmt.Errorf("cannot scan %T into Flag", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (f Flag) Value() (driver.Value, error) {
	return bool(f), nil
}

// Bool returns the flag as a plain bool.
func (f Flag) Bool() bool {
	return bool(f)
}
