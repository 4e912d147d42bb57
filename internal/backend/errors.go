package backend

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Error is a structured rejection from the backend: a non-2xx response,
// optionally carrying a reason code in the body. Transport failures are
// not represented as *Error; they surface as wrapped errors from the
// underlying client.
type Error struct {
	Code   string
	Status int
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Code, e.Status)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

// AsError unwraps err into a *Error if the chain contains one.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// decodeError extracts the reason code from an error response body. The
// backend reports it either as a bare string under "error" or as an
// object with a "message" field; both shapes are accepted, and a body
// that is neither still yields an *Error with the HTTP status.
func decodeError(status int, body []byte) error {
	e := &Error{Status: status}

	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return e
	}
	_ = d.Obj(func(d *jx.Decoder, key string) error {
		if key != "error" {
			return d.Skip()
		}
		switch d.Next() {
		case jx.String:
			code, err := d.Str()
			if err != nil {
				return err
			}
			e.Code = code
			return nil
		case jx.Object:
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key != "message" {
					return d.Skip()
				}
				code, err := d.Str()
				if err != nil {
					return err
				}
				e.Code = code
				return nil
			})
		default:
			return d.Skip()
		}
	})
	return e
}
