package clients

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// decodeJSON декодирует произвольный JSON в map[string]any, []any, string, int64, float64, bool и nil.
// Тело должно быть ровно одним JSON значением, данные после него считаются ошибкой.
func decodeJSON(data []byte) (any, error) {
	d := jx.DecodeBytes(data)

	value, err := decodeValue(d)
	if err != nil {
		return nil, err
	}

	if err := d.Skip(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected trailing data after JSON value")
	}

	return value, nil
}

func decodeValue(d *jx.Decoder) (any, error) {
	switch tt := d.Next(); tt {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return nil, err
		}

		return s, nil
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return nil, err
		}

		if n.IsInt() {
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
		}

		return n.Float64()
	case jx.Bool:
		b, err := d.Bool()
		if err != nil {
			return nil, err
		}

		return b, nil
	case jx.Null:
		return nil, d.Null()
	case jx.Array:
		list := make([]any, 0)

		err := d.Arr(func(d *jx.Decoder) error {
			v, err := decodeValue(d)
			if err != nil {
				return err
			}

			list = append(list, v)

			return nil
		})
		if err != nil {
			return nil, err
		}

		return list, nil
	case jx.Object:
		obj := make(map[string]any)

		err := d.Obj(func(d *jx.Decoder, key string) error {
			v, err := decodeValue(d)
			if err != nil {
				return err
			}

			obj[key] = v

			return nil
		})
		if err != nil {
			return nil, err
		}

		return obj, nil
	default:
		return nil, errors.Errorf("unexpected JSON token %s", tt)
	}
}
