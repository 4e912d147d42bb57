package backend

import (
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

func decodeProducts(data []byte) ([]product.Product, error) {
	var out []product.Product
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return out, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "ownerId":
			p.OwnerID, err = d.Str()
		case "title":
			p.Title, err = d.Str()
		case "imageUrl":
			p.ImageURL, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "price":
			p.Price, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}

func decodeOrders(data []byte) ([]order.Order, error) {
	var out []order.Order
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		var o order.Order
		err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				o.ID, err = d.Str()
			case "cartItems":
				err = d.Arr(func(d *jx.Decoder) error {
					line, err := decodeLine(d)
					if err != nil {
						return err
					}
					o.Items = append(o.Items, line)
					return nil
				})
			case "totalAmount":
				o.Total, err = decodeDecimal(d)
			case "date":
				var raw string
				if raw, err = d.Str(); err == nil {
					o.PlacedAt, err = time.Parse(time.RFC3339, raw)
				}
			default:
				err = d.Skip()
			}
			return err
		})
		if err != nil {
			return err
		}
		out = append(out, o)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return out, nil
}

func decodeLine(d *jx.Decoder) (cart.Line, error) {
	var line cart.Line
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			line.ProductID, err = d.Str()
		case "title":
			line.Title, err = d.Str()
		case "price":
			line.Price, err = decodeDecimal(d)
		case "quantity":
			line.Quantity, err = d.Int()
		case "sumPrice":
			line.Sum, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return line, err
}

func encodeOrder(items []cart.Line, total decimal.Decimal, placedAt time.Time) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("cartItems")
	e.ArrStart()
	for _, line := range items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(line.ProductID)
		e.FieldStart("title")
		e.Str(line.Title)
		e.FieldStart("price")
		e.Num(jx.Num(line.Price.String()))
		e.FieldStart("quantity")
		e.Int(line.Quantity)
		e.FieldStart("sumPrice")
		e.Num(jx.Num(line.Sum.String()))
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("totalAmount")
	e.Num(jx.Num(total.String()))
	e.FieldStart("date")
	e.Str(placedAt.UTC().Format(time.RFC3339))
	e.ObjEnd()
	return e.Bytes()
}

func decodePlaced(data []byte) (string, error) {
	var id string
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "id" {
			return d.Skip()
		}
		var err error
		id, err = d.Str()
		return err
	}); err != nil {
		return "", errors.Wrap(err, "decode order id")
	}
	if id == "" {
		return "", errors.New("response missing order id")
	}
	return id, nil
}

func encodeCredentials(email, password string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("email")
	e.Str(email)
	e.FieldStart("password")
	e.Str(password)
	e.ObjEnd()
	return e.Bytes()
}

func decodeCredentials(data []byte) (Credentials, error) {
	var creds Credentials
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "localId":
			creds.UserID, err = d.Str()
		case "idToken":
			creds.Token, err = d.Str()
		case "expiresIn":
			creds.ExpiresIn, err = decodeSeconds(d)
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return Credentials{}, errors.Wrap(err, "decode credentials")
	}
	if creds.UserID == "" || creds.Token == "" {
		return Credentials{}, errors.New("response missing credentials")
	}
	return creds, nil
}

// decodeDecimal reads a price that the backend may serialize as a JSON
// number or as a string.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	if d.Next() == jx.String {
		s, err := d.Str()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromString(s)
	}
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(n.String())
}

// decodeSeconds reads an expiry window given in seconds, serialized as
// either a number or a string.
func decodeSeconds(d *jx.Decoder) (time.Duration, error) {
	if d.Next() == jx.String {
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, "parse expiresIn")
		}
		return time.Duration(secs) * time.Second, nil
	}
	secs, err := d.Int64()
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}
