package internal

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// decimalCodec stores decimal.Decimal values as BSON Decimal128. The driver's
// default struct codec sees no exported fields on decimal.Decimal and writes
// an empty document, so prices and energy totals would read back as zero.
type decimalCodec struct{}

func (decimalCodec) EncodeValue(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != decimalType {
		return bsoncodec.ValueEncoderError{Name: "decimalCodec.EncodeValue", Types: []reflect.Type{decimalType}, Received: val}
	}
	value := val.Interface().(decimal.Decimal)
	d128, err := primitive.ParseDecimal128(value.String())
	if err != nil {
		return fmt.Errorf("encoding decimal %s: %w", value, err)
	}
	return vw.WriteDecimal128(d128)
}

func (decimalCodec) DecodeValue(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != decimalType {
		return bsoncodec.ValueDecoderError{Name: "decimalCodec.DecodeValue", Types: []reflect.Type{decimalType}, Received: val}
	}
	var value decimal.Decimal
	switch vr.Type() {
	case bsontype.Decimal128:
		d128, err := vr.ReadDecimal128()
		if err != nil {
			return err
		}
		value, err = decimal.NewFromString(d128.String())
		if err != nil {
			return err
		}
	case bsontype.Double:
		f, err := vr.ReadDouble()
		if err != nil {
			return err
		}
		value = decimal.NewFromFloat(f)
	case bsontype.String:
		s, err := vr.ReadString()
		if err != nil {
			return err
		}
		value, err = decimal.NewFromString(s)
		if err != nil {
			return err
		}
	case bsontype.Int32:
		i, err := vr.ReadInt32()
		if err != nil {
			return err
		}
		value = decimal.NewFromInt(int64(i))
	case bsontype.Int64:
		i, err := vr.ReadInt64()
		if err != nil {
			return err
		}
		value = decimal.NewFromInt(i)
	case bsontype.Null:
		if err := vr.ReadNull(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("cannot decode bson %v into a decimal", vr.Type())
	}
	val.Set(reflect.ValueOf(value))
	return nil
}

// mongoRegistry The bson registry used by every connection: driver defaults
// plus the decimal codec.
func mongoRegistry() *bsoncodec.Registry {
	registry := bson.NewRegistry()
	registry.RegisterTypeEncoder(decimalType, decimalCodec{})
	registry.RegisterTypeDecoder(decimalType, decimalCodec{})
	return registry
}
