package wire

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrInvalidBuffer is returned when a byte string cannot be parsed as a
// sequence of protobuf field tags at all (spec.md §4.3 "invalid binary").
var ErrInvalidBuffer = errors.New("invalid buffer")

// MandatoryFieldError is returned when a message is well-formed protobuf
// but is missing a field spec.md §6 lists as mandatory for its kind.
type MandatoryFieldError struct {
	msg string
}

func (e *MandatoryFieldError) Error() string { return e.msg }

func mandatoryError(format string, args ...interface{}) error {
	return &MandatoryFieldError{msg: fmt.Sprintf(format, args...)}
}

// --- low level append helpers -----------------------------------------

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBoolField(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendVarintField(b, num, 1)
}

func appendEnumField(b []byte, num protowire.Number, v int) []byte {
	if v == 0 {
		return b
	}
	return appendVarintField(b, num, uint64(v))
}

func appendInt64Field(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	return appendVarintField(b, num, uint64(v))
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendOptionalStringField(b []byte, num protowire.Number, s *string) []byte {
	if s == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, *s)
}

func appendOptionalInt64Field(b []byte, num protowire.Number, v *int64) []byte {
	if v == nil {
		return b
	}
	return appendVarintField(b, num, uint64(*v))
}

func appendDoubleField(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendMessageField(b []byte, num protowire.Number, inner []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, inner)
}

// --- low level consume helpers ------------------------------------------

// fieldHandler consumes the value bytes (tag already stripped) for one
// field and returns how many bytes it used, or -1 if it doesn't recognize
// num/typ and wants the generic skip applied.
type fieldHandler func(num protowire.Number, typ protowire.Type, rest []byte) (int, error)

func walkFields(buf []byte, fn fieldHandler) error {
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return ErrInvalidBuffer
		}
		buf = buf[n:]
		consumed, err := fn(num, typ, buf)
		if err != nil {
			return err
		}
		if consumed < 0 {
			skip := protowire.ConsumeFieldValue(num, typ, buf)
			if skip < 0 {
				return ErrInvalidBuffer
			}
			consumed = skip
		}
		buf = buf[consumed:]
	}
	return nil
}

func consumeVarint(b []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, ErrInvalidBuffer
	}
	return v, n, nil
}

func consumeBytesRaw(b []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, ErrInvalidBuffer
	}
	return append([]byte(nil), v...), n, nil
}

func consumeString(b []byte) (string, int, error) {
	v, n, err := consumeBytesRaw(b)
	if err != nil {
		return "", 0, err
	}
	return string(v), n, nil
}

func consumeDouble(b []byte) (float64, int, error) {
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, 0, ErrInvalidBuffer
	}
	return math.Float64frombits(v), n, nil
}

// --- Value -----------------------------------------------------------

const (
	fValueString           protowire.Number = 1
	fValueNumber           protowire.Number = 2
	fValueColor            protowire.Number = 3
	fValueList             protowire.Number = 4
	fValueArgumentList     protowire.Number = 5
	fValueMap              protowire.Number = 6
	fValueCompilerFunction protowire.Number = 7
	fValueHostFunction     protowire.Number = 8
	fValueCompilerMixin    protowire.Number = 9
	fValueCalculation      protowire.Number = 10
	fValueSingleton        protowire.Number = 11
)

const (
	fStringText   protowire.Number = 1
	fStringQuoted protowire.Number = 2

	fNumberValue        protowire.Number = 1
	fNumberNumerator    protowire.Number = 2
	fNumberDenominator  protowire.Number = 3

	fColorSpace protowire.Number = 1
	fColorC0    protowire.Number = 2
	fColorC1    protowire.Number = 3
	fColorC2    protowire.Number = 4
	fColorA     protowire.Number = 5

	fListItems     protowire.Number = 1
	fListSeparator protowire.Number = 2
	fListBrackets  protowire.Number = 3

	fArgListItems     protowire.Number = 1
	fArgListKeyword   protowire.Number = 2
	fArgListSeparator protowire.Number = 3
	fArgListID        protowire.Number = 4

	fKeywordKey   protowire.Number = 1
	fKeywordValue protowire.Number = 2

	fMapEntries protowire.Number = 1
	fMapEntryKey   protowire.Number = 1
	fMapEntryValue protowire.Number = 2

	fFunctionID        protowire.Number = 1
	fHostFunctionSig   protowire.Number = 2

	fCalcName protowire.Number = 1
	fCalcArgs protowire.Number = 2

	fCalcValueNumber        protowire.Number = 1
	fCalcValueCalculation   protowire.Number = 2
	fCalcValueUnquotedStr   protowire.Number = 3
	fCalcValueOperation     protowire.Number = 4
	fCalcValueInterpolation protowire.Number = 5

	fCalcOpOp    protowire.Number = 1
	fCalcOpLeft  protowire.Number = 2
	fCalcOpRight protowire.Number = 3
)

// EncodeValue serializes a host value into its wire form (spec.md §4.7).
func EncodeValue(v *Value) []byte {
	var b []byte
	switch v.Kind {
	case ValueKindString:
		inner := appendStringField(nil, fStringText, v.String.Text)
		inner = appendBoolField(inner, fStringQuoted, v.String.Quoted)
		b = appendMessageField(b, fValueString, inner)
	case ValueKindNumber:
		inner := appendDoubleField(nil, fNumberValue, v.Number.Value)
		for _, u := range v.Number.Numerators {
			inner = appendStringField(inner, fNumberNumerator, u)
		}
		for _, u := range v.Number.Denominators {
			inner = appendStringField(inner, fNumberDenominator, u)
		}
		b = appendMessageField(b, fValueNumber, inner)
	case ValueKindColor:
		inner := appendStringField(nil, fColorSpace, ColorSpaceName(v.Color.Space))
		inner = appendDoubleField(inner, fColorC0, v.Color.Channel0)
		inner = appendDoubleField(inner, fColorC1, v.Color.Channel1)
		inner = appendDoubleField(inner, fColorC2, v.Color.Channel2)
		inner = appendDoubleField(inner, fColorA, v.Color.Alpha)
		b = appendMessageField(b, fValueColor, inner)
	case ValueKindList:
		inner := encodeListBody(v.List.Items, v.List.Separator, v.List.Brackets)
		b = appendMessageField(b, fValueList, inner)
	case ValueKindArgumentList:
		var inner []byte
		for _, item := range v.ArgumentList.Items {
			inner = appendMessageField(inner, fArgListItems, EncodeValue(item))
		}
		if v.ArgumentList.Keywords != nil {
			for _, k := range v.ArgumentList.Keywords.Keys() {
				val, _ := v.ArgumentList.Keywords.Get(k)
				entry := appendStringField(nil, fKeywordKey, k)
				entry = appendMessageField(entry, fKeywordValue, EncodeValue(val))
				inner = appendMessageField(inner, fArgListKeyword, entry)
			}
		}
		inner = appendEnumField(inner, fArgListSeparator, int(v.ArgumentList.Separator))
		inner = appendInt64Field(inner, fArgListID, v.ArgumentList.ID)
		b = appendMessageField(b, fValueArgumentList, inner)
	case ValueKindMap:
		var inner []byte
		for _, e := range v.Map.Entries {
			entry := appendMessageField(nil, fMapEntryKey, EncodeValue(e.Key))
			entry = appendMessageField(entry, fMapEntryValue, EncodeValue(e.Value))
			inner = appendMessageField(inner, fMapEntries, entry)
		}
		b = appendMessageField(b, fValueMap, inner)
	case ValueKindCompilerFunction:
		inner := appendInt64Field(nil, fFunctionID, v.CompilerFunction.ID)
		b = appendMessageField(b, fValueCompilerFunction, inner)
	case ValueKindHostFunction:
		inner := appendInt64Field(nil, fFunctionID, v.HostFunction.ID)
		inner = appendStringField(inner, fHostFunctionSig, v.HostFunction.Signature)
		b = appendMessageField(b, fValueHostFunction, inner)
	case ValueKindCompilerMixin:
		inner := appendInt64Field(nil, fFunctionID, v.CompilerMixin.ID)
		b = appendMessageField(b, fValueCompilerMixin, inner)
	case ValueKindCalculation:
		b = appendMessageField(b, fValueCalculation, encodeCalculation(v.Calculation))
	case ValueKindSingleton:
		b = appendVarintField(b, fValueSingleton, uint64(v.Singleton))
	}
	return b
}

func encodeListBody(items []*Value, sep Separator, brackets bool) []byte {
	var inner []byte
	for _, item := range items {
		inner = appendMessageField(inner, fListItems, EncodeValue(item))
	}
	inner = appendEnumField(inner, fListSeparator, int(sep))
	inner = appendBoolField(inner, fListBrackets, brackets)
	return inner
}

func encodeCalculation(c *Calculation) []byte {
	var b []byte
	b = appendStringField(b, fCalcName, CalculationNameString(c.Name))
	for _, arg := range c.Arguments {
		b = appendMessageField(b, fCalcArgs, encodeCalcValue(arg))
	}
	return b
}

func encodeCalcValue(c *CalcValue) []byte {
	var b []byte
	switch {
	case c.Number != nil:
		inner := appendDoubleField(nil, fNumberValue, c.Number.Value)
		for _, u := range c.Number.Numerators {
			inner = appendStringField(inner, fNumberNumerator, u)
		}
		for _, u := range c.Number.Denominators {
			inner = appendStringField(inner, fNumberDenominator, u)
		}
		b = appendMessageField(b, fCalcValueNumber, inner)
	case c.Calculation != nil:
		b = appendMessageField(b, fCalcValueCalculation, encodeCalculation(c.Calculation))
	case c.UnquotedString != nil:
		b = appendOptionalStringField(b, fCalcValueUnquotedStr, c.UnquotedString)
	case c.Operation != nil:
		inner := appendEnumField(nil, fCalcOpOp, int(c.Operation.Op))
		inner = appendMessageField(inner, fCalcOpLeft, encodeCalcValue(c.Operation.Left))
		inner = appendMessageField(inner, fCalcOpRight, encodeCalcValue(c.Operation.Right))
		b = appendMessageField(b, fCalcValueOperation, inner)
	case c.Interpolation != nil:
		b = appendOptionalStringField(b, fCalcValueInterpolation, c.Interpolation)
	}
	return b
}

// DecodeValue parses a wire value, applying the validations spec.md §4.7
// lists for the decode direction.
func DecodeValue(buf []byte) (*Value, error) {
	var out *Value
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fValueString:
			msg, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			s := &String{}
			if err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fStringText:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					s.Text = v
					return n, nil
				case fStringQuoted:
					v, n, err := consumeVarint(rest)
					if err != nil {
						return 0, err
					}
					s.Quoted = v != 0
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			out = &Value{Kind: ValueKindString, String: s}
			return n, nil
		case fValueNumber:
			msg, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			nb, err := decodeNumberBody(msg)
			if err != nil {
				return 0, err
			}
			out = &Value{Kind: ValueKindNumber, Number: nb}
			return n, nil
		case fValueColor:
			msg, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			c, err := decodeColorBody(msg)
			if err != nil {
				return 0, err
			}
			out = &Value{Kind: ValueKindColor, Color: c}
			return n, nil
		case fValueList:
			msg, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			items, sep, brackets, err := decodeListBody(msg)
			if err != nil {
				return 0, err
			}
			out = &Value{Kind: ValueKindList, List: &List{Items: items, Separator: sep, Brackets: brackets}}
			return n, nil
		case fValueArgumentList:
			msg, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			al, err := decodeArgumentListBody(msg)
			if err != nil {
				return 0, err
			}
			out = &Value{Kind: ValueKindArgumentList, ArgumentList: al}
			return n, nil
		case fValueMap:
			msg, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			entries, err := decodeMapBody(msg)
			if err != nil {
				return 0, err
			}
			out = &Value{Kind: ValueKindMap, Map: &Map{Entries: entries}}
			return n, nil
		case fValueCompilerFunction:
			msg, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			id, err := decodeSingleIDBody(msg)
			if err != nil {
				return 0, err
			}
			out = &Value{Kind: ValueKindCompilerFunction, CompilerFunction: &CompilerFunction{ID: id}}
			return n, nil
		case fValueHostFunction:
			// The compiler must never send hostFunction (spec.md §4.7).
			_, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			return n, mandatoryError("Compiler may not send a Value with hostFunction set.")
		case fValueCompilerMixin:
			msg, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			id, err := decodeSingleIDBody(msg)
			if err != nil {
				return 0, err
			}
			out = &Value{Kind: ValueKindCompilerMixin, CompilerMixin: &CompilerMixin{ID: id}}
			return n, nil
		case fValueCalculation:
			msg, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			calc, err := decodeCalculation(msg)
			if err != nil {
				return 0, err
			}
			out = &Value{Kind: ValueKindCalculation, Calculation: calc}
			return n, nil
		case fValueSingleton:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			out = &Value{Kind: ValueKindSingleton, Singleton: Singleton(v)}
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, mandatoryError("Value.value is not set")
	}
	return out, nil
}

func decodeNumberBody(msg []byte) (*Number, error) {
	n := &Number{}
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fNumberValue:
			v, c, err := consumeDouble(rest)
			if err != nil {
				return 0, err
			}
			n.Value = v
			return c, nil
		case fNumberNumerator:
			v, c, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			n.Numerators = append(n.Numerators, v)
			return c, nil
		case fNumberDenominator:
			v, c, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			n.Denominators = append(n.Denominators, v)
			return c, nil
		}
		return -1, nil
	})
	return n, err
}

func decodeColorBody(msg []byte) (*Color, error) {
	c := &Color{}
	var spaceName string
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fColorSpace:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			spaceName = v
			return n, nil
		case fColorC0:
			v, n, err := consumeDouble(rest)
			if err != nil {
				return 0, err
			}
			c.Channel0 = v
			return n, nil
		case fColorC1:
			v, n, err := consumeDouble(rest)
			if err != nil {
				return 0, err
			}
			c.Channel1 = v
			return n, nil
		case fColorC2:
			v, n, err := consumeDouble(rest)
			if err != nil {
				return 0, err
			}
			c.Channel2 = v
			return n, nil
		case fColorA:
			v, n, err := consumeDouble(rest)
			if err != nil {
				return 0, err
			}
			c.Alpha = v
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	space, ok := ColorSpaceFromName(spaceName)
	if !ok {
		return nil, mandatoryError("Unknown color space %q", spaceName)
	}
	c.Space = space
	return c, nil
}

func decodeListBody(msg []byte) ([]*Value, Separator, bool, error) {
	var items []*Value
	var sep Separator
	var brackets bool
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fListItems:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			item, err := DecodeValue(m)
			if err != nil {
				return 0, err
			}
			items = append(items, item)
			return n, nil
		case fListSeparator:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			sep = Separator(v)
			return n, nil
		case fListBrackets:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			brackets = v != 0
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, 0, false, err
	}
	if sep == SeparatorUndecided && len(items) > 1 {
		return nil, 0, false, mandatoryError("A list with an undecided separator may not have more than one element.")
	}
	return items, sep, brackets, nil
}

func decodeArgumentListBody(msg []byte) (*ArgumentList, error) {
	al := &ArgumentList{Keywords: NewOrderedMap()}
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fArgListItems:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			item, err := DecodeValue(m)
			if err != nil {
				return 0, err
			}
			al.Items = append(al.Items, item)
			return n, nil
		case fArgListKeyword:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			var key string
			var val *Value
			if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
				switch num {
				case fKeywordKey:
					v, n, err := consumeString(rest)
					if err != nil {
						return 0, err
					}
					key = v
					return n, nil
				case fKeywordValue:
					vm, n, err := consumeBytesRaw(rest)
					if err != nil {
						return 0, err
					}
					v, err := DecodeValue(vm)
					if err != nil {
						return 0, err
					}
					val = v
					return n, nil
				}
				return -1, nil
			}); err != nil {
				return 0, err
			}
			if key == "" || val == nil {
				return 0, mandatoryError("ArgumentList keyword entry missing key or value")
			}
			al.Keywords.Set(key, val)
			return n, nil
		case fArgListSeparator:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			al.Separator = Separator(v)
			return n, nil
		case fArgListID:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			al.ID = int64(v)
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if al.Separator == SeparatorUndecided && len(al.Items) > 1 {
		return nil, mandatoryError("A list with an undecided separator may not have more than one element.")
	}
	return al, nil
}

func decodeMapBody(msg []byte) ([]MapEntry, error) {
	var entries []MapEntry
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		if num != fMapEntries {
			return -1, nil
		}
		m, n, err := consumeBytesRaw(rest)
		if err != nil {
			return 0, err
		}
		var key, val *Value
		if err := walkFields(m, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
			switch num {
			case fMapEntryKey:
				km, n, err := consumeBytesRaw(rest)
				if err != nil {
					return 0, err
				}
				k, err := DecodeValue(km)
				if err != nil {
					return 0, err
				}
				key = k
				return n, nil
			case fMapEntryValue:
				vm, n, err := consumeBytesRaw(rest)
				if err != nil {
					return 0, err
				}
				v, err := DecodeValue(vm)
				if err != nil {
					return 0, err
				}
				val = v
				return n, nil
			}
			return -1, nil
		}); err != nil {
			return 0, err
		}
		if key == nil || val == nil {
			return 0, mandatoryError("Map entry missing key or value")
		}
		entries = append(entries, MapEntry{Key: key, Value: val})
		return n, nil
	})
	return entries, err
}

func decodeSingleIDBody(msg []byte) (int64, error) {
	var id int64
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		if num != fFunctionID {
			return -1, nil
		}
		v, n, err := consumeVarint(rest)
		if err != nil {
			return 0, err
		}
		id = int64(v)
		return n, nil
	})
	return id, err
}

func decodeCalculation(msg []byte) (*Calculation, error) {
	c := &Calculation{}
	var name string
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fCalcName:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			name = v
			return n, nil
		case fCalcArgs:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			arg, err := decodeCalcValue(m)
			if err != nil {
				return 0, err
			}
			c.Arguments = append(c.Arguments, arg)
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	n, ok := CalculationNameFromString(name)
	if !ok {
		return nil, mandatoryError("Unknown calculation name %q", name)
	}
	c.Name = n
	switch n {
	case CalcCalc:
		if len(c.Arguments) != 1 {
			return nil, mandatoryError("calc() requires exactly 1 argument, got %d", len(c.Arguments))
		}
	case CalcClamp:
		if len(c.Arguments) < 1 || len(c.Arguments) > 3 {
			return nil, mandatoryError("clamp() requires 1 to 3 arguments, got %d", len(c.Arguments))
		}
	case CalcMin, CalcMax:
		if len(c.Arguments) < 1 {
			return nil, mandatoryError("%s() requires at least 1 argument", CalculationNameString(n))
		}
	}
	return c, nil
}

func decodeCalcValue(msg []byte) (*CalcValue, error) {
	out := &CalcValue{}
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fCalcValueNumber:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			nb, err := decodeNumberBody(m)
			if err != nil {
				return 0, err
			}
			out.Number = nb
			return n, nil
		case fCalcValueCalculation:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			calc, err := decodeCalculation(m)
			if err != nil {
				return 0, err
			}
			out.Calculation = calc
			return n, nil
		case fCalcValueUnquotedStr:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			out.UnquotedString = &v
			return n, nil
		case fCalcValueOperation:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			op, err := decodeCalcOperation(m)
			if err != nil {
				return 0, err
			}
			out.Operation = op
			return n, nil
		case fCalcValueInterpolation:
			v, n, err := consumeString(rest)
			if err != nil {
				return 0, err
			}
			out.Interpolation = &v
			return n, nil
		}
		return -1, nil
	})
	return out, err
}

func decodeCalcOperation(msg []byte) (*CalcOperation, error) {
	op := &CalcOperation{}
	err := walkFields(msg, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case fCalcOpOp:
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			op.Op = CalcOp(v)
			return n, nil
		case fCalcOpLeft:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			l, err := decodeCalcValue(m)
			if err != nil {
				return 0, err
			}
			op.Left = l
			return n, nil
		case fCalcOpRight:
			m, n, err := consumeBytesRaw(rest)
			if err != nil {
				return 0, err
			}
			r, err := decodeCalcValue(m)
			if err != nil {
				return 0, err
			}
			op.Right = r
			return n, nil
		}
		return -1, nil
	})
	return op, err
}
