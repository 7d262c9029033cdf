package reflector

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Operator semantics follow the source language of the metadata: numbers are
// float64, bitwise operators work on 32-bit integers, `+` concatenates when
// either side is a string, and `==` coerces between numbers, strings and
// booleans.

// binaryOp applies a non-short-circuit binary operator. ok is false when the
// operator is not recognized.
func binaryOp(op string, left, right any) (result any, ok bool) {
	left, right = normalizeNumber(left), normalizeNumber(right)

	switch op {
	case "|":
		return float64(toInt32(left) | toInt32(right)), true
	case "^":
		return float64(toInt32(left) ^ toInt32(right)), true
	case "&":
		return float64(toInt32(left) & toInt32(right)), true
	case "==":
		return looseEquals(left, right), true
	case "!=":
		return !looseEquals(left, right), true
	case "===":
		return strictEquals(left, right), true
	case "!==":
		return !strictEquals(left, right), true
	case "<":
		return compare(left, right, func(c int) bool { return c < 0 }), true
	case ">":
		return compare(left, right, func(c int) bool { return c > 0 }), true
	case "<=":
		return compare(left, right, func(c int) bool { return c <= 0 }), true
	case ">=":
		return compare(left, right, func(c int) bool { return c >= 0 }), true
	case "<<":
		return float64(toInt32(left) << (toUint32(right) & 31)), true
	case ">>":
		return float64(toInt32(left) >> (toUint32(right) & 31)), true
	case "+":
		_, ls := left.(string)
		_, rs := right.(string)
		if ls || rs {
			return toString(left) + toString(right), true
		}
		return toNumber(left) + toNumber(right), true
	case "-":
		return toNumber(left) - toNumber(right), true
	case "*":
		return toNumber(left) * toNumber(right), true
	case "/":
		return toNumber(left) / toNumber(right), true
	case "%":
		return math.Mod(toNumber(left), toNumber(right)), true
	}
	return nil, false
}

// unaryOp applies a prefix operator. ok is false when the operator is not
// recognized.
func unaryOp(op string, operand any) (result any, ok bool) {
	operand = normalizeNumber(operand)

	switch op {
	case "+":
		return toNumber(operand), true
	case "-":
		return -toNumber(operand), true
	case "!":
		return !truthy(operand), true
	case "~":
		return float64(^toInt32(operand)), true
	}
	return nil, false
}

// normalizeNumber widens Go integer types to float64 so hand-built nodes
// behave like decoded JSON.
func normalizeNumber(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v
}

func truthy(v any) bool {
	switch x := normalizeNumber(v).(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	}
	return true
}

func toNumber(v any) float64 {
	switch x := normalizeNumber(v).(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case float64:
		return x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			if n, err := strconv.ParseInt(s[2:], 16, 64); err == nil {
				return float64(n)
			}
			return math.NaN()
		}
		switch s {
		case "Infinity", "+Infinity":
			return math.Inf(1)
		case "-Infinity":
			return math.Inf(-1)
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	}
	return math.NaN()
}

func toUint32(v any) uint32 {
	f := toNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

func toInt32(v any) int32 {
	return int32(toUint32(v))
}

func toString(v any) string {
	switch x := normalizeNumber(v).(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	case float64:
		return formatNumber(x)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			if item != nil {
				parts[i] = toString(item)
			}
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return "[object Object]"
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func strictEquals(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	if b == nil {
		return false
	}
	return sameReference(a, b)
}

func looseEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) == reflect.TypeOf(b) {
		return strictEquals(a, b)
	}

	_, aNum := a.(float64)
	_, bNum := b.(float64)
	_, aStr := a.(string)
	_, bStr := b.(string)
	_, aBool := a.(bool)
	_, bBool := b.(bool)

	switch {
	case aNum && bStr, aStr && bNum:
		return toNumber(a) == toNumber(b)
	case aBool:
		return looseEquals(toNumber(a), b)
	case bBool:
		return looseEquals(a, toNumber(b))
	}
	return false
}

// sameReference compares non-primitive values by identity.
func sameReference(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Type().Comparable() {
		return a == b
	}
	return false
}

// compare orders two values as strings when both are strings and as numbers
// otherwise. Comparisons involving NaN are always false.
func compare(a, b any, accept func(int) bool) bool {
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return accept(strings.Compare(as, bs))
	}
	x, y := toNumber(a), toNumber(b)
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	switch {
	case x < y:
		return accept(-1)
	case x > y:
		return accept(1)
	}
	return accept(0)
}

// indexValue applies `target[index]` to concrete values. Anything else,
// including symbols and typed metadata, yields nil.
func indexValue(target, index any) any {
	index = normalizeNumber(index)

	switch t := target.(type) {
	case []any:
		if key, ok := index.(string); ok && key == "length" {
			return float64(len(t))
		}
		if i, ok := arrayIndex(index); ok && i < len(t) {
			return t[i]
		}
	case map[string]any:
		return t[toString(index)]
	case string:
		if key, ok := index.(string); ok && key == "length" {
			return float64(utf8.RuneCountInString(t))
		}
		if i, ok := arrayIndex(index); ok {
			runes := []rune(t)
			if i < len(runes) {
				return string(runes[i])
			}
		}
	}
	return nil
}

func arrayIndex(index any) (int, bool) {
	var f float64
	switch x := index.(type) {
	case float64:
		f = x
	case string:
		n, err := strconv.Atoi(x)
		if err != nil {
			return 0, false
		}
		f = float64(n)
	default:
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
