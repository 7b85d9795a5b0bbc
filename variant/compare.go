package variant

import (
	"fmt"
	"math/big"
	"strconv"
)

// Numerify coerces v to a float64, matching spec §4.6 ("numerify to f64").
// Containers and UNDEFINED/NULL numerify to 0; BOOLEAN to 0/1.
func (v *Value) Numerify() float64 {
	switch v.kind {
	case Undefined, Null:
		return 0
	case Boolean:
		if v.b {
			return 1
		}
		return 0
	case Number:
		return v.num
	case LongInt:
		return float64(v.i64)
	case ULongInt:
		return float64(v.u64)
	case LongDouble:
		return v.ld
	case BigInt:
		f, _ := new(big.Float).SetInt(v.bigint).Float64()
		return f
	case String, AtomString:
		f, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Stringify renders v for CONCAT-STRING evaluation (spec §4.5).
func (v *Value) Stringify() string {
	switch v.kind {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		if v.b {
			return "true"
		}
		return "false"
	case Number:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case LongInt:
		return strconv.FormatInt(v.i64, 10)
	case ULongInt:
		return strconv.FormatUint(v.u64, 10)
	case LongDouble:
		return strconv.FormatFloat(v.ld, 'g', -1, 64)
	case BigInt:
		return v.bigint.String()
	case AtomString, String:
		return v.str
	case ByteSeq:
		return string(v.bytes)
	case Object:
		return v.obj.String()
	case Array:
		return v.arr.String()
	case Set:
		return v.set_.String()
	case Tuple:
		return fmt.Sprintf("tuple(%d elements)", len(v.tuple))
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}

func isNumericKind(k Kind) bool {
	switch k {
	case Number, LongInt, ULongInt, LongDouble, BigInt:
		return true
	}
	return false
}

// Compare orders a and b. Mixed numeric kinds are widened explicitly
// (never cast away sign silently, per spec §9): BigInt comparisons widen
// the other side to big.Float; otherwise both sides widen to float64.
// Non-numeric, non-equal kinds compare by kind name as a stable tiebreak.
func Compare(a, b *Value) int {
	if isNumericKind(a.kind) && isNumericKind(b.kind) {
		if a.kind == BigInt || b.kind == BigInt {
			af := bigFloatOf(a)
			bf := bigFloatOf(b)
			return af.Cmp(bf)
		}
		af, bf := a.Numerify(), b.Numerify()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	if a.kind == b.kind {
		switch a.kind {
		case String, AtomString:
			return compareStrings(a.str, b.str)
		case Boolean:
			if a.b == b.b {
				return 0
			}
			if !a.b {
				return -1
			}
			return 1
		}
	}
	return compareStrings(a.TypeName(), b.TypeName())
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func bigFloatOf(v *Value) *big.Float {
	switch v.kind {
	case BigInt:
		return new(big.Float).SetInt(v.bigint)
	default:
		return big.NewFloat(v.Numerify())
	}
}

// Equal reports deep structural equality (spec §3's SET uniqueness and
// §8's "container uniqueness" property both rest on this).
func Equal(a, b *Value) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if isNumericKind(a.kind) && isNumericKind(b.kind) {
		return Compare(a, b) == 0
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Undefined, Null:
		return true
	case Boolean:
		return a.b == b.b
	case String, AtomString:
		return a.str == b.str
	case ByteSeq:
		return string(a.bytes) == string(b.bytes)
	case Exception:
		return a.exceptionAtom == b.exceptionAtom
	case Object:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, k := range a.obj.keys {
			bv, ok := b.obj.Get(k)
			if !ok {
				return false
			}
			av, _ := a.obj.Get(k)
			if !Equal(av, bv) {
				return false
			}
		}
		return true
	case Array:
		if a.arr.Len() != b.arr.Len() {
			return false
		}
		for i, e := range a.arr.elems {
			if !Equal(e, b.arr.elems[i]) {
				return false
			}
		}
		return true
	case Set:
		if a.set_.Len() != b.set_.Len() {
			return false
		}
		for _, e := range a.set_.elems {
			if !b.set_.contains(e) {
				return false
			}
		}
		return true
	case Tuple:
		if len(a.tuple) != len(b.tuple) {
			return false
		}
		for i, e := range a.tuple {
			if !Equal(e, b.tuple[i]) {
				return false
			}
		}
		return true
	case Native:
		return a.native == b.native
	case Dynamic:
		return false
	default:
		return false
	}
}
