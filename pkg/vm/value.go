// Package vm implements the script VM's value model, error taxonomy,
// dynamic variables, and built-in function surface (spec.md §4.4, §4.5,
// §4.6). It operates entirely through the sched.Scheduler contract, so
// it can run against any conforming engine-channel implementation.
package vm

// Type is a script expression's type.
type Type int

const (
	TypeInt Type = iota
	TypeReal
	TypeString
	TypeIntArray
	TypeRealArray
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeReal:
		return "REAL"
	case TypeString:
		return "STRING"
	case TypeIntArray:
		return "INT_ARRAY"
	case TypeRealArray:
		return "REAL_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// Unit is a script expression's standard unit, independent of its Type.
type Unit int

const (
	UnitNone Unit = iota
	UnitSecond
	UnitHertz
	UnitBel
)

func (u Unit) String() string {
	switch u {
	case UnitNone:
		return ""
	case UnitSecond:
		return "s"
	case UnitHertz:
		return "Hz"
	case UnitBel:
		return "B"
	default:
		return "?"
	}
}

// MetricPrefix is a power-of-ten scale factor attachable to a numeric
// literal (e.g. `500m` for 0.5, `2k` for 2000).
type MetricPrefix int

const (
	PrefixNone MetricPrefix = iota
	PrefixMicro
	PrefixMilli
	PrefixCenti
	PrefixDeci
	PrefixDeca
	PrefixHecto
	PrefixKilo
)

// Factor returns the power-of-ten multiplier the prefix represents.
func (p MetricPrefix) Factor() float64 {
	switch p {
	case PrefixMicro:
		return 1e-6
	case PrefixMilli:
		return 1e-3
	case PrefixCenti:
		return 1e-2
	case PrefixDeci:
		return 1e-1
	case PrefixDeca:
		return 1e1
	case PrefixHecto:
		return 1e2
	case PrefixKilo:
		return 1e3
	default:
		return 1
	}
}

// Value is a single VM expression result: a typed payload plus the unit,
// metric-prefix factor, and final flag that travel with it per spec.md
// §4.4. Only the field matching Type is meaningful.
type Value struct {
	Type Type

	Int       int64
	Real      float64
	Str       string
	IntArray  []int64
	RealArray []float64

	Unit   Unit
	Prefix MetricPrefix
	Final  bool
}

// Int64 returns v as a Value of type INT.
func Int64(v int64) Value { return Value{Type: TypeInt, Int: v} }

// Real64 returns v as a Value of type REAL.
func Real64(v float64) Value { return Value{Type: TypeReal, Real: v} }

// AsInt truncates a REAL value to INT, or passes an INT value through.
// Non-numeric types return 0.
func (v Value) AsInt() int64 {
	switch v.Type {
	case TypeInt:
		return v.Int
	case TypeReal:
		return int64(v.Real)
	default:
		return 0
	}
}

// AsReal widens an INT value to REAL, or passes a REAL value through.
// Non-numeric types return 0.
func (v Value) AsReal() float64 {
	switch v.Type {
	case TypeInt:
		return float64(v.Int)
	case TypeReal:
		return v.Real
	default:
		return 0
	}
}

// ScaledReal returns AsReal() with the metric prefix factor applied —
// the conversion `evalReal(prefix...)` performs per spec.md §4.4.
func (v Value) ScaledReal() float64 {
	return v.AsReal() * v.Prefix.Factor()
}

// IsFinal reports whether this value's scope is final.
func (v Value) IsFinal() bool { return v.Final }
