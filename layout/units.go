package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file holds unit-aware lengths used by the document pipeline. Layout itself runs in mm.

// Unit represents the unit a length was written with in the DSL.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

func (u Unit) String() string {
	for _, s := range unitSuffixes {
		if s.unit == u {
			return s.suffix
		}
	}
	return ""
}

// mmPer 返回一个单位对应的毫米数；UnitNone 按毫米处理。
func (u Unit) mmPer() float64 {
	switch u {
	case UnitCM:
		return 10
	case UnitIN:
		return 25.4
	case UnitPT:
		return PtToMm
	default:
		return 1
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// To converts this length to target unit. Supported targets: UnitMM, UnitPT (UnitNone means mm).
func (l Length) To(target Unit) float64 {
	if l.Unit == target {
		return l.Value
	}
	if l.Unit == UnitNone {
		return l.Value
	}
	mm := l.Value * l.Unit.mmPer()
	if target == UnitPT {
		return mm * MmToPt
	}
	return mm
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

// ParseLength 解析带单位的长度；缺省单位视为 UnitNone。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, s := range unitSuffixes {
		if strings.HasSuffix(v, s.suffix) {
			unit = s.unit
			num = strings.TrimSpace(strings.TrimSuffix(v, s.suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec is either a factor of the font size (1.2x) or an absolute length (18pt).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight 解析 "1.2x"、"1.2" 或 "18pt" 形式的行高。
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if f, ok := strings.CutSuffix(v, "x"); ok {
		factor, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return LineHeightSpec{}, fmt.Errorf("无法解析行高倍数 %q: %w", value, err)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: factor}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeightSpec{}, err
	}
	if l.Unit == UnitNone {
		return LineHeightSpec{Kind: LineHeightFactor, Factor: l.Value}, nil
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
}

// Resolve computes the absolute line height in target unit using the given fontSize.
func (s LineHeightSpec) Resolve(fontSize Length, target Unit) float64 {
	switch s.Kind {
	case LineHeightFactor:
		return fontSize.To(target) * s.Factor
	case LineHeightAbsolute:
		return s.Len.To(target)
	default:
		return fontSize.To(target) * 1.2
	}
}
