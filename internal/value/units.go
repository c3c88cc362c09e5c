package value

import "math"

// Family groups units that can be converted into one another.
type Family int

const (
	FamilyNone Family = iota
	FamilyAngle
	FamilyLength
	FamilyTime
	FamilyMass
	FamilyTemperature
	FamilyMemory
)

// Units is a single unit within a Family (e.g. FamilyLength/Meters).
type Units struct {
	Family Family
	Name   string
}

var (
	UnitsNone = Units{}

	Radians = Units{FamilyAngle, "radians"}
	Degrees = Units{FamilyAngle, "degrees"}

	Meters      = Units{FamilyLength, "meters"}
	Kilometers  = Units{FamilyLength, "kilometers"}
	Centimeters = Units{FamilyLength, "centimeters"}
	Millimeters = Units{FamilyLength, "millimeters"}
	Miles       = Units{FamilyLength, "miles"}
	Feet        = Units{FamilyLength, "feet"}
	Inches      = Units{FamilyLength, "inches"}

	Seconds      = Units{FamilyTime, "seconds"}
	Milliseconds = Units{FamilyTime, "milliseconds"}
	Microseconds = Units{FamilyTime, "microseconds"}
	Nanoseconds  = Units{FamilyTime, "nanoseconds"}
	Minutes      = Units{FamilyTime, "minutes"}
	Hours        = Units{FamilyTime, "hours"}
	Days         = Units{FamilyTime, "days"}

	Grams      = Units{FamilyMass, "grams"}
	Kilograms  = Units{FamilyMass, "kilograms"}
	Milligrams = Units{FamilyMass, "milligrams"}
	Pounds     = Units{FamilyMass, "pounds"}
	Ounces     = Units{FamilyMass, "ounces"}

	Celsius    = Units{FamilyTemperature, "celsius"}
	Fahrenheit = Units{FamilyTemperature, "fahrenheit"}
	Kelvin     = Units{FamilyTemperature, "kelvin"}

	Bytes     = Units{FamilyMemory, "bytes"}
	Kilobytes = Units{FamilyMemory, "kilobytes"}
	Megabytes = Units{FamilyMemory, "megabytes"}
	Gigabytes = Units{FamilyMemory, "gigabytes"}
)

// linear conversion factors into each family's canonical base unit
// (radians, meters, seconds, grams, bytes). Temperature is affine, handled
// separately in ToBase/FromBase.
var linearBase = map[Units]float64{
	Radians: 1,
	Degrees: math.Pi / 180,

	Meters:      1,
	Kilometers:  1000,
	Centimeters: 0.01,
	Millimeters: 0.001,
	Miles:       1609.344,
	Feet:        0.3048,
	Inches:      0.0254,

	Seconds:      1,
	Milliseconds: 0.001,
	Microseconds: 0.000001,
	Nanoseconds:  0.000000001,
	Minutes:      60,
	Hours:        3600,
	Days:         86400,

	Grams:      1,
	Kilograms:  1000,
	Milligrams: 0.001,
	Pounds:     453.59237,
	Ounces:     28.349523125,

	Bytes:     1,
	Kilobytes: 1024,
	Megabytes: 1024 * 1024,
	Gigabytes: 1024 * 1024 * 1024,
}

// ToBase converts a magnitude in u to the canonical base unit of its family.
func ToBase(v float64, u Units) float64 {
	switch u {
	case Celsius:
		return v + 273.15
	case Fahrenheit:
		return (v-32)*5/9 + 273.15
	case Kelvin:
		return v
	}
	if factor, ok := linearBase[u]; ok {
		return v * factor
	}
	return v
}

// FromBase converts a magnitude in the canonical base unit back into u.
func FromBase(base float64, u Units) float64 {
	switch u {
	case Celsius:
		return base - 273.15
	case Fahrenheit:
		return (base-273.15)*9/5 + 32
	case Kelvin:
		return base
	}
	if factor, ok := linearBase[u]; ok {
		return base / factor
	}
	return base
}

// Convert converts a magnitude from one unit to another in the same family.
// Returns (0, false) if the two units belong to different families.
func Convert(v float64, from, to Units) (float64, bool) {
	if from.Family != to.Family {
		return 0, false
	}
	if from == to {
		return v, true
	}
	return FromBase(ToBase(v, from), to), true
}

var unitsByName = map[string]Units{
	"radians": Radians, "rad": Radians, "degrees": Degrees, "deg": Degrees,
	"meters": Meters, "m": Meters, "kilometers": Kilometers, "km": Kilometers,
	"centimeters": Centimeters, "cm": Centimeters, "millimeters": Millimeters, "mm": Millimeters,
	"miles": Miles, "mi": Miles, "feet": Feet, "ft": Feet, "inches": Inches, "in": Inches,
	"seconds": Seconds, "s": Seconds, "milliseconds": Milliseconds, "ms": Milliseconds,
	"microseconds": Microseconds, "us": Microseconds, "nanoseconds": Nanoseconds, "ns": Nanoseconds,
	"minutes": Minutes, "min": Minutes, "hours": Hours, "hr": Hours, "days": Days, "d": Days,
	"grams": Grams, "g": Grams, "kilograms": Kilograms, "kg": Kilograms,
	"milligrams": Milligrams, "mg": Milligrams, "pounds": Pounds, "lb": Pounds, "ounces": Ounces, "oz": Ounces,
	"celsius": Celsius, "C": Celsius, "fahrenheit": Fahrenheit, "F": Fahrenheit, "kelvin": Kelvin, "K": Kelvin,
	"bytes": Bytes, "B": Bytes, "kilobytes": Kilobytes, "KB": Kilobytes,
	"megabytes": Megabytes, "MB": Megabytes, "gigabytes": Gigabytes, "GB": Gigabytes,
}

// UnitsByName resolves a unit by its name or common abbreviation, used by
// Number.to_units and unit literals in imported text formats.
func UnitsByName(name string) (Units, bool) {
	u, ok := unitsByName[name]
	return u, ok
}

// angleEqualPrecision is the number of decimal places angle comparisons are
// rounded to after normalizing to positive radians, matching the original's
// leniency for floating-point trig results.
const angleEqualPrecision = 6

// normalizeAngleRadians reduces a radian measure to the [0, 2*pi) range and
// rounds it to angleEqualPrecision decimal places.
func normalizeAngleRadians(rad float64) float64 {
	two := 2 * math.Pi
	rad = math.Mod(rad, two)
	if rad < 0 {
		rad += two
	}
	scale := math.Pow(10, angleEqualPrecision)
	return math.Round(rad*scale) / scale
}

// UnitsEqual compares two unit-bearing magnitudes for equality, applying the
// angle family's normalize-to-positive-radians leniency and otherwise an
// exact comparison after conversion to a common base.
func UnitsEqual(a float64, au Units, b float64, bu Units) bool {
	if au.Family != bu.Family {
		return false
	}
	if au.Family == FamilyAngle {
		return normalizeAngleRadians(ToBase(a, au)) == normalizeAngleRadians(ToBase(b, bu))
	}
	return ToBase(a, au) == ToBase(b, bu)
}
