package dondi

import (
	"fmt"
	"math"
	"strconv"
)

// Matrix identifies one of the two referral structures of the contract.
type Matrix uint8

const (
	// X3 is the three places matrix.
	X3 Matrix = 1
	// X6 is the six places matrix, split in two sub-levels.
	X6 Matrix = 2
)

// ParseMatrix parses the numeric representation used by the HTTP API.
func ParseMatrix(s string) (Matrix, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("parsing matrix: %s", err)
	}
	m := Matrix(v)
	if !m.Valid() {
		return 0, fmt.Errorf("matrix %d is not 1 or 2", v)
	}
	return m, nil
}

// Valid reports whether m is X3 or X6.
func (m Matrix) Valid() bool {
	return m == X3 || m == X6
}

// Places is the number of places of a matrix level. A placement on the last
// place closes the cycle and triggers a reinvest.
func (m Matrix) Places() int {
	if m == X6 {
		return 6
	}
	return 3
}

func (m Matrix) String() string {
	switch m {
	case X3:
		return "x3"
	case X6:
		return "x6"
	default:
		return fmt.Sprintf("matrix(%d)", uint8(m))
	}
}

// Level is a purchasable slot of a matrix.
type Level uint8

const (
	// FirstLevel is the entry level bought on registration.
	FirstLevel Level = 1
	// LastLevel is the highest level of both matrices.
	LastLevel Level = 12
)

// ParseLevel parses a level in the [1, 12] range.
func ParseLevel(s string) (Level, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("parsing level: %s", err)
	}
	l := Level(v)
	if !l.Valid() {
		return 0, fmt.Errorf("level %d out of range", v)
	}
	return l, nil
}

// Valid reports whether l is in the [1, 12] range.
func (l Level) Valid() bool {
	return l >= FirstLevel && l <= LastLevel
}

// Prev returns the previous level, wrapping from the first to the last one.
func (l Level) Prev() Level {
	if l <= FirstLevel {
		return LastLevel
	}
	return l - 1
}

// Next returns the next level, wrapping from the last to the first one.
func (l Level) Next() Level {
	if l >= LastLevel {
		return FirstLevel
	}
	return l + 1
}

// Key is the "lvN" key used in the JSON views.
func (l Level) Key() string {
	return "lv" + strconv.Itoa(int(l))
}

// Levels returns every level in ascending order.
func Levels() []Level {
	levels := make([]Level, 0, LastLevel)
	for l := FirstLevel; l <= LastLevel; l++ {
		levels = append(levels, l)
	}
	return levels
}

// BasePrice is the price in ether of the first level.
const BasePrice = 0.025

// LevelPrice returns the price in ether of a level: 0.025 doubled on every level.
func LevelPrice(l Level) float64 {
	return BasePrice * math.Pow(2, float64(l)-1)
}
