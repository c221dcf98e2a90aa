// Package rngtest holds scripted random sources for tests.
package rngtest

// Fixed replays a scripted sequence of rolls. Float64 and IntN each cycle
// through their own list; an empty list yields 0.
type Fixed struct {
	Floats []float64
	Ints   []int

	fi int
	ii int
}

func (f *Fixed) Float64() float64 {
	if len(f.Floats) == 0 {
		return 0
	}
	v := f.Floats[f.fi%len(f.Floats)]
	f.fi++
	return v
}

func (f *Fixed) IntN(n int) int {
	if len(f.Ints) == 0 || n <= 0 {
		return 0
	}
	v := f.Ints[f.ii%len(f.Ints)]
	f.ii++
	if v < 0 {
		v = -v
	}
	return v % n
}
