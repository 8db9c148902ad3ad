//go:build opl4mhz

package opl

// FnumTable holds the F-numbers of octave 4 (C to B) for a 4.0 MHz clocked
// OPL2 core.
var FnumTable = [12]int{
	309, 327, 346, 367, 389, 412, 436, 462, 490, 519, 550, 583,
}
