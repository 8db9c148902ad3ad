//go:build !opl4mhz

package opl

// FnumTable holds the F-numbers of octave 4 (C to B) for the native 3.58 MHz
// OPL2 clock. Other octaves are reached through the block field only.
var FnumTable = [12]int{
	345, 365, 387, 410, 435, 460, 488, 517, 547, 580, 615, 651,
}
