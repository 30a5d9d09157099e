// Package ordered provides the insertion-ordered Map and Set used as output
// values of the dict and set validators.
//
// Keys and members may be any engine value. Comparable values are indexed
// directly; big integers and byte slices are indexed by their content;
// slices and maps fall back to a linear scan with Equal.
package ordered
