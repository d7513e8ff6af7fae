// Package conv provides bounds-checked integer conversions for values read
// from untrusted input such as envelope headers and configuration files.
package conv
