// Package validation provides centralized input validation logic.
// This includes bucket and container name validation, key affix checks and
// run option bounds.
//
// Everything is validated before the first level starts so that a bad
// configuration never shows up as an upload failure halfway through a sweep.
package validation
