// Package value defines the validated primitives commands are built from.
//
// Every type is constructed through a New* function that trims input and
// rejects empty identifiers, negative amounts and mismatched currencies with a
// validation error. Values are immutable and compare structurally.
package value
