// Package embeddedsass is a host-side Go implementation of the Embedded
// Sass Protocol: it drives an out-of-process Sass compiler over its
// stdin/stdout, exchanging length-prefixed protobuf-wire messages, and
// exposes the result as a plain Compile call.
//
// A Compiler spawns one compiler child per compile. Importers and
// functions are supplied through Options and invoked synchronously from
// the same goroutine that called Compile.
package embeddedsass
