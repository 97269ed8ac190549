// Package tagptr holds an address together with one caller-defined flag bit.
//
// The pair is kept as a plain struct rather than packing the bit into the
// low address bits: the address stays an unsafe.Pointer, so memory obtained
// from the Go heap remains visible to the garbage collector.
package tagptr

import "unsafe"

// Ptr is an address plus one auxiliary flag. The zero value is a nil
// address with the flag cleared.
type Ptr struct {
	addr unsafe.Pointer
	flag bool
}

// Null returns a nil address with the flag cleared.
func Null() Ptr {
	return Ptr{}
}

// New returns a Ptr for addr with the flag cleared.
func New(addr unsafe.Pointer) Ptr {
	return Ptr{addr: addr}
}

// Addr returns the address.
func (p Ptr) Addr() unsafe.Pointer {
	return p.addr
}

// IsNil reports whether the address is nil.
func (p Ptr) IsNil() bool {
	return p.addr == nil
}

// Flag returns the auxiliary bit.
func (p Ptr) Flag() bool {
	return p.flag
}

// SetFlag sets the auxiliary bit.
func (p *Ptr) SetFlag(v bool) {
	p.flag = v
}

// Replace swaps in a new address, keeping the flag.
func (p *Ptr) Replace(addr unsafe.Pointer) {
	p.addr = addr
}
