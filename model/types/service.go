// Package types defines the contract every registrable action service
// implements: a name, a set of typed method signatures and an executable per
// method. The invoker dispatches loosely-typed inputs through this contract.
package types

import (
	"context"
	"reflect"
)

// Service is a named action service exposing typed methods.
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}

// Signatures is the ordered method set of a service.
type Signatures []Signature

// Lookup returns the signature with the given name or nil.
func (s Signatures) Lookup(name string) *Signature {
	for i := range s {
		sig := &s[i]
		if sig.Name == name {
			return sig
		}
	}
	return nil
}

// Signature describes one method's typed interface.
type Signature struct {
	Name        string
	Description string
	Input       reflect.Type
	Output      reflect.Type
}

// Executable is a bound service method; input and output are pointers to the
// signature's types.
type Executable func(ctx context.Context, input, output interface{}) error
