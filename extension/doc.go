// Package extension provides the run-time registries binding action
// services and their Go input/output types to the invoker. Applications
// normally register extensions through the root scriptgate package rather
// than importing this package directly.
package extension
