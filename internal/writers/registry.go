// Package writers turns Bindings and Products into serialized output.
//
// Design (grounded on the teacher's internal/writers/registry.go):
//   - Writers own all presentation knowledge (pretty blocks, JSON/JSONL/text).
//   - internal/pipeline stays domain-only; cmd/primerscan stays orchestration-only.
//   - format -> handler registries replace a switch statement per payload kind,
//     so a new output format is one more init() registration.
package writers

import (
	"fmt"
	"io"
)

// Format names accepted by --format.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatText  = "text"
)

var (
	bindingWriters = map[string]func(io.Writer, interface{}) error{}
	productWriters = map[string]func(io.Writer, interface{}) error{}
)

// RegisterBinding adds (or replaces) the handler for format.
func RegisterBinding(format string, fn func(io.Writer, interface{}) error) { bindingWriters[format] = fn }

// RegisterProduct adds (or replaces) the handler for format.
func RegisterProduct(format string, fn func(io.Writer, interface{}) error) { productWriters[format] = fn }

// WriteBindings dispatches payload (a BindingArgs) to the registered format
// handler.
func WriteBindings(format string, w io.Writer, payload interface{}) error {
	fn, ok := bindingWriters[format]
	if !ok {
		return fmt.Errorf("writers: unknown binding output format %q", format)
	}
	return fn(w, payload)
}

// WriteProducts dispatches payload (a ProductArgs) to the registered format
// handler.
func WriteProducts(format string, w io.Writer, payload interface{}) error {
	fn, ok := productWriters[format]
	if !ok {
		return fmt.Errorf("writers: unknown product output format %q", format)
	}
	return fn(w, payload)
}
