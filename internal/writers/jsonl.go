package writers

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"primerscan/internal/model"
)

// A pooled 64 KiB buffered writer is reused across JSONL streams to avoid a
// per-call allocation; the json.Encoder itself is tied to an io.Writer and
// so is (re)created per call. Adapted from the teacher's
// internal/jsonlutil.Start, folded directly into this package since it has
// exactly two callers here.
var bwPool = sync.Pool{
	New: func() any { return bufio.NewWriterSize(io.Discard, 64<<10) },
}

// startJSONL spins up a JSONL-encoding goroutine for values of type T.
func startJSONL[T any](out io.Writer, bufSize int, encode func(*json.Encoder, T) error) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		for v := range in {
			if err := encode(enc, v); err != nil {
				done <- err
				return
			}
		}
		if err := bw.Flush(); err != nil && !IsBrokenPipe(err) {
			done <- err
			return
		}
		done <- nil
	}()

	return in, done
}

// StartBindingJSONLWriter streams each model.Binding as one JSON line.
func StartBindingJSONLWriter(out io.Writer, bufSize int) (chan<- model.Binding, <-chan error) {
	return startJSONL[model.Binding](out, bufSize, func(enc *json.Encoder, b model.Binding) error {
		return enc.Encode(b)
	})
}

// StartProductJSONLWriter streams each model.Product as one JSON line.
func StartProductJSONLWriter(out io.Writer, bufSize int) (chan<- model.Product, <-chan error) {
	return startJSONL[model.Product](out, bufSize, func(enc *json.Encoder, p model.Product) error {
		return enc.Encode(p)
	})
}

func init() {
	RegisterBinding(FormatJSONL, func(w io.Writer, payload interface{}) error {
		bindings := payload.(BindingArgs).Bindings
		pipe, done := StartBindingJSONLWriter(w, 64)
		for _, b := range bindings {
			pipe <- b
		}
		close(pipe)
		return <-done
	})

	RegisterProduct(FormatJSONL, func(w io.Writer, payload interface{}) error {
		products := payload.(ProductArgs).Products
		pipe, done := StartProductJSONLWriter(w, 64)
		for _, p := range products {
			pipe <- p
		}
		close(pipe)
		return <-done
	})
}
