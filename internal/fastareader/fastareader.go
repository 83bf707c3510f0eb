// Package fastareader loads whole FASTA records for the Reference and
// candidate-primer inputs named in spec §6 ("FASTA parsing" is an external
// collaborator; the core pipeline never parses FASTA itself).
//
// Grounded on the teacher's core/fasta: the gzip-or-plain sniffing in
// open.go, and the header/line-scanning loop in stream.go -- adapted from
// streaming per-chunk records to whole-record accumulation, since the
// Reference and the primer list are both held in memory for the life of a
// run (spec §5's "reference index and thermo tables read-only" model).
package fastareader

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"primerscan/internal/model"
	"primerscan/internal/reference"
)

// Record is one parsed FASTA entry.
type Record struct {
	ID   string
	Desc string // remainder of the header line after the ID, if any
	Seq  []byte
}

type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// open returns a gzip-transparent ReadCloser for path. "-" reads stdin.
func open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, err
	}
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

// ReadAll parses every record out of the FASTA file at path.
func ReadAll(path string) ([]Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("fastareader: opening %s: %w", path, err)
	}
	defer rc.Close()
	return parse(rc)
}

func parse(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		out  []Record
		id   string
		desc string
		seq  []byte
	)
	flush := func() {
		if id == "" && len(seq) == 0 {
			return
		}
		out = append(out, Record{ID: id, Desc: desc, Seq: seq})
	}

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush()
			id, desc = parseHeader(line[1:])
			seq = nil
			continue
		}
		seq = append(seq, bytes.ToUpper(bytes.TrimSpace(line))...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fastareader: scanning: %w", err)
	}
	flush()
	return out, nil
}

func parseHeader(hdr []byte) (id, desc string) {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i]), string(bytes.TrimSpace(hdr[i:]))
	}
	return string(hdr), ""
}

// LoadReference parses path and assembles a reference.Reference from every
// record, in file order.
func LoadReference(path string) (*reference.Reference, error) {
	records, err := ReadAll(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("fastareader: %s contains no sequences", path)
	}
	names := make([]string, len(records))
	seqs := make([][]byte, len(records))
	for i, rec := range records {
		names[i] = rec.ID
		seqs[i] = rec.Seq
	}
	return reference.Build(names, seqs), nil
}

// LoadPrimers parses path into candidate primers. The header id becomes
// Primer.ID; the header description (if any) becomes Primer.Name.
func LoadPrimers(path string) ([]model.Primer, error) {
	records, err := ReadAll(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("fastareader: %s contains no primers", path)
	}
	primers := make([]model.Primer, len(records))
	for i, rec := range records {
		name := rec.Desc
		if name == "" {
			name = rec.ID
		}
		primers[i] = model.Primer{ID: rec.ID, Name: name, Seq: string(rec.Seq)}
	}
	return primers, nil
}
