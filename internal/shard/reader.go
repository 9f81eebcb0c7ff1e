package shard

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/gfmtools/gfm/internal/payload"
)

// MaxTotalShards bounds how many candidate filenames Open will ever probe.
const MaxTotalShards = 250

// Reader holds whatever subset of a shard set could be opened and
// signature-validated for one decode session. A nil slot at index i means
// shard i is absent or its header failed to validate; the recovery planner
// treats the two cases identically.
type Reader struct {
	numData    int
	numParity  int
	files      []*os.File
	bodyOffset int64
}

// Open probes STUB00..STUB(N+M-1) (N and M learned from the first shard
// that validates) and returns a Reader over whichever shards agreed on
// their signature. A nil Reader with a nil error means no shard opened at
// all; the caller falls back to writing the embedded payload.
func Open(stub string) (*Reader, error) {
	var (
		sig        Signature
		haveSig    bool
		total      int
		bodyOffset int64
		slots      = make([]*os.File, 0, MaxTotalShards)
	)

	for idx := 0; idx < MaxTotalShards; idx++ {
		if haveSig && idx >= total {
			break
		}
		f, err := os.Open(Filename(stub, idx))
		if err != nil {
			slots = append(slots, nil)
			continue
		}
		s, off, err := readSignature(f, len(payload.Blob))
		if err != nil || (haveSig && !sig.compatible(s)) {
			f.Close()
			slots = append(slots, nil)
			continue
		}
		if !haveSig {
			sig = s
			haveSig = true
			total = int(s.NumData) + int(s.NumParity)
			bodyOffset = off
		}
		if _, err := f.Seek(bodyOffset, io.SeekStart); err != nil {
			f.Close()
			slots = append(slots, nil)
			continue
		}
		slots = append(slots, f)
	}

	if !haveSig {
		return nil, nil
	}
	for len(slots) < total {
		slots = append(slots, nil)
	}

	return &Reader{
		numData:    int(sig.NumData),
		numParity:  int(sig.NumParity),
		files:      slots[:total],
		bodyOffset: bodyOffset,
	}, nil
}

func (r *Reader) NumData() int   { return r.numData }
func (r *Reader) NumParity() int { return r.numParity }
func (r *Reader) Total() int     { return r.numData + r.numParity }

// Alive reports whether shard i is still open and readable.
func (r *Reader) Alive(i int) bool { return r.files[i] != nil }

// AliveCount returns how many shards are currently open.
func (r *Reader) AliveCount() int {
	n := 0
	for _, f := range r.files {
		if f != nil {
			n++
		}
	}
	return n
}

// ReadStripe reads one full block from each alive shard into rows[i],
// failing (and closing) any shard that hits EOF or a short read partway
// through the block. It returns how many shards supplied a full block;
// zero means every remaining shard has reached end of stream.
func (r *Reader) ReadStripe(rows [][]byte) (int, error) {
	supplied := 0
	for i, f := range r.files {
		if f == nil {
			continue
		}
		if _, err := io.ReadFull(f, rows[i]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				r.fail(i)
				continue
			}
			return 0, errors.Wrapf(err, "reading shard %d", i)
		}
		supplied++
	}
	return supplied, nil
}

func (r *Reader) fail(i int) {
	if r.files[i] != nil {
		r.files[i].Close()
		r.files[i] = nil
	}
}

// Close releases every open shard file.
func (r *Reader) Close() error {
	for i := range r.files {
		if r.files[i] != nil {
			r.files[i].Close()
			r.files[i] = nil
		}
	}
	return nil
}

// WritePayload writes the embedded bootstrap payload verbatim to a newly
// created file named stub, failing if stub already exists. When stub is
// "-" it writes to fallback (standard output) instead of touching the
// filesystem.
func WritePayload(stub string, fallback io.Writer) error {
	if stub == "-" {
		_, err := fallback.Write(payload.Blob)
		return errors.Wrap(err, "writing embedded payload")
	}
	f, err := os.OpenFile(stub, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrapf(err, "creating %s", stub)
	}
	defer f.Close()
	if _, err := f.Write(payload.Blob); err != nil {
		return errors.Wrapf(err, "writing embedded payload to %s", stub)
	}
	return nil
}
