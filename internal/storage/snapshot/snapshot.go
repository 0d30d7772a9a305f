// Package snapshot exports committed state to a portable file and restores
// it into an empty ledger.
//
// Layout: magic, compressor name, then one record per entry
// (0x01, key, raw length, stored length, stored bytes) and a trailer
// (0x00, entry count, Sha512Half over every key and raw value).
package snapshot

import (
	"bufio"
	"bytes"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
)

var (
	ErrUnknownCompressor = errors.New("unknown compressor")
	ErrCorrupt           = errors.New("corrupt snapshot")
	ErrNotEmpty          = errors.New("target ledger is not empty")
)

var magic = []byte("MKTSNAP\x01")

const (
	tagEntry   = 0x01
	tagTrailer = 0x00

	// maxEntrySize rejects absurd lengths before allocating.
	maxEntrySize = 16 << 20
	importBatch  = 1024
)

// Summary describes a written or restored snapshot.
type Summary struct {
	Entries  uint64
	Checksum [32]byte
}

func newDigest() hash.Hash { return sha512.New() }

func sum(h hash.Hash) [32]byte {
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Export writes every entry of l to w.
func Export(w io.Writer, l *ledger.Ledger, compressor string) (Summary, error) {
	c, err := Get(compressor)
	if err != nil {
		return Summary{}, err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magic); err != nil {
		return Summary{}, err
	}
	if err := writeBytes(bw, []byte(c.Name())); err != nil {
		return Summary{}, err
	}

	digest := newDigest()
	var (
		count   uint64
		iterErr error
	)
	err = l.ForEach(func(key [32]byte, data []byte) bool {
		stored, err := c.Compress(data)
		if err != nil {
			iterErr = err
			return false
		}
		if err := bw.WriteByte(tagEntry); err != nil {
			iterErr = err
			return false
		}
		if _, err := bw.Write(key[:]); err != nil {
			iterErr = err
			return false
		}
		if err := writeUvarint(bw, uint64(len(data))); err != nil {
			iterErr = err
			return false
		}
		if err := writeBytes(bw, stored); err != nil {
			iterErr = err
			return false
		}
		digest.Write(key[:])
		digest.Write(data)
		count++
		return true
	})
	if err == nil {
		err = iterErr
	}
	if err != nil {
		return Summary{}, fmt.Errorf("export: %w", err)
	}

	s := Summary{Entries: count, Checksum: sum(digest)}
	if err := bw.WriteByte(tagTrailer); err != nil {
		return Summary{}, err
	}
	if err := writeUvarint(bw, count); err != nil {
		return Summary{}, err
	}
	if _, err := bw.Write(s.Checksum[:]); err != nil {
		return Summary{}, err
	}
	return s, bw.Flush()
}

// Import restores a snapshot into l, which must hold no entries. Entries are
// committed in batches; a corrupt file may leave a partial import behind.
func Import(r io.Reader, l *ledger.Ledger) (Summary, error) {
	empty := true
	if err := l.ForEach(func([32]byte, []byte) bool {
		empty = false
		return false
	}); err != nil {
		return Summary{}, err
	}
	if !empty {
		return Summary{}, ErrNotEmpty
	}

	br := bufio.NewReader(r)
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(br, head); err != nil || !bytes.Equal(head, magic) {
		return Summary{}, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	name, err := readBytes(br)
	if err != nil {
		return Summary{}, err
	}
	c, err := Get(string(name))
	if err != nil {
		return Summary{}, err
	}

	digest := newDigest()
	var (
		count uint64
		batch []ledger.Change
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := l.Commit(batch)
		batch = batch[:0]
		return err
	}

	for {
		tag, err := br.ReadByte()
		if err != nil {
			return Summary{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if tag == tagTrailer {
			break
		}
		if tag != tagEntry {
			return Summary{}, fmt.Errorf("%w: unexpected tag %#x", ErrCorrupt, tag)
		}

		var key [32]byte
		if _, err := io.ReadFull(br, key[:]); err != nil {
			return Summary{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		rawLen, err := binary.ReadUvarint(br)
		if err != nil || rawLen > maxEntrySize {
			return Summary{}, fmt.Errorf("%w: entry length", ErrCorrupt)
		}
		stored, err := readBytes(br)
		if err != nil {
			return Summary{}, err
		}
		data, err := c.Decompress(stored, int(rawLen))
		if err != nil {
			return Summary{}, err
		}

		digest.Write(key[:])
		digest.Write(data)
		count++
		batch = append(batch, ledger.Change{Key: key, Data: append([]byte(nil), data...)})
		if len(batch) == importBatch {
			if err := flush(); err != nil {
				return Summary{}, err
			}
		}
	}

	wantCount, err := binary.ReadUvarint(br)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: trailer: %v", ErrCorrupt, err)
	}
	var wantSum [32]byte
	if _, err := io.ReadFull(br, wantSum[:]); err != nil {
		return Summary{}, fmt.Errorf("%w: trailer: %v", ErrCorrupt, err)
	}
	s := Summary{Entries: count, Checksum: sum(digest)}
	if wantCount != count || wantSum != s.Checksum {
		return Summary{}, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	return s, flush()
}

func writeUvarint(w *bufio.Writer, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

func writeBytes(w *bufio.Writer, b []byte) error {
	if err := writeUvarint(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBytes(r *bufio.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil || n > 2*maxEntrySize {
		return nil, fmt.Errorf("%w: length", ErrCorrupt)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return b, nil
}
