package snapshot

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pierrec/lz4"
)

// Compressor compresses individual entries of a snapshot.
type Compressor interface {
	// Name is written to the snapshot header.
	Name() string

	Compress(data []byte) ([]byte, error)

	// Decompress restores data whose uncompressed length is known.
	Decompress(data []byte, rawLen int) ([]byte, error)
}

// Factory is a function that creates a new compressor instance.
type Factory func() Compressor

var (
	mu          sync.RWMutex
	compressors = make(map[string]Factory)
)

// Register registers a compressor factory with the given name.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	compressors[name] = factory
}

// Get returns a new compressor instance for the given name.
func Get(name string) (Compressor, error) {
	mu.RLock()
	factory, ok := compressors[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompressor, name)
	}
	return factory(), nil
}

// Available returns the registered compressor names, sorted.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(compressors))
	for name := range compressors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("none", func() Compressor { return noCompressor{} })
	Register("lz4", func() Compressor { return lz4Compressor{} })
}

type noCompressor struct{}

func (noCompressor) Name() string { return "none" }

func (noCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (noCompressor) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) != rawLen {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrCorrupt, len(data), rawLen)
	}
	return data, nil
}

// lz4Compressor stores incompressible entries as a zero-length block,
// followed by the raw bytes.
type lz4Compressor struct{}

func (lz4Compressor) Name() string { return "lz4" }

func (lz4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if n == 0 {
		// CompressBlock reports 0 for data it cannot shrink.
		return append([]byte{0}, data...), nil
	}
	return append([]byte{1}, buf[:n]...), nil
}

func (lz4Compressor) Decompress(data []byte, rawLen int) ([]byte, error) {
	if rawLen == 0 {
		return []byte{}, nil
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty lz4 block", ErrCorrupt)
	}
	if data[0] == 0 {
		return noCompressor{}.Decompress(data[1:], rawLen)
	}
	out := make([]byte, rawLen)
	n, err := lz4.UncompressBlock(data[1:], out)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", ErrCorrupt, err)
	}
	if n != rawLen {
		return nil, fmt.Errorf("%w: lz4 length %d, want %d", ErrCorrupt, n, rawLen)
	}
	return out, nil
}
