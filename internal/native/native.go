// Package native binds the entry points of a GDeflate codec shared library.
//
// The library is loaded with purego (no cgo), so the package works on Linux,
// macOS and FreeBSD wherever a build of the wrapper library is available.
// Every entry point reports failure through a bare boolean, exactly as the
// C ABI does; callers translate that into their own error types.
package native

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Exported symbol names of the wrapper library.
const (
	symUncompressedSize = "gdeflate_get_uncompressed_size"
	symCompressBound    = "gdeflate_get_compress_bound"
	symDecompress       = "gdeflate_decompress"
	symCompress         = "gdeflate_compress"
)

// Interface is the raw call surface of the codec library.
// Implementations never allocate result buffers; the caller supplies output
// capacity and the implementation fills it in place.
type Interface interface {
	// UncompressedSize reads the decompressed byte count from the metadata
	// embedded in the compressed stream, without decompressing.
	UncompressedSize(compressed []byte) (uint64, bool)

	// Decompress fills output in place. len(output) is the capacity handed
	// to the codec. On failure the contents of output are undefined and must
	// not be exposed.
	Decompress(output, compressed []byte, workers uint32) bool

	// Compress fills output in place and returns the number of bytes written.
	// len(output) is the capacity bound; a bound that is too small is
	// reported through the same boolean as any other failure.
	Compress(output, raw []byte, level, flags uint32) (uint64, bool)

	// CompressBound returns the worst-case compressed size for n input
	// bytes. ok is false when the codec does not expose a bound query.
	CompressBound(n uint64) (uint64, bool)

	// Close releases the codec.
	Close() error
}

// Library is the dlopen-backed implementation of Interface.
//
// Calls are reentrant if and only if the loaded library's entry points are;
// Library adds no locking of its own. After construction it holds no mutable
// state besides the library handle.
type Library struct {
	handle uintptr

	getUncompressedSize func(input *byte, inputSize uint64, uncompressedSize *uint64) bool
	decompress          func(output *byte, outputSize uint64, input *byte, inputSize uint64, numWorkers uint32) bool
	compress            func(output *byte, outputSize *uint64, input *byte, inputSize uint64, level, flags uint32) bool
	getCompressBound    func(size uint64) uint64 // optional export, nil when absent
}

// Compile-time check that Library implements Interface.
var _ Interface = (*Library)(nil)

// Open loads the shared library at path and resolves its entry points.
// It fails if the library cannot be loaded or any required symbol is
// missing; no partially resolved Library is ever returned.
func Open(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	lib := &Library{handle: handle}

	if err := resolve(&lib.getUncompressedSize, handle, symUncompressedSize); err != nil {
		purego.Dlclose(handle)
		return nil, err
	}
	if err := resolve(&lib.decompress, handle, symDecompress); err != nil {
		purego.Dlclose(handle)
		return nil, err
	}
	if err := resolve(&lib.compress, handle, symCompress); err != nil {
		purego.Dlclose(handle)
		return nil, err
	}

	// The compress bound query is a later addition to the wrapper ABI;
	// older builds of the library do not export it.
	if addr, err := purego.Dlsym(handle, symCompressBound); err == nil && addr != 0 {
		purego.RegisterFunc(&lib.getCompressBound, addr)
	}

	return lib, nil
}

func resolve[F any](fptr *F, handle uintptr, name string) error {
	addr, err := purego.Dlsym(handle, name)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", name, err)
	}
	purego.RegisterFunc(fptr, addr)
	return nil
}

// UncompressedSize reads the decompressed size from the stream header.
func (l *Library) UncompressedSize(compressed []byte) (uint64, bool) {
	var size uint64
	if !l.getUncompressedSize(bufPtr(compressed), uint64(len(compressed)), &size) {
		return 0, false
	}
	return size, true
}

// Decompress fills output in place, using up to workers codec-internal
// workers. The hint may be ignored by the codec.
func (l *Library) Decompress(output, compressed []byte, workers uint32) bool {
	return l.decompress(
		bufPtr(output), uint64(len(output)),
		bufPtr(compressed), uint64(len(compressed)),
		workers,
	)
}

// Compress fills output in place and returns the written byte count.
func (l *Library) Compress(output, raw []byte, level, flags uint32) (uint64, bool) {
	written := uint64(len(output))
	ok := l.compress(
		bufPtr(output), &written,
		bufPtr(raw), uint64(len(raw)),
		level, flags,
	)
	if !ok {
		return 0, false
	}
	return written, true
}

// CompressBound asks the library for its worst-case output size.
// ok is false when the loaded build does not export the query.
func (l *Library) CompressBound(n uint64) (uint64, bool) {
	if l.getCompressBound == nil {
		return 0, false
	}
	return l.getCompressBound(n), true
}

// Close unloads the shared library. The Library must not be used afterwards.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return err
}

func bufPtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}
