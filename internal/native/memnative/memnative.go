// Package memnative provides an in-process native.Interface backed by DEFLATE.
// Useful for testing and for running the pipeline without a codec library.
//
// The frame layout (4-byte magic, little-endian uncompressed size, raw
// DEFLATE stream) is private to this package and is not compatible with
// GDeflate bitstreams.
package memnative

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/gpupack/gdeflate/internal/native"
)

// headerSize is the frame prefix: magic plus the uncompressed size.
const headerSize = 12

var magic = [4]byte{'G', 'D', 'M', '1'}

// Codec implements native.Interface entirely in process.
// It is stateless and safe for concurrent use.
type Codec struct{}

// Compile-time check that Codec implements native.Interface.
var _ native.Interface = (*Codec)(nil)

// New returns a new in-process codec.
func New() *Codec {
	return &Codec{}
}

// UncompressedSize reads the size field from the frame header.
func (c *Codec) UncompressedSize(compressed []byte) (uint64, bool) {
	if len(compressed) < headerSize || !bytes.Equal(compressed[:4], magic[:]) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(compressed[4:headerSize]), true
}

// Decompress inflates the frame payload into output. The worker hint is
// accepted and ignored; a single in-process stream has nothing to fan out.
func (c *Codec) Decompress(output, compressed []byte, workers uint32) bool {
	size, ok := c.UncompressedSize(compressed)
	if !ok || size != uint64(len(output)) {
		return false
	}

	fr := flate.NewReader(bytes.NewReader(compressed[headerSize:]))
	defer fr.Close()

	if _, err := io.ReadFull(fr, output); err != nil {
		return false
	}

	// Trailing payload means the header lied about the size.
	var extra [1]byte
	if n, _ := fr.Read(extra[:]); n != 0 {
		return false
	}
	return true
}

// Compress deflates raw into output and returns the written byte count.
// A capacity miss reports through the same boolean as any other failure.
func (c *Codec) Compress(output, raw []byte, level, flags uint32) (uint64, bool) {
	var frame bytes.Buffer
	frame.Write(magic[:])

	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(len(raw)))
	frame.Write(size[:])

	fw, err := flate.NewWriter(&frame, flateLevel(level))
	if err != nil {
		return 0, false
	}
	if _, err := fw.Write(raw); err != nil {
		return 0, false
	}
	if err := fw.Close(); err != nil {
		return 0, false
	}

	if frame.Len() > len(output) {
		return 0, false
	}
	return uint64(copy(output, frame.Bytes())), true
}

// CompressBound returns the worst case for a stored DEFLATE stream:
// 5 bytes per 64 KiB block, stream slack for tiny inputs, and the frame
// header.
func (c *Codec) CompressBound(n uint64) (uint64, bool) {
	return n + 5*(n/65535+1) + 16 + headerSize, true
}

// Close is a no-op; the codec holds no resources.
func (c *Codec) Close() error {
	return nil
}

// flateLevel maps the codec's quality tiers onto DEFLATE levels. The tiers
// are 1 (fastest), 9 (default) and 12 (best ratio); anything else is clamped
// rather than rejected, matching the pass-through level contract.
func flateLevel(level uint32) int {
	switch {
	case level == 0:
		return flate.DefaultCompression
	case level > 9:
		return flate.BestCompression
	default:
		return int(level)
	}
}
