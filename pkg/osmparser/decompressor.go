package osmparser

import (
	"bytes"
	"errors"
	"io"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/zlib"
	"github.com/lintang-b-s/Roadgraphx/pkg"
	"github.com/lintang-b-s/Roadgraphx/pkg/pbf"
	"github.com/lintang-b-s/Roadgraphx/pkg/util"
)

var (
	ErrShortInflate           = errors.New("decompressed payload is shorter than the declared raw size")
	ErrInflateOverflow        = errors.New("decompressed payload is longer than the declared raw size")
	ErrRawSizeMismatch        = errors.New("raw payload length does not match the declared raw size")
	ErrUnsupportedCompression = errors.New("unsupported blob compression")
	ErrMissingRawSize         = errors.New("compressed blob does not declare its raw size")
)

// Decompressor turns a blob into the bytes of its PrimitiveBlock or HeaderBlock.
// The returned slice is reused by the next call, callers must be done with it before decompressing again.
type Decompressor struct {
	buf []byte
	src bytes.Reader
}

func NewDecompressor() *Decompressor {
	return &Decompressor{}
}

func (d *Decompressor) Decompress(blob *pbf.Blob) ([]byte, error) {
	switch blob.Compression() {
	case pbf.CompressionNone:
		if blob.HasRawSize && int(blob.RawSize) != len(blob.Raw) {
			return nil, util.WrapErrorf(ErrRawSizeMismatch, util.ErrMalformedBlock,
				"raw blob declares %d bytes but holds %d", blob.RawSize, len(blob.Raw))
		}
		d.buf = resize(d.buf, len(blob.Raw))
		copy(d.buf, blob.Raw)
		return d.buf, nil
	case pbf.CompressionZlib:
		if err := checkRawSize(blob); err != nil {
			return nil, err
		}
		return d.inflate(blob.ZlibData, int(blob.RawSize))
	case pbf.CompressionZstd:
		if err := checkRawSize(blob); err != nil {
			return nil, err
		}
		return d.unzstd(blob.ZstdData, int(blob.RawSize))
	default:
		return nil, util.WrapErrorf(ErrUnsupportedCompression, util.ErrUnsupported,
			"blob compression %s", blob.Compression())
	}
}

func checkRawSize(blob *pbf.Blob) error {
	if !blob.HasRawSize {
		return util.WrapErrorf(ErrMissingRawSize, util.ErrMalformedBlock, "%s blob without raw_size", blob.Compression())
	}
	if blob.RawSize < 0 || blob.RawSize > pkg.MAX_BLOB_SIZE {
		return util.WrapErrorf(pbf.ErrOversizedBlob, util.ErrMalformedBlock, "declared raw size %d", blob.RawSize)
	}
	return nil
}

// inflate fills exactly rawSize bytes and then requires the zlib stream to end, which also verifies its adler32 checksum.
func (d *Decompressor) inflate(compressed []byte, rawSize int) ([]byte, error) {
	d.src.Reset(compressed)
	zr, err := zlib.NewReader(&d.src)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrMalformedBlock, "open zlib stream")
	}
	defer zr.Close()

	return d.readExactly(zr, rawSize, "zlib")
}

func (d *Decompressor) unzstd(compressed []byte, rawSize int) ([]byte, error) {
	d.src.Reset(compressed)
	zr := zstd.NewReader(&d.src)
	defer zr.Close()

	return d.readExactly(zr, rawSize, "zstd")
}

// readExactly never reads more than rawSize+1 bytes from r, so an oversized stream is rejected without being inflated.
func (d *Decompressor) readExactly(r io.Reader, rawSize int, kind string) ([]byte, error) {
	d.buf = resize(d.buf, rawSize)
	n, err := io.ReadFull(r, d.buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, util.WrapErrorf(ErrShortInflate, util.ErrMalformedBlock,
			"%s stream holds %d of %d declared bytes", kind, n, rawSize)
	}
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrMalformedBlock, "decompress %s stream", kind)
	}

	var probe [1]byte
	_, err = io.ReadFull(r, probe[:])
	switch {
	case err == nil:
		return nil, util.WrapErrorf(ErrInflateOverflow, util.ErrMalformedBlock,
			"%s stream continues past %d declared bytes", kind, rawSize)
	case errors.Is(err, io.EOF):
		return d.buf, nil
	default:
		return nil, util.WrapErrorf(err, util.ErrMalformedBlock, "finish %s stream", kind)
	}
}

// Close drops the reusable buffer.
func (d *Decompressor) Close() {
	d.buf = nil
	d.src.Reset(nil)
}

func resize(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}
