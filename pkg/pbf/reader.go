// Package pbf reads the OpenStreetMap PBF container: length prefixed BlobHeader/Blob records and the
// fileformat/osmformat messages inside them.
package pbf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/lintang-b-s/Roadgraphx/pkg"
)

var (
	ErrTruncated       = errors.New("pbf: stream truncated in the middle of a record")
	ErrOversizedHeader = errors.New("pbf: blob header exceeds maximum size")
	ErrOversizedBlob   = errors.New("pbf: blob exceeds maximum size")
	ErrMalformedHeader = errors.New("pbf: malformed blob header")
)

// Block is one framed record. Data is the encoded Blob and is only valid until the next call to Next.
type Block struct {
	Type   string
	Data   []byte
	Index  int
	Offset int64
}

// BlockReader splits a pbf stream into blocks. Header and blob buffers are reused between records.
type BlockReader struct {
	r         io.Reader
	sizeBuf   [4]byte
	headerBuf []byte
	blobBuf   []byte
	offset    int64
	index     int
}

func NewBlockReader(r io.Reader) *BlockReader {
	return &BlockReader{r: r}
}

// Next reads the next record. It returns io.EOF at a clean record boundary and ErrTruncated when the
// stream ends inside a record. After any error other than a malformed Blob the stream cannot be resumed.
func (br *BlockReader) Next() (*Block, error) {
	offset := br.offset

	n, err := io.ReadFull(br.r, br.sizeBuf[:])
	br.offset += int64(n)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, truncated(err)
	}

	headerLen := binary.BigEndian.Uint32(br.sizeBuf[:])
	if headerLen > pkg.MAX_BLOB_HEADER_SIZE {
		return nil, fmt.Errorf("%w: %d bytes at offset %d", ErrOversizedHeader, headerLen, offset)
	}

	br.headerBuf = grow(br.headerBuf, int(headerLen))
	n, err = io.ReadFull(br.r, br.headerBuf)
	br.offset += int64(n)
	if err != nil {
		return nil, truncated(err)
	}

	header, err := ParseBlobHeader(br.headerBuf)
	if err != nil {
		return nil, fmt.Errorf("%w at offset %d: %v", ErrMalformedHeader, offset, err)
	}
	if header.DataSize < 0 || header.DataSize > pkg.MAX_BLOB_SIZE {
		return nil, fmt.Errorf("%w: %d bytes at offset %d", ErrOversizedBlob, header.DataSize, offset)
	}

	br.blobBuf = grow(br.blobBuf, int(header.DataSize))
	n, err = io.ReadFull(br.r, br.blobBuf)
	br.offset += int64(n)
	if err != nil {
		return nil, truncated(err)
	}

	block := &Block{
		Type:   header.Type,
		Data:   br.blobBuf,
		Index:  br.index,
		Offset: offset,
	}
	br.index++
	return block, nil
}

func truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncated
	}
	return err
}

// grow returns buf resized to n, reallocating only when the capacity is too small.
func grow(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}
