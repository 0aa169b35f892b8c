package pbf

import (
	"github.com/paulmach/protoscan"
)

type BlobHeader struct {
	Type      string
	IndexData []byte
	DataSize  int32
}

// ParseBlobHeader decodes a fileformat.proto BlobHeader.
func ParseBlobHeader(data []byte) (*BlobHeader, error) {
	header := &BlobHeader{}

	msg := protoscan.New(data)
	for msg.Next() {
		var err error
		switch msg.FieldNumber() {
		case 1:
			header.Type, err = msg.String()
		case 2:
			header.IndexData, err = msg.Bytes()
		case 3:
			header.DataSize, err = msg.Int32()
		default:
			msg.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	if msg.Err() != nil {
		return nil, msg.Err()
	}
	return header, nil
}

type Compression int

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionZlib
	CompressionZstd
	CompressionLzma
	CompressionLz4
	CompressionBzip2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "raw"
	case CompressionZlib:
		return "zlib"
	case CompressionZstd:
		return "zstd"
	case CompressionLzma:
		return "lzma"
	case CompressionLz4:
		return "lz4"
	case CompressionBzip2:
		return "bzip2"
	default:
		return "unknown"
	}
}

// Blob is a fileformat.proto Blob. The byte slices alias the buffer it was parsed from.
type Blob struct {
	Raw        []byte
	RawSize    int32
	HasRawSize bool
	ZlibData   []byte
	ZstdData   []byte

	compression Compression
}

func (b *Blob) Compression() Compression {
	return b.compression
}

// ParseBlob decodes a fileformat.proto Blob. When several payload fields are present the last one wins.
func ParseBlob(data []byte) (*Blob, error) {
	blob := &Blob{}

	msg := protoscan.New(data)
	for msg.Next() {
		var err error
		switch msg.FieldNumber() {
		case 1:
			blob.Raw, err = msg.Bytes()
			blob.compression = CompressionNone
		case 2:
			blob.RawSize, err = msg.Int32()
			blob.HasRawSize = true
		case 3:
			blob.ZlibData, err = msg.Bytes()
			blob.compression = CompressionZlib
		case 4:
			msg.Skip()
			blob.compression = CompressionLzma
		case 5:
			msg.Skip()
			blob.compression = CompressionBzip2
		case 6:
			msg.Skip()
			blob.compression = CompressionLz4
		case 7:
			blob.ZstdData, err = msg.Bytes()
			blob.compression = CompressionZstd
		default:
			msg.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	if msg.Err() != nil {
		return nil, msg.Err()
	}
	return blob, nil
}
