// Package pbftest builds synthetic osm pbf streams for tests.
package pbftest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/zlib"
	"google.golang.org/protobuf/encoding/protowire"
)

type Point struct {
	ID  int64
	Lat float64
	Lon float64
}

type Way struct {
	ID   int64
	Refs []int64 // absolute node ids
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendPackedSint64(b []byte, num protowire.Number, values []int64) []byte {
	var packed []byte
	for _, v := range values {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(v))
	}
	return appendBytesField(b, num, packed)
}

// DenseGroup encodes a PrimitiveGroup with a DenseNodes message whose columns are already delta coded.
func DenseGroup(idDeltas, latDeltas, lonDeltas []int64) []byte {
	var dense []byte
	dense = appendPackedSint64(dense, 1, idDeltas)
	dense = appendPackedSint64(dense, 8, latDeltas)
	dense = appendPackedSint64(dense, 9, lonDeltas)
	return appendBytesField(nil, 2, dense)
}

// DenseGroupFromPoints delta codes absolute coordinates so that accumulating
// 1e-9 * (offset + granularity*delta) per point reproduces them.
func DenseGroupFromPoints(points []Point, granularity, latOffset, lonOffset int64) []byte {
	ids := make([]int64, len(points))
	lats := make([]int64, len(points))
	lons := make([]int64, len(points))

	prevID := int64(0)
	prevLat, prevLon := 0.0, 0.0
	for i, p := range points {
		ids[i] = p.ID - prevID
		lats[i] = encodeCoordDelta(p.Lat-prevLat, granularity, latOffset)
		lons[i] = encodeCoordDelta(p.Lon-prevLon, granularity, lonOffset)

		prevID = p.ID
		prevLat += 1e-9 * float64(latOffset+granularity*lats[i])
		prevLon += 1e-9 * float64(lonOffset+granularity*lons[i])
	}
	return DenseGroup(ids, lats, lons)
}

func encodeCoordDelta(diff float64, granularity, offset int64) int64 {
	return int64(math.Round((diff/1e-9 - float64(offset)) / float64(granularity)))
}

// WayGroup encodes a PrimitiveGroup of ways, delta coding the absolute refs.
func WayGroup(ways ...Way) []byte {
	var group []byte
	for _, w := range ways {
		deltas := make([]int64, len(w.Refs))
		prev := int64(0)
		for i, ref := range w.Refs {
			deltas[i] = ref - prev
			prev = ref
		}
		group = appendBytesField(group, 3, encodeWay(w.ID, deltas))
	}
	return group
}

// WayGroupFromDeltas encodes a single way whose refs are already delta coded.
func WayGroupFromDeltas(id int64, refDeltas []int64) []byte {
	return appendBytesField(nil, 3, encodeWay(id, refDeltas))
}

func encodeWay(id int64, refDeltas []int64) []byte {
	var way []byte
	way = appendVarintField(way, 1, uint64(id))
	return appendPackedSint64(way, 8, refDeltas)
}

// NodeGroup encodes non dense nodes, coordinates in granularity units of 100 nanodegrees.
func NodeGroup(points ...Point) []byte {
	var group []byte
	for _, p := range points {
		var node []byte
		node = appendVarintField(node, 1, protowire.EncodeZigZag(p.ID))
		node = appendVarintField(node, 8, protowire.EncodeZigZag(int64(math.Round(p.Lat/1e-7))))
		node = appendVarintField(node, 9, protowire.EncodeZigZag(int64(math.Round(p.Lon/1e-7))))
		group = appendBytesField(group, 1, node)
	}
	return group
}

// RelationGroup encodes a group holding one empty relation.
func RelationGroup() []byte {
	var relation []byte
	relation = appendVarintField(relation, 1, 1)
	return appendBytesField(nil, 4, relation)
}

type PrimitiveBlock struct {
	Granularity int64 // 0 leaves the field unset
	LatOffset   int64
	LonOffset   int64
	Groups      [][]byte
}

func (pb PrimitiveBlock) Marshal() []byte {
	var b []byte
	// empty string table, required by the schema
	b = appendBytesField(b, 1, appendBytesField(nil, 1, []byte{}))
	for _, g := range pb.Groups {
		b = appendBytesField(b, 2, g)
	}
	if pb.Granularity != 0 {
		b = appendVarintField(b, 17, uint64(pb.Granularity))
	}
	if pb.LatOffset != 0 {
		b = appendVarintField(b, 19, uint64(pb.LatOffset))
	}
	if pb.LonOffset != 0 {
		b = appendVarintField(b, 20, uint64(pb.LonOffset))
	}
	return b
}

// HeaderBlock encodes an osmformat HeaderBlock with the given required features.
func HeaderBlock(writingProgram string, requiredFeatures ...string) []byte {
	var b []byte
	for _, f := range requiredFeatures {
		b = appendBytesField(b, 4, []byte(f))
	}
	if writingProgram != "" {
		b = appendBytesField(b, 16, []byte(writingProgram))
	}
	return b
}

func RawBlob(payload []byte) []byte {
	return appendBytesField(nil, 1, payload)
}

// RawBlobWithSize encodes a raw blob that also declares raw_size.
func RawBlobWithSize(payload []byte, rawSize int32) []byte {
	b := appendBytesField(nil, 1, payload)
	return appendVarintField(b, 2, uint64(rawSize))
}

func ZlibBlob(payload []byte) []byte {
	return ZlibBlobWithSize(payload, int32(len(payload)))
}

// ZlibBlobWithSize compresses payload but declares rawSize, which may lie about the real length.
func ZlibBlobWithSize(payload []byte, rawSize int32) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(payload)
	zw.Close()

	b := appendVarintField(nil, 2, uint64(rawSize))
	return appendBytesField(b, 3, buf.Bytes())
}

func ZstdBlob(payload []byte) []byte {
	return ZstdBlobWithSize(payload, int32(len(payload)))
}

func ZstdBlobWithSize(payload []byte, rawSize int32) []byte {
	compressed, err := zstd.Compress(nil, payload)
	if err != nil {
		panic(err)
	}
	b := appendVarintField(nil, 2, uint64(rawSize))
	return appendBytesField(b, 7, compressed)
}

// Lz4Blob declares an lz4 payload, which readers here do not support.
func Lz4Blob(payload []byte) []byte {
	b := appendVarintField(nil, 2, uint64(len(payload)))
	return appendBytesField(b, 6, payload)
}

func EmptyBlob() []byte {
	return appendVarintField(nil, 2, 0)
}

// Frame writes one record: 4 byte big endian header length, BlobHeader, Blob.
func Frame(buf *bytes.Buffer, blobType string, blob []byte) {
	var header []byte
	header = appendBytesField(header, 1, []byte(blobType))
	header = appendVarintField(header, 3, uint64(len(blob)))

	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(header)))
	buf.Write(size[:])
	buf.Write(header)
	buf.Write(blob)
}
