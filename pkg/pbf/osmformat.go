package pbf

import (
	"github.com/lintang-b-s/Roadgraphx/pkg"
	"github.com/paulmach/protoscan"
)

type HeaderBBox struct {
	Left, Right, Top, Bottom int64 // nanodegrees
}

type HeaderBlock struct {
	BBox             *HeaderBBox
	RequiredFeatures []string
	OptionalFeatures []string
	WritingProgram   string
	Source           string
}

// ParseHeaderBlock decodes an osmformat.proto HeaderBlock.
func ParseHeaderBlock(data []byte) (*HeaderBlock, error) {
	hb := &HeaderBlock{}

	msg := protoscan.New(data)
	for msg.Next() {
		var err error
		switch msg.FieldNumber() {
		case 1:
			var bboxData []byte
			bboxData, err = msg.Bytes()
			if err == nil {
				hb.BBox, err = parseHeaderBBox(bboxData)
			}
		case 4:
			var feature string
			feature, err = msg.String()
			hb.RequiredFeatures = append(hb.RequiredFeatures, feature)
		case 5:
			var feature string
			feature, err = msg.String()
			hb.OptionalFeatures = append(hb.OptionalFeatures, feature)
		case 16:
			hb.WritingProgram, err = msg.String()
		case 17:
			hb.Source, err = msg.String()
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
	return hb, nil
}

func parseHeaderBBox(data []byte) (*HeaderBBox, error) {
	bbox := &HeaderBBox{}

	msg := protoscan.New(data)
	for msg.Next() {
		var err error
		switch msg.FieldNumber() {
		case 1:
			bbox.Left, err = msg.Sint64()
		case 2:
			bbox.Right, err = msg.Sint64()
		case 3:
			bbox.Top, err = msg.Sint64()
		case 4:
			bbox.Bottom, err = msg.Sint64()
		default:
			msg.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	return bbox, msg.Err()
}

// PrimitiveBlock is an osmformat.proto PrimitiveBlock. The string table is not decoded.
type PrimitiveBlock struct {
	Granularity int64
	LatOffset   int64
	LonOffset   int64
	Groups      []*PrimitiveGroup
}

func ParsePrimitiveBlock(data []byte) (*PrimitiveBlock, error) {
	pb := &PrimitiveBlock{
		Granularity: pkg.DEFAULT_GRANULARITY,
	}

	msg := protoscan.New(data)
	for msg.Next() {
		var err error
		switch msg.FieldNumber() {
		case 2:
			var groupData []byte
			groupData, err = msg.Bytes()
			if err == nil {
				var group *PrimitiveGroup
				group, err = ParsePrimitiveGroup(groupData)
				pb.Groups = append(pb.Groups, group)
			}
		case 17:
			var gran int32
			gran, err = msg.Int32()
			pb.Granularity = int64(gran)
		case 19:
			pb.LatOffset, err = msg.Int64()
		case 20:
			pb.LonOffset, err = msg.Int64()
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
	return pb, nil
}

type GroupKind int

const (
	GroupEmpty GroupKind = iota
	GroupNodes
	GroupDense
	GroupWays
	GroupRelations
	GroupChangesets
)

func (k GroupKind) String() string {
	switch k {
	case GroupNodes:
		return "nodes"
	case GroupDense:
		return "dense"
	case GroupWays:
		return "ways"
	case GroupRelations:
		return "relations"
	case GroupChangesets:
		return "changesets"
	default:
		return "empty"
	}
}

// DenseNodes holds the still delta coded columns of a DenseNodes message.
type DenseNodes struct {
	IDs  []int64
	Lats []int64
	Lons []int64
}

// Way holds a way id and its delta coded node references.
type Way struct {
	ID   int64
	Refs []int64
}

// Node is a non dense node, Lat and Lon are in granularity units.
type Node struct {
	ID  int64
	Lat int64
	Lon int64
}

// PrimitiveGroup holds one kind of primitive. Writers never mix kinds inside a group; if one does,
// the kind of the first primitive seen is reported.
type PrimitiveGroup struct {
	kind  GroupKind
	dense *DenseNodes
	ways  []Way
	nodes []Node
}

func (g *PrimitiveGroup) Kind() GroupKind {
	return g.kind
}

func (g *PrimitiveGroup) IsDense() bool {
	return g.kind == GroupDense
}

func (g *PrimitiveGroup) IsWays() bool {
	return g.kind == GroupWays
}

func (g *PrimitiveGroup) IsNodes() bool {
	return g.kind == GroupNodes
}

func (g *PrimitiveGroup) DenseNodes() *DenseNodes {
	return g.dense
}

func (g *PrimitiveGroup) Ways() []Way {
	return g.ways
}

func (g *PrimitiveGroup) Nodes() []Node {
	return g.nodes
}

func (g *PrimitiveGroup) setKind(kind GroupKind) {
	if g.kind == GroupEmpty {
		g.kind = kind
	}
}

func ParsePrimitiveGroup(data []byte) (*PrimitiveGroup, error) {
	group := &PrimitiveGroup{}

	msg := protoscan.New(data)
	for msg.Next() {
		var (
			err  error
			body []byte
		)
		switch msg.FieldNumber() {
		case 1:
			group.setKind(GroupNodes)
			body, err = msg.Bytes()
			if err == nil {
				var node Node
				node, err = parseNode(body)
				group.nodes = append(group.nodes, node)
			}
		case 2:
			group.setKind(GroupDense)
			body, err = msg.Bytes()
			if err == nil {
				group.dense, err = parseDenseNodes(body)
			}
		case 3:
			group.setKind(GroupWays)
			body, err = msg.Bytes()
			if err == nil {
				var way Way
				way, err = parseWay(body)
				group.ways = append(group.ways, way)
			}
		case 4:
			group.setKind(GroupRelations)
			msg.Skip()
		case 5:
			group.setKind(GroupChangesets)
			msg.Skip()
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
	return group, nil
}

func parseDenseNodes(data []byte) (*DenseNodes, error) {
	dense := &DenseNodes{}

	msg := protoscan.New(data)
	for msg.Next() {
		var err error
		switch msg.FieldNumber() {
		case 1:
			dense.IDs, err = msg.RepeatedSint64(dense.IDs)
		case 8:
			dense.Lats, err = msg.RepeatedSint64(dense.Lats)
		case 9:
			dense.Lons, err = msg.RepeatedSint64(dense.Lons)
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
	return dense, nil
}

func parseWay(data []byte) (Way, error) {
	way := Way{}

	msg := protoscan.New(data)
	for msg.Next() {
		var err error
		switch msg.FieldNumber() {
		case 1:
			way.ID, err = msg.Int64()
		case 8:
			way.Refs, err = msg.RepeatedSint64(way.Refs)
		default:
			msg.Skip()
		}
		if err != nil {
			return Way{}, err
		}
	}
	return way, msg.Err()
}

func parseNode(data []byte) (Node, error) {
	node := Node{}

	msg := protoscan.New(data)
	for msg.Next() {
		var err error
		switch msg.FieldNumber() {
		case 1:
			node.ID, err = msg.Sint64()
		case 8:
			node.Lat, err = msg.Sint64()
		case 9:
			node.Lon, err = msg.Sint64()
		default:
			msg.Skip()
		}
		if err != nil {
			return Node{}, err
		}
	}
	return node, msg.Err()
}
