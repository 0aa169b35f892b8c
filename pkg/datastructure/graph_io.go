package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/Roadgraphx/pkg/util"
)

var ErrCorruptGraphFile = errors.New("corrupt graph file")

// WriteGraph writes the reduced graph as bzip2 compressed text:
//
//	<numVertices> <numAdjacencyEntries>
//	<minLat> <minLon> <maxLat> <maxLon>
//	<id> <lat> <lon> <degree>        (one per intersection, ordered by id)
//	<neighborId> <distKm>            (degree lines)
func (g *ReducedGraph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	err = g.Encode(f)
	if err != nil {
		return err
	}
	return f.Close()
}

func (g *ReducedGraph) Encode(out io.Writer) error {
	bz, err := bzip2.NewWriter(out, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d\n", g.NumberOfVertices(), g.NumberOfAdjacencyEntries())

	bb := g.BoundingBox()
	if bb == nil {
		bb = NewBoundingBox(0, 0, 0, 0)
	}
	fmt.Fprintf(w, "%s %s %s %s\n", formatFloat64(bb.GetMinLat()), formatFloat64(bb.GetMinLon()),
		formatFloat64(bb.GetMaxLat()), formatFloat64(bb.GetMaxLon()))

	for _, v := range g.Intersections() {
		fmt.Fprintf(w, "%d %s %s %d\n", v.id, formatFloat32(v.lat), formatFloat32(v.lon), len(v.adj))
		for _, n := range v.adj {
			fmt.Fprintf(w, "%d %s\n", n.id, formatFloat64(n.dist))
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return bz.Close()
}

func ReadGraph(filename string) (*ReducedGraph, *BoundingBox, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return Decode(f)
}

func Decode(in io.Reader) (*ReducedGraph, *BoundingBox, error) {
	bz, err := bzip2.NewReader(in, nil)
	if err != nil {
		return nil, nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, nil, err
	}
	tokens := fields(line)
	if len(tokens) != 2 {
		return nil, nil, fmt.Errorf("graph header: expected 2 fields, got %d", len(tokens))
	}
	numVertices, err := strconv.Atoi(tokens[0])
	if err != nil {
		return nil, nil, err
	}
	remaining, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, nil, err
	}
	if numVertices < 0 || remaining < 0 {
		return nil, nil, fmt.Errorf("%w: header declares %d vertices and %d adjacency entries",
			ErrCorruptGraphFile, numVertices, remaining)
	}

	line, err = util.ReadLine(br)
	if err != nil {
		return nil, nil, err
	}
	bb, err := parseBoundingBox(line)
	if err != nil {
		return nil, nil, err
	}

	graph := NewReducedGraph()
	for i := 0; i < numVertices; i++ {
		vertexLine, err := util.ReadLine(br)
		if err != nil {
			return nil, nil, err
		}
		v, degree, err := parseVertex(vertexLine)
		if err != nil {
			return nil, nil, err
		}

		// the header total bounds every degree
		if degree < 0 || degree > remaining {
			return nil, nil, fmt.Errorf("%w: vertex %d declares degree %d with %d adjacency entries left",
				ErrCorruptGraphFile, v.GetID(), degree, remaining)
		}
		remaining -= degree

		v.adj = make([]Neighbor, 0, degree)
		for j := 0; j < degree; j++ {
			neighborLine, err := util.ReadLine(br)
			if err != nil {
				return nil, nil, err
			}
			n, err := parseNeighbor(neighborLine)
			if err != nil {
				return nil, nil, err
			}
			v.adj = append(v.adj, n)
		}
		graph.AddVertex(v)
	}

	return graph, bb, nil
}

func fields(s string) []string {
	return strings.Fields(s)
}

func formatFloat32(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

func formatFloat64(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseBoundingBox(line string) (*BoundingBox, error) {
	tokens := fields(line)
	if len(tokens) != 4 {
		return nil, fmt.Errorf("bounding box: expected 4 fields, got %d", len(tokens))
	}
	coords := make([]float64, 4)
	for i, tok := range tokens {
		val, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("bounding box: %w", err)
		}
		coords[i] = val
	}
	return NewBoundingBox(coords[0], coords[1], coords[2], coords[3]), nil
}

func parseVertex(line string) (*Vertex, int, error) {
	tokens := fields(line)
	if len(tokens) != 4 {
		return nil, 0, fmt.Errorf("expected 4 fields, got %d", len(tokens))
	}
	id, err := strconv.ParseInt(tokens[0], 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("id: %w", err)
	}
	lat, err := strconv.ParseFloat(tokens[1], 32)
	if err != nil {
		return nil, 0, fmt.Errorf("lat: %w", err)
	}
	lon, err := strconv.ParseFloat(tokens[2], 32)
	if err != nil {
		return nil, 0, fmt.Errorf("lon: %w", err)
	}
	degree, err := strconv.Atoi(tokens[3])
	if err != nil {
		return nil, 0, fmt.Errorf("degree: %w", err)
	}
	return NewVertex(id, float32(lat), float32(lon)), degree, nil
}

func parseNeighbor(line string) (Neighbor, error) {
	tokens := fields(line)
	if len(tokens) != 2 {
		return Neighbor{}, fmt.Errorf("expected 2 fields, got %d", len(tokens))
	}
	id, err := strconv.ParseInt(tokens[0], 10, 64)
	if err != nil {
		return Neighbor{}, fmt.Errorf("neighbor id: %w", err)
	}
	dist, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return Neighbor{}, fmt.Errorf("dist: %w", err)
	}
	return NewNeighbor(id, dist), nil
}
