package main

import (
	"flag"
	"fmt"

	"github.com/lintang-b-s/Roadgraphx/pkg/datastructure"
	"github.com/lintang-b-s/Roadgraphx/pkg/logger"
	"go.uber.org/zap"
)

var (
	graphFile = flag.String("graph", "./data/reduced.graph", "reduced graph file written by the extractor")
	top       = flag.Int("top", 10, "number of highest degree intersections to print")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	reduced, bbox, err := datastructure.ReadGraph(*graphFile)
	if err != nil {
		logger.Fatal("failed to read reduced graph", zap.String("file", *graphFile), zap.Error(err))
	}

	fmt.Printf("Intersections: %d\n", reduced.NumberOfVertices())
	fmt.Printf("Adj Size: %d\n", reduced.NumberOfAdjacencyEntries())
	if bbox != nil {
		fmt.Printf("Bounding Box: %f,%f %f,%f\n", bbox.GetMinLat(), bbox.GetMinLon(), bbox.GetMaxLat(), bbox.GetMaxLon())
	}

	for _, v := range reduced.TopByDegree(*top) {
		fmt.Printf("%d (%f, %f) degree %d\n", v.GetID(), v.GetLat(), v.GetLon(), v.Degree())
	}
}
