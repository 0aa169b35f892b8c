package storage

import (
	"strconv"

	"github.com/lintang-b-s/Roadgraphx/pkg/datastructure"
	"github.com/uber/h3-go/v4"
)

type NeighborDocument struct {
	ID       int64   `json:"id" firestore:"id"`
	Distance float64 `json:"distance" firestore:"distance"` // km
}

// IntersectionDocument is the stored form of one retained vertex of the reduced graph.
type IntersectionDocument struct {
	ID        int64              `json:"id" firestore:"id"`
	Lat       float64            `json:"lat" firestore:"lat"`
	Lon       float64            `json:"lon" firestore:"lon"`
	Cell      string             `json:"h3_cell" firestore:"h3_cell"`
	RunID     string             `json:"run_id" firestore:"run_id"`
	Neighbors []NeighborDocument `json:"neighbors" firestore:"neighbors"`
}

func (d IntersectionDocument) Key() string {
	return strconv.FormatInt(d.ID, 10)
}

// NewDocuments converts the intersections of reduced, ordered by osm id, tagging each with its h3 cell.
func NewDocuments(reduced *datastructure.ReducedGraph, runID string, h3Resolution int) []IntersectionDocument {
	intersections := reduced.Intersections()
	docs := make([]IntersectionDocument, len(intersections))
	for i, v := range intersections {
		lat, lon := float64(v.GetLat()), float64(v.GetLon())

		neighbors := make([]NeighborDocument, v.Degree())
		for j, n := range v.GetNeighbors() {
			neighbors[j] = NeighborDocument{ID: n.GetID(), Distance: n.GetDist()}
		}

		docs[i] = IntersectionDocument{
			ID:        v.GetID(),
			Lat:       lat,
			Lon:       lon,
			Cell:      h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution).String(),
			RunID:     runID,
			Neighbors: neighbors,
		}
	}
	return docs
}
