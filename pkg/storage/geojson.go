package storage

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// NewFeatureCollection renders every intersection as a point feature carrying its degree, h3 cell and neighbor ids.
func NewFeatureCollection(docs []IntersectionDocument) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, doc := range docs {
		feature := geojson.NewFeature(orb.Point{doc.Lon, doc.Lat})
		feature.ID = doc.ID

		neighborIDs := make([]int64, len(doc.Neighbors))
		distances := make([]float64, len(doc.Neighbors))
		for i, n := range doc.Neighbors {
			neighborIDs[i] = n.ID
			distances[i] = n.Distance
		}

		feature.Properties["osm_id"] = doc.ID
		feature.Properties["degree"] = len(doc.Neighbors)
		feature.Properties["h3_cell"] = doc.Cell
		feature.Properties["neighbors"] = neighborIDs
		feature.Properties["distances_km"] = distances
		fc.Append(feature)
	}
	return fc
}

func WriteGeoJSON(filename string, docs []IntersectionDocument) error {
	bb, err := NewFeatureCollection(docs).MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(filename, bb, 0644)
}
