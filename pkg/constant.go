package pkg

// blob header type tags
const (
	OSM_HEADER_TYPE = "OSMHeader"
	OSM_DATA_TYPE   = "OSMData"
)

const (
	// a point is an intersection when its adjacency list has at least this many entries.
	INTERSECTION_MIN_DEGREE = 3

	// coordinates in a primitive block are stored in units of nanodegrees
	NANO_DEGREE = 1e-9

	DEFAULT_GRANULARITY = 100

	MAX_BLOB_HEADER_SIZE = 64 * 1024
	MAX_BLOB_SIZE        = 32 * 1024 * 1024
)

const (
	DEFAULT_PROGRESS_EVERY  = 500
	DEFAULT_BULK_BATCH_SIZE = 1000
	DEFAULT_H3_RESOLUTION   = 9
)

type ParserEngine string

const (
	NATIVE_ENGINE ParserEngine = "native"
	OSMPBF_ENGINE ParserEngine = "osmpbf"
)
