package osmparser

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"github.com/lintang-b-s/Roadgraphx/pkg"
	"github.com/lintang-b-s/Roadgraphx/pkg/datastructure"
	"github.com/lintang-b-s/Roadgraphx/pkg/metrics"
	"github.com/lintang-b-s/Roadgraphx/pkg/pbf"
	"github.com/lintang-b-s/Roadgraphx/pkg/util"
	"go.uber.org/zap"
)

// ParseStats summarizes one pass over a pbf stream.
type ParseStats struct {
	Blocks         int
	HeaderBlocks   int
	DataBlocks     int
	IgnoredBlocks  int
	RejectedBlocks int
	SkippedGroups  int

	Points    int
	Ways      int
	Edges     int
	SelfLoops int

	// Truncated is set when the stream ended in the middle of a record or its framing could not be trusted.
	// The graph then holds whatever the complete blocks before that point contributed.
	Truncated bool
}

type OsmParser struct {
	logger        *zap.Logger
	metrics       *metrics.PipelineMetrics
	decompressor  *Decompressor
	progressEvery int
}

func NewOSMParser(logger *zap.Logger, m *metrics.PipelineMetrics, progressEvery int) *OsmParser {
	if m == nil {
		m = metrics.NewPipelineMetrics()
	}
	if progressEvery <= 0 {
		progressEvery = pkg.DEFAULT_PROGRESS_EVERY
	}
	return &OsmParser{
		logger:        logger,
		metrics:       m,
		decompressor:  NewDecompressor(),
		progressEvery: progressEvery,
	}
}

func (p *OsmParser) ParseFile(ctx context.Context, mapFile string, engine pkg.ParserEngine) (*datastructure.FullGraph, ParseStats, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, ParseStats{}, err
	}
	defer f.Close()

	if engine == pkg.OSMPBF_ENGINE {
		return p.ParseWithScanner(ctx, f)
	}
	return p.Parse(ctx, bufio.NewReaderSize(f, 1<<20))
}

// Parse reads every block of r in order and folds its points and ways into a new FullGraph.
// Bad blocks and unsupported groups are skipped, a truncated stream ends the scan early.
// The only errors returned are context cancellation.
func (p *OsmParser) Parse(ctx context.Context, r io.Reader) (*datastructure.FullGraph, ParseStats, error) {
	graph := datastructure.NewFullGraph()
	stats := ParseStats{}
	br := pbf.NewBlockReader(r)

	for {
		if err := ctx.Err(); err != nil {
			return graph, stats, err
		}

		block, err := br.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stats.Truncated = true
			p.logger.Warn("stopped reading pbf stream, keeping the blocks decoded so far",
				zap.Int("blocks", stats.Blocks), zap.Error(err))
			break
		}

		stats.Blocks++
		p.processBlock(block, graph, &stats)

		if stats.Blocks%p.progressEvery == 0 {
			p.logger.Sugar().Infof("processing openstreetmap blocks: %d, points: %d, ways: %d...",
				stats.Blocks, stats.Points, stats.Ways)
		}
	}

	p.observe(graph, stats)
	p.logger.Info("finished reading pbf stream",
		zap.Int("blocks", stats.Blocks),
		zap.Int("rejected_blocks", stats.RejectedBlocks),
		zap.Int("points", stats.Points),
		zap.Int("ways", stats.Ways),
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("adjacency_entries", graph.NumberOfAdjacencyEntries()),
		zap.Bool("truncated", stats.Truncated))
	return graph, stats, nil
}

func (p *OsmParser) processBlock(block *pbf.Block, graph *datastructure.FullGraph, stats *ParseStats) {
	var err error
	switch block.Type {
	case pkg.OSM_HEADER_TYPE:
		stats.HeaderBlocks++
		err = p.processHeaderBlock(block)
		if err == nil {
			p.metrics.Blocks.WithLabelValues(metrics.BLOCK_HEADER).Inc()
		}
	case pkg.OSM_DATA_TYPE:
		stats.DataBlocks++
		err = p.processDataBlock(block, graph, stats)
		if err == nil {
			p.metrics.Blocks.WithLabelValues(metrics.BLOCK_DECODED).Inc()
		}
	default:
		stats.IgnoredBlocks++
		p.metrics.Blocks.WithLabelValues(metrics.BLOCK_IGNORED).Inc()
		p.logger.Debug("ignoring block with unknown type", zap.String("type", block.Type), zap.Int("block", block.Index))
		return
	}

	if err != nil {
		stats.RejectedBlocks++
		p.metrics.Blocks.WithLabelValues(metrics.BLOCK_REJECTED).Inc()
		p.logger.Warn("rejected block",
			zap.Int("block", block.Index),
			zap.Int64("offset", block.Offset),
			zap.String("type", block.Type),
			zap.NamedError("code", util.ErrorCode(err)),
			zap.Error(err))
	}
}

func (p *OsmParser) processHeaderBlock(block *pbf.Block) error {
	data, err := p.blockPayload(block)
	if err != nil {
		return err
	}
	header, err := pbf.ParseHeaderBlock(data)
	if err != nil {
		return util.WrapErrorf(err, util.ErrMalformedBlock, "parse header block")
	}

	fields := []zap.Field{
		zap.Strings("required_features", header.RequiredFeatures),
		zap.String("writing_program", header.WritingProgram),
	}
	if header.BBox != nil {
		bbox := header.BBox
		fields = append(fields,
			zap.Float64("min_lat", pkg.NANO_DEGREE*float64(bbox.Bottom)),
			zap.Float64("max_lat", pkg.NANO_DEGREE*float64(bbox.Top)),
			zap.Float64("min_lon", pkg.NANO_DEGREE*float64(bbox.Left)),
			zap.Float64("max_lon", pkg.NANO_DEGREE*float64(bbox.Right)))
	}
	p.logger.Info("read pbf header", fields...)
	return nil
}

// processDataBlock parses the whole block before any group touches graph, so a rejected block contributes nothing.
func (p *OsmParser) processDataBlock(block *pbf.Block, graph *datastructure.FullGraph, stats *ParseStats) error {
	data, err := p.blockPayload(block)
	if err != nil {
		return err
	}
	primitive, err := pbf.ParsePrimitiveBlock(data)
	if err != nil {
		return util.WrapErrorf(err, util.ErrMalformedBlock, "parse primitive block")
	}

	for i, group := range primitive.Groups {
		switch {
		case group.IsDense():
			n, err := DecodeDenseNodes(group.DenseNodes(), primitive.Granularity,
				primitive.LatOffset, primitive.LonOffset, graph)
			if err != nil {
				p.skipGroup(block, i, group, stats, err)
				continue
			}
			stats.Points += n
		case group.IsNodes():
			stats.Points += DecodeNodes(group.Nodes(), primitive.Granularity,
				primitive.LatOffset, primitive.LonOffset, graph)
		case group.IsWays():
			ws := DecodeWays(group.Ways(), graph)
			stats.Ways += ws.Ways
			stats.Edges += ws.Edges
			stats.SelfLoops += ws.SelfLoops
		default:
			p.skipGroup(block, i, group, stats, nil)
		}
	}
	return nil
}

func (p *OsmParser) skipGroup(block *pbf.Block, index int, group *pbf.PrimitiveGroup, stats *ParseStats, err error) {
	stats.SkippedGroups++
	p.metrics.SkippedGroups.Inc()
	if err != nil {
		p.logger.Warn("skipping malformed group", zap.Int("block", block.Index), zap.Int("group", index), zap.Error(err))
		return
	}
	p.logger.Debug("skipping unsupported group", zap.Int("block", block.Index), zap.Int("group", index),
		zap.Stringer("kind", group.Kind()))
}

func (p *OsmParser) blockPayload(block *pbf.Block) ([]byte, error) {
	blob, err := pbf.ParseBlob(block.Data)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrMalformedBlock, "parse blob")
	}
	return p.decompressor.Decompress(blob)
}

func (p *OsmParser) observe(graph *datastructure.FullGraph, stats ParseStats) {
	p.metrics.Points.Add(float64(stats.Points))
	p.metrics.Ways.Add(float64(stats.Ways))
	p.metrics.Edges.Add(float64(stats.Edges))
	p.metrics.SelfLoops.Add(float64(stats.SelfLoops))
	p.metrics.FullVertices.Set(float64(graph.NumberOfVertices()))
	p.metrics.UnresolvedPoints.Set(float64(graph.NumberOfUnresolved()))
}

// Close releases the decompression buffer.
func (p *OsmParser) Close() {
	p.decompressor.Close()
}
