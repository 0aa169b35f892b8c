package main

import (
	"context"

	"github.com/lintang-b-s/Roadgraphx/pkg/extractor"
	"github.com/lintang-b-s/Roadgraphx/pkg/logger"
	"github.com/lintang-b-s/Roadgraphx/pkg/util"
)

func main() {
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	cfg, err := util.LoadExtractorConfig()
	if err != nil {
		panic(err)
	}

	res, err := extractor.NewExtractor(cfg, logger).Run(context.Background())
	if err != nil {
		panic(err)
	}
	logger.Sugar().Infof("extracted %d intersections from %s in %v", res.Reduction.Intersections, cfg.MapFile, res.Took)
}
