package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/Roadgraphx/pkg/extractor"
	"github.com/lintang-b-s/Roadgraphx/pkg/logger"
	"github.com/lintang-b-s/Roadgraphx/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	mapFile = flag.String("map", "", "openstreetmap pbf file, overrides MAP_FILE")
	engine  = flag.String("engine", "", "pbf parser engine (native|osmpbf), overrides PARSER_ENGINE")
	output  = flag.String("output", "", "reduced graph output file, overrides OUTPUT_GRAPH_FILE")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := util.ReadConfig(); err != nil {
		logger.Fatal("failed to read config", zap.Error(err))
	}
	if *mapFile != "" {
		viper.Set("MAP_FILE", *mapFile)
	}
	if *engine != "" {
		viper.Set("PARSER_ENGINE", *engine)
	}
	if *output != "" {
		viper.Set("OUTPUT_GRAPH_FILE", *output)
	}

	cfg, err := util.LoadExtractorConfig()
	if err != nil {
		logger.Fatal("invalid extractor config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := extractor.NewExtractor(cfg, logger).Run(ctx)
	if err != nil {
		logger.Error("extraction failed", zap.String("run_id", res.RunID), zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Map Size: %d\n", res.Reduction.FullVertices)
	fmt.Printf("Adj Size: %d\n", res.Reduction.FullAdjacencyEntries)
	fmt.Printf("Time: %f\n\n", res.Took.Seconds())
}
