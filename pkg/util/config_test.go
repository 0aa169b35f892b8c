package util

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExtractorConfigDefaults(t *testing.T) {
	cfg, err := loadExtractorConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "./data/map.osm.pbf", cfg.MapFile)
	assert.Equal(t, "native", cfg.ParserEngine)
	assert.Equal(t, 1000, cfg.BulkBatchSize)
	assert.Equal(t, 9, cfg.H3Resolution)
	assert.Equal(t, 500, cfg.ProgressEvery)
	assert.Equal(t, "intersections", cfg.PostgresTable)
}

func TestLoadExtractorConfigOverrides(t *testing.T) {
	v := viper.New()
	v.Set("MAP_FILE", "/tmp/jogja.osm.pbf")
	v.Set("PARSER_ENGINE", "osmpbf")
	v.Set("BULK_RATE_LIMIT", 2.5)
	v.Set("H3_RESOLUTION", 12)

	cfg, err := loadExtractorConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/jogja.osm.pbf", cfg.MapFile)
	assert.Equal(t, "osmpbf", cfg.ParserEngine)
	assert.Equal(t, 2.5, cfg.BulkRateLimit)
	assert.Equal(t, 12, cfg.H3Resolution)
}

func TestLoadExtractorConfigInvalid(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value interface{}
		field string
	}{
		{name: "unknown engine", key: "PARSER_ENGINE", value: "pyosmium", field: "ParserEngine"},
		{name: "h3 resolution too fine", key: "H3_RESOLUTION", value: 16, field: "H3Resolution"},
		{name: "empty batches", key: "BULK_BATCH_SIZE", value: 0, field: "BulkBatchSize"},
		{name: "negative rate", key: "BULK_RATE_LIMIT", value: -1, field: "BulkRateLimit"},
		{name: "no map file", key: "MAP_FILE", value: "", field: "MapFile"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tc.key, tc.value)

			_, err := loadExtractorConfig(v)
			require.Error(t, err)
			assert.Equal(t, ErrInvalidConfig, ErrorCode(err))
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestLoadExtractorConfigPostgresNeedsTable(t *testing.T) {
	v := viper.New()
	v.Set("POSTGRES_DSN", "postgres://localhost/roadgraphx")
	v.Set("POSTGRES_TABLE", "")

	_, err := loadExtractorConfig(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PostgresTable")
}
