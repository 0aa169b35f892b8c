package util

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/joho/godotenv"
	"github.com/lintang-b-s/Roadgraphx/pkg"
	"github.com/spf13/viper"
)

// ReadConfig loads .env into the environment, then ./data/config.yaml. Both files are optional.
func ReadConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("fatal error env file: %w", err)
	}

	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

type ExtractorConfig struct {
	MapFile             string  `mapstructure:"MAP_FILE" validate:"required"`
	ParserEngine        string  `mapstructure:"PARSER_ENGINE" validate:"oneof=native osmpbf"`
	OutputGraphFile     string  `mapstructure:"OUTPUT_GRAPH_FILE"`
	GeoJSONFile         string  `mapstructure:"GEOJSON_FILE"`
	BadgerDir           string  `mapstructure:"BADGER_DIR"`
	FirestoreProject    string  `mapstructure:"FIRESTORE_PROJECT"`
	FirestoreCollection string  `mapstructure:"FIRESTORE_COLLECTION" validate:"required_with=FirestoreProject"`
	PostgresDSN         string  `mapstructure:"POSTGRES_DSN"`
	PostgresTable       string  `mapstructure:"POSTGRES_TABLE" validate:"required_with=PostgresDSN"`
	BulkBatchSize       int     `mapstructure:"BULK_BATCH_SIZE" validate:"gte=1,lte=500000"`
	BulkRateLimit       float64 `mapstructure:"BULK_RATE_LIMIT" validate:"gte=0"`
	H3Resolution        int     `mapstructure:"H3_RESOLUTION" validate:"gte=0,lte=15"`
	MetricsTextfile     string  `mapstructure:"METRICS_TEXTFILE"`
	ProgressEvery       int     `mapstructure:"PROGRESS_EVERY" validate:"gte=1"`
}

func setExtractorDefaults(v *viper.Viper) {
	v.SetDefault("MAP_FILE", "./data/map.osm.pbf")
	v.SetDefault("PARSER_ENGINE", string(pkg.NATIVE_ENGINE))
	v.SetDefault("OUTPUT_GRAPH_FILE", "./data/reduced.graph")
	v.SetDefault("GEOJSON_FILE", "")
	v.SetDefault("BADGER_DIR", "")
	v.SetDefault("FIRESTORE_PROJECT", "")
	v.SetDefault("FIRESTORE_COLLECTION", "intersections")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("POSTGRES_TABLE", "intersections")
	v.SetDefault("BULK_BATCH_SIZE", pkg.DEFAULT_BULK_BATCH_SIZE)
	v.SetDefault("BULK_RATE_LIMIT", 0)
	v.SetDefault("H3_RESOLUTION", pkg.DEFAULT_H3_RESOLUTION)
	v.SetDefault("METRICS_TEXTFILE", "")
	v.SetDefault("PROGRESS_EVERY", pkg.DEFAULT_PROGRESS_EVERY)
}

// LoadExtractorConfig reads the extractor settings from the global viper instance and validates them.
func LoadExtractorConfig() (ExtractorConfig, error) {
	return loadExtractorConfig(viper.GetViper())
}

func loadExtractorConfig(v *viper.Viper) (ExtractorConfig, error) {
	setExtractorDefaults(v)

	cfg := ExtractorConfig{
		MapFile:             v.GetString("MAP_FILE"),
		ParserEngine:        v.GetString("PARSER_ENGINE"),
		OutputGraphFile:     v.GetString("OUTPUT_GRAPH_FILE"),
		GeoJSONFile:         v.GetString("GEOJSON_FILE"),
		BadgerDir:           v.GetString("BADGER_DIR"),
		FirestoreProject:    v.GetString("FIRESTORE_PROJECT"),
		FirestoreCollection: v.GetString("FIRESTORE_COLLECTION"),
		PostgresDSN:         v.GetString("POSTGRES_DSN"),
		PostgresTable:       v.GetString("POSTGRES_TABLE"),
		BulkBatchSize:       v.GetInt("BULK_BATCH_SIZE"),
		BulkRateLimit:       v.GetFloat64("BULK_RATE_LIMIT"),
		H3Resolution:        v.GetInt("H3_RESOLUTION"),
		MetricsTextfile:     v.GetString("METRICS_TEXTFILE"),
		ProgressEvery:       v.GetInt("PROGRESS_EVERY"),
	}
	return cfg, cfg.Validate()
}

func (c ExtractorConfig) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return WrapErrorf(err, ErrInvalidConfig, "%s", strings.Join(translateError(err, trans), ", "))
}

func translateError(err error, trans ut.Translator) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, e.Translate(trans))
	}
	return messages
}
