package config

import (
	"time"

	"github.com/preston-bernstein/nhl-dashboard/internal/source"
)

const (
	envPort            = "PORT"
	envDataSource      = "DATA_SOURCE"
	envDataPath        = "DATA_PATH"
	envSQLDriver       = "SQL_DRIVER"
	envSQLDSN          = "SQL_DSN"
	envSQLRetries      = "SQL_CONNECT_RETRIES"
	envSQLTimeout      = "SQL_CONNECT_TIMEOUT"
	envChartWidth      = "CHART_WIDTH"
	envChartHeight     = "CHART_HEIGHT"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"
	defaultServiceName = "nhl-dashboard"

	// SourceCSV reads the table from a CSV file; SourceSQL from the season_records table.
	SourceCSV = "csv"
	SourceSQL = "sql"

	defaultPort        = "8501"
	defaultSource      = SourceCSV
	defaultDataPath    = "Hockey_data.csv"
	defaultSQLDriver   = source.DriverSQLite
	defaultSQLRetries  = 3
	defaultSQLTimeout  = 5 * Duration(time.Second)
	defaultChartWidth  = 800
	defaultChartHeight = 450
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	defaultMetricsPort = "9090"
)
