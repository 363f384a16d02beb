package config

import "time"

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"scienceol"`
	Service  string `mapstructure:"SERVICE" default:"labstock"`
	Port     int    `mapstructure:"WEB_PORT" default:"8080"`
	GrpcPort int    `mapstructure:"GRPC_PORT" default:"9090"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}

type Trace struct {
	Version        string `mapstructure:"TRACE_VERSION" default:"0.0.1"`
	TraceEndpoint  string `mapstructure:"TRACE_TRACEENDPOINT" default:""`
	MetricEndpoint string `mapstructure:"TRACE_METRICENDPOINT" default:""`
	Stdout         bool   `mapstructure:"TRACE_STDOUT" default:"false"`
}

type Database struct {
	Host     string `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port     int    `mapstructure:"DATABASE_PORT" default:"5432"`
	Name     string `mapstructure:"DATABASE_NAME" default:"labstock"`
	User     string `mapstructure:"DATABASE_USER" default:"postgres"`
	Password string `mapstructure:"DATABASE_PASSWORD" default:"labstock"`
	LogLevel string `mapstructure:"DATABASE_LOG_LEVEL" default:"warn"`
}

type Redis struct {
	Host     string `mapstructure:"REDIS_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
}

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

type NotifyBackend string

const (
	NotifyLocal NotifyBackend = "local"
	NotifyRedis NotifyBackend = "redis"
)

type Inventory struct {
	Backend         Backend       `mapstructure:"INVENTORY_BACKEND" default:"memory"`
	SQLitePath      string        `mapstructure:"SQLITE_PATH" default:"./labstock.db"`
	TopologyFile    string        `mapstructure:"TOPOLOGY_FILE"`
	CatalogFile     string        `mapstructure:"CATALOG_FILE"`
	CatalogFallback bool          `mapstructure:"CATALOG_FALLBACK" default:"true"`
	NotifyBackend   NotifyBackend `mapstructure:"NOTIFY_BACKEND" default:"local"`
	NotifyPoolSize  int           `mapstructure:"NOTIFY_POOL_SIZE" default:"16"`
	// SweepInterval re-derives statuses on a timer; 0 disables it.
	SweepInterval   time.Duration `mapstructure:"SWEEP_INTERVAL" default:"1m"`
}

type Status struct {
	ExpiringDays  int     `mapstructure:"STATUS_EXPIRING_DAYS" default:"30"`
	CriticalRatio float64 `mapstructure:"STATUS_CRITICAL_RATIO" default:"0.1"`
	LowRatio      float64 `mapstructure:"STATUS_LOW_RATIO" default:"0.2"`
}

type Seed struct {
	// Count 0 disables seeding of an empty inventory.
	Count  int   `mapstructure:"SEED_COUNT" default:"80"`
	Random int64 `mapstructure:"SEED_RANDOM" default:"0"`
}

type RPC struct {
	PubChem RPCPubChem `mapstructure:",squash"`
}

type RPCPubChem struct {
	Addr    string        `mapstructure:"PUBCHEM_ADDR" default:"https://pubchem.ncbi.nlm.nih.gov"`
	Timeout time.Duration `mapstructure:"PUBCHEM_TIMEOUT" default:"10s"`
	// Disabled keeps autofill on the local catalog only.
	Disabled bool `mapstructure:"PUBCHEM_DISABLED" default:"false"`
}
