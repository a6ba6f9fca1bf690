package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "captain"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv         = "CAPTAIN_APP_ENV"
	EnvPort           = "CAPTAIN_APP_PORT"
	EnvOutletName     = "CAPTAIN_OUTLET_NAME"
	EnvOrderAPIBase   = "CAPTAIN_ORDER_API_BASE_URL"
	EnvStorePath      = "CAPTAIN_STORE_PATH"
	EnvPrinterChunkSz = "CAPTAIN_PRINTER_CHUNK_SIZE"
)

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Outlet   OutletConfig
	Printer  PrinterConfig
	OrderAPI OrderAPIConfig
	Store    StoreConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Printer.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CAPTAIN_APP_ENV" required:"true"`
	Port         string `envconfig:"CAPTAIN_APP_PORT" default:"9100"`
	LogLevel     string `envconfig:"CAPTAIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAPTAIN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"CAPTAIN_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"CAPTAIN_HTTP_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"CAPTAIN_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// OutletConfig carries the restaurant identity printed on every receipt and
// the default charge rates applied to new orders. Existing orders keep the
// rates they were created with.
type OutletConfig struct {
	Name                 string `envconfig:"CAPTAIN_OUTLET_NAME" required:"true"`
	Address              string `envconfig:"CAPTAIN_OUTLET_ADDRESS"`
	Phone                string `envconfig:"CAPTAIN_OUTLET_PHONE"`
	UPIID                string `envconfig:"CAPTAIN_OUTLET_UPI_ID"`
	GSTIN                string `envconfig:"CAPTAIN_OUTLET_GSTIN"`
	ServiceChargePercent string `envconfig:"CAPTAIN_OUTLET_SERVICE_CHARGE_PERCENT" default:"0"`
	GSTPercent           string `envconfig:"CAPTAIN_OUTLET_GST_PERCENT" default:"0"`
	FooterMessage        string `envconfig:"CAPTAIN_OUTLET_FOOTER" default:"Thank you, visit again!"`
}

type PrinterConfig struct {
	ChunkSize         int           `envconfig:"CAPTAIN_PRINTER_CHUNK_SIZE" default:"150"`
	ChunkDelay        time.Duration `envconfig:"CAPTAIN_PRINTER_CHUNK_DELAY" default:"60ms"`
	InitDelay         time.Duration `envconfig:"CAPTAIN_PRINTER_INIT_DELAY" default:"150ms"`
	SettleDelay       time.Duration `envconfig:"CAPTAIN_PRINTER_SETTLE_DELAY" default:"300ms"`
	ScanWindow        time.Duration `envconfig:"CAPTAIN_PRINTER_SCAN_WINDOW" default:"10s"`
	ConnectTimeout    time.Duration `envconfig:"CAPTAIN_PRINTER_CONNECT_TIMEOUT" default:"15s"`
	ReconnectAttempts int           `envconfig:"CAPTAIN_PRINTER_RECONNECT_ATTEMPTS" default:"3"`
	ReconnectBackoff  time.Duration `envconfig:"CAPTAIN_PRINTER_RECONNECT_BACKOFF" default:"2s"`
}

func (p PrinterConfig) validate() error {
	if p.ChunkSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", EnvPrinterChunkSz, p.ChunkSize)
	}
	if p.ReconnectAttempts < 0 {
		return fmt.Errorf("printer reconnect attempts must not be negative")
	}
	return nil
}

type OrderAPIConfig struct {
	BaseURL string        `envconfig:"CAPTAIN_ORDER_API_BASE_URL" required:"true"`
	Token   string        `envconfig:"CAPTAIN_ORDER_API_TOKEN"`
	Timeout time.Duration `envconfig:"CAPTAIN_ORDER_API_TIMEOUT" default:"20s"`
}

type StoreConfig struct {
	Path string `envconfig:"CAPTAIN_STORE_PATH" default:"captain.db"`
}
