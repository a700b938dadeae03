package ops

import (
	"io"
	"os"
	"strings"

	"mdcodec/internal/model/enum"
	"mdcodec/internal/obs"
	"mdcodec/internal/source"
	"mdcodec/pkg/conn"
	"mdcodec/pkg/exception"

	"github.com/yanun0323/errors"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultJournalMaxSizeMB  = 10
	defaultJournalMaxBackups = 3
	defaultJournalMaxAgeDays = 28
	defaultPyroscopeApp      = "mdcodec"
)

// FileConfig mirrors the YAML config layout.
type FileConfig struct {
	Registry  RegistryConfig  `yaml:"registry"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Journal   JournalConfig   `yaml:"journal"`
	Pyroscope PyroscopeConfig `yaml:"pyroscope"`
}

// RegistryConfig sizes the source registry and lists extra builtin sources.
type RegistryConfig struct {
	BaseCapacity int             `yaml:"base_capacity"`
	WithBuiltins *bool           `yaml:"with_builtins"`
	Builtins     []BuiltinConfig `yaml:"builtins"`
}

// BuiltinConfig describes an extra builtin source. ID may be omitted for
// named sources; it is composed from the name.
type BuiltinConfig struct {
	ID            *int32   `yaml:"id"`
	Name          string   `yaml:"name"`
	Publish       []string `yaml:"publish"`
	FullOrderBook bool     `yaml:"full_order_book"`
}

// CatalogConfig points at the builtin source catalog.
type CatalogConfig struct {
	Driver   string            `yaml:"driver"`
	DSN      string            `yaml:"dsn"`
	Path     string            `yaml:"path"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Database string            `yaml:"database"`
	SSLMode  string            `yaml:"ssl_mode"`
	Params   map[string]string `yaml:"params"`
}

// JournalConfig enables a rotating file recording catalog operations.
type JournalConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// PyroscopeConfig enables continuous profiling when ServerAddress is set.
type PyroscopeConfig struct {
	ServerAddress   string `yaml:"server_address"`
	ApplicationName string `yaml:"application_name"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	BaseCapacity int
	WithBuiltins bool
	Builtins     []source.BuiltinSource
	Catalog      conn.Option
	Journal      JournalConfig
	Pyroscope    PyroscopeConfig
}

// Default returns the configuration used when no file is given.
func Default() Loaded {
	l, _ := Resolve(FileConfig{})
	return l
}

// Load reads a YAML config file and resolves it.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, errors.Wrapf(err, "read config %s", path)
	}
	return Parse(data)
}

// Parse resolves a YAML document.
func Parse(data []byte) (Loaded, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, errors.Wrap(err, "decode config")
	}
	return Resolve(cfg)
}

// Resolve applies defaults and validates cfg.
func Resolve(cfg FileConfig) (Loaded, error) {
	baseCapacity := cfg.Registry.BaseCapacity
	if baseCapacity < 0 {
		return Loaded{}, errors.Wrapf(exception.ErrInvalidArgument, "registry base_capacity must be >= 0: %d", baseCapacity)
	}
	if baseCapacity == 0 {
		baseCapacity = source.DefaultBaseCapacity
	}

	withBuiltins := true
	if cfg.Registry.WithBuiltins != nil {
		withBuiltins = *cfg.Registry.WithBuiltins
	}

	builtins := make([]source.BuiltinSource, 0, len(cfg.Registry.Builtins))
	for _, b := range cfg.Registry.Builtins {
		resolved, err := resolveBuiltin(b)
		if err != nil {
			return Loaded{}, err
		}
		builtins = append(builtins, resolved)
	}

	return Loaded{
		BaseCapacity: baseCapacity,
		WithBuiltins: withBuiltins,
		Builtins:     builtins,
		Catalog:      resolveCatalog(cfg.Catalog),
		Journal:      resolveJournal(cfg.Journal),
		Pyroscope:    resolvePyroscope(cfg.Pyroscope),
	}, nil
}

func resolveBuiltin(cfg BuiltinConfig) (source.BuiltinSource, error) {
	if cfg.Name == "" {
		return source.BuiltinSource{}, errors.Wrap(exception.ErrInvalidSourceName, "builtin name is empty")
	}

	var id int32
	if cfg.ID != nil {
		id = *cfg.ID
	} else {
		composed, err := source.ComposeID(cfg.Name)
		if err != nil {
			return source.BuiltinSource{}, err
		}
		id = composed
	}

	var flags source.PublishFlags
	for _, p := range cfg.Publish {
		kind, ok := enum.ParseEventKind(p)
		if !ok {
			return source.BuiltinSource{}, errors.Wrapf(exception.ErrInvalidEventKind, "builtin %s publishes %q", cfg.Name, p)
		}
		flag, err := source.PublishFlagOf(kind)
		if err != nil {
			return source.BuiltinSource{}, err
		}
		flags |= flag
	}
	if cfg.FullOrderBook {
		flags |= source.FullOrderBook
	}
	if err := flags.Validate(); err != nil {
		return source.BuiltinSource{}, errors.Wrapf(err, "builtin %s", cfg.Name)
	}

	return source.BuiltinSource{ID: id, Name: cfg.Name, Flags: flags}, nil
}

func resolveCatalog(cfg CatalogConfig) conn.Option {
	driver := strings.ToLower(cfg.Driver)
	if driver == "" && cfg.Path != "" {
		driver = conn.DriverSQLite
	}
	return conn.Option{
		Driver:     driver,
		Host:       cfg.Host,
		Port:       cfg.Port,
		User:       cfg.User,
		Password:   cfg.Password,
		Database:   cfg.Database,
		SSLMode:    cfg.SSLMode,
		Params:     cfg.Params,
		Path:       cfg.Path,
		ConnString: cfg.DSN,
	}
}

func resolveJournal(cfg JournalConfig) JournalConfig {
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = defaultJournalMaxSizeMB
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = defaultJournalMaxBackups
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = defaultJournalMaxAgeDays
	}
	return cfg
}

func resolvePyroscope(cfg PyroscopeConfig) PyroscopeConfig {
	if cfg.ApplicationName == "" {
		cfg.ApplicationName = defaultPyroscopeApp
	}
	return cfg
}

// BuildRegistry creates the source registry described by the configuration
// and registers the extra builtin sources.
func (l Loaded) BuildRegistry(metrics *obs.RegistryMetrics) (*source.Registry, error) {
	opts := []source.Option{
		source.WithBaseCapacity(l.BaseCapacity),
		source.WithMetrics(metrics),
	}
	if !l.WithBuiltins {
		opts = append(opts, source.WithoutBuiltins())
	}

	reg := source.NewRegistry(opts...)
	for _, b := range l.Builtins {
		if _, err := reg.RegisterBuiltin(b.ID, b.Name, b.Flags); err != nil {
			return nil, errors.Wrapf(err, "register builtin %s", b.Name)
		}
	}
	return reg, nil
}

// OpenJournal returns the rotating journal writer, or io.Discard when no
// journal path is configured.
func (l Loaded) OpenJournal() io.WriteCloser {
	if l.Journal.Path == "" {
		return nopWriteCloser{Writer: io.Discard}
	}
	return &lumberjack.Logger{
		Filename:   l.Journal.Path,
		MaxSize:    l.Journal.MaxSizeMB,
		MaxBackups: l.Journal.MaxBackups,
		MaxAge:     l.Journal.MaxAgeDays,
		Compress:   l.Journal.Compress,
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
