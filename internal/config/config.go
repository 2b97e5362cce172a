package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/router"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "routekit.json"

	// EnvFileName is the optional dotenv file next to the config.
	EnvFileName = ".env"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ROUTEKIT_"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultRoutesDir is the default routes directory.
	DefaultRoutesDir = "src/routes"

	// DefaultMatchersDir is the default parameter matcher directory.
	DefaultMatchersDir = "src/params"

	// DefaultManifest is the default manifest output path.
	DefaultManifest = "build/manifest.json"

	// DefaultDebounce is the default rebuild debounce in dev mode.
	DefaultDebounce = "100ms"
)

// Config represents the complete routekit.json configuration.
type Config struct {
	// Routes configures route discovery and compilation.
	Routes RoutesConfig `json:"routes"`

	// Output configures build output.
	Output OutputConfig `json:"output"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev"`

	// Publish configures manifest upload to object storage.
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RoutesConfig mirrors router.Options.
type RoutesConfig struct {
	// Dir is the routes directory, relative to the project root.
	Dir string `json:"dir,omitempty"`

	// Matchers is the parameter matcher directory. Set to "-" to disable.
	Matchers string `json:"matchers,omitempty"`

	// PageExtensions are component file extensions (e.g. ".templ").
	PageExtensions []string `json:"pageExtensions,omitempty"`

	// ModuleExtensions are module file extensions (e.g. ".go").
	ModuleExtensions []string `json:"moduleExtensions,omitempty"`

	// DefaultLayout is the root layout used when none exists.
	DefaultLayout string `json:"defaultLayout,omitempty"`

	// DefaultError is the root error component used when none exists.
	DefaultError string `json:"defaultError,omitempty"`

	// StrictEndpointSlash makes endpoint-only routes reject a trailing slash.
	StrictEndpointSlash bool `json:"strictEndpointSlash,omitempty"`

	// SpecialNames are "__" entries that are skipped instead of rejected.
	SpecialNames []string `json:"specialNames,omitempty"`
}

// OutputConfig contains build output settings.
type OutputConfig struct {
	// Manifest is the path of the generated manifest.json.
	Manifest string `json:"manifest,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Debounce delays rebuilds after a change (e.g. "100ms").
	Debounce string `json:"debounce,omitempty"`

	// Ignore contains glob patterns the watcher skips.
	Ignore []string `json:"ignore,omitempty"`
}

// PublishConfig contains S3 publish settings.
type PublishConfig struct {
	// Bucket is the destination bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to the object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for routekit.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. A .env file
// next to it is loaded first; ROUTEKIT_* variables override file values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No routekit.json found in " + filepath.Dir(path)).
				WithSuggestion("Create routekit.json in the project root")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse routekit.json: " + err.Error()).
			WithSuggestion("Check that routekit.json is valid JSON").
			WithLocation(path)
	}
	cfg.configPath = path

	envFile := filepath.Join(filepath.Dir(path), EnvFileName)
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load env file", "path", envFile, "error", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

// ApplyEnv overrides fields from ROUTEKIT_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	list := func(name string, dst *[]string) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = splitList(v)
		}
	}

	str("ROUTES_DIR", &c.Routes.Dir)
	str("MATCHERS_DIR", &c.Routes.Matchers)
	list("PAGE_EXTENSIONS", &c.Routes.PageExtensions)
	list("MODULE_EXTENSIONS", &c.Routes.ModuleExtensions)
	str("MANIFEST", &c.Output.Manifest)
	str("DEV_HOST", &c.Dev.Host)
	str("DEV_DEBOUNCE", &c.Dev.Debounce)
	str("PUBLISH_BUCKET", &c.Publish.Bucket)
	str("PUBLISH_PREFIX", &c.Publish.Prefix)
	str("PUBLISH_REGION", &c.Publish.Region)
	str("PUBLISH_ENDPOINT", &c.Publish.Endpoint)

	if v, ok := lookup(EnvPrefix + "DEV_PORT"); ok && v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.New("E124").
				WithDetail(EnvPrefix + "DEV_PORT must be a number, got " + strconv.Quote(v)).
				Wrap(err)
		}
		c.Dev.Port = port
	}
	if v, ok := lookup(EnvPrefix + "STRICT_ENDPOINT_SLASH"); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.New("E124").
				WithDetail(EnvPrefix + "STRICT_ENDPOINT_SLASH must be true or false, got " + strconv.Quote(v)).
				Wrap(err)
		}
		c.Routes.StrictEndpointSlash = b
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Routes.Dir == "" {
		c.Routes.Dir = DefaultRoutesDir
	}
	if c.Routes.Matchers == "" {
		c.Routes.Matchers = DefaultMatchersDir
	}
	if len(c.Routes.PageExtensions) == 0 {
		c.Routes.PageExtensions = []string{".templ", ".html"}
	}
	if len(c.Routes.ModuleExtensions) == 0 {
		c.Routes.ModuleExtensions = []string{".go"}
	}
	if c.Output.Manifest == "" {
		c.Output.Manifest = DefaultManifest
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Debounce == "" {
		c.Dev.Debounce = DefaultDebounce
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Dev.Port))
	}
	for _, ext := range append(append([]string{}, c.Routes.PageExtensions...), c.Routes.ModuleExtensions...) {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.New("E121").
				WithDetail("Extension " + strconv.Quote(ext) + " must start with a dot")
		}
	}
	for _, dir := range []string{c.Routes.Dir, c.matchersDir()} {
		if dir == "" {
			continue
		}
		if !filepath.IsLocal(dir) {
			return errors.New("E120").
				WithDetail("Directory " + strconv.Quote(dir) + " must be a relative path inside the project")
		}
	}
	if _, err := time.ParseDuration(c.Dev.Debounce); err != nil {
		return errors.New("E120").
			WithDetail("dev.debounce is not a duration: " + err.Error())
	}
	return nil
}

// ValidatePublish checks the settings needed to publish the manifest.
func (c *Config) ValidatePublish() error {
	if c.Publish.Bucket == "" {
		return errors.New("E123").
			WithSuggestion("Set publish.bucket in routekit.json or " + EnvPrefix + "PUBLISH_BUCKET")
	}
	return nil
}

// matchersDir returns the matcher directory, or "" when disabled.
func (c *Config) matchersDir() string {
	if c.Routes.Matchers == "-" {
		return ""
	}
	return c.Routes.Matchers
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// DebounceDuration returns the parsed dev.debounce value.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Dev.Debounce)
	if err != nil {
		return 100 * time.Millisecond
	}
	return d
}

// RoutesPath returns the absolute path to the routes directory.
func (c *Config) RoutesPath() string {
	return filepath.Join(c.Dir(), c.Routes.Dir)
}

// MatchersPath returns the absolute path to the matcher directory, or "" if
// matchers are disabled.
func (c *Config) MatchersPath() string {
	if c.matchersDir() == "" {
		return ""
	}
	return filepath.Join(c.Dir(), c.matchersDir())
}

// ManifestPath returns the absolute path of the manifest output.
func (c *Config) ManifestPath() string {
	if filepath.IsAbs(c.Output.Manifest) {
		return c.Output.Manifest
	}
	return filepath.Join(c.Dir(), c.Output.Manifest)
}

// RouterOptions converts the config to compile options rooted at the
// project directory.
func (c *Config) RouterOptions(logger *slog.Logger) router.Options {
	root := c.Dir()
	if root == "" {
		root = "."
	}
	opts := router.Options{
		FS:                  os.DirFS(root),
		RoutesDir:           filepath.ToSlash(filepath.Clean(c.Routes.Dir)),
		PageExtensions:      c.Routes.PageExtensions,
		ModuleExtensions:    c.Routes.ModuleExtensions,
		DefaultLayout:       c.Routes.DefaultLayout,
		DefaultError:        c.Routes.DefaultError,
		StrictEndpointSlash: c.Routes.StrictEndpointSlash,
		SpecialNames:        c.Routes.SpecialNames,
		Logger:              logger,
	}
	if dir := c.matchersDir(); dir != "" {
		opts.MatchersDir = filepath.ToSlash(filepath.Clean(dir))
	}
	return opts
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing routekit.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No routekit.json found in " + startDir + " or any parent directory").
				WithSuggestion("Create routekit.json in the project root")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
