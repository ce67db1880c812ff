package config

import (
	"errors"
	"io/fs"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Loader reads configuration through its own viper instance.
type Loader struct {
	mu   sync.Mutex
	v    *viper.Viper
	fs   afero.Fs
	file string
	dirs []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFs sets the filesystem config files are read from.
func WithFs(fsys afero.Fs) LoaderOption {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithFile loads an explicit config file. Its extension selects the format.
// A missing explicit file is an error.
func WithFile(path string) LoaderOption {
	return func(l *Loader) {
		l.file = path
	}
}

// WithSearchPaths replaces the directories searched for config.toml or
// config.yaml when no explicit file is given.
func WithSearchPaths(dirs ...string) LoaderOption {
	return func(l *Loader) {
		l.dirs = dirs
	}
}

// NewLoader creates a loader with defaults and environment binding applied.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		v:    viper.New(),
		fs:   afero.NewOsFs(),
		dirs: []string{ConfigDir(), "."},
	}
	for _, opt := range opts {
		opt(l)
	}

	l.v.SetFs(l.fs)
	SetDefaults(l.v)

	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.file != "" {
		l.v.SetConfigFile(l.file)
	} else {
		l.v.SetConfigName("config")
		for _, dir := range l.dirs {
			l.v.AddConfigPath(dir)
		}
	}
	return l
}

// SetDefaults registers every key with its built-in value.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	v.SetDefault("document.lock", defaults.Document.Lock)
	v.SetDefault("document.history_size", defaults.Document.HistorySize)

	v.SetDefault("dispatch.mode", defaults.Dispatch.Mode)
	v.SetDefault("dispatch.metrics", defaults.Dispatch.Metrics)
	v.SetDefault("dispatch.recover_panics", defaults.Dispatch.RecoverPanics)

	v.SetDefault("ui.queue_size", defaults.UI.QueueSize)

	v.SetDefault("storage.root", defaults.Storage.Root)
	v.SetDefault("storage.perm", defaults.Storage.Perm)

	v.SetDefault("panes", defaults.Panes)
}

// Load reads the config file, if any, and returns the validated result.
// A missing file in the search paths is not an error; defaults apply.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case errors.Is(err, fs.ErrNotExist):
			return nil, errors.Join(ErrFileNotFound, err)
		default:
			return nil, &ParseError{Path: l.v.ConfigFileUsed(), Err: err}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, &ParseError{Path: l.v.ConfigFileUsed(), Err: err}
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

// Set overrides a key, taking precedence over file and environment.
func (l *Loader) Set(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.v.Set(key, value)
}

// ConfigFileUsed returns the file the last Load read, or "".
func (l *Loader) ConfigFileUsed() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.v.ConfigFileUsed()
}
