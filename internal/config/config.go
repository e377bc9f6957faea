package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"smarttasks/internal/task"
)

const (
	AppName               = "smarttasks"
	DefaultConfigFileName = "config.toml"
	DefaultDataName       = "tasks.json"
	DefaultLogName        = "smarttasks.log"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	Add      string `toml:"add"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Toggle   string `toml:"toggle"`
	Delete   string `toml:"delete"`
	View     string `toml:"view"`
	Edit     string `toml:"edit"`
	Search   string `toml:"search"`
	Category string `toml:"category"`
	SaveAs   string `toml:"save_as"`
	LoadFrom string `toml:"load_from"`
	Confirm  string `toml:"confirm"`
	Cancel   string `toml:"cancel"`
}

type Config struct {
	DataPath      string   `toml:"data_path"`
	LogPath       string   `toml:"log_path"`
	DefaultFilter string   `toml:"default_filter"`
	Categories    []string `toml:"categories"`
	Keys          Keymap   `toml:"keys"`
}

// ResolveConfigPath returns $SMARTTASKS_CONFIG when set, otherwise the
// config file under the XDG config directory.
func ResolveConfigPath() string {
	if p := os.Getenv("SMARTTASKS_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(userDir("XDG_CONFIG_HOME", ".config"), DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Fields missing from the file keep their defaults.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DataPath == "" {
		cfg.DataPath = defaultDataPath()
	}
	if cfg.DefaultFilter == "" {
		cfg.DefaultFilter = task.AllCategories
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = append([]string(nil), task.Categories...)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataPath:      defaultDataPath(),
		LogPath:       filepath.Join(userDir("XDG_STATE_HOME", filepath.Join(".local", "state")), DefaultLogName),
		DefaultFilter: task.AllCategories,
		Categories:    append([]string(nil), task.Categories...),
		Keys: Keymap{
			Quit:     "q",
			Add:      "a",
			Up:       "k",
			Down:     "j",
			Toggle:   " ",
			Delete:   "d",
			View:     "v",
			Edit:     "e",
			Search:   "/",
			Category: "c",
			SaveAs:   "S",
			LoadFrom: "L",
			Confirm:  "enter",
			Cancel:   "esc",
		},
	}
}

func defaultDataPath() string {
	return filepath.Join(userDir("XDG_DATA_HOME", filepath.Join(".local", "share")), DefaultDataName)
}

// userDir returns $env/smarttasks, falling back to ~/fallback/smarttasks and
// then to the working directory.
func userDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, fallback, AppName)
}
