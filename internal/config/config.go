package config

import (
	"errors"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskmaster.db"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Add       string `toml:"add"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Toggle    string `toml:"toggle"`
	Delete    string `toml:"delete"`
	Edit      string `toml:"edit"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
	Filter    string `toml:"filter"`
	Search    string `toml:"search"`
	ClearDone string `toml:"clear_done"`
	Theme     string `toml:"theme"`
	Analytics string `toml:"analytics"`
	Alerts    string `toml:"alerts"`
	Logout    string `toml:"logout"`
}

type Config struct {
	DBPath            string `toml:"db_path"`
	DefaultFilter     string `toml:"default_filter"`
	Theme             string `toml:"theme"`
	LoginDelayMS      int    `toml:"login_delay_ms"`
	ReminderIntervalS int    `toml:"reminder_interval_secs"`
	ReminderWindowM   int    `toml:"reminder_window_mins"`
	DesktopAlerts     bool   `toml:"desktop_alerts"`
	Keys              Keymap `toml:"keys"`
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
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
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.ReminderIntervalS <= 0 {
		cfg.ReminderIntervalS = 60
	}
	if cfg.ReminderWindowM <= 0 {
		cfg.ReminderWindowM = 60
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:            DefaultDBName,
		DefaultFilter:     "all",
		Theme:             "light",
		LoginDelayMS:      800,
		ReminderIntervalS: 60,
		ReminderWindowM:   60,
		DesktopAlerts:     true,
		Keys: Keymap{
			Quit:      "q",
			Add:       "a",
			Up:        "k",
			Down:      "j",
			Toggle:    " ",
			Delete:    "d",
			Edit:      "e",
			Confirm:   "enter",
			Cancel:    "esc",
			Filter:    "f",
			Search:    "/",
			ClearDone: "c",
			Theme:     "t",
			Analytics: "s",
			Alerts:    "b",
			Logout:    "L",
		},
	}
}
