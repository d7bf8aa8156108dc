// pkg/config/config.go

// Package config resolves the flash pipeline's settings from flags,
// environment variables and an optional saved profile, in that order
// of precedence.
package config

import (
	"os"
	"path/filepath"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the resolved view of everything a flash session needs.
type Config struct {
	Firmware    string
	Method      string
	SerialPort  string
	BaudRate    int
	USBIndex    int
	SDCardPath  string
	FlashScript string
	LogDir      string
	AutoConfirm bool
	DryRun      bool
	NoColor     bool
	Quiet       bool

	Wchisp WchispConfig
}

// WchispConfig covers the tool bootstrapper's own settings.
type WchispConfig struct {
	Bin                 string
	Command             string
	AutoInstall         bool
	AllowUnverified     bool
	ChecksumOverride    string
	Release             string
	BaseURL             string
	ArchOverride        string
	CacheDir            string
	FallbackArchiveURL  string
	FallbackArchiveName string
	FallbackChecksum    string
}

const (
	defaultRelease  = "v0.3.0"
	defaultBaseURL  = "https://github.com/ch32-rs/wchisp/releases/download"
	defaultBaudRate = 115200
	defaultCommand  = "wchisp"
)

// Profile holds the values remembered between interactive runs. It never
// overrides explicit flags or environment variables.
type Profile struct {
	Method     string `yaml:"method,omitempty"`
	SerialPort string `yaml:"serial_port,omitempty"`
	SDCardPath string `yaml:"sdcard_path,omitempty"`
}

// Load builds a Config from the given flag set, the process environment
// and the saved profile.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("baud_rate", defaultBaudRate)
	v.SetDefault("log_dir", "logs")
	v.SetDefault("wchisp.command", defaultCommand)
	v.SetDefault("wchisp.auto_install", true)
	v.SetDefault("wchisp.release", defaultRelease)
	v.SetDefault("wchisp.base_url", defaultBaseURL)
	v.SetDefault("wchisp.cache_dir", filepath.Join(CacheDir(), "tools"))

	bindEnvs(v)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	profile := loadProfile(ProfilePath())

	cfg := &Config{
		Firmware:    v.GetString("firmware"),
		Method:      fallback(v.GetString("method"), profile.Method),
		SerialPort:  fallback(v.GetString("serial_port"), profile.SerialPort),
		BaudRate:    v.GetInt("baud_rate"),
		USBIndex:    v.GetInt("usb_index"),
		SDCardPath:  fallback(v.GetString("sdcard_path"), profile.SDCardPath),
		FlashScript: v.GetString("flash_usb_script"),
		LogDir:      v.GetString("log_dir"),
		AutoConfirm: v.GetBool("auto_confirm"),
		DryRun:      v.GetBool("dry_run"),
		NoColor:     v.GetBool("no_color"),
		Quiet:       v.GetBool("quiet"),
		Wchisp: WchispConfig{
			Bin:                 v.GetString("wchisp.bin"),
			Command:             v.GetString("wchisp.command"),
			AutoInstall:         v.GetBool("wchisp.auto_install"),
			AllowUnverified:     v.GetBool("wchisp.allow_unverified"),
			ChecksumOverride:    v.GetString("wchisp.checksum_override"),
			Release:             v.GetString("wchisp.release"),
			BaseURL:             v.GetString("wchisp.base_url"),
			ArchOverride:        v.GetString("wchisp.arch_override"),
			CacheDir:            v.GetString("wchisp.cache_dir"),
			FallbackArchiveURL:  v.GetString("wchisp.fallback_archive_url"),
			FallbackArchiveName: v.GetString("wchisp.fallback_archive_name"),
			FallbackChecksum:    v.GetString("wchisp.fallback_checksum"),
		},
	}
	return cfg, nil
}

func bindEnvs(v *viper.Viper) {
	pairs := map[string]string{
		"method":           "FLASH_AUTOMATION_METHOD",
		"serial_port":      "FLASH_AUTOMATION_SERIAL_PORT",
		"baud_rate":        "FLASH_AUTOMATION_BAUD_RATE",
		"usb_index":        "FLASH_AUTOMATION_USB_INDEX",
		"sdcard_path":      "FLASH_AUTOMATION_SDCARD_PATH",
		"flash_usb_script": "FLASH_AUTOMATION_FLASH_USB_SCRIPT",
		"firmware":         "FLASH_AUTOMATION_FIRMWARE",
		"log_dir":          "FLASH_AUTOMATION_LOG_DIR",
		"auto_confirm":     "FLASH_AUTOMATION_AUTO_CONFIRM",
		"no_color":         "FLASH_AUTOMATION_NO_COLOR",
		"quiet":            "FLASH_AUTOMATION_QUIET",

		"wchisp.bin":                   "WCHISP_BIN",
		"wchisp.command":               "WCHISP_COMMAND",
		"wchisp.auto_install":          "WCHISP_AUTO_INSTALL",
		"wchisp.allow_unverified":      "ALLOW_UNVERIFIED_WCHISP",
		"wchisp.checksum_override":     "WCHISP_ARCHIVE_CHECKSUM_OVERRIDE",
		"wchisp.release":               "WCHISP_RELEASE",
		"wchisp.base_url":              "WCHISP_BASE_URL",
		"wchisp.arch_override":         "WCHISP_ARCH_OVERRIDE",
		"wchisp.cache_dir":             "WCHISP_CACHE_DIR",
		"wchisp.fallback_archive_url":  "WCHISP_FALLBACK_ARCHIVE_URL",
		"wchisp.fallback_archive_name": "WCHISP_FALLBACK_ARCHIVE_NAME",
		"wchisp.fallback_checksum":     "WCHISP_FALLBACK_CHECKSUM",
	}
	for key, env := range pairs {
		_ = v.BindEnv(key, env)
	}
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"firmware":         "firmware",
		"method":           "method",
		"serial_port":      "port",
		"baud_rate":        "baud",
		"usb_index":        "usb-index",
		"sdcard_path":      "sdcard-path",
		"flash_usb_script": "flash-script",
		"log_dir":          "log-dir",
		"auto_confirm":     "auto-confirm",
		"dry_run":          "dry-run",
		"no_color":         "no-color",
		"quiet":            "quiet",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return cerr.Wrapf(err, "binding flag %s", name)
		}
	}
	return nil
}

func fallback(value, profileValue string) string {
	if value != "" {
		return value
	}
	return profileValue
}

func loadProfile(path string) Profile {
	var p Profile
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = yaml.Unmarshal(data, &p)
	return p
}

// SaveProfile persists the interactively chosen values for the next run.
func SaveProfile(path string, p Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cerr.Wrap(err, "creating config directory")
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return cerr.Wrap(err, "encoding profile")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cerr.Wrap(err, "writing profile")
	}
	return nil
}
