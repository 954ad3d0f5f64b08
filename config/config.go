package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config struct {
	Addr           string
	DBPath         string
	ContentDir     string
	ContentBaseURL string
	QuizManifest   string
	LogLevel       string
	Debug          bool

	B2KeyID   string
	B2AppKey  string
	B2Bucket  string
	B2BaseURL string
}

// UseB2 reports whether bucket credentials are complete.
func (c Config) UseB2() bool {
	return c.B2KeyID != "" && c.B2AppKey != "" && c.B2Bucket != ""
}

// Level maps LogLevel onto gommon levels. Unknown values fall back to INFO.
func (c Config) Level() log.Lvl {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		if c.Debug {
			return log.DEBUG
		}
		return log.INFO
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("addr", ":3000")
	v.SetDefault("dbPath", "data/learnhub.db")
	v.SetDefault("contentDir", "static")
	v.SetDefault("contentBaseURL", "")
	v.SetDefault("quizManifest", "data/quizzes.json")
	v.SetDefault("logLevel", "info")
	v.SetDefault("debug", false)

	// B2 credentials keep their historical unprefixed names.
	for _, key := range []string{"B2_KEY_ID", "B2_APP_KEY", "B2_BUCKET", "B2_BASE_URL"} {
		_ = v.BindEnv(key, key)
	}

	v.SetEnvPrefix("LEARNHUB")
	v.AutomaticEnv()
	return v
}

// Load reads dotEnvPath when it exists, then resolves every key from the environment
// (prefix LEARNHUB_) over the defaults.
func Load(dotEnvPath string) (Config, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return Config{}, errors.Wrapf(err, "config.godotenv(%s)", dotEnvPath)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, "config.os.Stat(%s)", dotEnvPath)
		}
	}

	v := newViper()
	return Config{
		Addr:           v.GetString("addr"),
		DBPath:         filepath.Clean(v.GetString("dbPath")),
		ContentDir:     v.GetString("contentDir"),
		ContentBaseURL: v.GetString("contentBaseURL"),
		QuizManifest:   v.GetString("quizManifest"),
		LogLevel:       v.GetString("logLevel"),
		Debug:          v.GetBool("debug"),
		B2KeyID:        v.GetString("B2_KEY_ID"),
		B2AppKey:       v.GetString("B2_APP_KEY"),
		B2Bucket:       v.GetString("B2_BUCKET"),
		B2BaseURL:      v.GetString("B2_BASE_URL"),
	}, nil
}
