package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "SOCIALFEED"

const (
	SessionStoreRedis = "redis"
	SessionStoreMySQL = "mysql"

	PostsStoreMongo  = "mongo"
	PostsStoreMemory = "memory"
)

type Config struct {
	Server  Server  `mapstructure:"server"`
	Mongo   Mongo   `mapstructure:"mongo"`
	MySQL   MySQL   `mapstructure:"mysql"`
	Redis   Redis   `mapstructure:"redis"`
	Session Session `mapstructure:"session"`
	Posts   Posts   `mapstructure:"posts"`
	Keys    Keys    `mapstructure:"keys"`
	Log     Log     `mapstructure:"log"`
}

type Server struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Mongo struct {
	URI             string `mapstructure:"uri"`
	Database        string `mapstructure:"database"`
	PostsCollection string `mapstructure:"posts_collection"`
}

type MySQL struct {
	DSN string `mapstructure:"dsn"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Session struct {
	Store string        `mapstructure:"store"`
	TTL   time.Duration `mapstructure:"ttl"`
}

type Posts struct {
	Store string `mapstructure:"store"`
}

type Keys struct {
	Private string `mapstructure:"private"`
	Public  string `mapstructure:"public"`
}

type Log struct {
	Development bool `mapstructure:"development"`
}

var defaults = map[string]interface{}{
	"server.addr":             "127.0.0.1:5000",
	"server.read_timeout":     15 * time.Second,
	"server.write_timeout":    15 * time.Second,
	"server.shutdown_timeout": 10 * time.Second,
	"mongo.uri":               "mongodb://localhost:27017",
	"mongo.database":          "socialfeed",
	"mongo.posts_collection":  "posts",
	"mysql.dsn":               "root:root@tcp(localhost:3306)/socialfeed?charset=utf8&parseTime=true",
	"redis.addr":              "localhost:6379",
	"redis.password":          "",
	"redis.db":                0,
	"session.store":           SessionStoreRedis,
	"session.ttl":             2 * time.Hour,
	"posts.store":             PostsStoreMongo,
	"keys.private":            "key.rsa",
	"keys.public":             "key.rsa.pub",
	"log.development":         false,
}

// Load reads defaults, then the optional file at path, then SOCIALFEED_*
// environment variables, e.g. SOCIALFEED_MONGO_URI for mongo.uri.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case SessionStoreRedis, SessionStoreMySQL:
	default:
		return fmt.Errorf("unknown session.store %q", c.Session.Store)
	}

	switch c.Posts.Store {
	case PostsStoreMongo, PostsStoreMemory:
	default:
		return fmt.Errorf("unknown posts.store %q", c.Posts.Store)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}

	return nil
}
