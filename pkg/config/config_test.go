package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "posts", cfg.Mongo.PostsCollection)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, PostsStoreMongo, cfg.Posts.Store)
	assert.False(t, cfg.Log.Development)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
server:
  addr: 0.0.0.0:8080
mongo:
  database: feed_test
session:
  store: mysql
  ttl: 30m
log:
  development: true
`)
	require.NoError(t, ioutil.WriteFile(path, yaml, 0o600))

	t.Setenv("SOCIALFEED_MONGO_DATABASE", "from_env")
	t.Setenv("SOCIALFEED_REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "from_env", cfg.Mongo.Database)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, SessionStoreMySQL, cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Log.Development)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("SOCIALFEED_SESSION_STORE", "memcached")
	_, err = Load("")
	assert.EqualError(t, err, `unknown session.store "memcached"`)
}

func TestLoadUnknownPostsStore(t *testing.T) {
	t.Setenv("SOCIALFEED_POSTS_STORE", "files")
	_, err := Load("")
	assert.EqualError(t, err, `unknown posts.store "files"`)
}
