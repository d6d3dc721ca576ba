package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialfeed/pkg/common"
	"socialfeed/pkg/config"
	"socialfeed/pkg/handlers"
	"socialfeed/pkg/middleware"
	"socialfeed/pkg/posts"
	"socialfeed/pkg/session"
	"socialfeed/pkg/user"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to a YAML config file, SOCIALFEED_* env vars override it")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &Application{Config: cfg}
	if err = app.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

type Application struct {
	Config *config.Config

	HTTPServer *http.Server

	logger  *zap.SugaredLogger
	closers []func(context.Context) error
}

// Run serves until ctx is done, then shuts the server down and releases
// every store connection it opened.
func (a *Application) Run(ctx context.Context) error {
	zapLogger, err := newLogger(a.Config.Log.Development)
	if err != nil {
		return err
	}
	defer zapLogger.Sync() // flushes buffer, if any
	a.logger = zapLogger.Sugar()

	defer a.close()

	handler, err := a.setup(ctx)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      handler,
		Addr:         a.Config.Server.Addr,
		WriteTimeout: a.Config.Server.WriteTimeout,
		ReadTimeout:  a.Config.Server.ReadTimeout,
	}
	a.HTTPServer = srv

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("Started server at %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err = <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (a *Application) setup(ctx context.Context) (http.Handler, error) {
	db, err := a.openMySQL(ctx)
	if err != nil {
		return nil, err
	}

	sm, err := a.sessionManager(ctx, db)
	if err != nil {
		return nil, err
	}

	postsRepo, err := a.postsRepo(ctx)
	if err != nil {
		return nil, err
	}

	userHandler := &handlers.UserHandler{
		Sm:       sm,
		Repo:     user.NewUserRepoSQL(db),
		Logger:   a.logger,
		TokenTTL: a.Config.Session.TTL,
	}

	postsHandler := &handlers.PostHandler{
		PostsRepo: postsRepo,
		Logger:    a.logger,
	}

	r := handlers.NewRouter(postsHandler, userHandler, middleware.Auth(a.logger, sm))

	mux := middleware.Log(a.logger, r)
	mux = middleware.Recover(a.logger, mux)
	return mux, nil
}

func (a *Application) openMySQL(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("mysql", a.Config.MySQL.DSN)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	a.onClose(func(context.Context) error { return db.Close() })

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	for _, schema := range []string{user.Schema, session.Schema} {
		if _, err = db.ExecContext(ctx, schema); err != nil {
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return db, nil
}

func (a *Application) sessionManager(ctx context.Context, db *sql.DB) (session.SessionManager, error) {
	privateKeyBytes, err := ioutil.ReadFile(a.Config.Keys.Private)
	if err != nil {
		return nil, err
	}

	publicKeyBytes, err := ioutil.ReadFile(a.Config.Keys.Public)
	if err != nil {
		return nil, err
	}

	smJWT, err := session.NewSessionsJWTManager(privateKeyBytes, publicKeyBytes)
	if err != nil {
		return nil, err
	}

	if a.Config.Session.Store == config.SessionStoreMySQL {
		a.logger.Info("sessions are stored in mysql")
		return session.NewSessionManagerSQL(db, smJWT), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     a.Config.Redis.Addr,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})
	a.onClose(func(context.Context) error { return rdb.Close() })

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err = rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	a.logger.Infow("sessions are stored in redis", "addr", a.Config.Redis.Addr)
	return session.NewSessionManagerRedis(rdb, smJWT, a.Config.Session.TTL), nil
}

func (a *Application) postsRepo(ctx context.Context) (handlers.PostsRepo, error) {
	if a.Config.Posts.Store == config.PostsStoreMemory {
		a.logger.Warn("posts are kept in memory and lost on restart")
		return posts.NewMemoryRepo(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := common.NewMongoClient(connectCtx, a.Config.Mongo.URI)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	a.onClose(client.Disconnect)

	return posts.NewPostsRepoMongo(client.Database(a.Config.Mongo.Database), a.Config.Mongo.PostsCollection), nil
}

func (a *Application) onClose(f func(context.Context) error) {
	a.closers = append(a.closers, f)
}

// close releases stores in reverse order of opening.
func (a *Application) close() {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Errorw("close failed", "error", err.Error())
		}
	}
	a.closers = nil
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
