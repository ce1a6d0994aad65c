package main

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/mahdihaghverdi/FastBlog/internal/events"
	"github.com/mahdihaghverdi/FastBlog/internal/handlers"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/auth"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/config"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/db"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/httpserver"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/logging"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/natsconn"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/run"
	"github.com/mahdihaghverdi/FastBlog/internal/store"
	"github.com/mahdihaghverdi/FastBlog/internal/thread"
	"github.com/mahdihaghverdi/FastBlog/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := db.Open(ctx)
	cancel()
	if err != nil {
		log.Error("database open", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()

	users := store.NewPostgresUserStore(pool)
	posts := store.NewPostgresPostStore(pool)
	drafts := store.NewPostgresDraftStore(pool)
	comments := store.NewPostgresCommentStore(pool)

	threads := &thread.Service{Comments: comments, Posts: posts}
	tok := tokens.Service{Secret: []byte(cfg.JWTSecret), AccessTokenTTL: time.Hour}
	verifier := auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)}

	// Event publishing is best effort: a missing NATS leaves a no-op stub.
	var pub *events.Publisher
	var nc *nats.Conn
	if nc, err = natsconn.Connect(natsconn.Options{}); err != nil {
		log.Warn("nats connect, events disabled", zap.Error(err))
	} else {
		defer nc.Close()
		js, jsErr := nc.JetStream()
		if jsErr != nil {
			log.Warn("jetstream, events disabled", zap.Error(jsErr))
		} else {
			pub = events.New(js, log)
		}
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: func() error {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer pingCancel()
		return pool.Ping(pingCtx)
	}})

	r.Post("/auth/signup", handlers.Signup(users, pub))
	r.Post("/auth/token", handlers.Token(users, tok))

	// Public reads
	r.Get("/comments/{post_id}/basecomments", handlers.ListBaseComments(threads))
	r.Get("/comments/{post_id}/{comment_id}", handlers.GetCommentThread(threads))
	r.Get("/global", handlers.GlobalFeed(posts, comments))
	r.Get("/global/@{username}/{slug}", handlers.GlobalPost(posts, comments))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))

		r.Post("/posts", handlers.CreatePost(posts))
		r.Get("/posts", handlers.ListPosts(posts))
		r.Get("/posts/{post_id}", handlers.GetPost(posts))
		r.Put("/posts/{post_id}", handlers.UpdatePost(posts))
		r.Delete("/posts/{post_id}", handlers.DeletePost(posts))

		r.Post("/posts/{post_id}/comment", handlers.CreateComment(threads, pub))
		r.Post("/posts/{post_id}/comment/{comment_id}", handlers.CreateComment(threads, pub))
		r.Put("/comments/{post_id}/{comment_id}", handlers.UpdateComment(threads, pub))
		r.Delete("/comments/{post_id}/{comment_id}", handlers.DeleteComment(threads, pub))

		r.Post("/drafts", handlers.CreateDraft(drafts))
		r.Get("/drafts", handlers.ListDrafts(drafts))
		r.Get("/drafts/{draft_id}", handlers.GetDraft(drafts))
		r.Put("/drafts/{draft_id}", handlers.UpdateDraft(drafts))
		r.Delete("/drafts/{draft_id}", handlers.DeleteDraft(drafts))
		r.Post("/drafts/{draft_id}/publish", handlers.PublishDraft(drafts, posts, pub))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
