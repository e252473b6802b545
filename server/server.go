// Package server exposes the auth core and the social domain as a JSON API
// over fiber. Every error leaves through the same response envelope; token
// verification failures stay opaque.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/mosaicsocial/mosaic/auth"
	"github.com/mosaicsocial/mosaic/media"
	"github.com/mosaicsocial/mosaic/social"
)

// Options carries the collaborators the server routes to.
type Options struct {
	Debug     bool
	Logger    auth.Logger
	Cfg       auth.Config
	Auther    *auth.Auther
	Users     auth.CredentialStore
	Posts     social.Posts
	Comments  social.Comments
	Likes     social.Likes
	Blocks    social.Blocks
	Presigner *media.Presigner
}

// Server is the HTTP front of the application.
type Server struct {
	app    *fiber.App
	logger auth.Logger
}

// New assembles the fiber app and mounts all routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}

	app := fiber.New(fiber.Config{
		AppName:               "mosaic",
		DisableStartupMessage: !opts.Debug,
	})

	s := &Server{
		app:    app,
		logger: opts.Logger,
	}

	s.mount(opts)
	return s
}

func (s *Server) mount(opts Options) {
	authCtrl := &AuthController{
		Debug:  opts.Debug,
		Logger: opts.Logger,
		Cfg:    opts.Cfg,
		Auther: opts.Auther,
	}
	usersCtrl := &UsersController{
		Logger: opts.Logger,
		Cfg:    opts.Cfg,
		Users:  opts.Users,
	}
	postsCtrl := &PostsController{
		Logger:    opts.Logger,
		Cfg:       opts.Cfg,
		Posts:     opts.Posts,
		Presigner: opts.Presigner,
	}
	socialCtrl := &SocialController{
		Logger:   opts.Logger,
		Cfg:      opts.Cfg,
		Comments: opts.Comments,
		Likes:    opts.Likes,
		Blocks:   opts.Blocks,
	}

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return ok(c, "ok", nil)
	})

	authGroup := s.app.Group("/auth")
	authGroup.Post("/register", authCtrl.Register)
	authGroup.Post("/login", authCtrl.Login)
	authGroup.Post("/refresh", authCtrl.Refresh)
	authGroup.Post("/password-reset", authCtrl.PasswordReset)

	protected := s.app.Group("/", Bearer(opts.Cfg, opts.Auther.Verifier()))
	protected.Post("/auth/logout", authCtrl.Logout)

	protected.Get("/users/me", usersCtrl.Fetch)
	protected.Patch("/users/me", usersCtrl.Update)

	protected.Post("/posts", postsCtrl.Create)
	protected.Get("/posts", postsCtrl.List)
	protected.Get("/posts/:id", postsCtrl.Get)
	protected.Delete("/posts/:id", postsCtrl.Delete)
	protected.Get("/posts/:id/comments", socialCtrl.ListComments)
	protected.Post("/posts/:id/like", socialCtrl.Like)
	protected.Delete("/posts/:id/like", socialCtrl.Unlike)

	protected.Post("/comments", socialCtrl.CreateComment)

	protected.Post("/media/upload-url", postsCtrl.UploadURL)
	protected.Get("/media/url", postsCtrl.MediaURL)

	protected.Post("/users/:id/block", socialCtrl.Block)
	protected.Delete("/users/:id/block", socialCtrl.Unblock)
	protected.Get("/users/blocked", socialCtrl.ListBlocked)
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
