package main

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"tvicladmin/internal/config"
	"tvicladmin/internal/http/handlers"
	applog "tvicladmin/internal/log"
	"tvicladmin/internal/platform"
	"tvicladmin/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	client, err := platform.New(cfg.PlatformURL)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.PlatformEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if _, err := client.Login(ctx, cfg.PlatformEmail, cfg.PlatformPass); err != nil {
			log.Printf("[warn] platform login failed, submissions will fail until credentials work: %v", err)
		}
		cancel()
	} else {
		log.Printf("[warn] TVICL_API_EMAIL not set; platform calls will be unauthenticated")
	}

	deps := handlers.NewDeps(db, cfg, client)
	authSvc := deps.Auth

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
		},
	})
	// Room for a full media batch plus form overhead
	app.Server().MaxRequestBodySize = 64 << 20

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(string(c.Request().URI().Path()), "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Security check failed. Please refresh and try again."})
		},
	}))

	// ---------- Media ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		log.Fatal(err)
	}
	log.Printf("[static] /media -> %s", mediaDir)

	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	// ---------- Routes ----------
	api := app.Group("/api/v1")

	// Auth (login throttled)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)
	api.Post("/auth/logout", deps.AuthHandler.Logout)
	api.Get("/auth/me", handlers.RequireUser(authSvc), deps.AuthHandler.Me)

	// Listing wizard
	drafts := api.Group("/drafts", handlers.RequireUser(authSvc))
	drafts.Get("/", deps.WizardHandler.List)
	drafts.Post("/", deps.WizardHandler.Create)
	drafts.Get("/:id", deps.WizardHandler.Get)
	drafts.Patch("/:id/fields", deps.WizardHandler.PatchField)
	drafts.Post("/:id/advance", deps.WizardHandler.Advance)
	drafts.Post("/:id/back", deps.WizardHandler.Back)
	drafts.Post("/:id/reset", deps.WizardHandler.Reset)
	drafts.Delete("/:id", deps.WizardHandler.Discard)
	drafts.Post("/:id/contacts", deps.WizardHandler.AddContact)
	drafts.Delete("/:id/contacts/:index", deps.WizardHandler.RemoveContact)
	drafts.Post("/:id/contacts/prefill", deps.WizardHandler.PrefillContact)
	drafts.Post("/:id/payment-plans", deps.WizardHandler.AddPaymentPlan)
	drafts.Delete("/:id/payment-plans/:index", deps.WizardHandler.RemovePaymentPlan)
	drafts.Post("/:id/submit", deps.WizardHandler.Submit)

	// Media within a draft
	drafts.Post("/:id/media/:category", deps.MediaHandler.Upload)
	drafts.Delete("/:id/media/:category/:index", deps.MediaHandler.Remove)
	drafts.Post("/:id/media/:category/:index/primary", deps.MediaHandler.SetPrimary)
	drafts.Patch("/:id/media/:category/:index/caption", deps.MediaHandler.SetCaption)
	drafts.Post("/:id/documents/:doc", deps.MediaHandler.UploadDocument)
	drafts.Delete("/:id/documents/:doc", deps.MediaHandler.RemoveDocument)

	// Platform listings
	props := api.Group("/properties", handlers.RequireUser(authSvc))
	props.Get("/", deps.PropertyHandler.Search)
	props.Get("/analytics/dashboard", handlers.RequireAdmin(authSvc), deps.AnalyticsHandler.Dashboard)
	props.Get("/analytics/:slice", handlers.RequireAdmin(authSvc), deps.AnalyticsHandler.Slice)
	props.Get("/:id", deps.PropertyHandler.Get)
	props.Delete("/:id", handlers.RequireAdmin(authSvc), deps.PropertyHandler.Delete)
	props.Patch("/:id/restore", handlers.RequireAdmin(authSvc), deps.PropertyHandler.Restore)
	props.Patch("/:id/verify", handlers.RequireAdmin(authSvc), deps.PropertyHandler.Verify)

	// Admin
	admin := api.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/users", deps.AdminHandler.ListUsers)
	admin.Post("/users", deps.AdminHandler.CreateUser)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
