package main

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"image/png"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// controlPlane serves the device's HTTP endpoints. Handlers are
// stateless apart from the shared rate limiter; every read or mutation
// of navigation state goes through NavigationState's own locking, so
// concurrent requests and the render/touch threads never race.
type controlPlane struct {
	nav     *NavigationState
	sched   *renderScheduler
	limiter *tokenBucket
	user    string
	pass    string
}

func newControlPlane(nav *NavigationState, sched *renderScheduler, limiter *tokenBucket, user, pass string) *controlPlane {
	return &controlPlane{nav: nav, sched: sched, limiter: limiter, user: user, pass: pass}
}

func (cp *controlPlane) app() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(cp.authMiddleware)
	app.Use(cp.limitMiddleware)

	app.Get("/health", cp.handleHealth)
	app.Get("/screenshot", cp.handleScreenshot)
	app.Get("/next", cp.handleNext)
	app.Get("/prev", cp.handlePrev)
	app.Get("/view", cp.handleView)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("Not Found")
	})
	return app
}

// run serves until ctx is cancelled, then stops accepting connections.
func (cp *controlPlane) run(ctx context.Context, addr string) {
	app := cp.app()
	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(3 * time.Second); err != nil {
			log.Printf("http: shutdown: %v", err)
		}
	}()
	log.Println("starting control server on", addr)
	if err := app.Listen(addr); err != nil {
		log.Printf("http: listen: %v", err)
	}
}

// authMiddleware enforces the optional credential pair. With no pair
// configured, auth is disabled and everything passes.
func (cp *controlPlane) authMiddleware(c *fiber.Ctx) error {
	if cp.user == "" && cp.pass == "" {
		return c.Next()
	}
	user, pass, ok := parseBasicAuth(c.Get(fiber.HeaderAuthorization))
	if !ok ||
		subtle.ConstantTimeCompare([]byte(user), []byte(cp.user)) != 1 ||
		subtle.ConstantTimeCompare([]byte(pass), []byte(cp.pass)) != 1 {
		c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="skyalmanac"`)
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}
	return c.Next()
}

func (cp *controlPlane) limitMiddleware(c *fiber.Ctx) error {
	if cp.limiter.Allow() {
		return c.Next()
	}
	retry := int(cp.limiter.RetryAfter() / time.Second)
	if retry < 1 {
		retry = 1
	}
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
	return c.Status(fiber.StatusTooManyRequests).SendString("Too Many Requests")
}

func (cp *controlPlane) handleHealth(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// handleScreenshot renders the active panel on demand and serves it as
// PNG. When the on-demand render fails it falls back to the last frame
// the scheduler pushed; 503 only when neither exists.
func (cp *controlPlane) handleScreenshot(c *fiber.Ctx) error {
	frame := cp.sched.Snapshot()
	if frame == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("No frame available")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to encode image")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentLength, strconv.Itoa(buf.Len()))
	return c.Send(buf.Bytes())
}

func (cp *controlPlane) handleNext(c *fiber.Ctx) error {
	cp.nav.Next()
	return c.SendString(cp.viewString())
}

func (cp *controlPlane) handlePrev(c *fiber.Ctx) error {
	cp.nav.Prev()
	return c.SendString(cp.viewString())
}

func (cp *controlPlane) handleView(c *fiber.Ctx) error {
	return c.SendString(cp.viewString())
}

func (cp *controlPlane) viewString() string {
	panel := cp.nav.Current()
	return fmt.Sprintf("%s (%d/%d)", panel.Name, cp.nav.Index()+1, cp.nav.Count())
}

func parseBasicAuth(header string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	user, pass, ok = strings.Cut(string(decoded), ":")
	return user, pass, ok
}
