package gateway

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/rs/zerolog"

	autherror "github.com/stybayev/graduate-work/internal/errors"
)

type Proxy struct {
	router *Router
	log    zerolog.Logger
}

func NewProxy(router *Router, log zerolog.Logger) *Proxy {
	return &Proxy{
		router: router,
		log:    log,
	}
}

// Handle forwards the request unchanged (method, headers, query, body)
// to the backend owning the path prefix and streams the backend's
// response back with its original status code.
func (p *Proxy) Handle(c *fiber.Ctx) error {
	target, ok := p.router.Route(c.Path())
	if !ok {
		return autherror.ErrNoRoute
	}

	url := target + c.OriginalURL()

	if err := proxy.Do(c, url); err != nil {
		p.log.Error().Err(err).Str("url", url).Msg("proxy request failed")
		return fmt.Errorf("%w: %v", autherror.ErrUpstreamUnavailable, err)
	}

	p.log.Info().Str("url", url).Int("status", c.Response().StatusCode()).Msg("proxied request")

	// The gateway should not advertise the backend's server header.
	c.Response().Header.Del(fiber.HeaderServer)

	return nil
}
