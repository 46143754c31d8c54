package app

import (
	"net/url"
	"strings"

	"github.com/gin-contrib/cors"

	"github.com/geoexplorer/core/internal/config"
)

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		c.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		c.AllowOriginFunc = func(origin string) bool { return true }
	}
	return c
}

// extractOriginHost returns the "host[:port]" portion of an origin URL.
func extractOriginHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOriginPattern reports whether host matches the given wildcard pattern.
func matchOriginPattern(pattern, host string) bool {
	if pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		suffix := pattern[1:]
		return strings.HasSuffix(host, suffix)
	}
	if strings.HasSuffix(pattern, ":*") {
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(host, prefix)
	}
	return false
}
