package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qvideo/rental-api/internal/metrics"
	"github.com/qvideo/rental-api/internal/core/domain"
)

const videosPath = "/api/videos"

type accessRule int

const (
	rulePublic accessRule = iota
	ruleAdmin
	ruleAuthenticated
)

// AccessControl decides, from method and path alone, whether the caller
// established by Authenticate may proceed. Rules are checked in order and
// the first match wins:
//
//  1. registration, login and the given public paths need no identity;
//  2. non-GET requests under /api/videos need an ADMIN;
//  3. GET requests under /api/videos need any identity;
//  4. everything else needs any identity.
//
// Public paths ending in "/*" match by prefix.
func AccessControl(publicPaths ...string) echo.MiddlewareFunc {
	exact := map[string]struct{}{
		"/api/auth/register": {},
		"/api/auth/login":    {},
	}
	var prefixes []string
	for _, p := range publicPaths {
		if strings.HasSuffix(p, "/*") {
			prefixes = append(prefixes, strings.TrimSuffix(p, "*"))
			continue
		}
		exact[p] = struct{}{}
	}

	isPublic := func(path string) bool {
		if _, ok := exact[path]; ok {
			return true
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}

	adminOnly := RBAC(domain.RoleAdmin)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		requireAdmin := adminOnly(next)
		return func(c echo.Context) error {
			req := c.Request()
			switch classify(req.Method, req.URL.Path, isPublic) {
			case rulePublic:
				return next(c)
			case ruleAdmin:
				return requireAdmin(c)
			default:
				if IdentityFrom(c) == nil {
					metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
					return domain.ErrUnauthenticated
				}
				return next(c)
			}
		}
	}
}

func classify(method, path string, isPublic func(string) bool) accessRule {
	if isPublic(path) {
		return rulePublic
	}
	if path == videosPath || strings.HasPrefix(path, videosPath+"/") {
		if method != http.MethodGet {
			return ruleAdmin
		}
	}
	return ruleAuthenticated
}
