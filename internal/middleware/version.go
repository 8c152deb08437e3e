package middleware

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"
)

// VersionMiddleware tags responses with the API version and rejects unknown
// version prefixes.
type VersionMiddleware struct {
	versions       map[string]struct{}
	defaultVersion string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		versions:       map[string]struct{}{"v1": {}},
		defaultVersion: "v1",
	}
}

// Group returns the route group for version, with the version header applied
func (vm *VersionMiddleware) Group(e *echo.Echo, version string) *echo.Group {
	group := e.Group("/" + version)
	group.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			return next(c)
		}
	})
	return group
}

// Resolver answers 404 for a /vN prefix that is not a known version
func (vm *VersionMiddleware) Resolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := versionFromPath(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}
			if _, ok := vm.versions[version]; !ok {
				return c.JSON(http.StatusNotFound, map[string]interface{}{
					"code":    http.StatusNotFound,
					"data":    vm.Supported(),
					"message": "unsupported API version " + version,
				})
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

// Supported lists the known versions in order
func (vm *VersionMiddleware) Supported() []string {
	out := make([]string, 0, len(vm.versions))
	for v := range vm.versions {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// versionFromPath returns "vN" for paths like /vN or /vN/...
func versionFromPath(path string) string {
	if len(path) < 3 || path[0] != '/' || path[1] != 'v' {
		return ""
	}
	end := 2
	for end < len(path) && path[end] >= '0' && path[end] <= '9' {
		end++
	}
	if end == 2 || (end < len(path) && path[end] != '/') {
		return ""
	}
	n, err := strconv.Atoi(path[2:end])
	if err != nil || n <= 0 {
		return ""
	}
	return "v" + strconv.Itoa(n)
}
