package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Window holds limit/offset list parameters as sent by the client.
// Zero values mean "use the default"; clamping is left to the caller.
type Window struct {
	Limit  int
	Offset int
}

// ParseWindow reads limit and offset from the query string. Values that
// are not integers are ignored.
func ParseWindow(c *gin.Context) Window {
	return Window{
		Limit:  parseQueryInt(c, "limit", 0),
		Offset: parseQueryInt(c, "offset", 0),
	}
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

// ParseQueryFloat parses a float query parameter; ok is false when it is
// missing or malformed.
func ParseQueryFloat(c *gin.Context, key string) (float64, bool) {
	val := c.Query(key)
	if val == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
