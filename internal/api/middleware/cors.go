package middleware

import (
	"sync/atomic"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// AllowedOrigins is a CORS allowlist that can be swapped while serving.
type AllowedOrigins struct {
	v atomic.Value
}

func NewAllowedOrigins(domains []string) *AllowedOrigins {
	o := &AllowedOrigins{}
	o.Set(domains)

	return o
}

func (o *AllowedOrigins) Set(domains []string) {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		set[d] = struct{}{}
	}
	o.v.Store(set)
}

// Allow reports whether origin may call the API. "*" in the list allows everyone.
func (o *AllowedOrigins) Allow(origin string) bool {
	set, _ := o.v.Load().(map[string]struct{})
	if _, ok := set["*"]; ok {
		return true
	}
	_, ok := set[origin]

	return ok
}

func ConfigCORS(origins *AllowedOrigins) gin.HandlerFunc {
	conf := cors.DefaultConfig()
	conf.AllowOriginFunc = origins.Allow
	conf.AllowHeaders = append(conf.AllowHeaders, "Authorization")
	conf.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	conf.AllowCredentials = true

	return cors.New(conf)
}
