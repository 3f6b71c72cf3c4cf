package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows any origin, echoing it back so credentialed browser requests work.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:           func(string) bool { return true },
		AllowCredentials:          true,
		AllowMethods:              []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:              []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders:             []string{RequestIDHeader},
		OptionsResponseStatusCode: http.StatusNoContent,
		MaxAge:                    12 * time.Hour,
	})
}
