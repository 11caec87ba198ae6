package web

import (
	"net/http"
	"os"
	"time"

	"bitbucket.org/crgw/haulier-rates/internal/quoting"
	"bitbucket.org/crgw/haulier-rates/internal/ratetable"
	"bitbucket.org/crgw/haulier-rates/internal/surcharge"
	"bitbucket.org/crgw/haulier-rates/internal/tools/redisfactory"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func SetupRouter(
	log *zerolog.Logger,
	table *ratetable.Table,
	surcharges *surcharge.Service,
	redisFactory *redisfactory.Factory,
) *gin.Engine {
	var (
		startTime       = time.Now()
		openApiLocation = os.Getenv("OPENAPI_LOCATION")
	)

	if openApiLocation == "" {
		openApiLocation = "./api/openapi.json"
	}

	openApiContent, _ := os.ReadFile(openApiLocation)

	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.
		Use(StartRequest).
		Use(CorrelationId).
		Use(RegisterLogger(log)).
		Use(TraceLog).
		Use(PanicRecovery).
		Use(OpenapiValidator(log, openApiContent))

	router.GET("/status", func(c *gin.Context) {
		response := struct {
			Uptime      float64 `json:"uptime"`
			RateEntries int     `json:"rateEntries"`
		}{
			Uptime:      time.Since(startTime).Seconds(),
			RateEntries: table.Len(),
		}

		c.JSON(http.StatusOK, response)
	})

	router.GET("/openapi.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, string(openApiContent))
	})

	pprof.Register(router)

	quoting.RegisterRoutes(
		router,
		table,
		surcharges,
		redisFactory,
		[]byte(os.Getenv("SURCHARGE_OPERATOR_SECRET")),
	)

	return router
}
