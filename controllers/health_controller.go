package controllers

import (
	"fmt"
	"net/http"
	"time"

	"aegis/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthController struct {
	db        *mongo.Database
	redis     *redis.Client
	startTime time.Time
	version   string
}

func NewHealthController(db *mongo.Database, redisClient *redis.Client, version string) *HealthController {
	return &HealthController{
		db:        db,
		redis:     redisClient,
		startTime: time.Now(),
		version:   version,
	}
}

func (hc *HealthController) Health(c *gin.Context) {
	services := map[string]string{}

	if err := hc.db.Client().Ping(c.Request.Context(), nil); err != nil {
		services["mongodb"] = "unhealthy"
	} else {
		services["mongodb"] = "healthy"
	}

	if hc.redis != nil {
		if err := hc.redis.Ping(c.Request.Context()).Err(); err != nil {
			services["redis"] = "unhealthy"
		} else {
			services["redis"] = "healthy"
		}
	}

	uptime := fmt.Sprintf("%.0fs", time.Since(hc.startTime).Seconds())
	response := utils.HealthCheckResponse(services, hc.version, uptime)

	status := http.StatusOK
	if services["mongodb"] != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, response)
}
