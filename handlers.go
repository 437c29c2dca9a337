package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"boostwatch/models"
	"boostwatch/pkg/feed"
	"boostwatch/pkg/reconcile"
)

type server struct {
	db  *gorm.DB
	rec *reconcile.Reconciler
	hub *feed.Hub
}

func setupRoutes(r *gin.Engine, s *server, jwtSecret []byte) {
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", gin.WrapF(s.hub.HandleWS))

	api := r.Group("/api")
	api.Use(jwtAuthMiddleware(jwtSecret))
	api.GET("/status", s.statusHandler)
	api.GET("/boosts", s.listBoostsHandler)
}

func jwtAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *server) statusHandler(c *gin.Context) {
	st := s.rec.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"identity":             st.Identity,
		"consecutive_failures": st.ConsecutiveFailures,
		"last_unique_boost_at": st.LastUniqueBoostAt,
		"failure_alert_sent":   st.FailureAlertSent,
		"stale_alert_sent":     st.StaleAlertSent,
		"feed_clients":         s.hub.Count(),
		"history_enabled":      s.db != nil,
	})
}

func (s *server) listBoostsHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history persistence disabled"})
		return
	}
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	var records []models.BoostRecord
	if err := s.db.Order("id desc").Limit(limit).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}
