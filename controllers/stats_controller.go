package controllers

import (
	"net/http"

	"library-api/cache"
	"library-api/db"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	repo  *db.Repo
	stats *cache.StatsCache
}

func NewStatsController(repo *db.Repo, stats *cache.StatsCache) *StatsController {
	return &StatsController{repo: repo, stats: stats}
}

// GET /api/statistics
//
// Cache-aside over redis; a miss recomputes from the store and writes
// back with the configured TTL. A redis hiccup degrades to a direct
// computation, it never fails the request.
func (sc *StatsController) GetStatistics(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := sc.stats.Get(ctx); err == nil && cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	s, err := sc.repo.Statistics(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	_ = sc.stats.Set(ctx, s)
	c.JSON(http.StatusOK, s)
}
