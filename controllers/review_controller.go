package controllers

import (
	"net/http"
	"strconv"

	"library-api/app"
	"library-api/cache"
	"library-api/db"
	"library-api/models"
	"library-api/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewController struct {
	repo  *db.Repo
	stats *cache.StatsCache
}

func NewReviewController(repo *db.Repo, stats *cache.StatsCache) *ReviewController {
	return &ReviewController{repo: repo, stats: stats}
}

// POST /api/reviews
func (rc *ReviewController) CreateReview(c *gin.Context) {
	var in validation.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if verr := in.Validate(); verr != nil {
		fail(c, verr)
		return
	}
	rv := &models.Review{
		ID:      uuid.NewString(),
		BookID:  in.BookID,
		UserID:  in.UserID,
		Rating:  in.Rating,
		Comment: optPtr(in.Comment),
	}
	if err := rc.repo.CreateReview(c.Request.Context(), rv); err != nil {
		fail(c, err)
		return
	}
	_ = rc.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, rv)
}

// GET /api/reviews?book_id=&user_id=&page=&per_page=
func (rc *ReviewController) ListReviews(c *gin.Context) {
	q := db.ReviewsQuery{
		BookID: c.Query("book_id"),
		UserID: c.Query("user_id"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))

	res, err := rc.repo.ListReviews(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/reviews/:id
func (rc *ReviewController) GetReview(c *gin.Context) {
	rv, err := rc.repo.FindReviewByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rv)
}

// PUT /api/reviews/:id
func (rc *ReviewController) UpdateReview(c *gin.Context) {
	var p validation.ReviewPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if p.Empty() {
		c.JSON(http.StatusBadRequest, app.H{"error": "no fields to update"})
		return
	}
	if verr := p.Validate(); verr != nil {
		fail(c, verr)
		return
	}
	rv, err := rc.repo.UpdateReview(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	_ = rc.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, rv)
}

// DELETE /api/reviews/:id
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	if err := rc.repo.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	_ = rc.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, app.H{"ok": true})
}
