package controllers

import (
	"net/http"
	"strconv"

	"library-api/app"
	"library-api/cache"
	"library-api/db"
	"library-api/validation"

	"github.com/gin-gonic/gin"
)

type LoanController struct {
	repo  *db.Repo
	stats *cache.StatsCache
}

func NewLoanController(repo *db.Repo, stats *cache.StatsCache) *LoanController {
	return &LoanController{repo: repo, stats: stats}
}

// POST /api/loans
func (lc *LoanController) CreateLoan(c *gin.Context) {
	var in validation.LoanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if verr := in.Validate(); verr != nil {
		fail(c, verr)
		return
	}
	row, err := lc.repo.CreateLoan(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	_ = lc.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, row)
}

// POST /api/loans/:id/return
func (lc *LoanController) ReturnLoan(c *gin.Context) {
	row, err := lc.repo.ReturnLoan(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	_ = lc.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, row)
}

// GET /api/loans?status=&page=&per_page=
func (lc *LoanController) ListLoans(c *gin.Context) {
	q := db.LoansQuery{Status: c.Query("status")}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))

	res, err := lc.repo.ListLoans(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/loans/:id
func (lc *LoanController) GetLoan(c *gin.Context) {
	row, err := lc.repo.GetLoan(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// PUT /api/loans/:id — only the expected return date of an active loan
func (lc *LoanController) ExtendLoan(c *gin.Context) {
	var in struct {
		ExpectedReturnDate string `json:"expectedReturnDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	row, err := lc.repo.ExtendLoan(c.Request.Context(), c.Param("id"), in.ExpectedReturnDate)
	if err != nil {
		fail(c, err)
		return
	}
	// moving the due date can change the overdue count
	_ = lc.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, row)
}

// DELETE /api/loans/:id
func (lc *LoanController) DeleteLoan(c *gin.Context) {
	if err := lc.repo.DeleteLoan(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	_ = lc.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, app.H{"ok": true})
}
