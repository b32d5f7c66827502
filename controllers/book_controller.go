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

type BookController struct {
	repo  *db.Repo
	stats *cache.StatsCache
}

func NewBookController(repo *db.Repo, stats *cache.StatsCache) *BookController {
	return &BookController{repo: repo, stats: stats}
}

// POST /api/books
func (bc *BookController) CreateBook(c *gin.Context) {
	var in validation.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if verr := in.Validate(); verr != nil {
		fail(c, verr)
		return
	}
	bk := &models.Book{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Author:      in.Author,
		Year:        in.Year,
		Genre:       optPtr(in.Genre),
		ISBN:        optPtr(in.ISBN),
		Description: optPtr(in.Description),
	}
	if err := bc.repo.CreateBook(c.Request.Context(), bk); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, bk)
}

// GET /api/books?q=&genre=&year_min=&year_max=&sort_by=&order=&page=&per_page=
func (bc *BookController) ListBooks(c *gin.Context) {
	q := db.BooksQuery{
		Q:      c.Query("q"),
		Genre:  c.Query("genre"),
		SortBy: c.DefaultQuery("sort_by", "id"),
		Order:  c.DefaultQuery("order", "asc"),
	}
	q.YearMin, _ = strconv.Atoi(c.Query("year_min"))
	q.YearMax, _ = strconv.Atoi(c.Query("year_max"))
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))

	res, err := bc.repo.ListBooks(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/books/:id
func (bc *BookController) GetBook(c *gin.Context) {
	bk, err := bc.repo.FindBookByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bk)
}

// PUT /api/books/:id
func (bc *BookController) UpdateBook(c *gin.Context) {
	var p validation.BookPatch
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
	bk, err := bc.repo.UpdateBook(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bk)
}

// DELETE /api/books/:id
func (bc *BookController) DeleteBook(c *gin.Context) {
	if err := bc.repo.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	_ = bc.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, app.H{"ok": true})
}
