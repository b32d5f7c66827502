package routes

import (
	"library-api/app"
	"library-api/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	bookCtl := controllers.NewBookController(a.Repo, a.Stats)
	userCtl := controllers.NewUserController(a.Repo, a.Stats)
	loanCtl := controllers.NewLoanController(a.Repo, a.Stats)
	reviewCtl := controllers.NewReviewController(a.Repo, a.Stats)
	statsCtl := controllers.NewStatsController(a.Repo, a.Stats)

	// ------------------------------
	// 图书
	// ------------------------------
	books := r.Group("/api/books")
	{
		books.POST("", bookCtl.CreateBook)
		books.GET("", bookCtl.ListBooks) // ?q=&genre=&year_min=&year_max=&sort_by=&order=&page=&per_page=
		books.GET("/:id", bookCtl.GetBook)
		books.PUT("/:id", bookCtl.UpdateBook)
		books.DELETE("/:id", bookCtl.DeleteBook) // 有未还借阅则拒绝，否则级联删除
	}

	// ------------------------------
	// 用户
	// ------------------------------
	users := r.Group("/api/users")
	{
		users.POST("", userCtl.CreateUser)
		users.GET("", userCtl.ListUsers) // ?q=&role=&active=&page=&per_page=
		users.GET("/:id", userCtl.GetUser)
		users.PUT("/:id", userCtl.UpdateUser)
		users.DELETE("/:id", userCtl.DeleteUser)
	}

	// ------------------------------
	// 借阅
	// ------------------------------
	loans := r.Group("/api/loans")
	{
		loans.POST("", loanCtl.CreateLoan)
		loans.GET("", loanCtl.ListLoans) // ?status=active|returned|overdue&page=&per_page=
		loans.GET("/:id", loanCtl.GetLoan)
		loans.POST("/:id/return", loanCtl.ReturnLoan)
		loans.PUT("/:id", loanCtl.ExtendLoan)
		loans.DELETE("/:id", loanCtl.DeleteLoan)
	}

	// ------------------------------
	// 评论
	// ------------------------------
	reviews := r.Group("/api/reviews")
	{
		reviews.POST("", reviewCtl.CreateReview)
		reviews.GET("", reviewCtl.ListReviews) // ?book_id=&user_id=&page=&per_page=
		reviews.GET("/:id", reviewCtl.GetReview)
		reviews.PUT("/:id", reviewCtl.UpdateReview)
		reviews.DELETE("/:id", reviewCtl.DeleteReview)
	}

	// ------------------------------
	// 统计
	// ------------------------------
	r.GET("/api/statistics", statsCtl.GetStatistics)
}
