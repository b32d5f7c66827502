package db

import (
	"fmt"
	"log"
	"os"

	"library-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	// TranslateError turns unique-index violations into
	// gorm.ErrDuplicatedKey so races on the uniqueness constraints can be
	// reported as conflicts instead of raw driver errors.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err = Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

// Migrate creates the schema plus the uniqueness constraints the service
// relies on. Concurrent requests race on these invariants, so they live
// in the store, not only in pre-checks.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Book{}, &models.User{}, &models.Loan{}, &models.Review{}); err != nil {
		return err
	}

	// 同一本书最多一条 active 借阅
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_active_per_book
	  ON %s (book_id)
	  WHERE status = 'active';
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	// title+author 不区分大小写唯一
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_title_author_unique
	  ON %s (LOWER(title), LOWER(author));
	`, models.BookTable, models.BookTable)).Error; err != nil {
		return err
	}

	// email 不区分大小写唯一
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_email_lower_unique
	  ON %s (LOWER(email));
	`, models.UserTable, models.UserTable)).Error; err != nil {
		return err
	}

	// ISBN 唯一（为空不参与）
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_isbn_unique
	  ON %s (isbn)
	  WHERE isbn IS NOT NULL AND isbn <> '';
	`, models.BookTable, models.BookTable)).Error; err != nil {
		return err
	}

	// 逾期统计扫描更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_active_expected_return
	  ON %s (expected_return_date)
	  WHERE status = 'active';
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	return nil
}
