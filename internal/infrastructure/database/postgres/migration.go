// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/domain/wishlist"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		// User domain
		&user.User{},

		// Catalog domain
		&catalog.Category{},
		&catalog.Publisher{},
		&catalog.Author{},
		&catalog.Tag{},
		&catalog.Book{},
		&catalog.BookImage{},
		&catalog.Review{},
		&catalog.BulkDiscount{},

		// Cart domain
		&cart.Cart{},
		&cart.CartItem{},

		// Order domain
		&order.Order{},
		&order.OrderItem{},
		&order.ShippingAddress{},
		&order.Note{},

		// Wishlist domain
		&wishlist.WishlistItem{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Book indexes
		"CREATE INDEX IF NOT EXISTS idx_books_category_active ON books(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_books_price ON books(price)",
		"CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_books_publication_date ON books(publication_date DESC)",

		// Discount indexes
		"CREATE INDEX IF NOT EXISTS idx_bulk_discounts_window ON bulk_discounts(start_date, end_date)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_created_at ON cart_items(created_at DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Order item indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_book ON order_items(book_id)",

		// Review indexes
		"CREATE INDEX IF NOT EXISTS idx_reviews_rating ON reviews(rating)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_created_at ON reviews(created_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedTestUser(); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}

	if err := m.seedSampleBooks(); err != nil {
		return fmt.Errorf("failed to seed sample books: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedCategories creates default book categories
func (m *Migration) seedCategories() error {
	log.Println("🏷️ Seeding categories...")

	categories := []catalog.Category{
		{
			Name:        "Fiction",
			Slug:        "fiction",
			Description: "Novels, short stories, and literary fiction",
		},
		{
			Name:        "Science Fiction",
			Slug:        "science-fiction",
			Description: "Science fiction and fantasy",
		},
		{
			Name:        "Programming",
			Slug:        "programming",
			Description: "Software development and computer science",
		},
		{
			Name:        "History",
			Slug:        "history",
			Description: "History and biographies",
		},
	}

	for _, category := range categories {
		var existing catalog.Category
		result := m.db.Where("slug = ?", category.Slug).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
			log.Printf("✅ Created category: %s", category.Name)
		} else {
			log.Printf("⏭️ Category already exists: %s", category.Name)
		}
	}

	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		adminUser := user.User{
			Email:     "admin@example.com",
			Password:  string(hashedPassword),
			FirstName: "Admin",
			LastName:  "User",
			IsActive:  true,
			IsAdmin:   true,
		}

		if err := m.db.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("✅ Created admin user: admin@example.com (password: admin123)")
	} else {
		log.Printf("⏭️ Admin user already exists with ID: %d", existing.ID)
	}

	return nil
}

func (m *Migration) seedTestUser() error {
	log.Println("👤 Seeding test user...")

	var existing user.User
	result := m.db.Where("email = ?", "test1@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("test123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		testUser := user.User{
			Email:     "test1@example.com",
			Password:  string(hashedPassword),
			FirstName: "Test",
			LastName:  "User",
			IsActive:  true,
			IsAdmin:   false,
		}

		if err := m.db.Create(&testUser).Error; err != nil {
			return err
		}

		log.Println("✅ Created test user: test1@example.com (password: test123)")
	} else {
		log.Println("⏭️ Test user already exists")
	}

	return nil
}

// seedSampleBooks creates a few books with an active bulk discount so the
// pricing path can be exercised out of the box.
func (m *Migration) seedSampleBooks() error {
	log.Println("📚 Seeding sample books...")

	var bookCount int64
	m.db.Model(&catalog.Book{}).Count(&bookCount)
	if bookCount >= 3 {
		log.Println("⏭️ Sample books already exist")
		return nil
	}

	var programming catalog.Category
	if err := m.db.Where("slug = ?", "programming").First(&programming).Error; err != nil {
		return fmt.Errorf("programming category not found: %w", err)
	}
	var fiction catalog.Category
	if err := m.db.Where("slug = ?", "fiction").First(&fiction).Error; err != nil {
		return fmt.Errorf("fiction category not found: %w", err)
	}

	books := []catalog.Book{
		{
			ISBN:            "9780134190440",
			Title:           "The Go Programming Language",
			Slug:            "the-go-programming-language",
			Description:     "The authoritative resource for writing clear and idiomatic Go.",
			PublicationDate: time.Date(2015, 11, 16, 0, 0, 0, 0, time.UTC),
			Price:           decimal.NewFromFloat(39.99),
			StockQuantity:   40,
			CategoryID:      &programming.ID,
			IsActive:        true,
		},
		{
			ISBN:            "9780201616224",
			Title:           "The Pragmatic Programmer",
			Slug:            "the-pragmatic-programmer",
			Description:     "Your journey to mastery, from requirements to deployment.",
			PublicationDate: time.Date(1999, 10, 30, 0, 0, 0, 0, time.UTC),
			Price:           decimal.NewFromFloat(44.95),
			StockQuantity:   25,
			CategoryID:      &programming.ID,
			IsActive:        true,
		},
		{
			ISBN:            "9780544003415",
			Title:           "The Lord of the Rings",
			Slug:            "the-lord-of-the-rings",
			Description:     "The epic tale of the War of the Ring, in a single volume.",
			PublicationDate: time.Date(1954, 7, 29, 0, 0, 0, 0, time.UTC),
			Price:           decimal.NewFromFloat(29.99),
			StockQuantity:   60,
			CategoryID:      &fiction.ID,
			IsActive:        true,
		},
	}

	for _, book := range books {
		var existing catalog.Book
		result := m.db.Where("isbn = ?", book.ISBN).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&book).Error; err != nil {
				log.Printf("⚠️ Failed to create sample book %s: %v", book.ISBN, err)
				continue
			}
			log.Printf("✅ Created sample book: %s", book.Title)

			// Attach a bulk discount to the first book only.
			if book.ISBN == "9780134190440" {
				discount := catalog.BulkDiscount{
					BookID:      book.ID,
					MinQuantity: 3,
					Percentage:  decimal.NewFromInt(10),
					StartDate:   time.Now().AddDate(0, -1, 0),
					EndDate:     time.Now().AddDate(0, 6, 0),
				}
				if err := m.db.Create(&discount).Error; err != nil {
					log.Printf("⚠️ Failed to create sample discount: %v", err)
				} else {
					log.Printf("✅ Created sample discount: %s%% off %d+ copies of %s",
						discount.Percentage.String(), discount.MinQuantity, book.Title)
				}
			}
		} else {
			log.Printf("⏭️ Book already exists: %s", book.Title)
		}
	}

	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Reverse dependency order
	tables := []string{
		"wishlist_items",
		"order_notes",
		"shipping_addresses",
		"order_items",
		"orders",
		"cart_items",
		"carts",
		"bulk_discounts",
		"reviews",
		"book_images",
		"book_tags",
		"book_authors",
		"books",
		"tags",
		"authors",
		"publishers",
		"categories",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}
