// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
)

// CatalogHandler handles book catalog endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GetBooks handles GET /books
func (h *CatalogHandler) GetBooks(c *gin.Context) {
	var req catalog.BookListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.catalogService.ListBooks(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve books",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Books retrieved successfully",
		"data":    response,
	})
}

// GetBook handles GET /books/:id
func (h *CatalogHandler) GetBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	book, err := h.catalogService.GetBook(uint(id))
	if err != nil {
		var notFound *catalog.BookNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Book not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve book",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book retrieved successfully",
		"data":    book,
	})
}

// GetBookBySlug handles GET /books/slug/:slug
func (h *CatalogHandler) GetBookBySlug(c *gin.Context) {
	book, err := h.catalogService.GetBookBySlug(c.Param("slug"))
	if err != nil {
		var notFound *catalog.BookNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Book not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve book",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book retrieved successfully",
		"data":    book,
	})
}

// GetCategories handles GET /books/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// GetAuthors handles GET /books/authors
func (h *CatalogHandler) GetAuthors(c *gin.Context) {
	authors, err := h.catalogService.ListAuthors()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve authors",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Authors retrieved successfully",
		"data":    authors,
	})
}

// GetPublishers handles GET /books/publishers
func (h *CatalogHandler) GetPublishers(c *gin.Context) {
	publishers, err := h.catalogService.ListPublishers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve publishers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Publishers retrieved successfully",
		"data":    publishers,
	})
}

// CreateReviewRequest represents review creation data
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// CreateReview handles POST /books/:id/reviews
func (h *CatalogHandler) CreateReview(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	bookID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	review, err := h.catalogService.CreateReview(userID, uint(bookID), req.Rating, req.Title, req.Content)
	if err != nil {
		var notFound *catalog.BookNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Book not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"data":    review,
	})
}

// AdminCreateDiscount handles POST /admin/discounts
func (h *CatalogHandler) AdminCreateDiscount(c *gin.Context) {
	var req catalog.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	discount, err := h.catalogService.CreateDiscount(&req)
	if err != nil {
		var notFound *catalog.BookNotFoundError
		switch {
		case errors.As(err, &notFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Book not found",
			})
		case errors.Is(err, catalog.ErrDuplicateDiscount):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Book already has a discount",
			})
		case errors.Is(err, catalog.ErrInvalidDateRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Discount end date must not be before its start date",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create discount",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Discount created successfully",
		"data":    discount,
	})
}

// AdminGetDiscount handles GET /admin/books/:id/discount
func (h *CatalogHandler) AdminGetDiscount(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	discount, err := h.catalogService.GetDiscountForBook(uint(bookID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve discount",
		})
		return
	}
	if discount == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Book has no discount",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Discount retrieved successfully",
		"data":    discount,
	})
}

// AdminDeleteDiscount handles DELETE /admin/books/:id/discount
func (h *CatalogHandler) AdminDeleteDiscount(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	if err := h.catalogService.DeleteDiscount(uint(bookID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Discount deleted successfully",
	})
}
