package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"product-gateway/internal/cache"
	"product-gateway/internal/metrics"
	"product-gateway/internal/models"
	"product-gateway/internal/repository"
)

const (
	listCacheKey = "products:list"

	// maxBodyBytes caps product request bodies at 100 KiB.
	maxBodyBytes = 100 << 10
)

type ProductHandler struct {
	repo    repository.ProductStore
	cache   *cache.Cache
	metrics *metrics.Metrics
	logger  *zap.Logger
}

type Option func(*ProductHandler)

// WithCache serves reads from c and invalidates it on writes.
func WithCache(c *cache.Cache) Option {
	return func(h *ProductHandler) { h.cache = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *ProductHandler) { h.metrics = m }
}

func NewProductHandler(repo repository.ProductStore, logger *zap.Logger, opts ...Option) *ProductHandler {
	h := &ProductHandler{
		repo:   repo,
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CreateProduct stores the request body as a new document.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	body, err := bindDocument(c)
	if err != nil {
		h.invalidBody(c, err)
		return
	}

	product, err := h.repo.Add(c.Request.Context(), body)
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.invalidate("")
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	if cached, found := h.cacheGet(listCacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, err := h.repo.All(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	h.cacheSet(listCacheKey, products)
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")
	cacheKey := productCacheKey(productID)

	if cached, found := h.cacheGet(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := h.repo.Get(c.Request.Context(), productID)
	if err != nil {
		h.storeError(c, err)
		return
	}

	h.cacheSet(cacheKey, product)
	c.JSON(http.StatusOK, product)
}

// UpdateProduct merges the body into an existing product and returns the
// stored result.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	body, err := bindDocument(c)
	if err != nil {
		h.invalidBody(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.repo.Get(ctx, productID); err != nil {
		h.storeError(c, err)
		return
	}

	if len(body) > 0 {
		err := h.repo.Update(ctx, productID, body)
		h.invalidate(productID)
		if err != nil {
			h.storeError(c, err)
			return
		}
	}

	product, err := h.repo.Get(ctx, productID)
	if err != nil {
		h.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID := c.Param("id")
	ctx := c.Request.Context()

	if _, err := h.repo.Get(ctx, productID); err != nil {
		h.storeError(c, err)
		return
	}

	err := h.repo.Delete(ctx, productID)
	h.invalidate(productID)
	if err != nil {
		h.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: msgDeleted})
}

// bindDocument decodes the body as a JSON object, keeping its key order. An
// empty or null body is an empty document.
func bindDocument(c *gin.Context) (bson.D, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return bson.D{}, nil
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	doc, err := models.DecodeDocument(body)
	if err != nil {
		return nil, err
	}
	return models.Sanitize(doc), nil
}

func productCacheKey(id string) string {
	return "product:" + id
}

func (h *ProductHandler) cacheGet(key string) (any, bool) {
	if h.cache == nil {
		return nil, false
	}

	value, found := h.cache.GetValue(key)
	if h.metrics != nil {
		if found {
			h.metrics.RecordCacheLookup(metrics.CacheHit)
		} else {
			h.metrics.RecordCacheLookup(metrics.CacheMiss)
		}
	}
	return value, found
}

func (h *ProductHandler) cacheSet(key string, value any) {
	if h.cache != nil {
		h.cache.Set(key, value)
	}
}

// invalidate drops the list entry and, when productID is set, that product.
func (h *ProductHandler) invalidate(productID string) {
	if h.cache == nil {
		return
	}
	if productID != "" {
		h.cache.Delete(productCacheKey(productID))
	}
	h.cache.DeleteByPrefix(listCacheKey)
}
