//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/shopgrove/marketplace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeCategories(t *testing.T) {
	seller := loginClient(t, "seller")
	createTestProduct(t, seller, "home_kitchen")

	client := newTestClient(t)
	resp, err := client.GET("/api/v1/home")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var previews []struct {
		Category    string `json:"category"`
		DisplayName string `json:"display_name"`
		ImageURL    string `json:"image_url"`
	}
	testutil.DecodeData(t, resp, &previews)

	var found bool
	for _, p := range previews {
		if p.Category == "home_kitchen" {
			found = true
			assert.Equal(t, "Home Kitchen", p.DisplayName)
			assert.NotEmpty(t, p.ImageURL)
		}
	}
	assert.True(t, found, "expected a home_kitchen preview")
}

func TestSuggestions(t *testing.T) {
	seller := loginClient(t, "seller")
	createTestProduct(t, seller, "sports")

	client := newTestClient(t)
	resp, err := client.GET("/api/v1/suggestions")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []struct {
		ASIN string `json:"asin"`
	}
	testutil.DecodeData(t, resp, &products)
	assert.NotEmpty(t, products)
	assert.LessOrEqual(t, len(products), 9)
}

func TestListProducts_FilterByCategory(t *testing.T) {
	seller := loginClient(t, "seller")
	asin := createTestProduct(t, seller, "garden_tools")
	createTestProduct(t, seller, "books")

	client := newTestClient(t)
	resp, err := client.GET("/api/v1/products?category=garden_tools")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []struct {
		ASIN     string `json:"asin"`
		Category string `json:"category"`
	}
	testutil.DecodeData(t, resp, &products)

	require.NotEmpty(t, products)
	var found bool
	for _, p := range products {
		assert.Equal(t, "garden_tools", p.Category)
		if p.ASIN == asin {
			found = true
		}
	}
	assert.True(t, found)
}

func TestViewProduct_IncrementsClicks(t *testing.T) {
	seller := loginClient(t, "seller")
	asin := createTestProduct(t, seller, "electronics")

	client := newTestClient(t)

	var clicks []int
	for i := 0; i < 2; i++ {
		resp, err := client.GET("/api/v1/products/" + asin)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var product struct {
			Clicks int `json:"clicks"`
		}
		testutil.DecodeData(t, resp, &product)
		clicks = append(clicks, product.Clicks)
	}

	assert.Equal(t, []int{1, 2}, clicks)
}

func TestViewProduct_NotFound(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/api/v1/products/B000MISSING0")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateProduct_DuplicateASIN(t *testing.T) {
	seller := loginClient(t, "seller")
	asin := createTestProduct(t, seller, "books")

	resp, err := seller.POST("/api/v1/products", map[string]interface{}{
		"asin":     asin,
		"title":    "Duplicate",
		"category": "books",
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUpdateProduct_OwnerUpdates(t *testing.T) {
	seller := loginClient(t, "seller")
	asin := createTestProduct(t, seller, "electronics")

	resp, err := seller.PUT("/api/v1/products/"+asin, map[string]interface{}{
		"asin":     asin,
		"title":    "Updated Title",
		"category": "electronics",
		"price":    29.99,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var product struct {
		Title string  `json:"title"`
		Price float64 `json:"price"`
	}
	testutil.DecodeData(t, resp, &product)
	assert.Equal(t, "Updated Title", product.Title)
	assert.Equal(t, 29.99, product.Price)
}

func TestUpdateProduct_NonOwnerForbidden(t *testing.T) {
	owner := loginClient(t, "seller")
	asin := createTestProduct(t, owner, "electronics")

	intruder := loginClient(t, "seller")
	resp, err := intruder.PUT("/api/v1/products/"+asin, map[string]interface{}{
		"asin":     asin,
		"title":    "Hijacked",
		"category": "electronics",
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteProduct_AdminBypassesOwnership(t *testing.T) {
	owner := loginClient(t, "seller")
	asin := createTestProduct(t, owner, "electronics")

	admin := loginClient(t, "admin")
	resp, err := admin.DELETE("/api/v1/products/" + asin)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	check, err := newTestClientWithoutValidation().GET("/api/v1/products/" + asin)
	require.NoError(t, err)
	defer func() { _ = check.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, check.StatusCode)
}
