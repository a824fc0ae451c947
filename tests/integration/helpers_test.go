//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/shopgrove/marketplace/internal/testutil"
	"github.com/stretchr/testify/require"
)

// registerUser registers a credentialed account and returns its email.
func registerUser(t *testing.T, client *testutil.Client, role, password string) string {
	t.Helper()

	email := testutil.RandomEmail(role)
	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"name":     "Test " + role,
		"email":    email,
		"password": password,
		"role":     role,
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return email
}

// loginClient registers a fresh account with the given role and returns an
// authenticated client.
func loginClient(t *testing.T, role string) *testutil.Client {
	t.Helper()

	client := newTestClient(t)
	email := registerUser(t, client, role, "password123")
	client.LoginAs(t, email, "password123")
	return client
}

// createTestProduct creates a product as the given client and returns its ASIN.
// The caller is responsible for authentication.
func createTestProduct(t *testing.T, client *testutil.Client, category string) string {
	t.Helper()

	asin := testutil.RandomASIN("B000")
	resp, err := client.POST("/api/v1/products", map[string]interface{}{
		"asin":      asin,
		"title":     "Test Product " + asin,
		"category":  category,
		"price":     19.99,
		"image_url": "https://img.example.com/" + asin + ".jpg",
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Cleanup(func() {
		resp, err := client.DELETE("/api/v1/products/" + asin)
		if err == nil {
			_ = resp.Body.Close()
		}
	})

	return asin
}
