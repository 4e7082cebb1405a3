package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("GET", "/api/orders", nil)
	return c, recorder
}

func TestRequireAuthMissingToken(t *testing.T) {
	c, recorder := newTestContext(t)

	RequireAuth(nil, "secret")(c)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	if !c.IsAborted() {
		t.Fatal("expected request to be aborted")
	}
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	tests := []string{"token-without-scheme", "Basic abc def", "Bearer"}
	for _, header := range tests {
		c, recorder := newTestContext(t)
		c.Request.Header.Set("Authorization", header)

		RequireAuth(nil, "secret")(c)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, recorder.Code)
		}
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	c, recorder := newTestContext(t)
	c.Request.Header.Set("Authorization", "Bearer not.a.token")

	RequireAuth(nil, "secret")(c)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestAdminOnlyWithoutUser(t *testing.T) {
	c, recorder := newTestContext(t)

	AdminOnly()(c)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestAdminOnlyRejectsNonAdmin(t *testing.T) {
	c, recorder := newTestContext(t)
	c.Set("user", models.User{Name: "Regular"})

	AdminOnly()(c)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	c, _ := newTestContext(t)
	c.Set("user", models.User{Name: "Admin", IsAdmin: true})

	AdminOnly()(c)

	if c.IsAborted() {
		t.Fatal("expected admin request to pass through")
	}
}
