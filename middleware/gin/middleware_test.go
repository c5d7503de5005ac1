package ginmw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	oastype "github.com/reoring/oastype"
	"github.com/reoring/oastype/formats"
	"github.com/reoring/oastype/middleware"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	ev := oastype.New(formats.Default())
	r := gin.New()
	r.GET("/items", QueryParams(middleware.Static(ev),
		middleware.Param{Name: "active", Type: oastype.TypeBoolean, Required: true},
		middleware.Param{Name: "since", Type: oastype.TypeString, Format: "date"},
	), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/broken", QueryParams(middleware.Static(ev),
		middleware.Param{Name: "q", Type: "text"},
	), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/collect", CollectQueryParams(middleware.Static(ev),
		middleware.Param{Name: "active", Type: oastype.TypeBoolean},
	), func(c *gin.Context) {
		iss, _ := GetIssues(c)
		c.JSON(http.StatusOK, gin.H{"issues": len(iss)})
	})
	return r
}

func TestQueryParams(t *testing.T) {
	r := newRouter()
	tests := []struct {
		target string
		status int
	}{
		{"/items?active=True&since=2024-02-29", http.StatusNoContent},
		{"/items?active=1", http.StatusBadRequest},
		{"/items?active=false&since=2023-02-29", http.StatusBadRequest},
		{"/items", http.StatusBadRequest},
		{"/broken?q=x", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
		if rec.Code != tt.status {
			t.Fatalf("%s: status = %d, want %d (body %s)", tt.target, rec.Code, tt.status, rec.Body.String())
		}
	}
}

func TestCollectQueryParams(t *testing.T) {
	r := newRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/collect?active=yes", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != `{"issues":1}` {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}
