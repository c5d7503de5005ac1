package echomw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	oastype "github.com/reoring/oastype"
	"github.com/reoring/oastype/formats"
	"github.com/reoring/oastype/middleware"
)

func newEcho() *echo.Echo {
	ev := oastype.New(formats.Default())
	e := echo.New()
	g := e.Group("", QueryParams(middleware.Static(ev),
		middleware.Param{Name: "id", Type: oastype.TypeString, Format: "uuid", Required: true},
		middleware.Param{Name: "page", Type: oastype.TypeInteger, Format: "int32"},
	))
	g.GET("/items", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	cg := e.Group("/collect", CollectQueryParams(middleware.Static(ev),
		middleware.Param{Name: "page", Type: oastype.TypeInteger},
	))
	cg.GET("", func(c echo.Context) error {
		iss, _ := GetIssues(c)
		return c.JSON(http.StatusOK, map[string]int{"issues": len(iss)})
	})
	return e
}

func TestQueryParams(t *testing.T) {
	e := newEcho()
	tests := []struct {
		target string
		status int
	}{
		{"/items?id=6ba7b810-9dad-11d1-80b4-00c04fd430c8&page=2", http.StatusNoContent},
		{"/items?id=nope", http.StatusBadRequest},
		{"/items?page=2", http.StatusBadRequest},
		{"/items?id=6ba7b810-9dad-11d1-80b4-00c04fd430c8&page=9999999999", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
		if rec.Code != tt.status {
			t.Fatalf("%s: status = %d, want %d (body %s)", tt.target, rec.Code, tt.status, rec.Body.String())
		}
	}
}

func TestCollectQueryParams(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/collect?page=two", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"issues\":1}\n" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}
