package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/http/handlers"
)

type bindTarget struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func bindRouter() *gin.Engine {
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var out bindTarget
		if !handlers.BindJSON(c, &out) {
			return
		}
		c.JSON(http.StatusOK, out)
	})
	return r
}

func TestBindJSONValid(t *testing.T) {
	r := bindRouter()

	req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"username":"admin","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestBindJSONSyntaxError(t *testing.T) {
	r := bindRouter()

	req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"username": `))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}

	if body.Message != "Invalid request body" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestBindJSONValidationErrorsUseJSONNames(t *testing.T) {
	r := bindRouter()

	req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"username":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body struct {
		Message string `json:"message"`
		Details struct {
			Fields []handlers.FieldError `json:"fields"`
		} `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}

	if len(body.Details.Fields) != 1 {
		t.Fatalf("fields = %+v, want one entry", body.Details.Fields)
	}

	fe := body.Details.Fields[0]

	if fe.Field != "password" || fe.Rule != "required" {
		t.Errorf("field error = %+v, want password/required", fe)
	}
}
