package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query string
		want  Page
	}{
		{"", Page{Number: 1, PerPage: DefaultPerPage}},
		{"page=3&per_page=10", Page{Number: 3, PerPage: 10}},
		{"page=-1&per_page=abc", Page{Number: 1, PerPage: DefaultPerPage}},
		{"per_page=1000", Page{Number: 1, PerPage: MaxPerPage}},
		{"page=9223372036854775807&per_page=100", Page{Number: MaxPage, PerPage: MaxPerPage}},
	}
	for _, tt := range tests {
		c, _ := testContext("/items?" + tt.query)
		assert.Equal(t, tt.want, ParsePage(c), tt.query)
	}
}

func TestParsePage_HugePageKeepsSkipPositive(t *testing.T) {
	c, _ := testContext("/items?page=9223372036854775807&per_page=100")
	page := ParsePage(c)
	assert.Equal(t, int64(MaxPage-1)*MaxPerPage, page.Skip())

	meta := BuildPageMeta(page, 0, 40)
	assert.Nil(t, meta.From)
	assert.Equal(t, 1, meta.LastPage)

	links := BuildPageLinks(c.Request.URL, page, 40)
	require.NotNil(t, links.Prev)
	assert.Equal(t, "/items?page=1&per_page=100", *links.Prev)
	assert.Nil(t, links.Next)
}

func TestBuildPageMeta(t *testing.T) {
	meta := BuildPageMeta(Page{Number: 2, PerPage: 15}, 15, 40)
	assert.Equal(t, 3, meta.LastPage)
	require.NotNil(t, meta.From)
	require.NotNil(t, meta.To)
	assert.Equal(t, 16, *meta.From)
	assert.Equal(t, 30, *meta.To)
	assert.Equal(t, 15, *meta.To-*meta.From+1)

	last := BuildPageMeta(Page{Number: 3, PerPage: 15}, 10, 40)
	assert.Equal(t, 31, *last.From)
	assert.Equal(t, 40, *last.To)

	empty := BuildPageMeta(Page{Number: 1, PerPage: 15}, 0, 0)
	assert.Equal(t, 1, empty.LastPage)
	assert.Nil(t, empty.From)
	assert.Nil(t, empty.To)
}

func TestBuildPageLinks(t *testing.T) {
	u, err := url.Parse("/api/services?branch_id=b1&page=2&per_page=10")
	require.NoError(t, err)

	links := BuildPageLinks(u, Page{Number: 2, PerPage: 10}, 35)
	assert.Equal(t, "/api/services?branch_id=b1&page=1&per_page=10", links.First)
	assert.Equal(t, "/api/services?branch_id=b1&page=4&per_page=10", links.Last)
	require.NotNil(t, links.Prev)
	require.NotNil(t, links.Next)
	assert.Equal(t, "/api/services?branch_id=b1&page=1&per_page=10", *links.Prev)
	assert.Equal(t, "/api/services?branch_id=b1&page=3&per_page=10", *links.Next)

	edge := BuildPageLinks(u, Page{Number: 1, PerPage: 10}, 5)
	assert.Nil(t, edge.Prev)
	assert.Nil(t, edge.Next)
}

func TestNoRoute(t *testing.T) {
	r := gin.New()
	r.NoRoute(NoRoute)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"data":null,"message":"API endpoint not found"}`, w.Body.String())
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", ValidationError("", map[string][]string{"code": {"bad"}}), http.StatusUnprocessableEntity, "The given data was invalid."},
		{"unauthorized", Unauthorized(""), http.StatusUnauthorized, "Unauthenticated."},
		{"forbidden", Forbidden(""), http.StatusForbidden, "This action is unauthorized."},
		{"not found", NotFound("Branch"), http.StatusNotFound, "Branch not found"},
		{"conflict", Conflict("taken"), http.StatusConflict, "taken"},
		{"plain error hides cause", errors.New("mongo: connection refused"), http.StatusInternalServerError, "Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext("/x")
			RespondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestBindingError(t *testing.T) {
	type payload struct {
		Email       string `json:"email" binding:"required,email"`
		PhoneNumber string `json:"phone_number" binding:"required"`
		Amount      int64  `json:"amount" binding:"gte=0"`
	}
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			RespondError(c, BindingError(err))
			return
		}
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"email":"nope","amount":-1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"The email must be a valid email address."}, body.Errors["email"])
	assert.Equal(t, []string{"The phone number field is required."}, body.Errors["phone_number"])
	assert.Equal(t, []string{"The amount must be greater than 0."}, body.Errors["amount"])

	req = httptest.NewRequest(http.MethodPost, "/", jsonBody(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Malformed request body.")
}

func TestErrorHandler_RecoversPanics(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Server Error","data":null}`, w.Body.String())
}

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("utils-test-secret")

	token, err := GenerateToken("user-1", "ada@example.com", "client", time.Hour)
	require.NoError(t, err)

	claims, err := ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, &TokenClaims{UserID: "user-1", Email: "ada@example.com", Role: "client"}, claims)

	SetJWTSecret("another-secret")
	_, err = ExtractClaims(token)
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestHealthStatus_Healthy(t *testing.T) {
	assert.True(t, HealthStatus{Mongo: true, Redis: []bool{true, true}}.Healthy())
	assert.False(t, HealthStatus{Mongo: false, Redis: []bool{true}}.Healthy())
	assert.False(t, HealthStatus{Mongo: true, Redis: []bool{true, false}}.Healthy())
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
