package utils

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
	// MaxPage bounds ?page= so the skip offset stays well inside int64.
	MaxPage = 1_000_000
)

// Envelope is the uniform response body for single resources and errors.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// PaginatedEnvelope is the response body for list endpoints.
type PaginatedEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data"`
	Meta    PageMeta `json:"meta"`
	Links   PageLink `json:"links"`
}

type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

type PageLink struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Page is the parsed ?page=&per_page= pair.
type Page struct {
	Number  int
	PerPage int
}

// Skip is the number of documents before this page.
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.PerPage)
}

// ParsePage reads page and per_page from the query, clamping bad values instead of failing.
func ParsePage(c *gin.Context) Page {
	p := Page{Number: 1, PerPage: DefaultPerPage}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Number = v
	}
	if v, err := strconv.Atoi(c.Query("per_page")); err == nil && v > 0 {
		p.PerPage = v
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	if p.Number > MaxPage {
		p.Number = MaxPage
	}
	return p
}

func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Paginated writes a list page. count is the number of items in data.
func Paginated(c *gin.Context, message string, data any, count int, total int64, page Page) {
	c.JSON(http.StatusOK, PaginatedEnvelope{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    BuildPageMeta(page, count, total),
		Links:   BuildPageLinks(c.Request.URL, page, total),
	})
}

// BuildPageMeta computes meta for a page holding count items out of total.
func BuildPageMeta(page Page, count int, total int64) PageMeta {
	meta := PageMeta{
		CurrentPage: page.Number,
		LastPage:    lastPage(total, page.PerPage),
		PerPage:     page.PerPage,
		Total:       total,
	}
	if count > 0 {
		from := int(page.Skip()) + 1
		to := from + count - 1
		meta.From = &from
		meta.To = &to
	}
	return meta
}

func BuildPageLinks(u *url.URL, page Page, total int64) PageLink {
	last := lastPage(total, page.PerPage)
	links := PageLink{
		First: pageURL(u, 1, page.PerPage),
		Last:  pageURL(u, last, page.PerPage),
	}
	if page.Number > 1 {
		prev := pageURL(u, min(page.Number-1, last), page.PerPage)
		links.Prev = &prev
	}
	if page.Number < last {
		next := pageURL(u, page.Number+1, page.PerPage)
		links.Next = &next
	}
	return links
}

func lastPage(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

func pageURL(u *url.URL, number, perPage int) string {
	if u == nil {
		u = &url.URL{}
	}
	cp := *u
	q := cp.Query()
	q.Set("page", strconv.Itoa(number))
	q.Set("per_page", strconv.Itoa(perPage))
	cp.RawQuery = q.Encode()
	cp.Fragment = ""
	return cp.RequestURI()
}

// NoRoute answers unmatched routes with the 404 envelope.
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, Envelope{
		Success: false,
		Data:    nil,
		Message: "API endpoint not found",
	})
}
