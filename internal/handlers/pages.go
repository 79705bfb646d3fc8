package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	dom "todoweb/internal/domain"
	"todoweb/internal/service"
	"todoweb/internal/web"

	"github.com/gin-gonic/gin"
)

const (
	flashCookieName = "flash_id"
	dateLayout      = "2006-01-02"
)

// PageHandler serves the server-rendered pages. flash may be nil (no Redis);
// notices are then skipped.
type PageHandler struct {
	svc   *service.TodoService
	flash *web.FlashStore
}

func NewPageHandler(svc *service.TodoService, flash *web.FlashStore) *PageHandler {
	return &PageHandler{svc: svc, flash: flash}
}

// Register mounts the page routes on the engine.
func (h *PageHandler) Register(r *gin.Engine) {
	r.GET("/", h.Home)
	r.GET("/todos/new", h.NewForm)
	r.POST("/todos", h.Create)
	r.GET("/todos/:id/edit", h.EditForm)
	r.POST("/todos/:id", h.Update)
	r.GET("/todos/:id/delete", h.ConfirmDelete)
	r.POST("/todos/:id/delete", h.Delete)
	r.POST("/todos/:id/toggle", h.Toggle)
}

// todoView is the template-facing projection of a domain item.
type todoView struct {
	ID       int64
	Title    string
	Due      string
	Resolved bool
	Overdue  bool
}

// todoForm holds raw form field values, echoed back on validation failure.
type todoForm struct {
	Title       string
	Description string
	DueDate     string
}

func (h *PageHandler) Home(c *gin.Context) {
	q := c.Query("q")
	filter := c.Query("filter")

	var (
		list []dom.Todo
		err  error
	)
	switch {
	case q != "":
		list, err = h.svc.Search(c.Request.Context(), q)
	case filter == "overdue":
		list, err = h.svc.Overdue(c.Request.Context())
	default:
		list, err = h.svc.List(c.Request.Context())
	}
	if err != nil {
		h.renderError(c)
		return
	}

	title := "Todos"
	if filter == "overdue" {
		title = "Overdue todos"
	}
	c.HTML(http.StatusOK, "home", gin.H{
		"PageTitle": title,
		"Query":     q,
		"Items":     toViews(list),
		"Flash":     h.popFlash(c),
	})
}

func (h *PageHandler) NewForm(c *gin.Context) {
	h.renderForm(c, "New item", "/todos", todoForm{}, "")
}

func (h *PageHandler) Create(c *gin.Context) {
	form := bindForm(c)
	due, err := parseDueDate(form.DueDate)
	if err != nil {
		h.renderForm(c, "New item", "/todos", form, "Enter a valid date (YYYY-MM-DD).")
		return
	}
	_, err = h.svc.Create(c.Request.Context(), form.Title, form.Description, due)
	if err != nil {
		if errors.Is(err, service.ErrEmptyTitle) {
			h.renderForm(c, "New item", "/todos", form, "Title is required.")
			return
		}
		h.renderError(c)
		return
	}
	h.setFlash(c, "Item created.")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) EditForm(c *gin.Context) {
	id, ok := parsePageID(c)
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderLookupErr(c, err)
		return
	}
	form := todoForm{Title: t.Title, Description: t.Description}
	if t.DueDate != nil {
		form.DueDate = t.DueDate.Format(dateLayout)
	}
	h.renderForm(c, "Edit item", "/todos/"+strconv.FormatInt(id, 10), form, "")
}

func (h *PageHandler) Update(c *gin.Context) {
	id, ok := parsePageID(c)
	if !ok {
		return
	}
	action := "/todos/" + strconv.FormatInt(id, 10)
	form := bindForm(c)
	due, err := parseDueDate(form.DueDate)
	if err != nil {
		h.renderForm(c, "Edit item", action, form, "Enter a valid date (YYYY-MM-DD).")
		return
	}
	// The form always posts every field, so the whole record is replaced.
	_, err = h.svc.Update(c.Request.Context(), id, &form.Title, &form.Description, due, true)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyTitle):
			h.renderForm(c, "Edit item", action, form, "Title is required.")
		case errors.Is(err, service.ErrNotFound):
			h.renderNotFound(c)
		default:
			h.renderError(c)
		}
		return
	}
	h.setFlash(c, "Item updated.")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) ConfirmDelete(c *gin.Context) {
	id, ok := parsePageID(c)
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderLookupErr(c, err)
		return
	}
	c.HTML(http.StatusOK, "confirm_delete", gin.H{
		"PageTitle": "Delete item",
		"Item":      gin.H{"ID": t.ID, "Title": t.Title},
	})
}

func (h *PageHandler) Delete(c *gin.Context) {
	id, ok := parsePageID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.renderLookupErr(c, err)
		return
	}
	h.setFlash(c, "Item deleted.")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) Toggle(c *gin.Context) {
	id, ok := parsePageID(c)
	if !ok {
		return
	}
	if _, err := h.svc.ToggleResolved(c.Request.Context(), id); err != nil {
		h.renderLookupErr(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) renderForm(c *gin.Context, title, action string, form todoForm, errMsg string) {
	// Validation failures re-render the same form with an inline message.
	c.HTML(http.StatusOK, "todo_form", gin.H{
		"PageTitle": title,
		"Action":    action,
		"Form":      form,
		"Error":     errMsg,
		"Flash":     "",
	})
}

func (h *PageHandler) renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found", gin.H{"PageTitle": "Not found", "Flash": ""})
}

func (h *PageHandler) renderError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "error", gin.H{"PageTitle": "Error", "Flash": ""})
}

func (h *PageHandler) renderLookupErr(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		h.renderNotFound(c)
		return
	}
	h.renderError(c)
}

func (h *PageHandler) setFlash(c *gin.Context, msg string) {
	if h.flash == nil {
		return
	}
	id, err := h.flash.Put(c.Request.Context(), msg)
	if err != nil {
		return
	}
	c.SetCookie(flashCookieName, id, 60, "/", "", false, true)
}

func (h *PageHandler) popFlash(c *gin.Context) string {
	if h.flash == nil {
		return ""
	}
	id, err := c.Cookie(flashCookieName)
	if err != nil || id == "" {
		return ""
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)
	msg, _ := h.flash.Pop(c.Request.Context(), id)
	return msg
}

func bindForm(c *gin.Context) todoForm {
	return todoForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		DueDate:     c.PostForm("due_date"),
	}
}

// parsePageID reads :id; a malformed id renders the 404 page.
func parsePageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.HTML(http.StatusNotFound, "not_found", gin.H{"PageTitle": "Not found", "Flash": ""})
		return 0, false
	}
	return id, true
}

// parseDueDate parses the optional date-only form field, start of day UTC.
func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return &d, nil
}

func toViews(list []dom.Todo) []todoView {
	now := time.Now().UTC()
	out := make([]todoView, len(list))
	for i, t := range list {
		v := todoView{ID: t.ID, Title: t.Title, Resolved: t.Resolved, Overdue: t.Overdue(now)}
		if t.DueDate != nil {
			v.Due = t.DueDate.Format(dateLayout)
		}
		out[i] = v
	}
	return out
}
