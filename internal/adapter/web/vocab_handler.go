package web

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/eslsoft/vocabbook/internal/entity"
)

// searchInputID is the element id htmx reports in HX-Trigger for live search
// keystrokes. A submitted search form arrives without it.
const searchInputID = "search-input"

// listVocabs routes a listing request to exactly one behavior: free-text
// search (single unpaginated batch), cursor resume (rows fragment), or the
// first page (full page).
func (h *Handler) listVocabs(c *gin.Context) {
	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("q"))

	if query != "" {
		entries, err := h.uc.Search(ctx, query)
		if err != nil {
			h.renderError(c, err)
			return
		}
		view := newListView(entries, query, false)
		if isHTMX(c) && c.GetHeader("HX-Trigger") == searchInputID {
			c.HTML(http.StatusOK, "rows.html", view)
			return
		}
		c.HTML(http.StatusOK, "index.html", view)
		return
	}

	if cursor, ok := parseCursor(c); ok && isHTMX(c) {
		entries, hasMore, err := h.uc.List(ctx, cursor)
		if err != nil {
			h.renderError(c, err)
			return
		}
		c.HTML(http.StatusOK, "rows.html", newListView(entries, "", hasMore))
		return
	}

	entries, hasMore, err := h.uc.List(ctx, nil)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", newListView(entries, "", hasMore))
}

func (h *Handler) newForm(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", formView{})
}

func (h *Handler) createVocab(c *gin.Context) {
	var form vocabForm
	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs != nil {
		c.HTML(http.StatusUnprocessableEntity, "form.html", formView{Values: form, Errors: errs})
		return
	}

	if _, err := h.uc.Create(c.Request.Context(), form.vocab(0)); err != nil {
		h.renderFormError(c, 0, form, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/vocabs")
}

func (h *Handler) showVocab(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	vocab, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "detail.html", newVocabView(vocab))
}

func (h *Handler) editForm(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	vocab, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "form.html", formView{
		ID:     vocab.ID,
		Values: vocabForm{Word: vocab.Word, Context: vocab.Context, Source: vocab.Source},
	})
}

func (h *Handler) updateVocab(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	var form vocabForm
	_ = c.ShouldBind(&form)
	if errs := form.Validate(); errs != nil {
		c.HTML(http.StatusUnprocessableEntity, "form.html", formView{ID: id, Values: form, Errors: errs})
		return
	}

	if _, err := h.uc.Update(c.Request.Context(), form.vocab(id)); err != nil {
		h.renderFormError(c, id, form, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/vocabs/"+strconv.FormatInt(id, 10))
}

// renderFormError re-presents the form with the rejected values so the user
// can correct them; nothing was committed.
func (h *Handler) renderFormError(c *gin.Context, id int64, form vocabForm, err error) {
	switch {
	case errors.Is(err, entity.ErrDuplicateWord):
		c.HTML(http.StatusUnprocessableEntity, "form.html", formView{
			ID: id, Values: form, Errors: map[string]string{"word": "already exists"},
		})
	case errors.Is(err, entity.ErrInvalidVocabWord):
		c.HTML(http.StatusUnprocessableEntity, "form.html", formView{
			ID: id, Values: form, Errors: map[string]string{"word": "is required"},
		})
	default:
		h.renderError(c, err)
	}
}

func (h *Handler) deleteVocab(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}
	if isHTMX(c) {
		// Empty body: htmx swaps the deleted row away.
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, "/vocabs")
}

func (h *Handler) bulkDelete(c *gin.Context) {
	raw := c.PostFormArray("ids")
	if len(raw) == 0 {
		raw = c.QueryArray("ids")
	}
	ids := lo.FilterMap(raw, func(s string, _ int) (int64, bool) {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return id, err == nil && id > 0
	})

	deleted, err := h.uc.DeleteMany(c.Request.Context(), ids)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if isHTMX(c) {
		c.Header("HX-Refresh", "true")
		c.String(http.StatusOK, strconv.FormatInt(deleted, 10))
		return
	}
	c.Redirect(http.StatusSeeOther, "/vocabs")
}

// checkWord backs the live uniqueness check on the edit form: it returns a
// small fragment naming the conflict, or an empty body when the word is free.
func (h *Handler) checkWord(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	word := entity.NormalizeWord(c.Query("word"))
	if word == "" {
		c.String(http.StatusOK, "")
		return
	}
	taken, err := h.uc.WordTaken(c.Request.Context(), word, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if taken {
		c.String(http.StatusOK, `<span class="field-error">%s is already taken</span>`, template.HTMLEscapeString(word))
		return
	}
	c.String(http.StatusOK, "")
}

func (h *Handler) countVocabs(c *gin.Context) {
	count, err := h.uc.Count(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.String(http.StatusOK, strconv.FormatInt(count, 10))
}
