package web

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/eslsoft/vocabbook/internal/entity"
	"github.com/eslsoft/vocabbook/internal/usecase/archive"
)

type vocabView struct {
	ID        int64
	Word      string
	Context   string
	Source    string
	Freq      string
	CreatedAt string
}

func newVocabView(v *entity.Vocab) vocabView {
	return vocabView{
		ID:        v.ID,
		Word:      v.Word,
		Context:   v.Context,
		Source:    v.Source,
		Freq:      fmt.Sprintf("%.2f", v.Freq),
		CreatedAt: v.CreatedAt.Format("2006-01-02"),
	}
}

// listView feeds both the full index page and the rows fragment.
type listView struct {
	Entries []vocabView
	Query   string
	HasMore bool
	// NextFreq/NextID form the resume cursor carried by the load-more link.
	// NextFreq is formatted to round-trip the float exactly.
	NextFreq string
	NextID   int64
}

func newListView(entries []*entity.Vocab, query string, hasMore bool) listView {
	view := listView{
		Entries: lo.Map(entries, func(v *entity.Vocab, _ int) vocabView { return newVocabView(v) }),
		Query:   query,
		HasMore: hasMore,
	}
	if hasMore && len(entries) > 0 {
		last := entries[len(entries)-1]
		view.NextFreq = strconv.FormatFloat(last.Freq, 'g', -1, 64)
		view.NextID = last.ID
	}
	return view
}

// formView feeds the shared new/edit form. ID is zero for a new entry.
type formView struct {
	ID     int64
	Values vocabForm
	Errors map[string]string
}

type archiveView struct {
	State string
	File  string
	Rows  int
	Error string
}

func newArchiveView(st archive.Status) archiveView {
	return archiveView{
		State: string(st.State),
		File:  st.File,
		Rows:  st.Rows,
		Error: st.Error,
	}
}
