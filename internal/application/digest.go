package application

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
	digestTmpl    *template.Template
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()

	digestTmpl = template.Must(template.New("digest").Funcs(template.FuncMap{
		"markdown": renderMarkdown,
		"deref":    derefString,
	}).Parse(digestHTML))
}

// renderMarkdown converts a markdown string to sanitized HTML.
// Returns empty HTML for empty input.
func renderMarkdown(src string) template.HTML {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return template.HTML(htmlSanitizer.Sanitize(src)) //nolint:gosec // sanitized
	}

	return template.HTML(htmlSanitizer.Sanitize(buf.String())) //nolint:gosec // sanitized
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type digestView struct {
	Meta          model.PRMeta
	Threads       []model.ThreadEntity
	Reviews       []model.ReviewEntity
	IssueComments []model.IssueCommentEntity
	Pending       int
}

// RenderDigest renders the entity stream as a standalone HTML page with
// markdown bodies converted and sanitized. Entities are grouped by type and
// keep their stream order within each group.
func RenderDigest(meta model.PRMeta, entities []model.Entity) ([]byte, error) {
	view := digestView{Meta: meta}
	for _, e := range entities {
		if e.Base().Action == model.ActionPending {
			view.Pending++
		}
		switch v := e.(type) {
		case model.ThreadEntity:
			view.Threads = append(view.Threads, v)
		case model.ReviewEntity:
			view.Reviews = append(view.Reviews, v)
		case model.IssueCommentEntity:
			view.IssueComments = append(view.IssueComments, v)
		}
	}

	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("executing digest template: %w", err)
	}
	return buf.Bytes(), nil
}

const digestHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>#{{.Meta.Number}} {{.Meta.Title}}</title>
<style>
body { font-family: -apple-system, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
.entity { border: 1px solid #d0d7de; border-radius: 6px; margin: 1rem 0; padding: 0.75rem 1rem; }
.meta { color: #57606a; font-size: 0.85rem; }
.action-pending { border-left: 4px solid #bf8700; }
.action-done { border-left: 4px solid #1a7f37; }
.action-skip { border-left: 4px solid #8c959f; }
.action-in_progress { border-left: 4px solid #0969da; }
.comment { border-top: 1px solid #eaeef2; padding-top: 0.5rem; }
</style>
</head>
<body>
<h1>#{{.Meta.Number}} {{.Meta.Title}}</h1>
<p class="meta">{{.Meta.State}} &middot; {{.Meta.HeadRefName}} &rarr; {{.Meta.BaseRefName}} &middot; {{.Meta.HeadRefOid}} &middot; {{.Pending}} pending</p>

<h2>Review threads ({{len .Threads}})</h2>
{{range .Threads}}<div class="entity action-{{.Action}}" id="{{.ID}}">
<p class="meta">{{.ID}} &middot; {{.Action}}{{if .IsResolved}} &middot; resolved{{end}}{{if .Path}} &middot; {{deref .Path}}{{if .Line}}:{{.Line}}{{end}}{{end}}</p>
{{range .Comments}}<div class="comment">
<p class="meta">{{deref .Author}} &middot; {{.CreatedAt}}</p>
{{markdown .Body}}
</div>
{{end}}</div>
{{end}}
<h2>Reviews ({{len .Reviews}})</h2>
{{range .Reviews}}<div class="entity action-{{.Action}}" id="{{.ID}}">
<p class="meta">{{.ID}} &middot; {{deref .Author}} &middot; {{.State}}</p>
{{markdown .Body}}
</div>
{{end}}
<h2>Conversation ({{len .IssueComments}})</h2>
{{range .IssueComments}}<div class="entity action-{{.Action}}" id="{{.ID}}">
<p class="meta">{{.ID}} &middot; {{deref .Author}} &middot; {{.Action}}</p>
{{markdown .Body}}
</div>
{{end}}</body>
</html>
`
