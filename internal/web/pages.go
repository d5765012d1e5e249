package web

// pages.go renders the HTML pages as templ components. The markup is small
// enough to build directly with templ.ComponentFunc; every dynamic value goes
// through templ.EscapeString.

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/assetcheck/internal/core"
	"github.com/JonMunkholm/assetcheck/internal/sheet"
)

const (
	recentRunsOnIndex = 10

	// maxReportRows bounds the violation table on the report page. The
	// downloadable report always carries every row.
	maxReportRows = 500
)

const pageStyle = `
body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:72rem;color:#1f2937}
h1{font-size:1.5rem}h2{font-size:1.15rem;margin-top:2rem}
table{border-collapse:collapse;width:100%}th,td{border-bottom:1px solid #e5e7eb;padding:.35rem .5rem;text-align:left;vertical-align:top}
.muted{color:#6b7280}.ok{color:#047857}.bad{color:#b91c1c}
.bar{background:#dc2626;height:.9rem;border-radius:2px}
.stats span{display:inline-block;margin-right:2rem}
.alert{border:1px solid #fca5a5;background:#fef2f2;padding:1rem;border-radius:4px}
`

// render writes c as a full HTML response. Rendering happens into a buffer
// so a template error can still become a 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		s.respondError(w, r, fmt.Errorf("render page: %w", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// htmlWriter collects the first write error so page code can stay linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) rawf(format string, args ...any) {
	if h.err == nil {
		_, h.err = fmt.Fprintf(h.w, format, args...)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` · Asset Check</title><style>` + pageStyle + `</style></head><body>`)
		h.raw(`<p class="muted"><a href="/">Asset Check</a></p>`)
		h.component(ctx, body)
		h.raw(`</body></html>`)
		return h.err
	})
}

func indexPage(profiles []core.Profile, defaultProfile string, runs []*core.Run) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Validate an asset sheet</h1>`)
		h.raw(`<form method="post" action="/api/validate" enctype="multipart/form-data">`)
		h.raw(`<input type="hidden" name="view" value="html">`)
		h.raw(`<p><label>Sheet (.csv, .xlsx, .json) <input type="file" name="file" required accept=".csv,.xlsx,.json"></label></p>`)
		h.raw(`<p><label>Profile <select name="profile">`)
		for _, p := range profiles {
			h.raw(`<option value="`)
			h.text(p.Key)
			h.raw(`"`)
			if p.Key == defaultProfile {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(p.Label)
			h.raw(`</option>`)
		}
		h.raw(`</select></label></p>`)
		h.raw(`<p><button type="submit">Validate</button></p></form>`)

		if len(runs) > 0 {
			h.raw(`<h2>Recent runs</h2><table><thead><tr><th>File</th><th>Profile</th><th>Rows</th><th>Rows with errors</th><th>When</th></tr></thead><tbody>`)
			for _, run := range runs {
				sum := run.Summary()
				h.raw(`<tr><td><a href="`)
				h.text(runURL(run.ID, ""))
				h.raw(`">`)
				h.text(sum.FileName)
				h.raw(`</a></td><td>`)
				h.text(sum.Profile)
				h.rawf(`</td><td>%d</td><td>%d</td><td>`, sum.Rows, sum.RowsWithErrors)
				h.text(sum.CreatedAt.Format("2006-01-02 15:04:05"))
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		return h.err
	})
	return layout("Upload", body)
}

func reportPage(run *core.Run) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		sum := run.Summary()

		h.raw(`<h1>`)
		h.text(run.FileName)
		h.raw(`</h1><p class="stats">`)
		h.rawf(`<span>Rows: <b>%d</b></span>`, sum.Rows)
		cls := "ok"
		if sum.RowsWithErrors > 0 {
			cls = "bad"
		}
		h.rawf(`<span>Rows with errors: <b class="%s">%d</b></span>`, cls, sum.RowsWithErrors)
		h.rawf(`<span>Violations: <b>%d</b></span>`, sum.Violations)
		h.raw(`<span>Profile: `)
		h.text(run.Profile)
		h.raw(`</span></p>`)

		h.raw(`<p>Download: `)
		for i, link := range downloadLinks(run.ID) {
			if i > 0 {
				h.raw(` · `)
			}
			h.raw(`<a href="`)
			h.text(link.href)
			h.raw(`">`)
			h.text(link.label)
			h.raw(`</a>`)
		}
		h.raw(`</p>`)

		h.component(ctx, countsChart(run.Result.Counts))
		h.component(ctx, violationTable(run.Result))
		return h.err
	})
	return layout(run.FileName, body)
}

// countsChart draws the per-field counts as horizontal bars.
func countsChart(counts core.FieldCounts) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h2>Violations by field</h2>`)

		series := counts.Series()
		if len(series) == 0 {
			h.raw(`<p class="ok">No violations.</p>`)
			return h.err
		}

		peak := 0
		for _, p := range series {
			peak = max(peak, p.Count)
		}

		h.raw(`<table>`)
		for _, p := range series {
			h.raw(`<tr><td style="width:14rem">`)
			h.text(p.Key)
			h.rawf(`</td><td style="width:4rem">%d</td><td><div class="bar" style="width:%d%%"></div></td></tr>`,
				p.Count, p.Count*100/peak)
		}
		h.raw(`</table>`)
		return h.err
	})
}

// violationTable lists the rows that carry violations.
func violationTable(result core.DatasetResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		rows := core.RowsWithViolations(result)

		h.raw(`<h2>Rows with violations</h2>`)
		if len(rows) == 0 {
			h.raw(`<p class="ok">Every row passed.</p>`)
			return h.err
		}

		shown := rows
		if len(shown) > maxReportRows {
			shown = shown[:maxReportRows]
		}

		h.raw(`<table><thead><tr><th>Row #</th><th>Asset Name</th><th>Violations</th></tr></thead><tbody>`)
		for _, row := range shown {
			h.rawf(`<tr><td>%d</td><td>`, row.RowNumber)
			h.text(row.Corrected.Get(core.ColAssetName))
			h.raw(`</td><td><ul>`)
			for _, v := range row.Violations {
				h.raw(`<li><b>`)
				h.text(v.Field.String())
				h.raw(`</b>: `)
				h.text(v.Message)
				h.raw(`</li>`)
			}
			h.raw(`</ul></td></tr>`)
		}
		h.raw(`</tbody></table>`)

		if hidden := len(rows) - len(shown); hidden > 0 {
			h.rawf(`<p class="muted">%d more rows not shown. Download the report for the full list.</p>`, hidden)
		}
		return h.err
	})
}

func errorPage(msg core.UserMessage) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert"><p><b>`)
		h.text(msg.Message)
		h.raw(`</b></p>`)
		if msg.Action != "" {
			h.raw(`<p>`)
			h.text(msg.Action)
			h.raw(`</p>`)
		}
		h.raw(`<p class="muted">Code: `)
		h.text(msg.Code)
		h.raw(`</p></div>`)
		return h.err
	})
	return layout("Error", body)
}

type link struct {
	label string
	href  string
}

func downloadLinks(runID string) []link {
	var out []link
	for _, name := range []string{sheet.CorrectedName, sheet.ReportName} {
		for _, f := range []sheet.Format{sheet.FormatCSV, sheet.FormatXLSX} {
			out = append(out, link{
				label: sheet.FileName(name, f),
				href:  runURL(runID, downloadPath(name)) + "?format=" + url.QueryEscape(string(f)),
			})
		}
	}
	return out
}

func downloadPath(sheetName string) string {
	if sheetName == sheet.CorrectedName {
		return "corrected"
	}
	return "report"
}

// runURL returns the page URL for a run, or an API path under it when sub is set.
func runURL(runID, sub string) string {
	if sub == "" {
		return "/runs/" + url.PathEscape(runID)
	}
	return "/api/runs/" + url.PathEscape(runID) + "/" + strings.TrimPrefix(sub, "/")
}
