package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gofrs/uuid"
)

type failureData struct {
	RunID   uuid.UUID
	Name    string
	Title   string
	URL     string
	Time    time.Time
	Cause   string
	Content string
	Log     []string
}

func failurePage(d failureData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title>",
			templ.EscapeString("Failure: "+d.Name)); err != nil {
			return err
		}
		if err := chromaStyles().Render(ctx, w); err != nil {
			return err
		}
		_, _ = io.WriteString(w, "</head><body>")
		_, _ = fmt.Fprintf(w, "<h1>%s</h1>", templ.EscapeString(d.Name))
		_, _ = io.WriteString(w, "<dl>")
		writeField(w, "Run", d.RunID.String())
		writeField(w, "Time", d.Time.Format(time.RFC3339))
		writeField(w, "URL", d.URL)
		writeField(w, "Title", d.Title)
		if d.Cause != "" {
			writeField(w, "Cause", d.Cause)
		}
		_, _ = io.WriteString(w, "</dl>")

		if len(d.Log) > 0 {
			_, _ = io.WriteString(w, `<h2>Log</h2><pre class="log">`)
			for _, line := range d.Log {
				_, _ = io.WriteString(w, templ.EscapeString(line))
				_, _ = io.WriteString(w, "\n")
			}
			_, _ = io.WriteString(w, "</pre>")
		}

		_, _ = io.WriteString(w, "<h2>Page markup</h2>")
		if err := highlightMarkup(d.Content).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>\n")
		return err
	})
}

func writeField(w io.Writer, name, value string) {
	_, _ = fmt.Fprintf(w, "<dt>%s</dt><dd>%s</dd>", templ.EscapeString(name), templ.EscapeString(value))
}

// highlightMarkup renders content as highlighted HTML source.
func highlightMarkup(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lexer := lexers.Get("html")
		if lexer == nil {
			lexer = lexers.Fallback
		}

		formatter, style := chromaFormatterAndStyle()

		iterator, err := lexer.Tokenise(nil, content)
		if err != nil {
			return err
		}
		return formatter.Format(w, style, iterator)
	})
}

func chromaFormatterAndStyle() (*html.Formatter, *chroma.Style) {
	formatter := html.New(
		html.Standalone(false),
		html.WithClasses(true),
		html.WithLineNumbers(true),
		html.TabWidth(2),
	)

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}
	return formatter, style
}

func chromaStyles() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "<style>")
		formatter, style := chromaFormatterAndStyle()
		err := formatter.WriteCSS(w, style)
		_, _ = io.WriteString(w, ".chroma { white-space: pre-wrap; } .log { background: #f6f8fa; padding: 1em; }\n")
		_, _ = io.WriteString(w, "</style>")
		return err
	})
}
