package reactor

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

type emailLine struct {
	Item  string
	Price string
}

type emailView struct {
	Title    string
	Greeting string
	Lines    []emailLine
	Total    string
	ShipTo   string
}

func confirmationEmail(v emailView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`)
		b.WriteString(templ.EscapeString(v.Title))
		b.WriteString(`</title></head><body><h1>`)
		b.WriteString(templ.EscapeString(v.Title))
		b.WriteString(`</h1><p>`)
		b.WriteString(templ.EscapeString(v.Greeting))
		b.WriteString(`</p><table>`)
		for _, line := range v.Lines {
			b.WriteString(`<tr><td>`)
			b.WriteString(templ.EscapeString(line.Item))
			b.WriteString(`</td><td>`)
			b.WriteString(templ.EscapeString(line.Price))
			b.WriteString(`</td></tr>`)
		}
		b.WriteString(`</table><p><strong>`)
		b.WriteString(templ.EscapeString(v.Total))
		b.WriteString(`</strong></p><p>`)
		b.WriteString(templ.EscapeString(v.ShipTo))
		b.WriteString(`</p></body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
