package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"treasurecove/internal/domain/audit"
)

// mdRenderer escapes raw HTML in its input; WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

// Markdown renders the monthly report as a markdown document.
func Markdown(r audit.MonthlyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Monthly statistics: %s\n\n", cellEscaper.Replace(r.LifeguardName))
	if len(r.Months) == 0 {
		b.WriteString("No audits recorded.\n")
		return b.String()
	}

	b.WriteString("| Month | Audits | Exceeds | Meets | Fails |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, m := range r.Months {
		fmt.Fprintf(&b, "| %s | %d | %d (%d%%) | %d (%d%%) | %d (%d%%) |\n",
			m.Month, m.Total, m.Exceeds, m.ExceedsPercent, m.Meets, m.MeetsPercent, m.Fails, m.FailsPercent)
	}
	b.WriteString("\n")
	if r.BestMonth != nil {
		fmt.Fprintf(&b, "- Best month: %s (%d%% exceeds)\n", r.BestMonth.Month, r.BestMonth.ExceedsPercent)
	}
	if r.MostActiveMonth != nil {
		fmt.Fprintf(&b, "- Most active month: %s (%d audits)\n", r.MostActiveMonth.Month, r.MostActiveMonth.Total)
	}
	if r.Trend == audit.TrendInsufficientData {
		b.WriteString("- Trend: insufficient data\n")
	} else {
		fmt.Fprintf(&b, "- Trend: %s (%d%% to %d%% exceeds)\n", r.Trend, r.TrendFromPercent, r.TrendToPercent)
	}
	return b.String()
}

// HTML renders the monthly report as a standalone HTML page.
func HTML(r audit.MonthlyReport) (string, error) {
	var body bytes.Buffer
	if err := mdRenderer.Convert([]byte(Markdown(r)), &body); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>Monthly statistics: %s</title>\n", html.EscapeString(r.LifeguardName))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// Monthly writes the monthly report as markdown or HTML.
func Monthly(w io.Writer, f Format, r audit.MonthlyReport) error {
	var out string
	switch f {
	case FormatMarkdown:
		out = Markdown(r)
	case FormatHTML:
		var err error
		if out, err = HTML(r); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: monthly report as %q", ErrUnsupportedFormat, f)
	}
	_, err := io.WriteString(w, out)
	return err
}
