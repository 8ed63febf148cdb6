package chart

import (
	"context"
	"math"
	"strings"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"vaxmap/internal/logging"
)

// tooltipData is what tooltip and annotation templates see.
type tooltipData struct {
	ISO     string
	Name    string
	Percent string
	Value   float64
}

// percentText formats a coverage ratio the way the tooltip shows it:
// whole percents grouped for the locale, "<1%" below one percent. ok is
// false from 100% up, where the at-peak text applies instead.
func percentText(locale string, v float64) (text string, ok bool) {
	pct := math.Round(v * 100)
	switch {
	case math.IsNaN(pct):
		return "", true
	case pct >= 100:
		return "", false
	case pct < 1:
		return "<1%", true
	}
	p := message.NewPrinter(language.Make(locale))
	return p.Sprintf("%d%%", int(pct)), true
}

// coverageText renders the tooltip for a country with coverage v.
func (c *Chart) coverageText(iso, name string, v float64) string {
	pct, ok := percentText(c.props.Locale, v)
	src := c.props.Text.Tooltip
	if !ok {
		src = c.props.Text.AtPeak
	}
	return c.execText(src, tooltipData{ISO: iso, Name: name, Percent: pct, Value: v})
}

func (c *Chart) execText(src string, data tooltipData) string {
	tmpl, ok := c.templates[src]
	if !ok {
		var err error
		tmpl, err = template.New("text").Option("missingkey=zero").Parse(src)
		if err != nil {
			c.log.Warn(context.Background(), "bad text template", logging.String("template", src), logging.Err(err))
			tmpl = nil
		}
		if c.templates == nil {
			c.templates = map[string]*template.Template{}
		}
		c.templates[src] = tmpl
	}
	if tmpl == nil {
		return strings.TrimSpace(data.Name + "\n" + data.Percent)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return strings.TrimSpace(data.Name + "\n" + data.Percent)
	}
	return b.String()
}
