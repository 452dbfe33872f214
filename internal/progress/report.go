package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type Format string

const (
	FormatText   Format = "text"
	FormatMarkup Format = "markup"
	FormatJSON   Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkup, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, markup or json)", s)
	}
}

const textBarWidth = 20

type reportBar struct {
	Label         string  `json:"label"`
	Value         float64 `json:"value"`
	HeightPercent float64 `json:"height_percent"`
}

type report struct {
	TimeRange   string      `json:"time_range"`
	Today       string      `json:"today"`
	Bars        []reportBar `json:"bars"`
	Placeholder string      `json:"placeholder,omitempty"`
	Average     *float64    `json:"average,omitempty"`
	Trend       string      `json:"trend,omitempty"`
	Insights    string      `json:"insights"`
	Error       string      `json:"error,omitempty"`
}

func toReport(res Result) report {
	rep := report{TimeRange: string(res.TimeRange), Bars: []reportBar{}}
	if res.Failed() {
		rep.Error = ErrorMessage
		return rep
	}
	rep.Today = res.Today.Label()
	rep.Placeholder = res.Chart.Placeholder
	for _, b := range res.Chart.Bars {
		rep.Bars = append(rep.Bars, reportBar{Label: b.Label, Value: b.Value, HeightPercent: b.HeightPercent})
	}
	if !res.Insights.Empty {
		avg := res.Insights.Average
		rep.Average = &avg
		rep.Trend = string(res.Insights.Trend)
	}
	rep.Insights = res.Insights.Text()
	return rep
}

// Write renders a result for non-interactive output.
func Write(w io.Writer, res Result, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toReport(res))
	case FormatMarkup:
		if res.Failed() {
			_, err := fmt.Fprintln(w, ErrorMessage)
			return err
		}
		_, err := fmt.Fprintln(w, res.Insights.Markup())
		return err
	default:
		return writeText(w, res)
	}
}

func writeText(w io.Writer, res Result) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Mood progress: %s\n\n", res.TimeRange.Label())
	if res.Failed() {
		sb.WriteString(ErrorMessage + "\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString(res.Today.Label() + "\n\n")
	if res.Chart.Empty {
		sb.WriteString(res.Chart.Placeholder + "\n")
	} else {
		for _, b := range res.Chart.Bars {
			filled := int(b.HeightPercent/100*textBarWidth + 0.5)
			fmt.Fprintf(&sb, "%-6s %s%s %.1f\n", b.Label,
				strings.Repeat("█", filled), strings.Repeat("·", textBarWidth-filled), b.Value)
		}
	}
	sb.WriteString("\n" + res.Insights.Text() + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
