// Package text renders reports and charts for a terminal. Category names are
// colored with their series color when the writer supports it.
package text

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
)

const missing = "-"

// Renderer writes plain-text tables to w.
type Renderer struct {
	w      io.Writer
	style  *lipgloss.Renderer
	header lipgloss.Style
	dimmed lipgloss.Style
	date   lipgloss.Style
}

// NewRenderer detects the color profile of w. Non-terminal writers get plain
// text.
func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		w:      w,
		style:  r,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		dimmed: r.NewStyle().Foreground(lipgloss.Color("241")),
		date:   r.NewStyle().Bold(true).Underline(true),
	}
}

func (r *Renderer) category(id domain.CategoryID, name string) string {
	return r.style.NewStyle().Foreground(lipgloss.Color(domain.CategoryColor(id))).Render(name)
}

// RenderReport lists every observation of every day, newest first. Primary
// observations come first; alternates are marked.
func (r *Renderer) RenderReport(report domain.Report) error {
	fmt.Fprintf(r.w, "%s %s  %s\n\n", r.header.Render("Region"), report.Region, r.dimmed.Render("run "+report.RunID))
	if len(report.Days) == 0 {
		_, err := fmt.Fprintln(r.w, r.dimmed.Render("No data for this region."))
		return err
	}

	for _, day := range report.Days {
		fmt.Fprintln(r.w, r.date.Render(day.Date))

		tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
		for _, c := range day.Categories {
			for i, e := range c.Entries {
				name := ""
				if i == 0 {
					name = r.category(c.ID, c.Name)
				}
				marker := ""
				if !e.Primary {
					marker = r.dimmed.Render("alt")
				}
				fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\t%s\t%s\n",
					name, e.Value, formatDiff(e.Diff), formatPercent(e.DiffPercent), marker, strings.Join(e.Sources, ", "))
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(r.w)
	}
	return nil
}

// RenderChart prints one row per label and one column per visible series.
func (r *Renderer) RenderChart(chart domain.Chart) error {
	visible := make([]domain.Series, 0, len(chart.Series))
	for _, s := range chart.Series {
		if !s.Hidden {
			visible = append(visible, s)
		}
	}

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	cols := []string{r.header.Render("Date")}
	for _, s := range visible {
		cols = append(cols, r.category(s.ID, s.Label))
	}
	fmt.Fprintln(tw, strings.Join(cols, "\t")+"\t")

	for i, label := range chart.Labels {
		row := []string{label}
		for _, s := range visible {
			row = append(row, formatValue(s.Data[i]))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(r.w, "%s\n", r.dimmed.Render("mode: "+chart.Mode))
	return err
}

func formatValue(v *int64) string {
	if v == nil {
		return missing
	}
	return strconv.FormatInt(*v, 10)
}

func formatDiff(v *int64) string {
	if v == nil {
		return missing
	}
	return fmt.Sprintf("%+d", *v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return missing
	}
	return fmt.Sprintf("%+.1f%%", *v)
}
