package text

import (
	"bytes"
	"strings"
	"testing"

	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func lines(s string) [][]string {
	var out [][]string
	for _, l := range strings.Split(s, "\n") {
		out = append(out, strings.Fields(l))
	}
	return out
}

func TestRenderReport(t *testing.T) {
	report := domain.Report{
		Region: "FRA",
		RunID:  "run-1",
		Days: []domain.ReportDay{
			{Date: "2020-03-10", Categories: []domain.ReportCategory{
				{ID: domain.CategoryDeaths, Name: "Décès", Entries: []domain.ReportEntry{
					{Value: 30, Sources: []string{"Ministère"}, Primary: true, Diff: ptr(int64(5)), DiffPercent: ptr(100.0 * 5 / 30)},
					{Value: 31, Sources: []string{"ARS", "Presse"}, Diff: ptr(int64(6)), DiffPercent: ptr(100.0 * 6 / 31)},
				}},
			}},
			{Date: "2020-03-09", Categories: []domain.ReportCategory{
				{ID: domain.CategoryDeaths, Name: "Décès", Entries: []domain.ReportEntry{
					{Value: 25, Sources: []string{"Ministère"}, Primary: true},
				}},
			}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf).RenderReport(report))
	out := buf.String()

	assert.Contains(t, out, "Region FRA")
	assert.Contains(t, out, "run run-1")
	assert.Less(t, strings.Index(out, "2020-03-10"), strings.Index(out, "2020-03-09"), "newest day first")

	got := lines(out)
	assert.Contains(t, got, []string{"Décès", "30", "+5", "+16.7%", "Ministère"})
	assert.Contains(t, got, []string{"31", "+6", "+19.4%", "alt", "ARS,", "Presse"})
	assert.Contains(t, got, []string{"Décès", "25", "-", "-", "Ministère"})
}

func TestRenderReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf).RenderReport(domain.Report{Region: "REG-99"}))
	assert.Contains(t, buf.String(), "No data for this region.")
}

func TestRenderChart(t *testing.T) {
	chart := domain.Chart{
		Mode:   "diff",
		Labels: []string{"2020-03-09", "2020-03-10"},
		Series: []domain.Series{
			{ID: domain.CategoryDeaths, Label: "Décès", Data: []*int64{nil, ptr(int64(5))}},
			{ID: domain.CategoryRecovered, Label: "Guéris", Hidden: true, Data: []*int64{ptr(int64(1)), ptr(int64(2))}},
			{ID: domain.CategoryConfirmedCases, Label: "Cas confirmés", Data: []*int64{ptr(int64(177)), ptr(int64(286))}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf).RenderChart(chart))
	out := buf.String()

	assert.NotContains(t, out, "Guéris", "hidden series are not printed")
	got := lines(out)
	require.GreaterOrEqual(t, len(got), 4)
	assert.Equal(t, []string{"Date", "Décès", "Cas", "confirmés"}, got[0])
	assert.Equal(t, []string{"2020-03-09", "-", "177"}, got[1])
	assert.Equal(t, []string{"2020-03-10", "5", "286"}, got[2])
	assert.Equal(t, []string{"mode:", "diff"}, got[3])
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "-", formatValue(nil))
	assert.Equal(t, "42", formatValue(ptr(int64(42))))
	assert.Equal(t, "-3", formatDiff(ptr(int64(-3))))
	assert.Equal(t, "+0", formatDiff(ptr(int64(0))))
	assert.Equal(t, "-12.5%", formatPercent(ptr(-12.5)))
}
