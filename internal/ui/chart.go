package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dataset is one series of a chart and the colors of its slices.
type Dataset struct {
	Data            []float64
	BackgroundColor []lipgloss.Color
}

// PieChart draws a share-of-total chart as a single proportional bar with a
// legend underneath. The dashboard creates one on the first apps refresh and
// mutates it in place afterwards.
type PieChart struct {
	Labels   []string
	Datasets []Dataset

	revision int
}

func NewPieChart(labels []string, data []float64) *PieChart {
	return &PieChart{
		Labels: labels,
		Datasets: []Dataset{{
			Data:            data,
			BackgroundColor: ChartPalette,
		}},
	}
}

// Update marks the chart as changed after its labels or data were replaced.
func (p *PieChart) Update() {
	p.revision++
}

// Revision counts Update calls since the chart was created.
func (p *PieChart) Revision() int {
	return p.revision
}

func (p *PieChart) data() []float64 {
	if len(p.Datasets) == 0 {
		return nil
	}
	return p.Datasets[0].Data
}

func (p *PieChart) color(i int) lipgloss.Color {
	colors := ChartPalette
	if len(p.Datasets) > 0 && len(p.Datasets[0].BackgroundColor) > 0 {
		colors = p.Datasets[0].BackgroundColor
	}
	return colors[i%len(colors)]
}

// View renders the bar at the given width followed by one legend line per
// slice.
func (p *PieChart) View(width int) string {
	data := p.data()
	if width <= 0 {
		width = 40
	}

	var total float64
	for _, v := range data {
		total += v
	}
	if len(data) == 0 || total <= 0 {
		return MutedStyle.Render(strings.Repeat("░", width)) + "\n" + MutedStyle.Render("no data")
	}

	var bar strings.Builder
	for i, cells := range sliceWidths(data, total, width) {
		if cells == 0 {
			continue
		}
		bar.WriteString(lipgloss.NewStyle().Foreground(p.color(i)).Render(strings.Repeat("█", cells)))
	}

	lines := []string{bar.String(), ""}
	for i, v := range data {
		label := ""
		if i < len(p.Labels) {
			label = p.Labels[i]
		}
		swatch := lipgloss.NewStyle().Foreground(p.color(i)).Render("●")
		lines = append(lines, fmt.Sprintf("%s %s %s", swatch, label, MutedStyle.Render(fmt.Sprintf("%.1f%%", v/total*100))))
	}
	return strings.Join(lines, "\n")
}

// sliceWidths splits width cells between values in proportion to their share
// of total, handing leftover cells to the largest remainders so the widths
// always add up to width.
func sliceWidths(data []float64, total float64, width int) []int {
	widths := make([]int, len(data))
	type remainder struct {
		idx  int
		frac float64
	}
	rems := make([]remainder, len(data))

	used := 0
	for i, v := range data {
		exact := v / total * float64(width)
		widths[i] = int(exact)
		used += widths[i]
		rems[i] = remainder{idx: i, frac: exact - float64(widths[i])}
	}

	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; used < width && i < len(rems); i++ {
		widths[rems[i].idx]++
		used++
	}
	return widths
}
