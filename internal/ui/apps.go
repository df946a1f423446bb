package ui

import (
	"fmt"

	"github.com/prabalesh/paneltop/internal/models"
)

// RenderApps builds the apps list rows and feeds the same data into chart.
// A nil chart is created; an existing one has its labels and dataset replaced
// in place and is returned unchanged.
func RenderApps(chart *PieChart, apps []models.AppStorageEntry) ([]string, *PieChart) {
	rows := make([]string, 0, len(apps))
	labels := make([]string, 0, len(apps))
	data := make([]float64, 0, len(apps))

	for _, a := range apps {
		rows = append(rows, appRow(a))
		labels = append(labels, a.Name)
		data = append(data, float64(a.Size))
	}

	if chart == nil {
		return rows, NewPieChart(labels, data)
	}

	chart.Labels = labels
	if len(chart.Datasets) == 0 {
		chart.Datasets = []Dataset{{BackgroundColor: ChartPalette}}
	}
	chart.Datasets[0].Data = data
	chart.Update()
	return rows, chart
}

func appRow(a models.AppStorageEntry) string {
	name := RowNameStyle.Width(26).Render(truncateString(a.Name, 24))
	return name + RowSizeStyle.Render(fmt.Sprintf("%s (%s)", FormatMB(a.Size), formatPercent(a.Percent)))
}
