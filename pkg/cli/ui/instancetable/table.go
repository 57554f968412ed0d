// Package instancetable renders instance listings as tables or YAML.
package instancetable

import (
	"io"
	"sort"

	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/devantler-tech/vmctl/pkg/utils/notify"
	"github.com/olekukonko/tablewriter"
)

// Placeholder is printed for missing names and addresses.
const Placeholder = "-"

// Header lists the column titles.
//
//nolint:gochecknoglobals // Package-level constant for table layout
var Header = []string{"ID", "NAME", "STATE", "TYPE", "PUBLIC ADDRESS"}

// Render writes instances sorted by id. An empty listing prints a notice instead of a table.
func Render(w io.Writer, instances []provider.Instance) {
	if len(instances) == 0 {
		notify.Infof(w, "no instances found")

		return
	}

	rows := Rows(instances)

	table := tablewriter.NewWriter(w)
	table.SetHeader(Header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

// Rows returns one row per instance, sorted by id.
func Rows(instances []provider.Instance) [][]string {
	rows := make([][]string, 0, len(instances))
	for _, instance := range sortByID(instances) {
		rows = append(rows, []string{
			instance.ID,
			orPlaceholder(instance.Name),
			string(instance.State),
			orPlaceholder(instance.Type),
			orPlaceholder(instance.PublicAddress),
		})
	}

	return rows
}

func sortByID(instances []provider.Instance) []provider.Instance {
	sorted := make([]provider.Instance, len(instances))
	copy(sorted, instances)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	return sorted
}

func orPlaceholder(value string) string {
	if value == "" {
		return Placeholder
	}

	return value
}
