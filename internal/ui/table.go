package ui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// DeviceRow is one line of a device table
type DeviceRow struct {
	IP       string
	MAC      string
	Nickname string
	LastSeen time.Time
}

// RenderDeviceTable renders devices as a bordered table. Rows keep their
// order; a zero LastSeen is shown as "-".
func RenderDeviceTable(rows []DeviceRow) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers("#", "IP", "MAC", "NICKNAME", "LAST SEEN").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case col == 0 || col == 4:
				return TableMutedCellStyle
			default:
				return TableCellStyle
			}
		})

	for i, r := range rows {
		nickname := r.Nickname
		if nickname == "" {
			nickname = "-"
		}
		lastSeen := "-"
		if !r.LastSeen.IsZero() {
			lastSeen = r.LastSeen.Local().Format("2006-01-02 15:04")
		}
		t.Row(strconv.Itoa(i+1), r.IP, r.MAC, nickname, lastSeen)
	}

	return t.String()
}

// PrintDeviceTable prints a device table, or a muted note when rows is empty
func (p *Printer) PrintDeviceTable(rows []DeviceRow) {
	if len(rows) == 0 {
		p.Println(lipgloss.NewStyle().Foreground(MutedColor).PaddingLeft(2).Render("No devices found."))
		return
	}
	p.Println(RenderDeviceTable(rows))
}
