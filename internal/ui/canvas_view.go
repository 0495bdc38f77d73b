package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/cwarden/timeline/internal/timeline"
)

// Layer depths.
const (
	zCells   = 0
	zMarkers = 5
	zBars    = 10
	zStatus  = 50
	zModal   = 100
)

// renderCanvasView renders the entire screen using a lipgloss Canvas
func (m *Model) renderCanvasView() string {
	var layers []*lipgloss.Layer

	layers = append(layers, lipgloss.NewLayer(m.renderTitleBar()).X(0).Y(0).Z(zCells))

	p := m.place()
	if m.mode == ViewGrid {
		layers = append(layers, m.createGridLayers(p)...)
	} else {
		layers = append(layers, m.createLineLayers()...)
	}
	layers = append(layers, m.createBarLayers(p)...)

	layers = append(layers, lipgloss.NewLayer(m.renderStatusBar(p)).
		X(0).
		Y(m.height-statusHeight).
		Z(zStatus))

	switch {
	case m.form != nil:
		layers = append(layers, m.centered(m.viewEventForm()))
	case m.helpVisible:
		layers = append(layers, m.centered(m.viewHelp()))
	}

	canvas := lipgloss.NewCanvas(layers...)
	return canvas.Render()
}

// centered places an overlay in the middle of the screen.
func (m *Model) centered(content string) *lipgloss.Layer {
	x := max((m.width-lipgloss.Width(content))/2, 0)
	y := max((m.height-lipgloss.Height(content))/2, 0)
	return lipgloss.NewLayer(content).X(x).Y(y).Z(zModal)
}

// createLineLayers draws one layer per visible day column: day name,
// day number and the lane background.
func (m *Model) createLineLayers() []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	dates := m.window.Dates()
	cw := m.lineColumnWidth()
	bodyRows := m.bodyBottom() - m.bodyTop()

	first := m.scrollX / cw
	for idx := first; idx < len(dates); idx++ {
		x := idx*cw - m.scrollX
		if x >= m.width {
			break
		}
		x0 := max(x, 0)
		w := min(x+cw, m.width) - x0
		if w <= 0 {
			continue
		}
		d := dates[idx]

		var name, number string
		if x >= 0 {
			name = " " + d.DayName
			if d.DayNumber == 1 || idx == first {
				name += " " + d.Date.Format("Jan")
			}
			number = fmt.Sprintf(" %2d", d.DayNumber)
		}

		nameStyle := m.styles.DayName
		if d.DayNumber == 1 {
			nameStyle = m.styles.Month
		}
		lines := []string{
			nameStyle.Render(fit(name, w)),
			m.dayNumberStyle(d).Render(fit(number, min(w, 4))) + fill(w-min(w, 4)),
		}
		body := m.cellStyle(d).Render(fill(w))
		for i := 0; i < bodyRows; i++ {
			lines = append(lines, body)
		}

		layers = append(layers, lipgloss.NewLayer(strings.Join(lines, "\n")).
			X(x0).
			Y(titleHeight).
			Z(zCells))
	}

	return layers
}

// createGridLayers draws the weekday header and, for every visible row,
// one layer per screen line.
func (m *Model) createGridLayers(p placement) []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	cw := m.gridColumnWidth()
	rh := m.gridRowHeight()
	left := m.gridLeft()
	top, bottom := m.bodyTop(), m.bodyBottom()

	rows := m.visibleRows()
	if len(rows) == 0 {
		return nil
	}

	var header strings.Builder
	for _, d := range rows[0].dates {
		style := m.styles.DayName
		if d.IsWeekend {
			style = style.Faint(true)
		}
		header.WriteString(style.Render(fit(" "+d.DayName, cw)))
	}
	layers = append(layers, lipgloss.NewLayer(header.String()).X(left).Y(titleHeight).Z(zCells))

	for _, row := range rows {
		rowY := top + row.index*rh - m.scrollY
		for l := 0; l < rh; l++ {
			y := rowY + l
			if y < top || y >= bottom {
				continue
			}

			var line strings.Builder
			for _, d := range row.dates {
				if l == 0 {
					label := fmt.Sprintf(" %d", d.DayNumber)
					if d.DayNumber == 1 {
						label = " " + d.Date.Format("Jan") + label
					}
					line.WriteString(m.dayNumberStyle(d).Render(fit(label, cw)))
				} else {
					line.WriteString(m.cellStyle(d).Render(fill(cw)))
				}
			}
			layers = append(layers, lipgloss.NewLayer(line.String()).X(left).Y(y).Z(zCells))
		}

		if n := p.hidden[row.index]; n > 0 && rowY >= top && rowY < bottom {
			marker := m.styles.Hidden.Render(fmt.Sprintf("+%d ", n))
			x := left + cw*timeline.RowDays - lipgloss.Width(marker)
			layers = append(layers, lipgloss.NewLayer(marker).X(max(x, 0)).Y(rowY).Z(zMarkers))
		}
	}

	return layers
}

// createBarLayers draws each placed bar clipped to the screen. The label
// sticks to the left edge when the bar starts off screen, and a split or
// clipped start is marked instead of drawing the leading edge.
func (m *Model) createBarLayers(p placement) []*lipgloss.Layer {
	var layers []*lipgloss.Layer

	for _, b := range p.bars {
		x0 := max(b.x, 0)
		x1 := min(b.x+b.width, m.width)
		w := x1 - x0
		if w <= 0 {
			continue
		}

		style := m.barStyle(b.event)
		hx := b.handleX()
		hasHandle := hx >= 0 && hx < m.width
		textW := w
		if hasHandle {
			textW--
		}

		// A bar that starts on screen gets an accented leading edge.
		var edge, lead string
		switch {
		case b.splitStart:
			lead = "◂"
		case b.x < 0:
			lead = "‹"
		case textW > 0:
			edge = m.edgeStyle(b.event).Render("▎")
			textW--
		}

		var trail string
		if b.splitEnd && x1 == b.x+b.width && textW > 1 {
			trail = "▸"
			textW--
		}

		content := edge + style.Render(fit(lead+b.event.Title, textW)+trail)
		if hasHandle {
			content += m.handleStyle(b.event).Render("▐")
		}

		layers = append(layers, lipgloss.NewLayer(content).X(x0).Y(b.y).Z(zBars+b.slot))
	}

	return layers
}
