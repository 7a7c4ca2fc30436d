package xlsx

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/xuri/excelize/v2"

	"github.com/username/overwork-timesheet/internal/timesheet"
)

const borderColor = "#000000"

// excelize border style indexes
var borderStyles = map[timesheet.BorderKind]int{
	timesheet.BorderThin:   1,
	timesheet.BorderMedium: 2,
	timesheet.BorderDotted: 4,
}

func alignment(horizontal string) *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: horizontal,
			Vertical:   "center",
		},
	}
}

func fontBold() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	}
}

func solidFill(color string) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#" + color},
			Pattern: 1,
		},
	}
}

func customNumberFormat(format string) *excelize.Style {
	return &excelize.Style{
		CustomNumFmt: &format,
	}
}

// borders builds all four sides at once, edges override the common border
func borders(s timesheet.Style) *excelize.Style {
	side := func(edge timesheet.BorderKind) timesheet.BorderKind {
		if edge != timesheet.BorderNone {
			return edge
		}
		return s.Border
	}

	out := &excelize.Style{}
	for _, b := range []struct {
		where string
		kind  timesheet.BorderKind
	}{
		{"left", side(s.LeftEdge)},
		{"top", side(s.TopEdge)},
		{"right", s.Border},
		{"bottom", s.Border},
	} {
		style, ok := borderStyles[b.kind]
		if !ok {
			continue
		}
		out.Border = append(out.Border, excelize.Border{
			Type:  b.where,
			Color: borderColor,
			Style: style,
		})
	}
	return out
}

func mergeStyles(ext ...*excelize.Style) (*excelize.Style, error) {
	if len(ext) == 0 {
		return nil, nil
	}
	for _, e := range ext[1:] {
		if err := mergo.Merge(ext[0], e, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge style: %w", err)
		}
	}
	return ext[0], nil
}

// toExcelize converts a style descriptor into an excelize style
func toExcelize(s timesheet.Style) (*excelize.Style, error) {
	parts := []*excelize.Style{borders(s)}
	if s.Align != "" {
		parts = append(parts, alignment(s.Align))
	}
	if s.Bold {
		parts = append(parts, fontBold())
	}
	if s.Fill != "" {
		parts = append(parts, solidFill(s.Fill))
	}
	if s.NumFormat != "" {
		parts = append(parts, customNumberFormat(s.NumFormat))
	}
	return mergeStyles(parts...)
}
