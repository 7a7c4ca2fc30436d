package timesheet

import (
	"fmt"

	"github.com/username/overwork-timesheet/internal/calendar"
)

// RoleClass is the reduced style key of a cell role
type RoleClass int

const (
	ClassUsual RoleClass = iota
	ClassEarnDay
	ClassWeekend
	ClassHeader
	ClassInputHeader
	ClassTotalBonus
	ClassTotalPayment
	ClassMonthWinter
	ClassMonthSpring
	ClassMonthSummer
	ClassMonthAutumn

	roleClassCount
)

// DataKind selects the number format of a cell
type DataKind int

const (
	PlainText DataKind = iota
	CurrencyAmount

	dataKindCount
)

// BorderKind is the line style of a cell border
type BorderKind int

const (
	BorderNone BorderKind = iota
	BorderThin
	BorderDotted
	BorderMedium
)

// AlignCenter is the only horizontal alignment the timesheet uses
const AlignCenter = "center"

// Style is an immutable, comparable style descriptor; sinks may use it as a map key
type Style struct {
	Border    BorderKind // all four sides
	LeftEdge  BorderKind // overrides the left side when set
	TopEdge   BorderKind // overrides the top side when set
	Bold      bool
	Fill      string // RRGGBB, empty for no fill
	Align     string
	NumFormat string // custom number format, empty for General
}

// WithLeftEdge returns a copy with a heavier left border
func (s Style) WithLeftEdge(b BorderKind) Style {
	s.LeftEdge = b
	return s
}

// Palette holds every background color of the timesheet
type Palette struct {
	Weekend      string
	EarnDay      string
	Header       string
	TotalPayment string
	InputHeader  string
	Seasons      [4]string // indexed by calendar.Season
}

// DefaultPalette returns the stock colors
func DefaultPalette() Palette {
	return Palette{
		Weekend:      "F8B9B8",
		EarnDay:      "B2E19E",
		Header:       "EDCAE9",
		TotalPayment: "B2E19E",
		InputHeader:  "F0C2A7",
		Seasons: [4]string{
			calendar.Winter: "C6E8F4",
			calendar.Spring: "B2E19E",
			calendar.Summer: "FFE699",
			calendar.Autumn: "F0C1A7",
		},
	}
}

type roleRule struct {
	border BorderKind
	bold   bool
	fill   func(p Palette) string
}

func noFill(Palette) string { return "" }

func seasonFill(s calendar.Season) func(Palette) string {
	return func(p Palette) string { return p.Seasons[s] }
}

// roleRules is positional: one entry per RoleClass in declaration order.
var roleRules = [...]roleRule{
	/* ClassUsual */ {border: BorderDotted, bold: true, fill: noFill},
	/* ClassEarnDay */ {border: BorderDotted, bold: true, fill: func(p Palette) string { return p.EarnDay }},
	/* ClassWeekend */ {border: BorderDotted, bold: true, fill: func(p Palette) string { return p.Weekend }},
	/* ClassHeader */ {border: BorderMedium, fill: func(p Palette) string { return p.Header }},
	/* ClassInputHeader */ {border: BorderMedium, fill: func(p Palette) string { return p.InputHeader }},
	/* ClassTotalBonus */ {border: BorderMedium, bold: true, fill: noFill},
	/* ClassTotalPayment */ {border: BorderMedium, bold: true, fill: func(p Palette) string { return p.TotalPayment }},
	/* ClassMonthWinter */ {border: BorderMedium, fill: seasonFill(calendar.Winter)},
	/* ClassMonthSpring */ {border: BorderMedium, fill: seasonFill(calendar.Spring)},
	/* ClassMonthSummer */ {border: BorderMedium, fill: seasonFill(calendar.Summer)},
	/* ClassMonthAutumn */ {border: BorderMedium, fill: seasonFill(calendar.Autumn)},
}

// kindRules is positional: one entry per DataKind in declaration order.
var kindRules = [...]func(currencyFormat string) string{
	/* PlainText */ func(string) string { return "" },
	/* CurrencyAmount */ func(currencyFormat string) string { return currencyFormat },
}

// Both tables must cover their enum exactly; a missing or extra entry overflows uint here.
const (
	_ = uint(len(roleRules) - int(roleClassCount))
	_ = uint(int(roleClassCount) - len(roleRules))
	_ = uint(len(kindRules) - int(dataKindCount))
	_ = uint(int(dataKindCount) - len(kindRules))
)

// DefaultCurrencySuffix is appended to money amounts
const DefaultCurrencySuffix = " ₽"

// CurrencyFormat renders the two-decimal money format with a suffix
func CurrencyFormat(suffix string) string {
	if suffix == "" {
		return "#,##0.00"
	}
	return fmt.Sprintf("#,##0.00\"%s\"", suffix)
}

// Resolver maps (role class, data kind) to a Style
type Resolver struct {
	palette        Palette
	currencyFormat string
}

// NewResolver creates a resolver with the given palette and currency suffix
func NewResolver(palette Palette, currencySuffix string) *Resolver {
	return &Resolver{
		palette:        palette,
		currencyFormat: CurrencyFormat(currencySuffix),
	}
}

// Resolve returns the style of a role class rendered as kind
func (r *Resolver) Resolve(class RoleClass, kind DataKind) Style {
	if class < 0 || class >= roleClassCount || kind < 0 || kind >= dataKindCount {
		panic(fmt.Sprintf("timesheet: no style for class %d kind %d", class, kind))
	}

	rule := roleRules[class]
	return Style{
		Border:    rule.border,
		Bold:      rule.bold,
		Fill:      rule.fill(r.palette),
		Align:     AlignCenter,
		NumFormat: kindRules[kind](r.currencyFormat),
	}
}

// CategoryClass is the style class of a day row
func CategoryClass(c calendar.Category) RoleClass {
	switch c {
	case calendar.EarnDay:
		return ClassEarnDay
	case calendar.Weekend:
		return ClassWeekend
	default:
		return ClassUsual
	}
}

// SeasonClass is the style class of a month banner
func SeasonClass(s calendar.Season) RoleClass {
	switch s {
	case calendar.Spring:
		return ClassMonthSpring
	case calendar.Summer:
		return ClassMonthSummer
	case calendar.Autumn:
		return ClassMonthAutumn
	default:
		return ClassMonthWinter
	}
}

// fixedRoleClasses styles every non-day role except the banner
var fixedRoleClasses = map[CellRole]RoleClass{
	Header:            ClassHeader,
	InputHeader:       ClassInputHeader,
	TotalHoursLabel:   ClassHeader,
	TotalHoursValue:   ClassHeader,
	WeekendHoursLabel: ClassHeader,
	WeekendHoursValue: ClassTotalBonus,
	OverworkLabel:     ClassHeader,
	OverworkValue:     ClassTotalBonus,
	SalaryLabel:       ClassInputHeader,
	SalaryValue:       ClassInputHeader,
	TotalPaymentLabel: ClassTotalPayment,
	TotalPaymentValue: ClassTotalPayment,
}

// ClassOf reduces a cell role to its style class. Day roles take the day's category,
// the banner takes the month's season.
func ClassOf(role CellRole, category calendar.Category, season calendar.Season) RoleClass {
	switch {
	case role.IsDayRole():
		return CategoryClass(category)
	case role == MonthBanner:
		return SeasonClass(season)
	}
	class, ok := fixedRoleClasses[role]
	if !ok {
		panic(fmt.Sprintf("timesheet: no style class for %s", role))
	}
	return class
}
