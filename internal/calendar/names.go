package calendar

import "time"

var monthNames = [...]string{
	time.January:   "❄️ Январь",
	time.February:  "🌨️ Февраль",
	time.March:     "🌱 Март",
	time.April:     "🌸 Апрель",
	time.May:       "🌿 Май",
	time.June:      "☀️ Июнь",
	time.July:      "🏖️ Июль",
	time.August:    "🍉 Август",
	time.September: "🍂 Сентябрь",
	time.October:   "🍁 Октябрь",
	time.November:  "🌧️ Ноябрь",
	time.December:  "🎄 Декабрь",
}

var weekdayShort = [...]string{
	time.Sunday:    "Вс",
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
}

// MonthName returns the decorated Russian month name
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return "❓ Неизвестный месяц"
	}
	return monthNames[m]
}

// WeekdayShort returns the two-letter Russian weekday abbreviation
func WeekdayShort(w time.Weekday) string {
	if w < time.Sunday || w > time.Saturday {
		return "?"
	}
	return weekdayShort[w]
}
