package services

import "github.com/cppla/earlybird/models"

var quotes = map[models.CheckInType][]string{
	models.CheckInEarly: {
		"The early bird catches the worm. Great start!",
		"You're ahead of the day. Keep it up!",
		"Early and ready. That's how champions start.",
	},
	models.CheckInOnTime: {
		"Right on time. Consistency wins.",
		"Punctual and prepared. Nice work!",
		"On the dot. Have a great day!",
	},
	models.CheckInLate: {
		"You made it. Tomorrow is a fresh chance to be early.",
		"Better late than never. Let's make today count.",
		"Every check-in counts. Aim a little earlier tomorrow.",
	},
}

// PickQuote selects a motivational quote for t using intn, which must return a
// value in [0, n). It returns "" when there is nothing to pick from.
func PickQuote(t models.CheckInType, intn func(n int) int) string {
	list := quotes[t]
	if len(list) == 0 || intn == nil {
		return ""
	}
	i := intn(len(list))
	if i < 0 || i >= len(list) {
		return ""
	}
	return list[i]
}

// Quotes returns the quotes of type t.
func Quotes(t models.CheckInType) []string {
	return append([]string(nil), quotes[t]...)
}
