package models

// Working days in institutional order. Sunday is not schedulable.
const (
	DayMonday    = "MONDAY"
	DayTuesday   = "TUESDAY"
	DayWednesday = "WEDNESDAY"
	DayThursday  = "THURSDAY"
	DayFriday    = "FRIDAY"
	DaySaturday  = "SATURDAY"
)

// WorkingDays lists schedulable days in display order.
var WorkingDays = []string{
	DayMonday,
	DayTuesday,
	DayWednesday,
	DayThursday,
	DayFriday,
	DaySaturday,
}

// DayIndex returns the position of a day within WorkingDays, or -1 for an
// unknown day.
func DayIndex(day string) int {
	for i, d := range WorkingDays {
		if d == day {
			return i
		}
	}
	return -1
}
