package schedule

// WorkingHour is the work-schedule type assigned to an employment record.
type WorkingHour string

const (
	WorkingHourEightToFive WorkingHour = "EightToFive"
	WorkingHourNineToSix   WorkingHour = "NineToSix"
)

var WorkingHourValues = []string{
	string(WorkingHourEightToFive),
	string(WorkingHourNineToSix),
}

func (w WorkingHour) IsValid() bool {
	switch w {
	case WorkingHourEightToFive, WorkingHourNineToSix:
		return true
	}
	return false
}

// Thresholds holds the whole-hour boundaries a working hour is measured against.
type Thresholds struct {
	ClockInHour  int
	ClockOutHour int
}

// ThresholdsFor maps a working hour to its clock-in/clock-out hours.
// Anything other than EightToFive is measured as NineToSix.
func ThresholdsFor(w WorkingHour) Thresholds {
	if w == WorkingHourEightToFive {
		return Thresholds{ClockInHour: 8, ClockOutHour: 17}
	}
	return Thresholds{ClockInHour: 9, ClockOutHour: 18}
}
