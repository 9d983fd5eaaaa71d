package recurrence

import "slices"

// Frequency is the named maintenance interval stored on a service record.
type Frequency string

const (
	Daily      Frequency = "daily"
	Weekly     Frequency = "weekly"
	Biweekly   Frequency = "biweekly"
	Monthly    Frequency = "monthly"
	Bimonthly  Frequency = "bimonthly"
	Quarterly  Frequency = "quarterly"
	Semiannual Frequency = "semiannual"
	Annual     Frequency = "annual"
	Custom     Frequency = "custom"
)

var frequencies = []Frequency{
	Daily, Weekly, Biweekly, Monthly, Bimonthly, Quarterly, Semiannual, Annual, Custom,
}

// Frequencies lists every recognised frequency code in display order.
func Frequencies() []Frequency {
	return slices.Clone(frequencies)
}

// Valid reports whether f is one of the recognised codes.
func (f Frequency) Valid() bool {
	return slices.Contains(frequencies, f)
}

func (f Frequency) String() string {
	return string(f)
}
