package ctdf

import "time"

type Departure struct {
	PlannedDate   string  `json:"planned_date" groups:"basic"`
	PlannedTime   string  `json:"planned_time" groups:"basic"`
	EstimatedDate *string `json:"estimated_date" groups:"basic"`
	EstimatedTime *string `json:"estimated_time" groups:"basic"`

	PlannedBay   *string `json:"planned_bay" groups:"basic"`
	EstimatedBay *string `json:"estimated_bay" groups:"basic"`

	Cancelled bool `json:"cancelled" groups:"basic"`
	Realtime  bool `json:"realtime" groups:"basic"`

	Mode          *string `json:"mode" groups:"basic"`
	SubMode       *string `json:"sub_mode" groups:"basic"`
	PublishedMode *string `json:"published_mode" groups:"basic"`

	LineName        *string `json:"line_name" groups:"basic"`
	LineDescription *string `json:"line_description" groups:"basic"`

	OriginText      *string `json:"origin_text" groups:"basic"`
	DestinationText *string `json:"destination_text" groups:"basic"`
}

const (
	DepartureDateFormat = "2006-01-02"
	DepartureTimeFormat = "15:04:05"
)

// SetPlanned fills the planned date and time from a local departure time
func (d *Departure) SetPlanned(planned time.Time) {
	d.PlannedDate = planned.Format(DepartureDateFormat)
	d.PlannedTime = planned.Format(DepartureTimeFormat)
}

// SetEstimated fills the estimated date and time, leaving both nil when there is no estimate
func (d *Departure) SetEstimated(estimated *time.Time) {
	if estimated == nil {
		d.EstimatedDate = nil
		d.EstimatedTime = nil
		return
	}

	date := estimated.Format(DepartureDateFormat)
	clock := estimated.Format(DepartureTimeFormat)

	d.EstimatedDate = &date
	d.EstimatedTime = &clock
}

// UpdateRealtime derives the realtime flag: any estimate or cancellation counts as realtime
func (d *Departure) UpdateRealtime() {
	d.Realtime = d.EstimatedTime != nil || d.Cancelled
}

type DeparturesResult struct {
	Departures []*Departure `json:"departures" groups:"basic"`
}
