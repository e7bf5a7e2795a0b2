package query

type Departures struct {
	StopID        string
	Count         int
	OrderType     string
	OffsetSeconds int
}
