package query

type Situations struct {
	StopID        string
	OrderType     string
	OffsetSeconds int
}
