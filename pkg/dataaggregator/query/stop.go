package query

type Stops struct {
	LookupName string
}
