package trias

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/travigo/stopmonitor/pkg/ctdf"
	"github.com/travigo/stopmonitor/pkg/util"
	"golang.org/x/exp/slices"
)

const (
	OrderEstimatedTime = "estimated_time"
	OrderPlannedTime   = "planned_time"
	OrderPriority      = "priority"
)

type ParseError struct {
	Document string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %s", e.Document, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var rootName = xml.Name{Space: NamespaceTrias, Local: "Trias"}

var (
	stopEventResultPath = MustCompilePath(".//StopEventResponse/StopEventResult")
	stopEventPath       = MustCompilePath(".//StopEvent")

	timetabledTimePath = MustCompilePath(".//ThisCall/CallAtStop/ServiceDeparture/TimetabledTime")
	estimatedTimePath  = MustCompilePath(".//ThisCall/CallAtStop/ServiceDeparture/EstimatedTime")
	plannedBayPath     = MustCompilePath(".//ThisCall/CallAtStop/PlannedBay/Text")
	estimatedBayPath   = MustCompilePath(".//ThisCall/CallAtStop/EstimatedBay/Text")
	notServicedPath    = MustCompilePath(".//ThisCall/CallAtStop/StopCallStatus/NotServicedStop")

	tripCancelledPath     = MustCompilePath(".//Service/Cancelled")
	ptModePath            = MustCompilePath(".//Service/Mode/PtMode")
	publishedModePath     = MustCompilePath(".//Service/Mode/Name/Text")
	publishedLineNamePath = MustCompilePath(".//Service/PublishedLineName/Text")
	routeDescriptionPath  = MustCompilePath(".//Service/RouteDescription/Text")
	originTextPath        = MustCompilePath(".//Service/OriginText/Text")
	destinationTextPath   = MustCompilePath(".//Service/DestinationText/Text")

	ptSituationPath       = MustCompilePath(".//StopEventResponse//StopEventResponseContext//Situations//PtSituation")
	situationDetailPath   = MustCompilePath(".//siri:Detail")
	situationPriorityPath = MustCompilePath(".//siri:Priority")
	affectedStopPointPath = MustCompilePath(".//siri:Affects//siri:StopPoints//siri:AffectedStopPoint")
	affectedJourneyPath   = MustCompilePath(".//siri:Affects//siri:VehicleJourneys//siri:AffectedVehicleJourney")
	stopPointRefPath      = MustCompilePath(".//siri:StopPointRef")
	lineRefPath           = MustCompilePath(".//siri:LineRef")

	locationResultPath       = MustCompilePath(".//LocationInformationResponse/LocationResult/Location")
	locationWrapperPath      = MustCompilePath(".//LocationInformationResponse/Location")
	nestedLocationPath       = MustCompilePath("./Location")
	locationStopRefPath      = MustCompilePath("./StopPoint/StopPointRef")
	locationStopNamePath     = MustCompilePath("./StopPoint/StopPointName/Text")
	locationNamePath         = MustCompilePath("./LocationName/Text")
)

func parseRoot(document string, body []byte) (*Node, error) {
	root, err := ParseDocument(body)
	if err != nil {
		return nil, &ParseError{Document: document, Err: err}
	}

	if root.Name != rootName {
		return nil, &ParseError{
			Document: document,
			Err:      fmt.Errorf("unexpected root element {%s}%s", root.Name.Space, root.Name.Local),
		}
	}

	return root, nil
}

type StopEventResponse struct {
	Departures []*ctdf.Departure
	Situations []*ctdf.Situation
}

type sortableDeparture struct {
	departure *ctdf.Departure
	sortTime  time.Time
}

// ParseStopEventResponse turns a StopEventResponse document into departures and situations.
// With orderType "estimated_time" departures are ordered by their estimated time, falling back
// to the planned time; any other order keeps the order of the document.
func ParseStopEventResponse(body []byte, orderType string) (*StopEventResponse, error) {
	const document = "StopEventResponse"

	root, err := parseRoot(document, body)
	if err != nil {
		return nil, err
	}

	var results []sortableDeparture
	for _, stopEventResult := range root.FindAll(stopEventResultPath) {
		stopEvent := stopEventResult.Find(stopEventPath)
		if stopEvent == nil {
			return nil, &ParseError{Document: document, Err: errors.New("StopEventResult without StopEvent")}
		}

		result, err := parseDeparture(stopEvent)
		if err != nil {
			return nil, &ParseError{Document: document, Err: err}
		}

		results = append(results, result)
	}

	if orderType == OrderEstimatedTime {
		slices.SortStableFunc(results, func(a, b sortableDeparture) int {
			return a.sortTime.Compare(b.sortTime)
		})
	}

	response := &StopEventResponse{
		Departures: []*ctdf.Departure{},
		Situations: []*ctdf.Situation{},
	}

	for _, result := range results {
		response.Departures = append(response.Departures, result.departure)
	}

	for _, ptSituation := range root.FindAll(ptSituationPath) {
		situation, err := parseSituation(ptSituation)
		if err != nil {
			return nil, &ParseError{Document: document, Err: err}
		}

		response.Situations = append(response.Situations, situation)
	}

	return response, nil
}

func parseDeparture(stopEvent *Node) (sortableDeparture, error) {
	departure := &ctdf.Departure{}

	plannedTime, err := LocalTime(ExtractString(stopEvent, timetabledTimePath))
	if err != nil {
		return sortableDeparture{}, err
	}
	if plannedTime == nil {
		return sortableDeparture{}, errors.New("StopEvent without TimetabledTime")
	}

	estimatedTime, err := LocalTime(ExtractString(stopEvent, estimatedTimePath))
	if err != nil {
		return sortableDeparture{}, err
	}

	departure.SetPlanned(*plannedTime)
	departure.SetEstimated(estimatedTime)

	departure.PlannedBay = ExtractString(stopEvent, plannedBayPath)
	departure.EstimatedBay = ExtractString(stopEvent, estimatedBayPath)

	tripCancelled, err := ExtractBool(stopEvent, tripCancelledPath, false)
	if err != nil {
		return sortableDeparture{}, err
	}
	stopCancelled, err := ExtractBool(stopEvent, notServicedPath, false)
	if err != nil {
		return sortableDeparture{}, err
	}

	departure.Cancelled = tripCancelled || stopCancelled
	departure.UpdateRealtime()

	departure.Mode = ExtractString(stopEvent, ptModePath)
	if departure.Mode != nil {
		if path, ok := submodePath(*departure.Mode); ok {
			departure.SubMode = ExtractString(stopEvent, path)
		}
	}

	departure.PublishedMode = ExtractString(stopEvent, publishedModePath)

	publishedLineName := ExtractString(stopEvent, publishedLineNamePath)
	if publishedLineName != nil && departure.PublishedMode != nil {
		lineName := strings.TrimSpace(strings.ReplaceAll(*publishedLineName, *departure.PublishedMode, ""))
		departure.LineName = &lineName
	} else {
		departure.LineName = publishedLineName
	}

	departure.LineDescription = ExtractString(stopEvent, routeDescriptionPath)
	departure.OriginText = ExtractString(stopEvent, originTextPath)
	departure.DestinationText = ExtractString(stopEvent, destinationTextPath)

	sortTime := *plannedTime
	if estimatedTime != nil {
		sortTime = *estimatedTime
	}

	return sortableDeparture{departure: departure, sortTime: sortTime}, nil
}

func parseSituation(ptSituation *Node) (*ctdf.Situation, error) {
	situation := &ctdf.Situation{
		Affects: []*ctdf.SituationAffect{},
	}

	if detail := ExtractString(ptSituation, situationDetailPath); detail != nil {
		text := util.SanitizeText(*detail)
		situation.Text = &text
	}

	priority, err := ExtractInt(ptSituation, situationPriorityPath, ctdf.DefaultSituationPriority)
	if err != nil {
		return nil, err
	}
	situation.Priority = priority

	for _, affectedStopPoint := range ptSituation.FindAll(affectedStopPointPath) {
		situation.Affects = append(situation.Affects, &ctdf.SituationAffect{
			Type: ctdf.SituationAffectTypeStop,
			ID:   ExtractStringDefault(affectedStopPoint, stopPointRefPath, ""),
		})
	}

	for _, affectedJourney := range ptSituation.FindAll(affectedJourneyPath) {
		situation.Affects = append(situation.Affects, &ctdf.SituationAffect{
			Type: ctdf.SituationAffectTypeLine,
			ID:   ExtractStringDefault(affectedJourney, lineRefPath, ""),
		})
	}

	return situation, nil
}

// SituationsForStop keeps the situations that do not name any stop other than stopID
func (r *StopEventResponse) SituationsForStop(stopID string) []*ctdf.Situation {
	situations := append([]*ctdf.Situation{}, r.Situations...)

	util.InPlaceFilter(&situations, func(situation *ctdf.Situation) bool {
		return situation.AffectsOnlyStop(stopID)
	})

	return situations
}

type LocationInformationResponse struct {
	Stops []*ctdf.Stop
}

func ParseLocationInformationResponse(body []byte) (*LocationInformationResponse, error) {
	root, err := parseRoot("LocationInformationResponse", body)
	if err != nil {
		return nil, err
	}

	locations := root.FindAll(locationResultPath)
	if len(locations) == 0 {
		// Results wrapped in Location carry the stop in a nested Location
		for _, wrapper := range root.FindAll(locationWrapperPath) {
			if nested := wrapper.Find(nestedLocationPath); nested != nil {
				locations = append(locations, nested)
			} else {
				locations = append(locations, wrapper)
			}
		}
	}

	response := &LocationInformationResponse{
		Stops: []*ctdf.Stop{},
	}

	for _, location := range locations {
		stopName := ExtractString(location, locationStopNamePath)
		locationName := ExtractString(location, locationNamePath)

		response.Stops = append(response.Stops, &ctdf.Stop{
			ID:   ExtractStringDefault(location, locationStopRefPath, ""),
			Name: ctdf.StopDisplayName(locationName, stopName),
		})
	}

	return response, nil
}
