package trias

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/kr/pretty"
	"github.com/travigo/stopmonitor/pkg/ctdf"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	body, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}

	return body
}

func stringPtr(s string) *string {
	return &s
}

func TestParseStopEventResponseDepartures(t *testing.T) {
	if err := SetDisplayLocation(DefaultDisplayZone); err != nil {
		t.Fatal(err)
	}

	body := readFixture(t, "stop_event_response.xml")

	bus := &ctdf.Departure{
		PlannedDate:     "2026-10-19",
		PlannedTime:     "12:00:00",
		EstimatedDate:   stringPtr("2026-10-19"),
		EstimatedTime:   stringPtr("12:07:00"),
		PlannedBay:      stringPtr("3"),
		EstimatedBay:    stringPtr("4"),
		Realtime:        true,
		Mode:            stringPtr("bus"),
		SubMode:         stringPtr("localBus"),
		PublishedMode:   stringPtr("Bus"),
		LineName:        stringPtr("42"),
		LineDescription: stringPtr("Hauptbahnhof - Wilferdinger Höhe"),
		OriginText:      stringPtr("Hauptbahnhof"),
		DestinationText: stringPtr("Wilferdinger Höhe"),
	}
	tram := &ctdf.Departure{
		PlannedDate:     "2026-10-19",
		PlannedTime:     "12:05:00",
		Mode:            stringPtr("tram"),
		SubMode:         stringPtr("cityTram"),
		LineName:        stringPtr("Tram 5"),
		DestinationText: stringPtr("Brötzingen"),
	}
	rail := &ctdf.Departure{
		PlannedDate:     "2026-10-19",
		PlannedTime:     "12:03:00",
		EstimatedDate:   stringPtr("2026-10-19"),
		EstimatedTime:   stringPtr("12:04:00"),
		Cancelled:       true,
		Realtime:        true,
		Mode:            stringPtr("rail"),
		SubMode:         stringPtr("suburbanRailway"),
		PublishedMode:   stringPtr("S-Bahn"),
		LineName:        stringPtr("S1"),
		DestinationText: stringPtr("Karlsruhe"),
	}

	tests := []struct {
		orderType string
		expected  []*ctdf.Departure
	}{
		{OrderEstimatedTime, []*ctdf.Departure{rail, tram, bus}},
		{OrderPlannedTime, []*ctdf.Departure{bus, tram, rail}},
	}

	for _, tc := range tests {
		t.Run(tc.orderType, func(t *testing.T) {
			response, err := ParseStopEventResponse(body, tc.orderType)
			if err != nil {
				t.Fatal(err)
			}

			if diff := pretty.Diff(response.Departures, tc.expected); len(diff) > 0 {
				t.Errorf("unexpected departures:\n%s", diff)
			}

			for _, departure := range response.Departures {
				if departure.Realtime != (departure.EstimatedTime != nil || departure.Cancelled) {
					t.Errorf("realtime flag inconsistent for %s", departure.PlannedTime)
				}
			}
		})
	}
}

func TestParseStopEventResponseSituations(t *testing.T) {
	response, err := ParseStopEventResponse(readFixture(t, "stop_event_response.xml"), OrderEstimatedTime)
	if err != nil {
		t.Fatal(err)
	}

	if len(response.Situations) != 3 {
		t.Fatalf("found %d situations, expected 3", len(response.Situations))
	}

	expected := []*ctdf.Situation{
		{
			Text:     stringPtr("Lift out ofservice"),
			Priority: 2,
			Affects: []*ctdf.SituationAffect{
				{Type: ctdf.SituationAffectTypeStop, ID: "de:08231:11"},
			},
		},
		{
			Text:     stringPtr("Line diverted"),
			Priority: 1,
			Affects: []*ctdf.SituationAffect{
				{Type: ctdf.SituationAffectTypeLine, ID: "S1"},
			},
		},
	}

	situations := response.SituationsForStop("de:08231:11")
	if diff := pretty.Diff(situations, expected); len(diff) > 0 {
		t.Errorf("unexpected situations:\n%s", diff)
	}

	if response.Situations[1].Priority != ctdf.DefaultSituationPriority {
		t.Errorf("missing priority parsed as %d", response.Situations[1].Priority)
	}

	if others := response.SituationsForStop("de:08231:99"); len(others) != 2 {
		t.Errorf("found %d situations for de:08231:99, expected 2", len(others))
	}
}

func stopEventDocument(mode string, submode string) string {
	return fmt.Sprintf(`<Trias xmlns="http://www.vdv.de/trias">
  <ServiceDelivery><DeliveryPayload><StopEventResponse><StopEventResult><StopEvent>
    <ThisCall><CallAtStop><ServiceDeparture>
      <TimetabledTime>2026-10-19T10:00:00Z</TimetabledTime>
    </ServiceDeparture></CallAtStop></ThisCall>
    <Service><Mode><PtMode>%s</PtMode>%s</Mode></Service>
  </StopEvent></StopEventResult></StopEventResponse></DeliveryPayload></ServiceDelivery>
</Trias>`, mode, submode)
}

func TestParseStopEventResponseModes(t *testing.T) {
	tests := []struct {
		mode     string
		submode  string
		expected *string
	}{
		{"air", "<AirSubmode>domesticFlight</AirSubmode>", stringPtr("domesticFlight")},
		{"bus", "<BusSubmode>nightBus</BusSubmode>", stringPtr("nightBus")},
		{"trolleyBus", "<BusSubmode>trolleyBus</BusSubmode>", stringPtr("trolleyBus")},
		{"coach", "<CoachSubmode>nationalCoach</CoachSubmode>", stringPtr("nationalCoach")},
		{"intercityRail", "<RailSubmode>highSpeedRail</RailSubmode>", stringPtr("highSpeedRail")},
		{"urbanRail", "<RailSubmode>suburbanRailway</RailSubmode>", stringPtr("suburbanRailway")},
		{"metro", "<MetroSubmode>metro</MetroSubmode>", stringPtr("metro")},
		{"water", "<WaterSubmode>localCarFerry</WaterSubmode>", stringPtr("localCarFerry")},
		{"funicular", "<FunicularSubmode>funicular</FunicularSubmode>", stringPtr("funicular")},
		{"bus", "<TramSubmode>cityTram</TramSubmode>", nil},
		{"cableway", "<TelecabinSubmode>telecabin</TelecabinSubmode>", nil},
		{"tram", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.mode+tc.submode, func(t *testing.T) {
			response, err := ParseStopEventResponse([]byte(stopEventDocument(tc.mode, tc.submode)), OrderEstimatedTime)
			if err != nil {
				t.Fatal(err)
			}

			departure := response.Departures[0]
			if departure.Mode == nil || *departure.Mode != tc.mode {
				t.Errorf("mode = %v, expected %s", departure.Mode, tc.mode)
			}

			if diff := pretty.Diff(departure.SubMode, tc.expected); len(diff) > 0 {
				t.Errorf("unexpected submode: %s", diff)
			}

			if departure.Realtime {
				t.Error("departure without estimate or cancellation should not be realtime")
			}
		})
	}
}

func TestParseStopEventResponseEmpty(t *testing.T) {
	response, err := ParseStopEventResponse([]byte(`<Trias xmlns="http://www.vdv.de/trias"><ServiceDelivery/></Trias>`), OrderEstimatedTime)
	if err != nil {
		t.Fatal(err)
	}

	if response.Departures == nil || len(response.Departures) != 0 {
		t.Errorf("expected an empty departure list, got %v", response.Departures)
	}

	if response.Situations == nil || len(response.Situations) != 0 {
		t.Errorf("expected an empty situation list, got %v", response.Situations)
	}
}

func TestParseStopEventResponseMalformed(t *testing.T) {
	tests := map[string]string{
		"truncated":      `<Trias xmlns="http://www.vdv.de/trias"><ServiceDelivery>`,
		"wrong root":     `<Siri xmlns="http://www.siri.org.uk/siri"/>`,
		"no namespace":   `<Trias/>`,
		"no stop event":  `<Trias xmlns="http://www.vdv.de/trias"><StopEventResponse><StopEventResult/></StopEventResponse></Trias>`,
		"no timetable":   `<Trias xmlns="http://www.vdv.de/trias"><StopEventResponse><StopEventResult><StopEvent/></StopEventResult></StopEventResponse></Trias>`,
		"bad cancelled":  `<Trias xmlns="http://www.vdv.de/trias"><StopEventResponse><StopEventResult><StopEvent><ThisCall><CallAtStop><ServiceDeparture><TimetabledTime>2026-10-19T10:00:00Z</TimetabledTime></ServiceDeparture></CallAtStop></ThisCall><Service><Cancelled>yes</Cancelled></Service></StopEvent></StopEventResult></StopEventResponse></Trias>`,
		"bad time stamp": `<Trias xmlns="http://www.vdv.de/trias"><StopEventResponse><StopEventResult><StopEvent><ThisCall><CallAtStop><ServiceDeparture><TimetabledTime>soon</TimetabledTime></ServiceDeparture></CallAtStop></ThisCall></StopEvent></StopEventResult></StopEventResponse></Trias>`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseStopEventResponse([]byte(body), OrderEstimatedTime)

			var parseError *ParseError
			if !errors.As(err, &parseError) {
				t.Errorf("expected a ParseError, got %v", err)
			}
		})
	}
}

func TestParseLocationInformationResponse(t *testing.T) {
	response, err := ParseLocationInformationResponse(readFixture(t, "location_information_response.xml"))
	if err != nil {
		t.Fatal(err)
	}

	expected := []*ctdf.Stop{
		{ID: "de:08231:11", Name: "Pforzheim Hauptbahnhof"},
		{ID: "de:08231:50", Name: "Marktplatz"},
		{ID: "de:08236:7", Name: "Ispringen"},
	}

	if diff := pretty.Diff(response.Stops, expected); len(diff) > 0 {
		t.Errorf("unexpected stops:\n%s", diff)
	}
}

func TestParseLocationInformationResponseWrappedLayout(t *testing.T) {
	response, err := ParseLocationInformationResponse(readFixture(t, "location_information_response_wrapped.xml"))
	if err != nil {
		t.Fatal(err)
	}

	expected := []*ctdf.Stop{
		{ID: "de:08231:11", Name: "Pforzheim Hauptbahnhof"},
		{ID: "de:08231:50", Name: "Marktplatz"},
	}

	if diff := pretty.Diff(response.Stops, expected); len(diff) > 0 {
		t.Errorf("unexpected stops:\n%s", diff)
	}
}

func TestParseLocationInformationResponseMalformed(t *testing.T) {
	_, err := ParseLocationInformationResponse([]byte(`<html><body>Service Unavailable</body></html>`))

	var parseError *ParseError
	if !errors.As(err, &parseError) {
		t.Errorf("expected a ParseError, got %v", err)
	}
}
