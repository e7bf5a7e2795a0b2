package trias

import (
	"encoding/xml"
)

const (
	NamespaceTrias = "http://www.vdv.de/trias"
	NamespaceSiri  = "http://www.siri.org.uk/siri"

	ProtocolVersion = "1.1"

	DefaultNumberOfResults = 20
)

// Request is a complete TRIAS document: the shared ServiceRequest envelope plus one payload
type Request struct {
	XMLName   xml.Name `xml:"http://www.vdv.de/trias Trias"`
	Version   string   `xml:"version,attr"`
	XmlnsSiri string   `xml:"xmlns:siri,attr"`

	ServiceRequest ServiceRequest

	name string
}

type ServiceRequest struct {
	RequestTimestamp string `xml:"siri:RequestTimestamp"`
	RequestorRef     string `xml:"siri:RequestorRef"`
	RequestPayload   RequestPayload
}

type RequestPayload struct {
	LocationInformationRequest *LocationInformationRequest `xml:",omitempty"`
	StopEventRequest           *StopEventRequest           `xml:",omitempty"`
}

type LocationInformationRequest struct {
	InitialInput struct {
		LocationName string
	}
	Restrictions struct {
		Type string
	}
}

type StopEventRequest struct {
	Location struct {
		LocationRef struct {
			StopPointRef string
		}
		DepArrTime string
	}
	Params struct {
		NumberOfResults     int
		TimeWindow          string `xml:",omitempty"`
		StopEventType       string
		IncludeRealtimeData bool
	}
}

func newRequest(name string, requestorRef string) *Request {
	return &Request{
		Version:   ProtocolVersion,
		XmlnsSiri: NamespaceSiri,
		ServiceRequest: ServiceRequest{
			RequestTimestamp: Timestamp(0),
			RequestorRef:     requestorRef,
		},
		name: name,
	}
}

func NewLocationInformationRequest(requestorRef string, lookupName string) *Request {
	payload := &LocationInformationRequest{}
	payload.InitialInput.LocationName = lookupName
	payload.Restrictions.Type = "stop"

	request := newRequest("LocationInformationRequest", requestorRef)
	request.ServiceRequest.RequestPayload.LocationInformationRequest = payload

	return request
}

// NewStopEventRequest asks for up to numResults departures with realtime data at the stop point
// from depArrTime onwards. A numResults below 1 falls back to DefaultNumberOfResults.
func NewStopEventRequest(requestorRef string, stopPointRef string, depArrTime string, numResults int) *Request {
	if numResults < 1 {
		numResults = DefaultNumberOfResults
	}

	payload := &StopEventRequest{}
	payload.Location.LocationRef.StopPointRef = stopPointRef
	payload.Location.DepArrTime = depArrTime
	payload.Params.NumberOfResults = numResults
	payload.Params.StopEventType = "departure"
	payload.Params.IncludeRealtimeData = true

	request := newRequest("StopEventRequest", requestorRef)
	request.ServiceRequest.RequestPayload.StopEventRequest = payload

	return request
}

// WithTimeWindow limits a stop event request to departures within the given ISO-8601 duration
func (r *Request) WithTimeWindow(window string) *Request {
	if r.ServiceRequest.RequestPayload.StopEventRequest != nil {
		r.ServiceRequest.RequestPayload.StopEventRequest.Params.TimeWindow = window
	}

	return r
}

// Name is the payload type, used to tag audit log entries
func (r *Request) Name() string {
	return r.name
}

// ResponseName is the payload type of the matching response document
func (r *Request) ResponseName() string {
	switch r.name {
	case "LocationInformationRequest":
		return "LocationInformationResponse"
	case "StopEventRequest":
		return "StopEventResponse"
	default:
		return r.name + "Response"
	}
}

func (r *Request) XML() ([]byte, error) {
	body, err := xml.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), body...), nil
}
