package couriers

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
)

// USPS event codes, grouped by canonical status. Unlike the other carriers,
// an unmapped code defaults to IN_TRANSIT: the carrier's own documentation
// treats unknown scan codes as "somewhere in the mail stream".
var uspsStatusCodes = statusCodeGroups{
	domain.StatusLabelCreated:      {"GX", "MA"},
	domain.StatusOutForDelivery:    {"59", "OF"},
	domain.StatusDeliveryAttempted: {"02", "52", "53", "54", "55", "56", "57"},
	domain.StatusReturnedToSender:  {"04", "09", "28", "29", "31"},
	domain.StatusDelivered:         {"01"},
}.invert()

var uspsNumberFormats = []*regexp.Regexp{
	regexp.MustCompile(`^(94|93|92|90|82)\d{18,20}$`), // IMpb domestic
	regexp.MustCompile(`^[A-Z]{2}\d{9}[A-Z]{2}$`),     // S10 international
}

// uspsLabelCreatedCode is the carrier's "a status update is not yet
// available" error number. The label exists but the piece has not entered
// the mail stream, so it is reported as a LABEL_CREATED timeline instead of
// an error.
const uspsLabelCreatedCode = "-2147219283"

// USPS tracks via the TrackV2 XML API: the request document travels as a
// query parameter, authenticated by the USERID attribute.
type USPS struct{}

func NewUSPS() *USPS { return &USPS{} }

func (*USPS) Name() string { return "USPS" }
func (*USPS) Code() string { return "usps" }

func (*USPS) RequiredCredentials() []string {
	return []string{"USPS_USER_ID"}
}

func (*USPS) Endpoints() Endpoints {
	return Endpoints{
		Dev:  "https://secure.shippingapis.com/ShippingAPITest.dll",
		Prod: "https://production.shippingapis.com/ShippingAPI.dll",
	}
}

func (*USPS) Matches(trackingNumber string) bool {
	return matchesAny(uspsNumberFormats, strings.ToUpper(trackingNumber))
}

func (*USPS) BuildRequest(_ context.Context, trackingNumber, baseURL string, creds CredentialSet) (domain.RequestDescriptor, error) {
	request := fmt.Sprintf(
		`<TrackFieldRequest USERID="%s"><Revision>1</Revision><ClientIp>127.0.0.1</ClientIp><SourceId>1</SourceId><TrackID ID="%s"/></TrackFieldRequest>`,
		creds["USPS_USER_ID"], trackingNumber,
	)
	return domain.RequestDescriptor{
		Method: http.MethodGet,
		URL:    baseURL + "?API=TrackV2&XML=" + url.QueryEscape(request),
	}, nil
}

type uspsError struct {
	Number      string `xml:"Number"`
	Description string `xml:"Description"`
}

type uspsEvent struct {
	Event        string `xml:"Event"`
	EventCode    string `xml:"EventCode"`
	EventCity    string `xml:"EventCity"`
	EventState   string `xml:"EventState"`
	EventCountry string `xml:"EventCountry"`
	EventZIPCode string `xml:"EventZIPCode"`
	EventDate    string `xml:"EventDate"`
	EventTime    string `xml:"EventTime"`
}

type uspsTrackInfo struct {
	Error                *uspsError  `xml:"Error"`
	TrackSummary         *uspsEvent  `xml:"TrackSummary"`
	TrackDetail          []uspsEvent `xml:"TrackDetail"`
	ExpectedDeliveryDate string      `xml:"ExpectedDeliveryDate"`
}

type uspsTrackReply struct {
	XMLName   xml.Name       `xml:"TrackResponse"`
	Error     *uspsError     `xml:"Error"`
	TrackInfo *uspsTrackInfo `xml:"TrackInfo"`
}

// uspsAPIError is the request-level failure document, whose root element is
// Error rather than TrackResponse.
type uspsAPIError struct {
	XMLName     xml.Name `xml:"Error"`
	Number      string   `xml:"Number"`
	Description string   `xml:"Description"`
}

func (u *USPS) Parse(body []byte) (*domain.TrackingInfo, error) {
	var reply uspsTrackReply
	if err := xml.Unmarshal(body, &reply); err != nil {
		var apiErr uspsAPIError
		if xml.Unmarshal(body, &apiErr) == nil {
			return uspsErrorResult(&uspsError{Number: apiErr.Number, Description: apiErr.Description})
		}
		return nil, fmt.Errorf("%w: usps: %v", domain.ErrResponseMalformed, err)
	}

	if reply.Error != nil {
		return uspsErrorResult(reply.Error)
	}
	info := u.locateShipment(&reply)
	if info == nil {
		return nil, fmt.Errorf("%w: usps: track info missing from response", domain.ErrResponseMalformed)
	}
	if info.Error != nil {
		return uspsErrorResult(info.Error)
	}

	events := u.extractEvents(info)
	return &domain.TrackingInfo{
		Events:                events,
		EstimatedDeliveryTime: u.extractETA(info, events),
	}, nil
}

func (*USPS) locateShipment(reply *uspsTrackReply) *uspsTrackInfo {
	return reply.TrackInfo
}

func uspsErrorResult(e *uspsError) (*domain.TrackingInfo, error) {
	if e.Number == uspsLabelCreatedCode {
		return &domain.TrackingInfo{
			Events: []domain.TrackingEvent{{Status: domain.StatusLabelCreated}},
		}, nil
	}
	return nil, fmt.Errorf("%w: usps error %s: %s", domain.ErrCarrierReported, e.Number, e.Description)
}

// extractEvents returns the summary event first, then the detail events, in
// carrier order.
func (*USPS) extractEvents(info *uspsTrackInfo) []domain.TrackingEvent {
	raw := make([]uspsEvent, 0, len(info.TrackDetail)+1)
	if info.TrackSummary != nil {
		raw = append(raw, *info.TrackSummary)
	}
	raw = append(raw, info.TrackDetail...)

	events := make([]domain.TrackingEvent, 0, len(raw))
	for _, ev := range raw {
		events = append(events, domain.TrackingEvent{
			Status:   uspsStatus(ev.EventCode),
			Label:    ev.Event,
			Location: joinLocation(ev.EventCity, ev.EventState, ev.EventCountry, ev.EventZIPCode),
			Time:     parseUSPSTime(ev.EventDate, ev.EventTime),
		})
	}
	return events
}

// extractETA prefers the actual delivery event's timestamp once the piece is
// delivered. Before that, the carrier exposes only a date with no
// time-of-day signal, so the estimate is fixed at 21:00 local on the
// expected delivery date. Carrier heuristic, kept as observed.
func (*USPS) extractETA(info *uspsTrackInfo, events []domain.TrackingEvent) int64 {
	for _, ev := range events {
		if ev.Status == domain.StatusDelivered && ev.Time != 0 {
			return ev.Time
		}
	}
	if info.ExpectedDeliveryDate == "" {
		return 0
	}
	for _, layout := range []string{"January 2, 2006", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, info.ExpectedDeliveryDate, time.Local); err == nil {
			return t.Add(21 * time.Hour).UnixMilli()
		}
	}
	return 0
}

func uspsStatus(code string) domain.TrackingStatus {
	if status, ok := uspsStatusCodes[code]; ok {
		return status
	}
	return domain.StatusInTransit
}

var uspsTimeLayouts = []string{
	"January 2, 2006 3:04 pm",
	"January 2, 2006 3:04 PM",
	"January 2, 2006 15:04",
	"January 2, 2006",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseUSPSTime joins the carrier's free-form date and time strings with a
// space and parses the combination. Returns 0 when both are empty or no
// layout matches.
func parseUSPSTime(date, clock string) int64 {
	joined := strings.TrimSpace(date + " " + clock)
	if joined == "" {
		return 0
	}
	for _, layout := range uspsTimeLayouts {
		if t, err := time.ParseInLocation(layout, joined, time.Local); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}
