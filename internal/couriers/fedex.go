package couriers

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
)

// FedEx scan codes, grouped by canonical status. Unmapped codes resolve to
// the unknown (zero) status.
var fedexStatusCodes = statusCodeGroups{
	domain.StatusLabelCreated:      {"PU", "PX", "OC"},
	domain.StatusInTransit:         {"AR", "DP", "IT", "AF", "CD", "SF", "CC"},
	domain.StatusOutForDelivery:    {"OD"},
	domain.StatusDeliveryAttempted: {"DE"},
	domain.StatusReturnedToSender:  {"RS"},
	domain.StatusException:         {"CA", "SE"},
	domain.StatusDelivered:         {"DL"},
}.invert()

var fedexNumberFormats = []*regexp.Regexp{
	regexp.MustCompile(`^\d{12}$`),   // express
	regexp.MustCompile(`^\d{15}$`),   // ground
	regexp.MustCompile(`^96\d{20}$`), // ground 96 barcode
	regexp.MustCompile(`^\d{20}$`),   // smartpost
}

// FedEx tracks via the Track SOAP service (v9), authenticating with the
// long-lived key/password/account/meter credential set embedded in the
// request envelope.
type FedEx struct{}

func NewFedEx() *FedEx { return &FedEx{} }

func (*FedEx) Name() string { return "FedEx" }
func (*FedEx) Code() string { return "fedex" }

func (*FedEx) RequiredCredentials() []string {
	return []string{"FEDEX_KEY", "FEDEX_PASSWORD", "FEDEX_ACCOUNT_NUMBER", "FEDEX_METER_NUMBER"}
}

func (*FedEx) Endpoints() Endpoints {
	return Endpoints{
		Dev:  "https://wsbeta.fedex.com:443/web-services",
		Prod: "https://ws.fedex.com:443/web-services",
	}
}

func (*FedEx) Matches(trackingNumber string) bool {
	return matchesAny(fedexNumberFormats, trackingNumber)
}

const fedexRequestXML = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:v9="http://fedex.com/ws/track/v9">
<soapenv:Body>
<TrackRequest xmlns="http://fedex.com/ws/track/v9">
<WebAuthenticationDetail>
<UserCredential>
<Key>%s</Key>
<Password>%s</Password>
</UserCredential>
</WebAuthenticationDetail>
<ClientDetail>
<AccountNumber>%s</AccountNumber>
<MeterNumber>%s</MeterNumber>
</ClientDetail>
<Version>
<ServiceId>trck</ServiceId>
<Major>9</Major>
<Intermediate>1</Intermediate>
<Minor>0</Minor>
</Version>
<SelectionDetails>
<PackageIdentifier>
<Type>TRACKING_NUMBER_OR_DOORTAG</Type>
<Value>%s</Value>
</PackageIdentifier>
</SelectionDetails>
<ProcessingOptions>INCLUDE_DETAILED_SCANS</ProcessingOptions>
</TrackRequest>
</soapenv:Body>
</soapenv:Envelope>`

func (*FedEx) BuildRequest(_ context.Context, trackingNumber, baseURL string, creds CredentialSet) (domain.RequestDescriptor, error) {
	body := fmt.Sprintf(fedexRequestXML,
		creds["FEDEX_KEY"],
		creds["FEDEX_PASSWORD"],
		creds["FEDEX_ACCOUNT_NUMBER"],
		creds["FEDEX_METER_NUMBER"],
		trackingNumber,
	)
	return domain.RequestDescriptor{
		Method: http.MethodPost,
		URL:    baseURL,
		Header: map[string]string{"Content-Type": "text/xml"},
		Body:   []byte(body),
	}, nil
}

// Response decoding. Field names follow the carrier's wire format; values are
// kept as raw strings and interpreted during extraction.

type fedexAddress struct {
	City                string `xml:"City"`
	StateOrProvinceCode string `xml:"StateOrProvinceCode"`
	CountryCode         string `xml:"CountryCode"`
	PostalCode          string `xml:"PostalCode"`
}

type fedexEvent struct {
	Timestamp        string       `xml:"Timestamp"`
	EventType        string       `xml:"EventType"`
	EventDescription string       `xml:"EventDescription"`
	Address          fedexAddress `xml:"Address"`
}

type fedexTrackDetails struct {
	Notification struct {
		Severity string `xml:"Severity"`
	} `xml:"Notification"`
	Events                     []fedexEvent `xml:"Events"`
	EstimatedDeliveryTimestamp string       `xml:"EstimatedDeliveryTimestamp"`
}

type fedexTrackReply struct {
	Body struct {
		TrackReply struct {
			CompletedTrackDetails struct {
				TrackDetails []fedexTrackDetails `xml:"TrackDetails"`
			} `xml:"CompletedTrackDetails"`
		} `xml:"TrackReply"`
	} `xml:"Body"`
}

func (f *FedEx) Parse(body []byte) (*domain.TrackingInfo, error) {
	var reply fedexTrackReply
	if err := xml.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("%w: fedex: %v", domain.ErrResponseMalformed, err)
	}

	details := f.locateShipment(&reply)
	if details == nil {
		return nil, fmt.Errorf("%w: fedex: track details missing from reply", domain.ErrResponseMalformed)
	}
	if f.hasError(details) {
		return nil, fmt.Errorf("%w: fedex reported severity ERROR", domain.ErrTrackingNotFound)
	}

	return &domain.TrackingInfo{
		Events:                f.extractEvents(details),
		EstimatedDeliveryTime: f.extractETA(details),
	}, nil
}

// locateShipment walks Envelope → Body → TrackReply → CompletedTrackDetails
// and returns the first TrackDetails record.
func (*FedEx) locateShipment(reply *fedexTrackReply) *fedexTrackDetails {
	details := reply.Body.TrackReply.CompletedTrackDetails.TrackDetails
	if len(details) == 0 {
		return nil
	}
	return &details[0]
}

func (*FedEx) hasError(details *fedexTrackDetails) bool {
	return details.Notification.Severity == "ERROR"
}

func (*FedEx) extractEvents(details *fedexTrackDetails) []domain.TrackingEvent {
	events := make([]domain.TrackingEvent, 0, len(details.Events))
	for _, ev := range details.Events {
		events = append(events, domain.TrackingEvent{
			Status: fedexStatusCodes[ev.EventType],
			Label:  ev.EventDescription,
			Location: joinLocation(
				ev.Address.City,
				ev.Address.StateOrProvinceCode,
				ev.Address.CountryCode,
				ev.Address.PostalCode,
			),
			Time: parseFedExTime(ev.Timestamp),
		})
	}
	return events
}

func (*FedEx) extractETA(details *fedexTrackDetails) int64 {
	return parseFedExTime(details.EstimatedDeliveryTimestamp)
}

// parseFedExTime parses the carrier's single ISO-like timestamp. Returns 0
// when the value is absent or unparseable.
func parseFedExTime(ts string) int64 {
	if ts == "" {
		return 0
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}
