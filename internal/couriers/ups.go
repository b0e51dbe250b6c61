package couriers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
	"github.com/anatelli10/shipment-tracking/internal/core/ports"
)

// UPS activity status types, grouped by canonical status. Unmapped types
// resolve to the unknown (zero) status.
var upsStatusCodes = statusCodeGroups{
	domain.StatusLabelCreated:     {"M", "P"},
	domain.StatusInTransit:        {"I", "DO", "DD", "W"},
	domain.StatusOutForDelivery:   {"O"},
	domain.StatusReturnedToSender: {"RS"},
	domain.StatusException:        {"X", "MV", "NA"},
	domain.StatusDelivered:        {"D"},
}.invert()

var upsNumberFormat = regexp.MustCompile(`^1Z[0-9A-Z]{16}$`)

// UPS tracks via the Track REST API (JSON). Authentication is either the
// legacy access-license header or, when a token source is configured, an
// OAuth bearer token.
type UPS struct {
	tokens ports.TokenSource
}

// NewUPS returns the UPS adapter. tokens may be nil, in which case the
// UPS_ACCESS_LICENSE_NUMBER credential is required.
func NewUPS(tokens ports.TokenSource) *UPS { return &UPS{tokens: tokens} }

func (*UPS) Name() string { return "UPS" }
func (*UPS) Code() string { return "ups" }

func (u *UPS) RequiredCredentials() []string {
	if u.tokens != nil {
		// Bearer auth replaces the access-license credential.
		return nil
	}
	return []string{"UPS_ACCESS_LICENSE_NUMBER"}
}

func (*UPS) Endpoints() Endpoints {
	return Endpoints{
		Dev:  "https://wwwcie.ups.com/track/v1/details/",
		Prod: "https://onlinetools.ups.com/track/v1/details/",
	}
}

func (*UPS) Matches(trackingNumber string) bool {
	return upsNumberFormat.MatchString(strings.ToUpper(trackingNumber))
}

func (u *UPS) BuildRequest(ctx context.Context, trackingNumber, baseURL string, creds CredentialSet) (domain.RequestDescriptor, error) {
	header := map[string]string{"Accept": "application/json"}
	if u.tokens != nil {
		token, err := u.tokens.Token(ctx)
		if err != nil {
			return domain.RequestDescriptor{}, fmt.Errorf("ups token exchange: %w", err)
		}
		header["Authorization"] = "Bearer " + token
	} else {
		header["AccessLicenseNumber"] = creds["UPS_ACCESS_LICENSE_NUMBER"]
	}
	return domain.RequestDescriptor{
		Method: http.MethodGet,
		URL:    baseURL + trackingNumber,
		Header: header,
	}, nil
}

type upsActivity struct {
	Status struct {
		Type        string `json:"type"`
		Description string `json:"description"`
		Code        string `json:"code"`
	} `json:"status"`
	Location struct {
		Address struct {
			City          string `json:"city"`
			StateProvince string `json:"stateProvince"`
			CountryCode   string `json:"countryCode"`
			PostalCode    string `json:"postalCode"`
		} `json:"address"`
	} `json:"location"`
	Date string `json:"date"`
	Time string `json:"time"`
}

type upsPackage struct {
	Activity     []upsActivity `json:"activity"`
	DeliveryDate []struct {
		Type string `json:"type"`
		Date string `json:"date"`
	} `json:"deliveryDate"`
	DeliveryTime struct {
		Type      string `json:"type"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
	} `json:"deliveryTime"`
}

type upsShipment struct {
	Warnings []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"warnings"`
	Package []upsPackage `json:"package"`
}

type upsTrackReply struct {
	TrackResponse struct {
		Shipment []upsShipment `json:"shipment"`
	} `json:"trackResponse"`
}

const upsNotFoundMessage = "Tracking Information Not Found"

func (u *UPS) Parse(body []byte) (*domain.TrackingInfo, error) {
	var reply upsTrackReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("%w: ups: %v", domain.ErrResponseMalformed, err)
	}

	shipment := u.locateShipment(&reply)
	if shipment == nil {
		return nil, fmt.Errorf("%w: ups: shipment missing from response", domain.ErrResponseMalformed)
	}
	if u.hasError(shipment) {
		return nil, fmt.Errorf("%w: ups", domain.ErrTrackingNotFound)
	}
	if len(shipment.Package) == 0 {
		return nil, fmt.Errorf("%w: ups: package missing from shipment", domain.ErrResponseMalformed)
	}
	pkg := &shipment.Package[0]

	now := time.Now()
	return &domain.TrackingInfo{
		Events:                u.extractEvents(pkg, now),
		EstimatedDeliveryTime: u.extractETA(pkg, now),
	}, nil
}

func (*UPS) locateShipment(reply *upsTrackReply) *upsShipment {
	if len(reply.TrackResponse.Shipment) == 0 {
		return nil
	}
	return &reply.TrackResponse.Shipment[0]
}

func (*UPS) hasError(shipment *upsShipment) bool {
	for _, w := range shipment.Warnings {
		if w.Message == upsNotFoundMessage {
			return true
		}
	}
	return false
}

func (*UPS) extractEvents(pkg *upsPackage, ref time.Time) []domain.TrackingEvent {
	events := make([]domain.TrackingEvent, 0, len(pkg.Activity))
	for _, a := range pkg.Activity {
		events = append(events, domain.TrackingEvent{
			Status: upsStatus(a.Status.Type, a.Status.Description),
			Label:  a.Status.Description,
			Location: joinLocation(
				a.Location.Address.City,
				a.Location.Address.StateProvince,
				a.Location.Address.CountryCode,
				a.Location.Address.PostalCode,
			),
			Time: parseUPSTime(a.Date, a.Time, ref),
		})
	}
	return events
}

// extractETA returns the end of the carrier's estimated delivery window.
// Only the "EDW" delivery-time type carries populated window fields; any
// other type leaves the ETA unset. Carrier heuristic, kept as observed.
func (*UPS) extractETA(pkg *upsPackage, ref time.Time) int64 {
	if pkg.DeliveryTime.Type != "EDW" {
		return 0
	}
	var date string
	if len(pkg.DeliveryDate) > 0 {
		date = pkg.DeliveryDate[0].Date
	}
	return parseUPSTime(date, pkg.DeliveryTime.EndTime, ref)
}

// upsStatus translates an activity status type, re-mapping EXCEPTION to
// DELIVERY_ATTEMPTED when the free-text description says a delivery attempt
// was made. The carrier files failed attempts under its generic exception
// type.
func upsStatus(statusType, description string) domain.TrackingStatus {
	status := upsStatusCodes[statusType]
	if status == domain.StatusException && strings.Contains(strings.ToUpper(description), "DELIVERY ATTEMPT") {
		return domain.StatusDeliveryAttempted
	}
	return status
}

// parseUPSTime combines the carrier's split date (yyyyMMdd) and time (Hmmss)
// fields. A missing component falls back to the matching part of ref, since
// some activity records omit one of the two. Returns 0 when both are absent
// or the combination does not parse.
func parseUPSTime(date, clock string, ref time.Time) int64 {
	if date == "" && clock == "" {
		return 0
	}
	if date == "" {
		date = ref.Format("20060102")
	}
	if clock == "" {
		clock = ref.Format("150405")
	}
	if len(clock) == 5 {
		clock = "0" + clock
	}
	t, err := time.ParseInLocation("20060102150405", date+clock, time.Local)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
