package couriers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
)

const uspsReply = `<?xml version="1.0" encoding="UTF-8"?>
<TrackResponse>
<TrackInfo ID="9400111899220000000000">
<ExpectedDeliveryDate>March 1, 2024</ExpectedDeliveryDate>
<TrackSummary>
<Event>Out for Delivery</Event>
<EventCode>59</EventCode>
<EventCity>RENO</EventCity>
<EventState>NV</EventState>
<EventCountry/>
<EventZIPCode>89501</EventZIPCode>
<EventDate>March 1, 2024</EventDate>
<EventTime>7:14 am</EventTime>
</TrackSummary>
<TrackDetail>
<Event>Arrived at Post Office</Event>
<EventCode>07</EventCode>
<EventCity>RENO</EventCity>
<EventState>NV</EventState>
<EventCountry/>
<EventZIPCode>89501</EventZIPCode>
<EventDate>February 29, 2024</EventDate>
<EventTime>9:55 pm</EventTime>
</TrackDetail>
</TrackInfo>
</TrackResponse>`

func TestUSPS_Parse(t *testing.T) {
	info, err := NewUSPS().Parse([]byte(uspsReply))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(info.Events) != 2 {
		t.Fatalf("expected 2 events (summary + detail), got %d", len(info.Events))
	}

	summary := info.Events[0]
	if summary.Status != domain.StatusOutForDelivery {
		t.Errorf("summary status: expected %s, got %s", domain.StatusOutForDelivery, summary.Status)
	}
	if summary.Label != "Out for Delivery" {
		t.Errorf("summary label: got %q", summary.Label)
	}
	if summary.Location != "RENO NV 89501" {
		t.Errorf("summary location: got %q", summary.Location)
	}
	if want := time.Date(2024, 3, 1, 7, 14, 0, 0, time.Local).UnixMilli(); summary.Time != want {
		t.Errorf("summary time: expected %d, got %d", want, summary.Time)
	}

	// 07 is not in the status table; USPS's documented default applies.
	detail := info.Events[1]
	if detail.Status != domain.StatusInTransit {
		t.Errorf("detail status: expected default %s, got %s", domain.StatusInTransit, detail.Status)
	}

	// Not yet delivered: ETA is the expected date at 21:00 local.
	if want := time.Date(2024, 3, 1, 21, 0, 0, 0, time.Local).UnixMilli(); info.EstimatedDeliveryTime != want {
		t.Errorf("eta: expected %d, got %d", want, info.EstimatedDeliveryTime)
	}
}

func TestUSPS_Parse_ISOExpectedDeliveryDate(t *testing.T) {
	reply := `<TrackResponse><TrackInfo>
<ExpectedDeliveryDate>2024-03-01</ExpectedDeliveryDate>
<TrackSummary><Event>In Transit</Event><EventCode>10</EventCode><EventDate>February 28, 2024</EventDate><EventTime>1:00 pm</EventTime></TrackSummary>
</TrackInfo></TrackResponse>`

	info, err := NewUSPS().Parse([]byte(reply))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2024, 3, 1, 21, 0, 0, 0, time.Local).UnixMilli()
	if info.EstimatedDeliveryTime != want {
		t.Errorf("eta: expected 2024-03-01T21:00 local (%d), got %d", want, info.EstimatedDeliveryTime)
	}
}

func TestUSPS_Parse_DeliveredUsesEventTimeAsETA(t *testing.T) {
	reply := `<TrackResponse><TrackInfo>
<ExpectedDeliveryDate>March 1, 2024</ExpectedDeliveryDate>
<TrackSummary><Event>Delivered, In/At Mailbox</Event><EventCode>01</EventCode><EventDate>March 1, 2024</EventDate><EventTime>2:39 pm</EventTime></TrackSummary>
</TrackInfo></TrackResponse>`

	info, err := NewUSPS().Parse([]byte(reply))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	delivered := time.Date(2024, 3, 1, 14, 39, 0, 0, time.Local).UnixMilli()
	if info.EstimatedDeliveryTime != delivered {
		t.Errorf("eta must be the delivery event time %d, got %d", delivered, info.EstimatedDeliveryTime)
	}
}

func TestUSPS_Parse_LabelCreatedErrorCodeIsSuccess(t *testing.T) {
	reply := `<TrackResponse><TrackInfo>
<Error><Number>-2147219283</Number><Description>A status update is not yet available on your package.</Description></Error>
</TrackInfo></TrackResponse>`

	info, err := NewUSPS().Parse([]byte(reply))
	if err != nil {
		t.Fatalf("label-created code must not be an error, got %v", err)
	}
	if len(info.Events) != 1 {
		t.Fatalf("expected a single event, got %d", len(info.Events))
	}
	if info.Events[0].Status != domain.StatusLabelCreated {
		t.Errorf("expected %s, got %s", domain.StatusLabelCreated, info.Events[0].Status)
	}
}

func TestUSPS_Parse_OtherErrorCodeIsCarrierError(t *testing.T) {
	reply := `<TrackResponse><TrackInfo>
<Error><Number>-2147219302</Number><Description>The tracking number may be incorrect.</Description></Error>
</TrackInfo></TrackResponse>`

	_, err := NewUSPS().Parse([]byte(reply))
	if !errors.Is(err, domain.ErrCarrierReported) {
		t.Errorf("expected ErrCarrierReported, got %v", err)
	}
}

func TestUSPS_Parse_TopLevelErrorDocument(t *testing.T) {
	reply := `<Error><Number>80040B1A</Number><Description>Authorization failure.</Description></Error>`

	_, err := NewUSPS().Parse([]byte(reply))
	if !errors.Is(err, domain.ErrCarrierReported) {
		t.Errorf("expected ErrCarrierReported, got %v", err)
	}
}

func TestUSPS_Parse_MissingTrackInfoIsMalformed(t *testing.T) {
	_, err := NewUSPS().Parse([]byte(`<TrackResponse></TrackResponse>`))
	if !errors.Is(err, domain.ErrResponseMalformed) {
		t.Errorf("expected ErrResponseMalformed, got %v", err)
	}
}

func TestUSPS_BuildRequest(t *testing.T) {
	req, err := NewUSPS().BuildRequest(context.Background(), "9400111899220000000000",
		"https://production.shippingapis.com/ShippingAPI.dll", CredentialSet{"USPS_USER_ID": "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Method != "GET" {
		t.Errorf("expected GET, got %s", req.Method)
	}
	if !strings.HasPrefix(req.URL, "https://production.shippingapis.com/ShippingAPI.dll?API=TrackV2&XML=") {
		t.Errorf("unexpected url: %s", req.URL)
	}
	// The request document travels URL-encoded inside the query string.
	if !strings.Contains(req.URL, "USERID%3D%22user-1%22") {
		t.Errorf("url missing encoded user id: %s", req.URL)
	}
	if !strings.Contains(req.URL, "9400111899220000000000") {
		t.Errorf("url missing tracking number: %s", req.URL)
	}
}

func TestUSPS_Matches(t *testing.T) {
	u := NewUSPS()

	for _, number := range []string{"9400111899220000000000", "9205590164917312751089", "EC123456789US", "RA123456789CN"} {
		if !u.Matches(number) {
			t.Errorf("expected %q to match", number)
		}
	}
	for _, number := range []string{"1Z999AA10123456784", "123456789012", "hello"} {
		if u.Matches(number) {
			t.Errorf("expected %q not to match", number)
		}
	}
}
