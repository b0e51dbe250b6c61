package couriers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
)

const upsReply = `{
  "trackResponse": {
    "shipment": [
      {
        "package": [
          {
            "activity": [
              {
                "status": {"type": "X", "description": "DELIVERY ATTEMPT - The receiver was unavailable", "code": "48"},
                "location": {"address": {"city": "Reno", "stateProvince": "NV", "countryCode": "US", "postalCode": "89501"}},
                "date": "20240301",
                "time": "134500"
              },
              {
                "status": {"type": "I", "description": "Departed from facility", "code": "21"},
                "location": {"address": {"city": "Sparks", "stateProvince": "NV", "countryCode": "US"}},
                "date": "20240229",
                "time": "081530"
              }
            ],
            "deliveryDate": [{"type": "DEL", "date": "20240302"}],
            "deliveryTime": {"type": "EDW", "startTime": "090000", "endTime": "210000"}
          }
        ]
      }
    ]
  }
}`

func localMillis(t *testing.T, value string) int64 {
	t.Helper()
	parsed, err := time.ParseInLocation("20060102150405", value, time.Local)
	if err != nil {
		t.Fatalf("parsing %q: %v", value, err)
	}
	return parsed.UnixMilli()
}

func TestUPS_Parse(t *testing.T) {
	info, err := NewUPS(nil).Parse([]byte(upsReply))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(info.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(info.Events))
	}

	// An exception whose description mentions a delivery attempt is
	// re-mapped to DELIVERY_ATTEMPTED.
	first := info.Events[0]
	if first.Status != domain.StatusDeliveryAttempted {
		t.Errorf("event 0 status: expected %s, got %s", domain.StatusDeliveryAttempted, first.Status)
	}
	if first.Location != "Reno NV US 89501" {
		t.Errorf("event 0 location: got %q", first.Location)
	}
	if want := localMillis(t, "20240301134500"); first.Time != want {
		t.Errorf("event 0 time: expected %d, got %d", want, first.Time)
	}

	second := info.Events[1]
	if second.Status != domain.StatusInTransit {
		t.Errorf("event 1 status: expected %s, got %s", domain.StatusInTransit, second.Status)
	}
	if second.Location != "Sparks NV US" {
		t.Errorf("event 1 location: got %q", second.Location)
	}

	// EDW delivery window: ETA is the window's end time on the delivery date.
	if want := localMillis(t, "20240302210000"); info.EstimatedDeliveryTime != want {
		t.Errorf("eta: expected %d, got %d", want, info.EstimatedDeliveryTime)
	}
}

func TestUPS_Parse_NonEDWDeliveryWindowHasNoETA(t *testing.T) {
	reply := `{"trackResponse":{"shipment":[{"package":[{
		"activity":[{"status":{"type":"D","description":"Delivered"},"date":"20240301","time":"101500"}],
		"deliveryDate":[{"type":"DEL","date":"20240302"}],
		"deliveryTime":{"type":"CMT","endTime":"210000"}}]}]}}`

	info, err := NewUPS(nil).Parse([]byte(reply))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.EstimatedDeliveryTime != 0 {
		t.Errorf("expected no eta for non-EDW window, got %d", info.EstimatedDeliveryTime)
	}
	if info.Events[0].Status != domain.StatusDelivered {
		t.Errorf("expected DELIVERED, got %s", info.Events[0].Status)
	}
}

func TestUPS_Parse_NotFoundWarning(t *testing.T) {
	reply := `{"trackResponse":{"shipment":[{"warnings":[{"code":"TW","message":"Tracking Information Not Found"}]}]}}`

	_, err := NewUPS(nil).Parse([]byte(reply))
	if !errors.Is(err, domain.ErrTrackingNotFound) {
		t.Errorf("expected ErrTrackingNotFound, got %v", err)
	}
}

func TestUPS_Parse_MissingShipmentIsMalformed(t *testing.T) {
	_, err := NewUPS(nil).Parse([]byte(`{"trackResponse":{"shipment":[]}}`))
	if !errors.Is(err, domain.ErrResponseMalformed) {
		t.Errorf("expected ErrResponseMalformed, got %v", err)
	}
}

func TestUPS_Parse_MissingPackageIsMalformed(t *testing.T) {
	_, err := NewUPS(nil).Parse([]byte(`{"trackResponse":{"shipment":[{}]}}`))
	if !errors.Is(err, domain.ErrResponseMalformed) {
		t.Errorf("expected ErrResponseMalformed, got %v", err)
	}
}

func TestParseUPSTime(t *testing.T) {
	ref := time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local)

	t.Run("date and time", func(t *testing.T) {
		want := time.Date(2024, 3, 5, 13, 45, 0, 0, time.Local).UnixMilli()
		if got := parseUPSTime("20240305", "134500", ref); got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	})

	t.Run("date only defaults to reference clock", func(t *testing.T) {
		want := time.Date(2024, 3, 5, 10, 30, 0, 0, time.Local).UnixMilli()
		if got := parseUPSTime("20240305", "", ref); got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	})

	t.Run("time only defaults to reference date", func(t *testing.T) {
		want := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local).UnixMilli()
		if got := parseUPSTime("", "090000", ref); got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	})

	t.Run("five digit clock is zero padded", func(t *testing.T) {
		want := time.Date(2024, 3, 5, 9, 30, 45, 0, time.Local).UnixMilli()
		if got := parseUPSTime("20240305", "93045", ref); got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	})

	t.Run("both absent", func(t *testing.T) {
		if got := parseUPSTime("", "", ref); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})
}

type stubTokens struct {
	token string
	err   error
	calls int
}

func (s *stubTokens) Token(context.Context) (string, error) {
	s.calls++
	return s.token, s.err
}

func TestUPS_BuildRequest_AccessLicense(t *testing.T) {
	u := NewUPS(nil)

	req, err := u.BuildRequest(context.Background(), "1Z999AA10123456784",
		"https://onlinetools.ups.com/track/v1/details/", CredentialSet{"UPS_ACCESS_LICENSE_NUMBER": "license-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Method != "GET" {
		t.Errorf("expected GET, got %s", req.Method)
	}
	if req.URL != "https://onlinetools.ups.com/track/v1/details/1Z999AA10123456784" {
		t.Errorf("unexpected url: %s", req.URL)
	}
	if req.Header["AccessLicenseNumber"] != "license-1" {
		t.Errorf("expected access license header, got %q", req.Header["AccessLicenseNumber"])
	}
	if req.Header["Accept"] != "application/json" {
		t.Errorf("expected json accept header, got %q", req.Header["Accept"])
	}
}

func TestUPS_BuildRequest_BearerToken(t *testing.T) {
	tokens := &stubTokens{token: "tok-123"}
	u := NewUPS(tokens)

	if creds := u.RequiredCredentials(); len(creds) != 0 {
		t.Errorf("bearer mode must not require env credentials, got %v", creds)
	}

	req, err := u.BuildRequest(context.Background(), "1Z999AA10123456784",
		"https://wwwcie.ups.com/track/v1/details/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Header["Authorization"] != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", req.Header["Authorization"])
	}
	if tokens.calls != 1 {
		t.Errorf("expected 1 token exchange, got %d", tokens.calls)
	}
}

func TestUPS_BuildRequest_TokenExchangeFailure(t *testing.T) {
	u := NewUPS(&stubTokens{err: errors.New("exchange down")})

	_, err := u.BuildRequest(context.Background(), "1Z999AA10123456784", "https://wwwcie.ups.com/track/v1/details/", nil)
	if err == nil {
		t.Fatal("expected error when token exchange fails")
	}
}

func TestUPS_Matches(t *testing.T) {
	u := NewUPS(nil)

	if !u.Matches("1Z999AA10123456784") {
		t.Error("expected 1Z number to match")
	}
	if !u.Matches("1z999aa10123456784") {
		t.Error("matching must be case-insensitive")
	}
	if u.Matches("123456789012") {
		t.Error("expected FedEx express number not to match")
	}
}
