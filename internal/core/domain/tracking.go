package domain

// TrackingStatus is the carrier-independent lifecycle stage of a package.
// The zero value means the carrier's native code could not be translated.
type TrackingStatus string

const (
	StatusLabelCreated      TrackingStatus = "LABEL_CREATED"
	StatusInTransit         TrackingStatus = "IN_TRANSIT"
	StatusOutForDelivery    TrackingStatus = "OUT_FOR_DELIVERY"
	StatusDeliveryAttempted TrackingStatus = "DELIVERY_ATTEMPTED"
	StatusReturnedToSender  TrackingStatus = "RETURNED_TO_SENDER"
	StatusException         TrackingStatus = "EXCEPTION"
	StatusDelivered         TrackingStatus = "DELIVERED"
)

// TrackingEvent is one scan/activity record normalised from a carrier
// response. All fields are optional; a zero value means the carrier did not
// supply the field. Time is milliseconds since the Unix epoch.
type TrackingEvent struct {
	Status   TrackingStatus `json:"status,omitempty"`
	Label    string         `json:"label,omitempty"`
	Location string         `json:"location,omitempty"`
	Time     int64          `json:"time,omitempty"`
}

// TrackingInfo is the normalised result of one track call. Events keep the
// order the carrier returned them in, which is not guaranteed chronological.
type TrackingInfo struct {
	Events                []TrackingEvent `json:"events"`
	EstimatedDeliveryTime int64           `json:"estimated_delivery_time,omitempty"`
}

// Environment selects a courier's dev or prod endpoint.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// RequestDescriptor describes a single outbound carrier API call.
type RequestDescriptor struct {
	Method string
	URL    string
	Header map[string]string
	Body   []byte
}
