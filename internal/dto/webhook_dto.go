package dto

// WebhookAck is returned for every authenticated provider event so the
// provider stops redelivering it.
type WebhookAck struct {
	Received bool `json:"received"`
}
