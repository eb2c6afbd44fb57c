package request

import "encoding/json"

// PaymentRequest carries the provider payload forwarded to the payment gateway.
// The transaction amount is never accepted from the client; the service always
// charges the project's frozen final price.
type PaymentRequest struct {
	ProviderPayload json.RawMessage `json:"provider_payload"`
}
