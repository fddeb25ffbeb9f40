package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// PaystackService wraps the two Paystack calls the backend uses:
// transaction initialize and transaction verify. Verification is pull-only,
// triggered by the client after redirect.
type PaystackService struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewPaystackService creates a PaystackService. baseURL is overridable so
// tests can point at a stub server.
func NewPaystackService(secretKey, baseURL string) *PaystackService {
	return &PaystackService{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    http.DefaultClient,
	}
}

// InitializeResult is the client-usable handle for a started transaction.
type InitializeResult struct {
	AccessCode       string `json:"access_code"`
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// VerifyResult reports the gateway's view of a transaction.
type VerifyResult struct {
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransaction starts a transaction for email over amount (in the
// gateway's minor currency unit) and returns the access code.
func (s *PaystackService) InitializeTransaction(email string, amount int64) (*InitializeResult, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"email":  email,
		"amount": amount,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	var result InitializeResult
	if err := s.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyTransaction fetches the gateway's record for a reference. Callers
// must still compare the paid amount against the expected amount.
func (s *PaystackService) VerifyTransaction(reference string) (*VerifyResult, error) {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	var result VerifyResult
	if err := s.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *PaystackService) do(req *http.Request, out interface{}) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding gateway response: %w", err)
	}

	if !envelope.Status {
		return fmt.Errorf("gateway error: %s", envelope.Message)
	}

	return json.Unmarshal(envelope.Data, out)
}
