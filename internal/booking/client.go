package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/TourHive/booking-flow-backend/internal/store"
	"github.com/TourHive/booking-flow-backend/logger"
	"github.com/TourHive/booking-flow-backend/types"
)

const (
	queryBookingFieldPath = "/Product/QueryBookingField"
	createBookingPath     = "/Booking/"
	saveBookingPath       = "/bookingProduct/save"
)

// BookingResponse is the decoded upstream booking response. The body is
// envelope-unwrapped: a {data: {...}} wrapper, when present, is already
// removed. StatusCode is kept because booking outcomes on error statuses
// still produce save records.
type BookingResponse struct {
	StatusCode int
	Body       map[string]interface{}
}

// APIClient is the upstream booking platform surface the core consumes.
type APIClient interface {
	// QueryBookingField fetches the field schema for a package.
	QueryBookingField(ctx context.Context, prodNo, pkgNo, itemNo string) (*types.FieldSchema, error)
	// CreateBooking posts a sanitized payload to the booking endpoint.
	// An HTTP response of any status is returned as a BookingResponse;
	// only transport-level failures return an error.
	CreateBooking(ctx context.Context, payload map[string]store.FieldValue) (*BookingResponse, error)
	// SaveBookingProduct persists a booking record upstream. Called exactly
	// once per booking cycle; idempotency is the server's responsibility.
	SaveBookingProduct(ctx context.Context, record *types.BookingRecord) (map[string]interface{}, error)
}

// Client is the HTTP implementation of APIClient.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ APIClient = (*Client)(nil)

// NewClient creates an upstream client. The timeout applies to every call;
// a timeout is treated the same as any other transport failure.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	return c.httpClient.Do(req)
}

// QueryBookingField fetches the package field schema. The response may be
// wrapped in a {data: {...}} envelope or flat.
func (c *Client) QueryBookingField(ctx context.Context, prodNo, pkgNo, itemNo string) (*types.FieldSchema, error) {
	log := logger.GetLogger()
	log.Debugw("Fetching booking field schema", "prod_no", prodNo, "pkg_no", pkgNo, "item_no", itemNo)

	resp, err := c.post(ctx, queryBookingFieldPath, map[string]string{
		"prod_no": prodNo,
		"pkg_no":  pkgNo,
		"item_no": itemNo,
	})
	if err != nil {
		log.Errorw("Failed to fetch booking field schema", "error", err, "prod_no", prodNo)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnw("Booking field schema returned non-OK status", "statusCode", resp.StatusCode, "prod_no", prodNo)
		return nil, fmt.Errorf("catalog API returned status: %d", resp.StatusCode)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var schema types.FieldSchema
	if data, ok := raw["data"]; ok {
		err = json.Unmarshal(data, &schema)
	} else {
		whole, marshalErr := json.Marshal(raw)
		if marshalErr != nil {
			return nil, marshalErr
		}
		err = json.Unmarshal(whole, &schema)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode field schema: %w", err)
	}

	log.Debugw("Booking field schema fetched",
		"prod_no", prodNo,
		"custom_fields", len(schema.Custom),
		"traffic_specs", len(schema.Traffics))
	return &schema, nil
}

// CreateBooking posts the payload to the booking endpoint. Responses of any
// HTTP status are decoded and returned; only transport failures error.
func (c *Client) CreateBooking(ctx context.Context, payload map[string]store.FieldValue) (*BookingResponse, error) {
	log := logger.GetLogger()

	resp, err := c.post(ctx, createBookingPath, payload)
	if err != nil {
		log.Errorw("Booking call failed at transport level", "error", err)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// Some error statuses come with empty or non-JSON bodies; the
		// status code alone still drives the save record.
		body = map[string]interface{}{}
	}

	log.Debugw("Booking response received", "statusCode", resp.StatusCode)
	return &BookingResponse{
		StatusCode: resp.StatusCode,
		Body:       unwrapEnvelope(body),
	}, nil
}

// SaveBookingProduct persists the booking record upstream.
func (c *Client) SaveBookingProduct(ctx context.Context, record *types.BookingRecord) (map[string]interface{}, error) {
	log := logger.GetLogger()
	log.Debugw("Saving booking record",
		"guid", record.GUID,
		"order_no", record.OrderNo,
		"is_active", record.IsActive,
		"buyer_email", logger.MaskEmail(record.BuyerEmail))

	resp, err := c.post(ctx, saveBookingPath, record)
	if err != nil {
		log.Errorw("Save call failed at transport level", "error", err, "guid", record.GUID)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warnw("Save call returned non-OK status", "statusCode", resp.StatusCode, "guid", record.GUID)
		return nil, fmt.Errorf("save API returned status: %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		body = map[string]interface{}{}
	}
	return unwrapEnvelope(body), nil
}

// unwrapEnvelope removes a {data: {...}} wrapper when present.
func unwrapEnvelope(body map[string]interface{}) map[string]interface{} {
	if data, ok := body["data"].(map[string]interface{}); ok {
		return data
	}
	return body
}
