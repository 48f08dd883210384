package minew

import (
	"context"
	"net/url"
	"strconv"
)

// GatewayService provides gateway management operations.
type GatewayService struct {
	client *Client
}

// newGatewayService creates a new gateway service.
func newGatewayService(client *Client) *GatewayService {
	return &GatewayService{client: client}
}

// Add registers a gateway in a store and returns the server message.
func (s *GatewayService) Add(ctx context.Context, mac, name, storeID string) (string, error) {
	if mac == "" {
		return "", validationErrorf("gateway MAC is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	body := struct {
		MAC     string `json:"mac"`
		Name    string `json:"name"`
		StoreID string `json:"storeId"`
	}{
		MAC:     mac,
		Name:    name,
		StoreID: storeID,
	}

	var resp reply
	if err := s.client.post(ctx, "/esl/gateway/add", body, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// Delete removes a gateway from a store and returns the server message.
func (s *GatewayService) Delete(ctx context.Context, gatewayID, storeID string) (string, error) {
	if gatewayID == "" {
		return "", validationErrorf("gateway ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("id", gatewayID)
	query.Set("storeId", storeID)

	var resp reply
	if err := s.client.get(ctx, "/esl/gateway/delete", query, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// List returns one page of gateways in a store.
func (s *GatewayService) List(ctx context.Context, storeID string, page, size int) ([]Gateway, error) {
	if storeID == "" {
		return nil, validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("storeId", storeID)
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	// This endpoint puts the item array at the top level of the response,
	// not under data like the other list endpoints.
	var resp struct {
		Page
		Items []Gateway `json:"items"`
	}

	if err := s.client.get(ctx, "/esl/gateway/listPage", query, &resp); err != nil {
		return nil, err
	}

	return resp.Items, nil
}

// Update renames a gateway and returns the server message.
func (s *GatewayService) Update(ctx context.Context, gatewayID, name string) (string, error) {
	if gatewayID == "" {
		return "", validationErrorf("gateway ID is required")
	}

	body := struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   gatewayID,
		Name: name,
	}

	var resp reply
	if err := s.client.post(ctx, "/esl/gateway/update", body, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// Restart reboots a gateway and returns the server message.
func (s *GatewayService) Restart(ctx context.Context, gatewayID, storeID string) (string, error) {
	if gatewayID == "" {
		return "", validationErrorf("gateway ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("id", gatewayID)
	query.Set("storeId", storeID)

	var resp reply
	if err := s.client.get(ctx, "/esl/gateway/restart", query, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// Upgrade flashes a gateway to the given firmware version and returns the
// server message.
func (s *GatewayService) Upgrade(ctx context.Context, gatewayID, storeID, firmwareVersion string) (string, error) {
	if gatewayID == "" {
		return "", validationErrorf("gateway ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}
	if firmwareVersion == "" {
		return "", validationErrorf("firmware version is required")
	}

	body := struct {
		GatewayID       string `json:"gatewayId"`
		StoreID         string `json:"storeId"`
		FirmwareVersion string `json:"firmwareVersion"`
	}{
		GatewayID:       gatewayID,
		StoreID:         storeID,
		FirmwareVersion: firmwareVersion,
	}

	var resp reply
	if err := s.client.post(ctx, "/esl/gateway/upgrade", body, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}
