package minew

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// LabelService provides label operations.
type LabelService struct {
	client *Client
}

// newLabelService creates a new label service.
func newLabelService(client *Client) *LabelService {
	return &LabelService{client: client}
}

// Add registers a label and returns its ID. demoName selects the template
// the label starts out with.
func (s *LabelService) Add(ctx context.Context, mac, storeID, demoName string) (string, error) {
	if mac == "" {
		return "", validationErrorf("label MAC is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	body := struct {
		MAC      string `json:"mac"`
		StoreID  string `json:"storeId"`
		DemoName string `json:"demoName"`
	}{
		MAC:      mac,
		StoreID:  storeID,
		DemoName: demoName,
	}

	var resp struct {
		Data json.RawMessage `json:"data"`
	}

	if err := s.client.post(ctx, "/esl/label/add", body, &resp); err != nil {
		return "", err
	}

	// Some deployments return a bare string or null in data here. Anything
	// that is not the expected object yields an empty ID, not an error.
	var data struct {
		LabelID FlexibleID `json:"labelId"`
	}
	if len(resp.Data) == 0 || json.Unmarshal(resp.Data, &data) != nil {
		return "", nil
	}

	return data.LabelID.String(), nil
}

// List returns one page of labels in a store. The optional condition
// filters by label MAC or name.
func (s *LabelService) List(ctx context.Context, storeID string, page, size int, condition string) (*LabelPage, error) {
	if storeID == "" {
		return nil, validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("storeId", storeID)
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	if condition != "" {
		query.Set("condition", condition)
	}

	var resp struct {
		Data LabelPage `json:"data"`
	}

	if err := s.client.get(ctx, "/esl/label/list", query, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}

// Delete removes a label from a store and returns the server message.
func (s *LabelService) Delete(ctx context.Context, labelID, storeID string) (string, error) {
	if labelID == "" {
		return "", validationErrorf("label ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("id", labelID)
	query.Set("storeId", storeID)

	var resp reply
	if err := s.client.get(ctx, "/esl/label/delete", query, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// Update renames a label and returns the server message.
func (s *LabelService) Update(ctx context.Context, labelID, name string) (string, error) {
	if labelID == "" {
		return "", validationErrorf("label ID is required")
	}

	body := struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   labelID,
		Name: name,
	}

	var resp reply
	if err := s.client.post(ctx, "/esl/label/update", body, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// Bind associates a label with a product data record and returns the
// server message. The label display refreshes with the bound data.
func (s *LabelService) Bind(ctx context.Context, labelID, dataID, storeID string) (string, error) {
	if labelID == "" {
		return "", validationErrorf("label ID is required")
	}
	if dataID == "" {
		return "", validationErrorf("data ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	body := struct {
		LabelID string `json:"labelId"`
		DataID  string `json:"dataId"`
		StoreID string `json:"storeId"`
	}{
		LabelID: labelID,
		DataID:  dataID,
		StoreID: storeID,
	}

	var resp reply
	if err := s.client.post(ctx, "/esl/label/binding", body, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// Unbind dissolves a label's product association and returns the server
// message.
func (s *LabelService) Unbind(ctx context.Context, labelID, storeID string) (string, error) {
	if labelID == "" {
		return "", validationErrorf("label ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("labelId", labelID)
	query.Set("storeId", storeID)

	var resp reply
	if err := s.client.get(ctx, "/esl/label/unbinding", query, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// Refresh redraws the displays of the given labels and returns the server
// message.
func (s *LabelService) Refresh(ctx context.Context, labelIDs []string, storeID string) (string, error) {
	if len(labelIDs) == 0 {
		return "", validationErrorf("at least one label ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	body := struct {
		LabelIDs []string `json:"labelIds"`
		StoreID  string   `json:"storeId"`
	}{
		LabelIDs: labelIDs,
		StoreID:  storeID,
	}

	var resp reply
	if err := s.client.post(ctx, "/esl/label/refresh", body, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// Upgrade flashes the given labels to a firmware version and returns the
// server message.
func (s *LabelService) Upgrade(ctx context.Context, labelIDs []string, storeID, firmwareVersion string) (string, error) {
	if len(labelIDs) == 0 {
		return "", validationErrorf("at least one label ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}
	if firmwareVersion == "" {
		return "", validationErrorf("firmware version is required")
	}

	body := struct {
		LabelIDs        []string `json:"labelIds"`
		StoreID         string   `json:"storeId"`
		FirmwareVersion string   `json:"firmwareVersion"`
	}{
		LabelIDs:        labelIDs,
		StoreID:         storeID,
		FirmwareVersion: firmwareVersion,
	}

	var resp reply
	if err := s.client.post(ctx, "/esl/label/upgrade", body, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// FindByMac looks up a label by MAC address. When the platform has no
// record of the MAC it returns an empty Label rather than an error.
func (s *LabelService) FindByMac(ctx context.Context, mac, storeID string) (*Label, error) {
	if mac == "" {
		return nil, validationErrorf("label MAC is required")
	}
	if storeID == "" {
		return nil, validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("mac", mac)
	query.Set("storeId", storeID)

	var resp struct {
		Data json.RawMessage `json:"data"`
	}

	if err := s.client.get(ctx, "/esl/label/findByMac", query, &resp); err != nil {
		return nil, err
	}

	var label Label
	if len(resp.Data) == 0 || json.Unmarshal(resp.Data, &label) != nil {
		return &Label{}, nil
	}

	return &label, nil
}

// Flash drives the label LED for visual identification and returns the
// server message. mode is FlashBlinking or FlashStatic.
func (s *LabelService) Flash(ctx context.Context, labelID, storeID string, mode int) (string, error) {
	if labelID == "" {
		return "", validationErrorf("label ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	body := struct {
		LabelID   string `json:"labelId"`
		StoreID   string `json:"storeId"`
		FlashMode int    `json:"flashMode"`
	}{
		LabelID:   labelID,
		StoreID:   storeID,
		FlashMode: mode,
	}

	var resp reply
	if err := s.client.post(ctx, "/esl/label/flash", body, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}
