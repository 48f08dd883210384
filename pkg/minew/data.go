package minew

import (
	"context"
	"net/url"
	"strconv"
)

// DataService provides product data operations.
type DataService struct {
	client *Client
}

// newDataService creates a new data service.
func newDataService(client *Client) *DataService {
	return &DataService{client: client}
}

// Add uploads a product record to a store and returns its data ID. The
// product fields are sent at the top level of the request beside storeId.
func (s *DataService) Add(ctx context.Context, storeID string, product Product) (string, error) {
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}
	if len(product) == 0 {
		return "", validationErrorf("product data is required")
	}

	body := make(map[string]any, len(product)+1)
	for k, v := range product {
		body[k] = v
	}
	body["storeId"] = storeID

	var resp struct {
		Data struct {
			DataID FlexibleID `json:"dataId"`
		} `json:"data"`
	}

	if err := s.client.post(ctx, "/esl/data/add", body, &resp); err != nil {
		return "", err
	}

	return resp.Data.DataID.String(), nil
}

// Update replaces the fields of a product record and returns the server
// message.
func (s *DataService) Update(ctx context.Context, dataID, storeID string, product Product) (string, error) {
	if dataID == "" {
		return "", validationErrorf("data ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}
	if len(product) == 0 {
		return "", validationErrorf("product data is required")
	}

	body := make(map[string]any, len(product)+2)
	for k, v := range product {
		body[k] = v
	}
	body["id"] = dataID
	body["storeId"] = storeID

	var resp reply
	if err := s.client.put(ctx, "/esl/data/update", body, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// Delete removes a product record from a store and returns the server
// message.
func (s *DataService) Delete(ctx context.Context, dataID, storeID string) (string, error) {
	if dataID == "" {
		return "", validationErrorf("data ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("id", dataID)
	query.Set("storeId", storeID)

	var resp reply
	if err := s.client.get(ctx, "/esl/data/delete", query, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// List returns one page of product records in a store. The optional
// condition filters by product fields such as the name.
func (s *DataService) List(ctx context.Context, storeID string, page, size int, condition string) (*DataPage, error) {
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
		Data DataPage `json:"data"`
	}

	if err := s.client.get(ctx, "/esl/data/list", query, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}

// Bindings returns one page of product records currently bound to labels.
func (s *DataService) Bindings(ctx context.Context, storeID string, page, size int) (*DataPage, error) {
	if storeID == "" {
		return nil, validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("storeId", storeID)
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var resp struct {
		Data DataPage `json:"data"`
	}

	if err := s.client.get(ctx, "/esl/data/bindingList", query, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}
