package minew

import (
	"context"
	"net/url"
	"strconv"
)

// StoreService provides store management operations.
type StoreService struct {
	client *Client
}

// newStoreService creates a new store service.
func newStoreService(client *Client) *StoreService {
	return &StoreService{client: client}
}

// Add creates a new store and returns its ID.
//
// The number is the account-wide unique store identifier.
func (s *StoreService) Add(ctx context.Context, number, name, address string) (string, error) {
	if number == "" {
		return "", validationErrorf("store number is required")
	}
	if name == "" {
		return "", validationErrorf("store name is required")
	}

	body := struct {
		Number  string `json:"number"`
		Name    string `json:"name"`
		Address string `json:"address"`
	}{
		Number:  number,
		Name:    name,
		Address: address,
	}

	var resp struct {
		Data struct {
			StoreID FlexibleID `json:"storeId"`
		} `json:"data"`
	}

	if err := s.client.post(ctx, "/esl/store/add", body, &resp); err != nil {
		return "", err
	}

	return resp.Data.StoreID.String(), nil
}

// Update modifies an existing store and returns the server message.
//
// active is StoreOpen or StoreClosed.
func (s *StoreService) Update(ctx context.Context, id, name, address string, active int) (string, error) {
	if id == "" {
		return "", validationErrorf("store ID is required")
	}

	body := struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
		Active  int    `json:"active"`
	}{
		ID:      id,
		Name:    name,
		Address: address,
		Active:  active,
	}

	var resp reply
	if err := s.client.put(ctx, "/esl/store/update", body, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// SetActive opens (StoreOpen) or closes (StoreClosed) a store and returns
// the server message. Any other active value is rejected locally.
func (s *StoreService) SetActive(ctx context.Context, id string, active int) (string, error) {
	if id == "" {
		return "", validationErrorf("store ID is required")
	}
	if active != StoreClosed && active != StoreOpen {
		return "", validationErrorf("active must be 0 or 1, got %d", active)
	}

	query := url.Values{}
	query.Set("storeId", id)
	query.Set("active", strconv.Itoa(active))

	var resp reply
	if err := s.client.get(ctx, "/esl/store/openOrClose", query, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// List returns stores matching the given active state. The optional
// condition filters by store name, number or address.
func (s *StoreService) List(ctx context.Context, active int, condition string) ([]Store, error) {
	query := url.Values{}
	query.Set("active", strconv.Itoa(active))
	if condition != "" {
		query.Set("condition", condition)
	}

	var resp struct {
		Data []Store `json:"data"`
	}

	if err := s.client.get(ctx, "/esl/store/list", query, &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

// Warnings returns the open device warnings for a store. The optional
// screening narrows the result to one event family.
func (s *StoreService) Warnings(ctx context.Context, storeID string, screening Screening) ([]Warning, error) {
	if storeID == "" {
		return nil, validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("storeId", storeID)
	if screening != "" {
		query.Set("screening", string(screening))
	}

	var resp struct {
		Data struct {
			Warnings []Warning `json:"warnings"`
		} `json:"data"`
	}

	if err := s.client.get(ctx, "/esl/warning/findAllWarnings", query, &resp); err != nil {
		return nil, err
	}

	return resp.Data.Warnings, nil
}

// Logs returns one page of operation logs for a store.
func (s *StoreService) Logs(ctx context.Context, q LogQuery) (*LogPage, error) {
	if q.StoreID == "" {
		return nil, validationErrorf("store ID is required")
	}
	if q.ObjectType == "" {
		return nil, validationErrorf("object type is required")
	}

	var resp struct {
		Data LogPage `json:"data"`
	}

	if err := s.client.post(ctx, "/esl/logs/queryList", q, &resp); err != nil {
		return nil, err
	}

	return &resp.Data, nil
}
