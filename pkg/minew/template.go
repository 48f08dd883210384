package minew

import (
	"context"
	"net/url"
	"strconv"
)

// TemplateService provides display template operations.
type TemplateService struct {
	client *Client
}

// newTemplateService creates a new template service.
func newTemplateService(client *Client) *TemplateService {
	return &TemplateService{client: client}
}

// List returns the templates matching the query.
func (s *TemplateService) List(ctx context.Context, q TemplateQuery) ([]Template, error) {
	if q.StoreID == "" {
		return nil, validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("storeId", q.StoreID)
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("size", strconv.Itoa(q.Size))
	query.Set("screening", strconv.Itoa(q.Screening))
	if q.Inch != 0 {
		query.Set("inch", strconv.FormatFloat(q.Inch, 'f', -1, 64))
	}
	if q.Color != "" {
		query.Set("color", q.Color)
	}
	if q.Fuzzy != "" {
		query.Set("fuzzy", q.Fuzzy)
	}

	// Template rows come back under data.rows, unlike the items field the
	// other list endpoints use.
	var resp struct {
		Data struct {
			Rows []Template `json:"rows"`
		} `json:"data"`
	}

	if err := s.client.get(ctx, "/esl/template/findAll", query, &resp); err != nil {
		return nil, err
	}

	return resp.Data.Rows, nil
}

// Preview renders a template without product data and returns the image as
// a base64 string.
func (s *TemplateService) Preview(ctx context.Context, demoName string) (string, error) {
	if demoName == "" {
		return "", validationErrorf("template name is required")
	}

	body := struct {
		DemoName string `json:"demoName"`
	}{
		DemoName: demoName,
	}

	var resp struct {
		Data string `json:"data"`
	}

	if err := s.client.post(ctx, "/esl/template/previewTemplate", body, &resp); err != nil {
		return "", err
	}

	return resp.Data, nil
}

// PreviewWithData renders a template filled with a bound product data
// record and returns the image as a base64 string.
func (s *TemplateService) PreviewWithData(ctx context.Context, demoName, dataID, storeID string) (string, error) {
	if demoName == "" {
		return "", validationErrorf("template name is required")
	}
	if dataID == "" {
		return "", validationErrorf("data ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	body := struct {
		DemoName string `json:"demoName"`
		ID       string `json:"id"`
		StoreID  string `json:"storeId"`
	}{
		DemoName: demoName,
		ID:       dataID,
		StoreID:  storeID,
	}

	var resp struct {
		Data string `json:"data"`
	}

	if err := s.client.post(ctx, "/esl/template/preview", body, &resp); err != nil {
		return "", err
	}

	return resp.Data, nil
}

// Add uploads a template to a store and returns its ID. content is the
// template definition as exported by the platform designer.
func (s *TemplateService) Add(ctx context.Context, storeID, name, content string) (string, error) {
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}
	if name == "" {
		return "", validationErrorf("template name is required")
	}

	body := struct {
		StoreID      string `json:"storeId"`
		TemplateName string `json:"templateName"`
		Content      string `json:"content"`
	}{
		StoreID:      storeID,
		TemplateName: name,
		Content:      content,
	}

	var resp struct {
		Data struct {
			TemplateID FlexibleID `json:"templateId"`
		} `json:"data"`
	}

	if err := s.client.post(ctx, "/esl/template/add", body, &resp); err != nil {
		return "", err
	}

	return resp.Data.TemplateID.String(), nil
}

// Update replaces a template's name and content and returns the server
// message.
func (s *TemplateService) Update(ctx context.Context, templateID, storeID, name, content string) (string, error) {
	if templateID == "" {
		return "", validationErrorf("template ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	body := struct {
		ID           string `json:"id"`
		StoreID      string `json:"storeId"`
		TemplateName string `json:"templateName"`
		Content      string `json:"content"`
	}{
		ID:           templateID,
		StoreID:      storeID,
		TemplateName: name,
		Content:      content,
	}

	var resp reply
	if err := s.client.put(ctx, "/esl/template/update", body, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}

// Delete removes a template from a store and returns the server message.
func (s *TemplateService) Delete(ctx context.Context, templateID, storeID string) (string, error) {
	if templateID == "" {
		return "", validationErrorf("template ID is required")
	}
	if storeID == "" {
		return "", validationErrorf("store ID is required")
	}

	query := url.Values{}
	query.Set("id", templateID)
	query.Set("storeId", storeID)

	var resp reply
	if err := s.client.get(ctx, "/esl/template/delete", query, &resp); err != nil {
		return "", err
	}

	return resp.text(), nil
}
