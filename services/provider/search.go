package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"subresolver/models"
)

// searchRecord mirrors one provider search hit. The provider has shipped
// both numeric and string ids, so id is decoded loosely.
type searchRecord struct {
	ID          flexibleID `json:"id"`
	Language    string     `json:"language"`
	Link        string     `json:"link"`
	Translator  string     `json:"translator"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

type searchResponse struct {
	Status string         `json:"status"`
	Items  []searchRecord `json:"items"`
}

type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id %s: %w", string(data), err)
	}
	if i, err := n.Int64(); err == nil {
		*f = flexibleID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexibleID(n.String())
	return nil
}

// Search returns every subtitle record the provider holds for a catalog id.
// Records without an id are dropped.
func (c *Client) Search(ctx context.Context, mediaID string) ([]models.SubtitleRecord, error) {
	body, err := c.get(ctx, c.endpoint("search", "imdbid", mediaID), maxPageBytes)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", mediaID, err)
	}
	items, err := decodeSearch(body)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", mediaID, err)
	}

	records := make([]models.SubtitleRecord, 0, len(items))
	for _, item := range items {
		record := models.SubtitleRecord{
			ID:          string(item.ID),
			Language:    strings.TrimSpace(item.Language),
			Link:        strings.TrimSpace(item.Link),
			Translator:  strings.TrimSpace(item.Translator),
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(item.Description),
		}
		if !record.Valid() {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// decodeSearch accepts either {"items":[...]} or a bare array.
func decodeSearch(body []byte) ([]searchRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var items []searchRecord
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode search response: %w", err)
		}
		return items, nil
	}
	var resp searchResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return resp.Items, nil
}

// Download fetches the raw archive bytes of one record.
func (c *Client) Download(ctx context.Context, recordID string) ([]byte, error) {
	body, err := c.get(ctx, c.endpoint("subtitle", recordID, "download"), maxArchiveBytes)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", recordID, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("download %s: empty body", recordID)
	}
	return body, nil
}
