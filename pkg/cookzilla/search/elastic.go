package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/elastic/go-elasticsearch/v8"
)

// Elastic indexes recipe title and body in Elasticsearch.
type Elastic struct {
	client *elasticsearch.Client
	index  string
}

// NewElastic connects to the given cluster addresses.
func NewElastic(addresses []string, index string) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &Elastic{client: client, index: index}, nil
}

type recipeDocument struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Index writes or overwrites the recipe's document.
func (e *Elastic) Index(ctx context.Context, recipe *models.Recipe) error {
	data, err := json.Marshal(recipeDocument{Title: recipe.Title, Body: recipe.Body})
	if err != nil {
		return fmt.Errorf("failed to marshal recipe document: %w", err)
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(data),
		e.client.Index.WithDocumentID(strconv.FormatUint(uint64(recipe.ID), 10)),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index recipe: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return nil
}

// Query runs a multi_match over title and body and returns recipe ids
// in relevance order.
func (e *Elastic) Query(ctx context.Context, text string, limit int) ([]uint, error) {
	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"title", "body"},
			},
		},
		"_source": false,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var result esResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	ids := make([]uint, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// esResponse is the generic Elasticsearch search response structure.
type esResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}
