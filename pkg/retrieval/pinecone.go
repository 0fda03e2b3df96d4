// Package retrieval queries a Pinecone serverless index for reference
// chunks that ground conversation analysis. Retrieval is strictly
// best-effort: any failure yields an empty result so the caller can
// proceed without augmentation.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/marcusbk37/go-roleplay/internal/httpc"
	"github.com/marcusbk37/go-roleplay/internal/log"
)

// DefaultTopK is how many chunks a query returns by default.
const DefaultTopK = 3

// Chunk is one retrieved reference passage.
type Chunk struct {
	Text   string  `json:"text"`
	Source string  `json:"source,omitempty"`
	Author string  `json:"author,omitempty"`
	Score  float64 `json:"score,omitempty"`
}

// Retriever fetches reference chunks for a query text.
type Retriever interface {
	Query(ctx context.Context, text string, topK int) []Chunk
}

// Pinecone queries a model-bound serverless index via the records
// search endpoint, which embeds the query text server-side.
type Pinecone struct {
	apiKey    string
	indexHost string
	namespace string
	client    *http.Client
	logger    *slog.Logger
}

// NewPinecone creates a retriever against the given index host, e.g.
// "https://storytelling-abc123.svc.aped-4627-b74a.pinecone.io".
func NewPinecone(apiKey, indexHost, namespace string) *Pinecone {
	if namespace == "" {
		namespace = "stories"
	}
	return &Pinecone{
		apiKey:    apiKey,
		indexHost: indexHost,
		namespace: namespace,
		client:    httpc.Client,
		logger:    log.Component("retrieval"),
	}
}

type searchRequest struct {
	Query struct {
		TopK   int `json:"top_k"`
		Inputs struct {
			Text string `json:"text"`
		} `json:"inputs"`
	} `json:"query"`
	Fields []string `json:"fields"`
}

type searchResponse struct {
	Result struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Score  float64         `json:"_score"`
			Fields json.RawMessage `json:"fields"`
		} `json:"hits"`
	} `json:"result"`
}

// Query returns up to topK chunks relevant to the given text. An empty
// slice is returned on any failure, including missing configuration.
func (p *Pinecone) Query(ctx context.Context, text string, topK int) []Chunk {
	if p.apiKey == "" || p.indexHost == "" {
		p.logger.Debug("retrieval not configured, skipping")
		return []Chunk{}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	var req searchRequest
	req.Query.TopK = topK
	req.Query.Inputs.Text = text
	req.Fields = []string{"text", "source", "author"}

	body, err := json.Marshal(&req)
	if err != nil {
		p.logger.Warn("marshal search request failed", "error", err)
		return []Chunk{}
	}

	url := fmt.Sprintf("%s/records/namespaces/%s/search", p.indexHost, p.namespace)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		p.logger.Warn("create search request failed", "error", err)
		return []Chunk{}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Api-Key", p.apiKey)
	httpReq.Header.Set("X-Pinecone-API-Version", "2025-01")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Warn("search request failed", "error", err)
		return []Chunk{}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logger.Warn("read search response failed", "error", err)
		return []Chunk{}
	}
	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("search returned non-OK status", "status", resp.StatusCode)
		return []Chunk{}
	}

	var out searchResponse
	if err := json.Unmarshal(data, &out); err != nil {
		p.logger.Warn("decode search response failed", "error", err)
		return []Chunk{}
	}

	chunks := make([]Chunk, 0, len(out.Result.Hits))
	for _, hit := range out.Result.Hits {
		var fields struct {
			Text   string `json:"text"`
			Source string `json:"source"`
			Author string `json:"author"`
		}
		if len(hit.Fields) > 0 {
			if err := json.Unmarshal(hit.Fields, &fields); err != nil {
				continue
			}
		}
		if fields.Text == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			Text:   fields.Text,
			Source: fields.Source,
			Author: fields.Author,
			Score:  hit.Score,
		})
	}

	p.logger.Debug("retrieved reference chunks", "count", len(chunks), "top_k", topK)
	return chunks
}

// Static is a fixed-result Retriever for tests.
type Static struct {
	Chunks  []Chunk
	Queries []string
}

func (s *Static) Query(_ context.Context, text string, topK int) []Chunk {
	s.Queries = append(s.Queries, text)
	if len(s.Chunks) > topK && topK > 0 {
		return s.Chunks[:topK]
	}
	return s.Chunks
}
