// Package extractor implements the name extractor: a batched, rate-limited
// client that asks a language model to split folder names into Chinese and
// English show names, release year, and catalog id (spec.md §4.3).
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sorttv/showsort/internal/media"
)

const systemPrompt = `You are a media librarian. Given a JSON array of TV show folder names, ` +
	`return a JSON array of the same length, in the same order, where each element is an object ` +
	`with keys "folder_name", "cn_name", "en_name", "year", and "catalog_id". Use null for any ` +
	`field you cannot determine. Respond with only the JSON array.`

// Config configures the extractor's model access and batching behavior.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	BatchSize int
	// RatePerSecond bounds outbound requests to at most this many per
	// second; RatePerSecond <= 0 disables pacing.
	RatePerSecond float64
}

// Extractor batches folder names into language-model requests and parses
// the structured result back into ExtractedName values, preserving input
// order and correspondence even across model duplicates/omissions/errors
// (spec.md §4.3 contract).
type Extractor struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates an Extractor. httpClient may be nil, in which case a client
// with a 30s timeout is used -- generous because chat completion requests
// can legitimately take several seconds per batch.
func New(cfg Config, httpClient *http.Client) *Extractor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Extractor{cfg: cfg, httpClient: httpClient, limiter: rate.NewLimiter(limit, 1)}
}

// Extract returns one ExtractedName per entry in folders, in the same
// order. A chunk-level failure (network error, malformed response) yields a
// null ExtractedName for every folder in that chunk; processing continues
// with the remaining chunks (spec.md §4.3 failure semantics).
func (x *Extractor) Extract(ctx context.Context, folders []string) ([]media.ExtractedName, error) {
	results := make(map[string]media.ExtractedName, len(folders))

	for start := 0; start < len(folders); start += x.cfg.BatchSize {
		end := start + x.cfg.BatchSize
		if end > len(folders) {
			end = len(folders)
		}
		chunk := folders[start:end]

		if err := x.limiter.Wait(ctx); err != nil {
			for _, f := range chunk {
				results[f] = media.ExtractedName{FolderName: f}
			}
			continue
		}

		parsed, err := x.dispatch(ctx, chunk)
		if err != nil {
			for _, f := range chunk {
				results[f] = media.ExtractedName{FolderName: f}
			}
			continue
		}
		for _, f := range chunk {
			if r, ok := parsed[f]; ok {
				results[f] = r
			} else {
				results[f] = media.ExtractedName{FolderName: f}
			}
		}
	}

	out := make([]media.ExtractedName, len(folders))
	for i, f := range folders {
		out[i] = results[f]
	}
	return out, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// rawEntry mirrors the model's per-folder JSON object before type coercion
// and alias normalization are applied.
type rawEntry struct {
	FolderName string      `json:"folder_name"`
	CNName     interface{} `json:"cn_name"`
	ZHName     interface{} `json:"zh_name"`
	ENName     interface{} `json:"en_name"`
	Year       interface{} `json:"year"`
	CatalogID  interface{} `json:"catalog_id"`
}

func (x *Extractor) dispatch(ctx context.Context, chunk []string) (map[string]media.ExtractedName, error) {
	userPayload, err := json.Marshal(chunk)
	if err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: x.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(userPayload)},
		},
	})
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(x.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+x.cfg.APIKey)

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("extractor: empty response")
	}

	return parseEntries(parsed.Choices[0].Message.Content)
}

// parseEntries locates a JSON array within content -- tolerant of prose the
// model wraps around it -- by finding the first '[' and last ']', then
// normalizes each element into an ExtractedName keyed by folder name.
func parseEntries(content string) (map[string]media.ExtractedName, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("extractor: no JSON array found in response")
	}

	var raws []rawEntry
	if err := json.Unmarshal([]byte(content[start:end+1]), &raws); err != nil {
		return nil, err
	}

	out := make(map[string]media.ExtractedName, len(raws))
	for _, r := range raws {
		name := normalizeKey(r.FolderName)
		en := media.ExtractedName{FolderName: name}

		cn := r.CNName
		if cn == nil {
			cn = r.ZHName
		}
		en.CNName = stringPtr(cn)
		en.ENName = stringPtr(r.ENName)
		en.Year = intPtr(r.Year)
		en.CatalogID = intPtr(r.CatalogID)

		out[name] = en
	}
	return out, nil
}

// normalizeKey strips an echoed "Folder | First file: ..." enrichment the
// model may have carried through from the user prompt, keeping only the
// original folder name as the lookup key (spec.md §4.3 normalization).
func normalizeKey(folderName string) string {
	if idx := strings.Index(folderName, " | "); idx != -1 {
		return folderName[:idx]
	}
	return folderName
}

func stringPtr(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return media.NormalizeEmptyString(s)
}

func intPtr(v interface{}) *int {
	switch t := v.(type) {
	case float64:
		n := int(t)
		return &n
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return nil
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}
