// Package generate turns a product description into stored landing page
// content, using an LLM provider for copy and, where available, images.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/allsetlabs/allset/internal/content"
	"github.com/allsetlabs/allset/internal/llm"
)

// Service generates and stores landing content.
type Service struct {
	provider  llm.Provider
	store     *content.Store
	assetsDir string
}

// NewService creates a generation service. assetsDir is where rendered
// images are written; it is served under /assets/.
func NewService(provider llm.Provider, store *content.Store, assetsDir string) *Service {
	return &Service{provider: provider, store: store, assetsDir: assetsDir}
}

// GenerateContent produces a full landing content document for the
// description, renders its image prompts, and saves it under slug.
func (s *Service) GenerateContent(ctx context.Context, slug, description string, pt content.PageType) (*content.Document, error) {
	system, user := contentPrompt(description, pt)
	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		Temperature: 0.7,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	var doc content.Document
	if err := json.Unmarshal([]byte(strip(resp.Content)), &doc); err != nil {
		return nil, fmt.Errorf("model returned invalid content JSON: %w", err)
	}
	// The model echoes the page type; trust the request over the echo.
	doc.PageType = pt

	s.renderImages(ctx, &doc)

	if err := s.store.SaveFor(ctx, slug, &doc); err != nil {
		return nil, fmt.Errorf("saving generated content: %w", err)
	}
	return &doc, nil
}

// GenerateBlogTitles suggests count blog post titles for a description.
func (s *Service) GenerateBlogTitles(ctx context.Context, description string, count int) ([]string, error) {
	if count <= 0 {
		count = 10
	}
	system, user := blogTitlesPrompt(description, count)
	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		Temperature: 0.9,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("generating blog titles: %w", err)
	}

	var out struct {
		Titles []string `json:"titles"`
	}
	if err := json.Unmarshal([]byte(strip(resp.Content)), &out); err != nil {
		return nil, fmt.Errorf("model returned invalid titles JSON: %w", err)
	}
	if len(out.Titles) == 0 {
		return nil, errors.New("model returned no titles")
	}
	return out.Titles, nil
}

// renderImages walks the document's sections and renders every
// "imagePrompt" into a stored image, setting the sibling "image" field
// to its served path. Image failures degrade to text-only content.
func (s *Service) renderImages(ctx context.Context, doc *content.Document) {
	for i, sec := range doc.Sections {
		var node any
		if err := json.Unmarshal(sec.Content, &node); err != nil {
			continue
		}
		if !s.fillImages(ctx, node) {
			continue
		}
		updated, err := json.Marshal(node)
		if err != nil {
			continue
		}
		doc.Sections[i].Content = updated
	}
}

// fillImages recursively visits maps and arrays, generating an image
// for each non-empty imagePrompt. Reports whether anything changed.
func (s *Service) fillImages(ctx context.Context, node any) bool {
	changed := false
	switch v := node.(type) {
	case map[string]any:
		if prompt, ok := v["imagePrompt"].(string); ok && prompt != "" {
			if path, err := s.renderImage(ctx, prompt); err == nil {
				v["image"] = path
				changed = true
			} else if !errors.Is(err, llm.ErrNoImageSupport) {
				log.Printf("generate: image for %q: %v", prompt, err)
			}
		}
		for _, child := range v {
			if s.fillImages(ctx, child) {
				changed = true
			}
		}
	case []any:
		for _, child := range v {
			if s.fillImages(ctx, child) {
				changed = true
			}
		}
	}
	return changed
}

// renderImage generates one image and writes it under the assets dir,
// returning its served path.
func (s *Service) renderImage(ctx context.Context, prompt string) (string, error) {
	resp, err := s.provider.GenerateImage(ctx, llm.ImageRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		// Hosted URL with no payload: reference it directly.
		if resp.URL != "" {
			return resp.URL, nil
		}
		return "", errors.New("image response was empty")
	}

	if err := os.MkdirAll(s.assetsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating assets dir: %w", err)
	}
	name := uuid.New().String() + ".png"
	if err := os.WriteFile(filepath.Join(s.assetsDir, name), resp.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	return "/assets/" + name, nil
}

// strip removes a markdown code fence if the model wrapped its JSON in
// one despite JSON mode.
func strip(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
