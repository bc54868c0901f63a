package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github-radar/internal/project"
)

// Analyzer generates a short narrative per project by calling an
// OpenAI-compatible chat-completions endpoint. It never fails a run: a
// project whose analysis errors out gets a placeholder string instead.
type Analyzer struct {
	cfg       Config
	client    *http.Client
	retryBase time.Duration
}

type Config struct {
	APIKey    string
	APIURL    string
	Model     string
	MaxTokens int

	// RequestInterval spaces consecutive calls so a small quota survives
	// a whole batch.
	RequestInterval time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func New(cfg Config) *Analyzer {
	if cfg.RequestInterval == 0 {
		cfg.RequestInterval = 3 * time.Second
	}
	return &Analyzer{
		cfg:       cfg,
		client:    &http.Client{Timeout: 30 * time.Second},
		retryBase: 2 * time.Second,
	}
}

// AnalyzeProjects enriches every project serially, in order. The input
// slice is not modified.
func (a *Analyzer) AnalyzeProjects(ctx context.Context, projects []project.Scored) []project.Scored {
	log.Printf("🚀 Analyzing %d projects", len(projects))

	results := make([]project.Scored, 0, len(projects))
	for i, p := range projects {
		log.Printf("🔍 Analyzing %d/%d | %s", i+1, len(projects), p.Name)

		analysis, err := a.analyzeProject(ctx, p)
		if err != nil {
			log.Printf("❌ Analysis failed for %s: %v", p.Name, err)
			analysis = fmt.Sprintf("Analysis unavailable (%v). See %s for details.", err, p.URL)
		}
		p.Analysis = analysis
		results = append(results, p)

		if i < len(projects)-1 {
			select {
			case <-time.After(a.cfg.RequestInterval):
			case <-ctx.Done():
				log.Printf("⚠️ Analysis interrupted: %v", ctx.Err())
				return append(results, projects[i+1:]...)
			}
		}
	}

	log.Printf("🎉 Analysis complete | %d projects", len(results))
	return results
}

func (a *Analyzer) analyzeProject(ctx context.Context, p project.Scored) (string, error) {
	prompt := buildPrompt(sanitizeCopy(p))

	var analysis string
	backoff := retry.WithMaxRetries(3, retry.NewExponential(a.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		raw, err := a.complete(ctx, prompt)
		if err != nil {
			return retry.RetryableError(err)
		}
		analysis = formatAnalysis(raw)
		return nil
	})
	if err != nil {
		return "", err
	}
	return analysis, nil
}

func (a *Analyzer) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       a.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: 0.7,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.APIURL, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", err
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("API error %d: %s", chatResp.Error.Code, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return chatResp.Choices[0].Message.Content, nil
}

func buildPrompt(p project.Scored) string {
	return fmt.Sprintf(`Analyze the following GitHub project in objective, professional language:

Project name: %s
Project URL: %s
Description: %s
Primary language: %s
Stars: %d
Forks: %d
Topics: %s
Quality score: %.1f/100

Summarize in one short paragraph what the project does and why it stands out.
Use plain prose: no markdown markers, no bullet points, no headings.`,
		p.Name, p.URL, orDefault(p.DescriptionText(), "no description"),
		p.LanguageName(), p.Stars, p.Forks,
		orDefault(strings.Join(p.Topics, ", "), "none"), p.QualityScore)
}

// sensitiveWords maps terms that tend to trip provider content filters to
// neutral replacements.
var sensitiveWords = map[string]string{
	"hack":          "access",
	"crack":         "analyze",
	"exploit":       "utilize",
	"vulnerability": "issue",
	"attack":        "approach",
}

// sanitizeCopy returns a copy of the record with filtered vocabulary
// replaced. It must never mutate the original: the pipeline's output stays
// immutable for the rest of the run.
func sanitizeCopy(p project.Scored) project.Scored {
	if p.Description != nil {
		desc := sanitizeText(*p.Description)
		p.Description = &desc
	}
	if len(p.Topics) > 0 {
		topics := make([]string, len(p.Topics))
		for i, t := range p.Topics {
			topics[i] = sanitizeText(t)
		}
		p.Topics = topics
	}
	return p
}

func sanitizeText(text string) string {
	text = strings.ToLower(text)
	for old, replacement := range sensitiveWords {
		text = strings.ReplaceAll(text, old, replacement)
	}
	return text
}

// formatAnalysis strips markdown leftovers and normalizes blank lines so
// the text drops cleanly into the report document.
func formatAnalysis(raw string) string {
	cleaned := strings.NewReplacer("#", "", "*", "", "`", "").Replace(raw)

	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	cleaned = strings.Join(lines, "\n")

	for strings.Contains(cleaned, "\n\n\n") {
		cleaned = strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(cleaned)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
