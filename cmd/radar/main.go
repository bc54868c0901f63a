package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github-radar/internal/analyzer"
	"github-radar/internal/config"
	"github-radar/internal/mailer"
	"github-radar/internal/ranking"
	"github-radar/internal/report"
	"github-radar/internal/search"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Could not load .env, using system environment variables.")
	}

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	profile, err := ranking.ProfileByName(cfg.Ranking.Profile)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	log.Println("🚀 Starting GitHub radar run")
	ctx := context.Background()

	client := search.NewClient(cfg.GitHub.Token, search.Criteria{
		Keywords:         cfg.GitHub.Keywords(),
		MinStars:         cfg.GitHub.MinStars,
		Language:         cfg.GitHub.Language,
		MaxResults:       cfg.GitHub.MaxResults,
		UpdateWithinDays: cfg.GitHub.UpdateWithinDays,
		MinForkRatio:     cfg.GitHub.MinForkRatio,
		ExcludeForks:     cfg.GitHub.ExcludeForks,
		SortBy:           cfg.GitHub.SortBy,
		SortOrder:        cfg.GitHub.SortOrder,
	})

	candidates, err := client.FetchCandidates(ctx)
	if err != nil {
		var rateErr *search.RateLimitError
		if errors.As(err, &rateErr) {
			log.Fatalf("❌ %v", rateErr)
		}
		log.Fatalf("❌ GitHub fetch error: %v", err)
	}

	pipeline := ranking.New(ranking.Options{
		Profile:      profile,
		MinScore:     cfg.Ranking.MinScore,
		MinForkRatio: cfg.GitHub.MinForkRatio,
		MinAgeDays:   cfg.Ranking.MinAgeDays,
		MaxStaleDays: cfg.Ranking.MaxStaleDays,
		MinStars:     cfg.GitHub.MinStars,
		MaxResults:   cfg.GitHub.MaxResults,
	})
	selected := pipeline.Run(candidates, time.Now())

	an := analyzer.New(analyzer.Config{
		APIKey:          cfg.LLM.APIKey,
		APIURL:          cfg.LLM.APIURL,
		Model:           cfg.LLM.Model,
		MaxTokens:       cfg.LLM.MaxTokens,
		RequestInterval: cfg.LLM.RequestInterval(),
	})
	enriched := an.AnalyzeProjects(ctx, selected)

	now := time.Now()
	writer := report.NewWriter(now)
	for _, p := range enriched {
		writer.AddProject(p)
	}

	if err := os.MkdirAll("reports", 0o755); err != nil {
		log.Fatalf("❌ Creating reports directory: %v", err)
	}
	reportPath := filepath.Join("reports", fmt.Sprintf("github_radar_%s.docx", now.Format("200601021504")))
	if err := writer.Save(reportPath); err != nil {
		log.Fatalf("❌ %v", err)
	}

	sender := mailer.NewSender(mailer.Config{
		SMTPServer: cfg.Email.SMTPServer,
		SMTPPort:   cfg.Email.SMTPPort,
		Sender:     cfg.Email.SenderEmail,
		Password:   cfg.Email.SenderPassword,
		Recipients: cfg.Email.Recipients,
		Subject:    cfg.Email.Subject,
	})
	if err := sender.SendReport(reportPath); err != nil {
		log.Fatalf("❌ %v", err)
	}

	color.Green("✅ Run complete: %d projects reported", len(enriched))
	for _, p := range enriched {
		color.Cyan("  %-45s %6.1f  %s", p.Name, p.QualityScore, p.LanguageName())
	}
}
