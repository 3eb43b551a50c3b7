package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/notebrief/internal/briefing"
	"github.com/conorfennell/notebrief/internal/config"
	"github.com/conorfennell/notebrief/internal/domain"
	"github.com/conorfennell/notebrief/internal/gitsource"
	"github.com/conorfennell/notebrief/internal/repetition"
	"github.com/conorfennell/notebrief/internal/scanner"
	"github.com/conorfennell/notebrief/internal/selection"
	"github.com/conorfennell/notebrief/internal/storage"
	"github.com/conorfennell/notebrief/internal/web"
)

func main() {
	flags := pflag.NewFlagSet("notebrief", pflag.ExitOnError)
	configPath := flags.String("config", "", "Path to config.yaml")
	dbPath := flags.String("db", "notebrief.db", "Path to the SQLite state database")
	reposDir := flags.String("repos", "repos", "Cache directory for git-hosted vaults")
	feature := flags.String("feature", "news", "Run stream: news or quiz")
	registerBriefing := flags.String("register-briefing", "", "Register a generated quiz briefing's topics as pending, then exit")
	serve := flags.Bool("serve", false, "Start the quiz answer server after the run")
	flags.StringSlice("input_folders", nil, "Note folders to scan (overrides config)")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	stream := domain.Feature(*feature)
	if stream != domain.FeatureNews && stream != domain.FeatureQuiz {
		slog.Error("invalid feature", "feature", *feature)
		os.Exit(1)
	}

	db, err := storage.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open state database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Registration mode: the external generator wrote a quiz briefing
	// and its topics need recording before answers can arrive.
	if *registerBriefing != "" {
		if _, err := briefing.RegisterPending(db, *registerBriefing, time.Now()); err != nil {
			slog.Error("failed to register briefing", "path", *registerBriefing, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, db, stream, *reposDir, time.Now()); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	if *serve {
		server := web.NewServer(db, repetitionConfig(cfg))
		if err := server.ListenAndServe(cfg.Quiz.ServerHost, cfg.Quiz.ServerPort); err != nil {
			slog.Error("quiz server stopped", "error", err)
			os.Exit(1)
		}
	}
}

func repetitionConfig(cfg config.Config) repetition.Config {
	return repetition.Config{
		MaxLevel:  cfg.Quiz.SpacedRepetition.MaxLevel,
		Intervals: cfg.Quiz.SpacedRepetition.Intervals,
	}
}

func run(cfg config.Config, db *storage.DB, stream domain.Feature, reposDir string, now time.Time) error {
	folders, err := resolveFolders(cfg.InputFolders, reposDir)
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		return fmt.Errorf("no input folders configured")
	}

	// Before a new quiz run, any quiz still unanswered from the last
	// one counts as an automatic incorrect answer.
	if stream == domain.FeatureQuiz && cfg.Quiz.SpacedRepetition.Enabled {
		if _, err := repetition.ResolveUnanswered(db, repetitionConfig(cfg), now); err != nil {
			return fmt.Errorf("resolving unanswered quizzes: %w", err)
		}
	}

	notes := scanner.ScanFolders(folders, cfg.TargetExtensions)

	runCount, err := db.IncrementRunCount(stream)
	if err != nil {
		return err
	}
	recentPicks, err := db.RecentRandomPicks()
	if err != nil {
		return err
	}

	result := selection.Select(notes, selection.Options{
		RunCount:          runCount,
		DiscoveryInterval: cfg.Selection.DiscoveryInterval,
		MaxFiles:          cfg.Selection.MaxFiles,
		RecentRandomPicks: recentPicks,
	}, now)

	if len(result.Selected) == 0 {
		slog.Info("nothing to do", "candidates", result.TotalCandidates)
		return nil
	}

	if err := db.RecordRandomPicks(result.RandomPaths(), now); err != nil {
		return err
	}

	printReport(result)

	if stream == domain.FeatureQuiz && cfg.Quiz.SpacedRepetition.Enabled {
		entries, err := db.AllQuizHistory()
		if err != nil {
			return err
		}
		due := repetition.DueTopics(entries, now)
		fmt.Printf("\n%d topic(s) due for review:\n", len(due))
		for _, topic := range due {
			fmt.Printf("- %s (level %d, every %d days)\n", topic.TopicKey, topic.Level, topic.IntervalDays)
		}
	}
	return nil
}

// resolveFolders mirrors git-hosted vaults into the repos cache and
// returns the local paths to scan.
func resolveFolders(inputs []string, reposDir string) ([]string, error) {
	folders := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if !gitsource.IsRemote(input) {
			folders = append(folders, input)
			continue
		}

		local, err := gitsource.LocalPath(reposDir, input)
		if err != nil {
			slog.Warn("skipping vault with unparsable URL", "url", input, "error", err)
			continue
		}
		if err := gitsource.Mirror(input, local); err != nil {
			slog.Warn("skipping vault that failed to sync", "url", input, "error", err)
			continue
		}
		folders = append(folders, local)
	}
	return folders, nil
}

func printReport(result domain.SelectionResult) {
	mode := "normal"
	if result.IsDiscovery {
		mode = "discovery"
	}
	fmt.Printf("Selected %d of %d notes (%s round): %d top + %d random.\n",
		len(result.Selected), result.TotalCandidates, mode, len(result.Top), len(result.Random))
	for _, note := range result.Top {
		fmt.Printf("  top    %s\n", note.Metadata.RelativePath)
	}
	for _, note := range result.Random {
		fmt.Printf("  random %s\n", note.Metadata.RelativePath)
	}
}
