package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarev/decisive/internal/model"
	"github.com/mkarev/decisive/internal/pipeline"
)

var (
	llmProvider string
	llmModel    string
	runTimeout  time.Duration
	noCache     bool
)

// researchCmd represents the research command
var researchCmd = &cobra.Command{
	Use:   "research [question]",
	Short: "Research a decision question and produce a recommendation",
	Long: `Research runs the full pipeline for a decision question:
decompose, search, extract, rank, analyze gaps, and recommend.

With a question argument it runs once and exits. Without one it starts
an interactive loop; type a question to research it, "list" to see the
session table, "quit" to exit.

Example:
  decisive research "Should we adopt serverless for our API layer?"
  decisive research --provider ollama --model llama3.1
  decisive research`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)

	researchCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (openai, ollama)")
	researchCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
	researchCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "overall run timeout")
	researchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetched-page cache")
}

func runResearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := pipeline.New(cfg, log)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return researchOnce(p, args[0])
	}
	return interactiveLoop(p)
}

func researchOnce(p *pipeline.Pipeline, question string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	result, err := p.Run(ctx, question)
	if err != nil {
		return err
	}

	renderResult(os.Stdout, result)
	return nil
}

// interactiveLoop reads questions from stdin until quit
func interactiveLoop(p *pipeline.Pipeline) error {
	fmt.Println("decisive interactive mode")
	fmt.Println(`Type a question to research it, "list" for past sessions, "quit" to exit.`)
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), model.MaxQuestionLength+1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "list":
			renderSessions(os.Stdout, p.Sessions())
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		result, err := p.Run(ctx, line)
		cancel()
		if err != nil {
			// Keep the loop alive; a bad question is not fatal here
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			continue
		}
		renderResult(os.Stdout, result)
	}
}
