// souschef — a conversational cooking assistant REPL.
//
// Usage:
//
//	souschef [-verbose] [-quiet]
package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"souschef/internal/assistant"
	"souschef/internal/config"
	"souschef/internal/display"
	"souschef/internal/domain"
	"souschef/internal/logger"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Configure logger.
	logLevel := logger.ParseLevel(cfg.LogLevel)
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	logPath := cfg.LogFile
	if *logFile != "" {
		logPath = *logFile
	}
	var logOut io.Writer = os.Stderr
	if logPath != "" && logPath != "stderr" {
		dir := filepath.Dir(logPath)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", logPath, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	log := logger.New(logLevel, logOut)

	a, err := assistant.New(assistant.Config{
		ChatKey:      cfg.ChatKey,
		VisionKey:    cfg.VisionKey,
		RecipeKey:    cfg.RecipeKey,
		VisionUserID: cfg.VisionUserID,
		VisionAppID:  cfg.VisionAppID,
	}, log)
	if err != nil {
		var missing *domain.MissingCredentialError
		if errors.As(err, &missing) {
			display.Urgent("%v", missing)
			display.Hint("set COHERE_API_KEY, CLARIFAI_PAT, and SPOONACULAR_API_KEY in .env or the environment")
			os.Exit(1)
		}
		display.Urgent("error: %v", err)
		os.Exit(1)
	}

	fmt.Println(display.RenderBanner())
	display.Hint("  Type a cooking question, or 'help' for commands.")
	fmt.Println()

	app := &cliApp{assistant: a, log: log}
	app.run(context.Background())
}

type cliApp struct {
	assistant *assistant.Assistant
	log       *logger.Logger
}

func (a *cliApp) run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024) // room for pasted base64 images

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(input, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(cmd) {
		case "quit", "exit", "q":
			display.Chat("Happy cooking!")
			return
		case "help", "?":
			a.showHelp()
		case "history":
			a.showHistory()
		case "clear":
			a.assistant.ClearHistory()
			display.Hint("conversation history cleared")
		case "detect":
			a.detect(ctx, rest)
		case "recipes":
			a.findRecipes(ctx, rest)
		default:
			// Anything else is a question for the assistant.
			a.ask(ctx, input)
		}
	}
}

func (a *cliApp) ask(ctx context.Context, question string) {
	reply, err := a.assistant.Ask(ctx, question)
	if err != nil {
		a.log.Error("ask: %v", err)
		display.Urgent("%v", err)
		return
	}
	display.Chat(reply)
}

func (a *cliApp) showHistory() {
	turns := a.assistant.History()
	if len(turns) == 0 {
		display.Hint("no conversation yet")
		return
	}
	for _, turn := range turns {
		if turn.Role == domain.RoleUser {
			display.Line("you: %s", turn.Text)
		} else {
			display.Chat("chef: %s", turn.Text)
		}
	}
}

// detect reads an image file, base64-encodes it, and runs ingredient
// recognition. A raw base64 or data-URI string works too.
func (a *cliApp) detect(ctx context.Context, arg string) {
	if arg == "" {
		display.Urgent("usage: detect <image-file | base64>")
		return
	}

	image := arg
	if data, err := os.ReadFile(arg); err == nil {
		image = base64.StdEncoding.EncodeToString(data)
		a.log.Debug("detect: read %s (%d bytes)", arg, len(data))
	}

	detection, err := a.assistant.DetectIngredients(ctx, image)
	if err != nil {
		a.log.Error("detect: %v", err)
		display.Urgent("%v", err)
		return
	}

	if len(detection.Ingredients) == 0 {
		display.Chat("I couldn't spot any ingredients in that photo.")
	} else {
		display.Header("Ingredients:")
		for _, name := range detection.Ingredients {
			display.Line("  - %s", name)
		}
	}

	display.Hint("all concepts:")
	for _, c := range detection.Concepts {
		display.Hint("  %-20s %.2f", c.Name, c.Score)
	}
}

func (a *cliApp) findRecipes(ctx context.Context, arg string) {
	var ingredients []string
	for _, part := range strings.Split(arg, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ingredients = append(ingredients, part)
		}
	}

	found, err := a.assistant.FindRecipes(ctx, ingredients)
	if err != nil {
		a.log.Error("recipes: %v", err)
		display.Urgent("%v", err)
		return
	}
	if len(found) == 0 {
		display.Chat("No recipes matched those ingredients.")
		return
	}

	for i, r := range found {
		display.Header("[%d] %s", i+1, r.Title)
		display.Hint("    ready in %d min, serves %d", r.ReadyInMinutes, r.Servings)
		if len(r.UsedIngredients) > 0 {
			display.Line("    uses:    %s", joinNames(r.UsedIngredients))
		}
		if len(r.MissedIngredients) > 0 {
			display.Line("    missing: %s", joinNames(r.MissedIngredients))
		}
		if r.SourceURL != "" {
			display.Hint("    %s", r.SourceURL)
		}
		fmt.Println()
	}
}

func joinNames(ingredients []domain.Ingredient) string {
	names := make([]string, len(ingredients))
	for i, ing := range ingredients {
		names[i] = ing.Name
	}
	return strings.Join(names, ", ")
}

func (a *cliApp) showHelp() {
	display.Header("Commands:")
	display.Line("  detect <file>        Recognize ingredients in an image file (or raw base64)")
	display.Line("  recipes a, b, c      Find recipes for a comma-separated ingredient list")
	display.Line("  history              Show the conversation so far")
	display.Line("  clear                Forget the conversation")
	display.Line("  help                 Show this message")
	display.Line("  quit / exit          Leave")
	fmt.Println()
	display.Hint("Anything else is sent to the assistant as a cooking question.")
}
