// Command kaamos plays a headless run with random choices and prints each
// phase, event and outcome. It is a playtest tool for content authors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"kaamos/internal/adapter/sound"
	"kaamos/internal/app/game"
	"kaamos/internal/app/shop"
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/rng"
	"kaamos/internal/domain/survival"

	"github.com/charmbracelet/lipgloss"
)

// styles are bound to the output writer, so a pipe or buffer gets plain text.
type styles struct {
	header lipgloss.Style
	choice lipgloss.Style
	task   lipgloss.Style
	dim    lipgloss.Style
	ending lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		header: r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		choice: r.NewStyle().Foreground(lipgloss.Color("10")),
		task:   r.NewStyle().Foreground(lipgloss.Color("11")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("8")),
		ending: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	days       int
	seed       int64
	difficulty string
	trial      bool
	buy        string
	contentDir string
	verbose    bool
}

func parseFlags(args []string, errOut io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("kaamos", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.IntVar(&opts.days, "days", 0, "stop after this many days (0 plays until an ending)")
	fs.Int64Var(&opts.seed, "seed", 0, "rng seed (0 picks a random one)")
	fs.StringVar(&opts.difficulty, "difficulty", string(survival.DifficultyNormal), "EASY, NORMAL or HARD")
	fs.BoolVar(&opts.trial, "trial", false, "trial run: survive three days to win")
	fs.StringVar(&opts.buy, "buy", "", "comma separated item ids to buy on day 1")
	fs.StringVar(&opts.contentDir, "content", "", "directory overriding the embedded events.yaml/items.yaml")
	fs.BoolVar(&opts.verbose, "v", false, "log sound cues and engine warnings")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.days < 0 {
		return options{}, fmt.Errorf("--days must not be negative, got %d", opts.days)
	}
	d := survival.Difficulty(strings.ToUpper(opts.difficulty))
	if !d.Valid() {
		return options{}, fmt.Errorf("unknown difficulty %q", opts.difficulty)
	}
	opts.difficulty = string(d)
	return opts, nil
}

func run(args []string, out, errOut io.Writer) int {
	opts, err := parseFlags(args, errOut)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(errOut, err)
		}
		return 2
	}

	catalog, err := loadCatalog(opts.contentDir)
	if err != nil {
		fmt.Fprintf(errOut, "load content: %v\n", err)
		return 1
	}

	level := slog.LevelError
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	var src rng.Source = rng.NewRandom()
	if opts.seed != 0 {
		src = rng.New(opts.seed)
	}
	engine := game.New(catalog, src, sound.NewLogPlayer(logger), logger)

	var stateOpts []survival.StateOption
	if opts.trial {
		stateOpts = append(stateOpts, survival.WithTrialRun())
	}
	st := newStyles(out)
	turn := engine.Start(survival.Difficulty(opts.difficulty), stateOpts...)
	fmt.Fprintln(out, turn.Message)

	state, code := buyStartingItems(engine, shop.UseCase{Catalog: catalog}, turn.State, opts.buy, out, errOut)
	if code != 0 {
		return code
	}
	turn.State = state

	for turn.Ending == nil && (opts.days == 0 || turn.State.Time.Day <= opts.days) {
		if turn.Event == nil {
			break
		}
		printHeader(out, st, turn.State)
		fmt.Fprintf(out, "  %s\n", turn.Event.Title)
		turn = engine.ChooseOption(turn.State, *turn.Event, nil)
		if turn.Choice != nil {
			fmt.Fprintln(out, st.choice.Render("  > "+turn.Choice.Text))
		}
		for _, t := range turn.Completed {
			fmt.Fprintln(out, st.task.Render("  * "+t.Description))
		}
		printResources(out, st, turn.State)
	}

	if turn.Ending != nil {
		fmt.Fprintf(out, "\n%s\n%s\n", st.ending.Render("LOPPU: "+turn.Ending.Title), turn.Ending.Description)
	} else {
		fmt.Fprintf(out, "\nPäivä %d saavutettu ilman loppua.\n", turn.State.Time.Day)
	}
	return 0
}

func loadCatalog(dir string) (*content.Catalog, error) {
	if dir == "" {
		return content.LoadDefault()
	}
	return content.LoadDir(dir)
}

func buyStartingItems(engine *game.Engine, store shop.UseCase, s survival.GameState, list string, out, errOut io.Writer) (survival.GameState, int) {
	for _, id := range strings.Split(list, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, err := store.Item(context.Background(), id); err != nil {
			fmt.Fprintln(errOut, err)
			return s, 2
		}
		res := engine.BuyItem(s, id)
		fmt.Fprintf(out, "kioski: %s\n", res.Message)
		s = res.State
	}
	return s, 0
}

func printHeader(out io.Writer, st styles, s survival.GameState) {
	fmt.Fprintf(out, "\n%s\n", st.header.Render(fmt.Sprintf("== Päivä %d · %s · %s ==", s.Time.Day, s.Time.Phase, s.Time.Weather)))
}

func printResources(out io.Writer, st styles, s survival.GameState) {
	r := s.Resources
	fmt.Fprintln(out, st.dim.Render(fmt.Sprintf("  raha %.0f  mieli %.0f  energia %.0f  lämpö %.0f  anomalia %.0f",
		r.Money, r.Sanity, r.Energy, r.Heat, r.Anomaly)))
}
