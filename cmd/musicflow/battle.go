package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sqweek/dialog"

	"github.com/lixenwraith/musicflow/audio"
	"github.com/lixenwraith/musicflow/battle"
	"github.com/lixenwraith/musicflow/core"
	"github.com/lixenwraith/musicflow/service"
)

const battleHelp = `Commands:
  play a|b       play one network
  stop           stop playback
  select a|b     mark the preferred network
  vote           confirm the selection and load the next battle
  skip           load the next battle without voting
  export a|b     write mix and stems of a network as WAV
  status         show the current battle and player state
  stats          show the leaderboard
  quit           leave the session`

// input is one parsed line of the battle prompt
type input struct {
	action battle.Action
	verb   string // Non-action commands: export, status, stats, help, quit
	side   battle.Side
}

// parseInput maps a prompt line to an action or a session command
func parseInput(line string) (input, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return input{}, errors.New("empty command")
	}

	verb, rest := fields[0], fields[1:]
	needSide := func() (battle.Side, error) {
		if len(rest) != 1 {
			return battle.SideNone, fmt.Errorf("%s needs a side: a or b", verb)
		}
		return battle.ParseSide(rest[0])
	}

	switch verb {
	case "play", "p":
		side, err := needSide()
		return input{action: battle.Action{Kind: battle.ActionPlay, Side: side}}, err
	case "stop", "s":
		return input{action: battle.Action{Kind: battle.ActionStop}}, nil
	case "select":
		side, err := needSide()
		return input{action: battle.Action{Kind: battle.ActionSelect, Side: side}}, err
	case "vote", "confirm", "v":
		return input{action: battle.Action{Kind: battle.ActionConfirm}}, nil
	case "skip", "n":
		return input{action: battle.Action{Kind: battle.ActionSkip}}, nil
	case "export":
		side, err := needSide()
		return input{verb: verb, side: side}, err
	case "status", "stats", "help", "quit":
		return input{verb: verb}, nil
	case "q", "exit":
		return input{verb: "quit"}, nil
	case "?", "h":
		return input{verb: "help"}, nil
	default:
		return input{}, fmt.Errorf("unknown command %q, type help", verb)
	}
}

func runBattle(args []string) error {
	cfg := audio.LoadAudioConfig()

	fs := newFlagSet("battle")
	bindAudioFlags(fs, cfg)
	votesPath := fs.String("votes", "votes.jsonl", "vote log, JSON lines; empty keeps votes in memory")
	telemetryPath := fs.String("telemetry", "", "telemetry event log, JSON lines")
	userID := fs.Int64("user", battle.DefaultUserID, "listener id attached to votes")
	exportDir := fs.String("export-dir", "stems", "directory for exported stems")
	dump := fs.Bool("dump", false, "dump decoded battles before starting")
	debug := fs.Bool("debug", false, "write debug log to logs/musicflow.log")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if f := setupLogging(*debug); f != nil {
		defer f.Close()
	}
	if err := checkAudioConfig(cfg); err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	path, err := chooseBattleFile(cwd, fs.Args())
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			logger.Printf("User cancelled the file dialog")
			return nil
		}
		return fmt.Errorf("failed to determine battle file: %w", err)
	}

	battles, err := battle.LoadBattles(path)
	if err != nil {
		return err
	}
	logger.Printf("Loaded %d battle(s) from %s", len(battles), path)
	if *dump {
		spew.Config.SortKeys = true
		spew.Dump(battles)
	}

	hub := service.NewHub()
	audioSvc := audio.NewService(cfg)
	voteSvc := battle.NewVoteService(*votesPath)
	telemetrySvc := battle.NewTelemetryService(*telemetryPath)
	for _, svc := range []service.Service{audioSvc, voteSvc, telemetrySvc} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.InitAll(); err != nil {
		return err
	}
	defer hub.StopAll()
	if err := hub.StartAll(); err != nil {
		return err
	}
	if audioSvc.IsDisabled() {
		logger.Printf("Playback unavailable, use export to listen offline")
	}
	core.SetCrashCleanup(func() { audioSvc.Sink().Stop() })
	defer core.SetCrashCleanup(nil)

	session := battle.NewSession(battle.SessionConfig{
		Renderer:  battle.NewRenderer(audio.NewComposer(cfg), battle.NewCache(battle.DefaultCacheSize)),
		Sink:      audioSvc.Sink(),
		Telemetry: telemetrySvc.Sender(),
		Votes:     voteSvc.Log(),
		UserID:    *userID,
	}, battles)
	defer session.Close()

	ctx := context.Background()
	if err := session.Next(ctx); err != nil {
		return err
	}
	printBattle(session)
	fmt.Println(battleHelp)

	return promptLoop(ctx, session, os.Stdin, *exportDir, cfg.MasterVolume)
}

// promptLoop reads commands until quit, end of input or the last battle is done
func promptLoop(ctx context.Context, session *battle.Session, r io.Reader, exportDir string, gain float64) error {
	sc := bufio.NewScanner(r)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			fmt.Println()
			return sc.Err()
		}

		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		in, err := parseInput(sc.Text())
		if err != nil {
			logger.Printf("%v", err)
			continue
		}

		switch in.verb {
		case "":
			before := session.State().BattleID
			if err := session.Dispatch(ctx, in.action); err != nil {
				logger.Printf("%s: %v", in.action.Kind, err)
				continue
			}
			st := session.State()
			if !st.Loaded {
				logger.Printf("No more battles")
				printStats(session)
				return nil
			}
			if st.BattleID != before {
				printBattle(session)
			}
		case "export":
			paths, err := session.Export(ctx, in.side, exportDir, gain)
			if err != nil {
				logger.Printf("export: %v", err)
				continue
			}
			for _, p := range paths {
				logger.Printf("Wrote %s", p)
			}
		case "status":
			printBattle(session)
		case "stats":
			printStats(session)
		case "help":
			fmt.Println(battleHelp)
		case "quit":
			return nil
		}
	}
}

func printBattle(session *battle.Session) {
	b := session.Current()
	if b == nil {
		logger.Printf("No battle loaded")
		return
	}
	st := session.State()
	logger.Printf("Battle %s: A=%s  B=%s  (%d left)", b.ID, b.A.Name, b.B.Name, session.Remaining())
	if st.IsPlaying() {
		logger.Printf("Playing %s", b.Network(st.Playing).Name)
	}
	if st.HasSelection() {
		logger.Printf("Selected %s", b.Network(st.Selected).Name)
	}
}

func printStats(session *battle.Session) {
	data, err := json.MarshalIndent(session.Stats(), "", "  ")
	if err != nil {
		logger.Printf("stats: %v", err)
		return
	}
	fmt.Println(string(data))
}

// chooseBattleFile returns the path from args or from a file dialog
func chooseBattleFile(cwd string, args []string) (string, error) {
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("cannot get absolute path: %w", err)
		}
		if err := validateBattleFile(abs); err != nil {
			return "", fmt.Errorf("passed argument is not a valid path: %w", err)
		}
		return abs, nil
	}

	path, err := dialog.
		File().
		Title("Open battle file").
		Filter("Battle JSON (*.json)", "json").
		SetStartDir(cwd).
		Load()
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", dialog.ErrCancelled
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot get absolute path: %w", err)
	}
	if err := validateBattleFile(abs); err != nil {
		return "", fmt.Errorf("dialog selection invalid: %w", err)
	}
	return abs, nil
}

func validateBattleFile(p string) error {
	if strings.ToLower(filepath.Ext(p)) != ".json" {
		return fmt.Errorf("file must have .json extension")
	}
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}
	return nil
}
