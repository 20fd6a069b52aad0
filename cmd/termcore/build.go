package main

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"termcore"
	"termcore/reftest"
	"termcore/termconfig"
)

func loadConfig() (*termconfig.Config, error) {
	if configPath == "" {
		cfg := termconfig.Default()
		return &cfg, nil
	}
	return termconfig.Load(configPath)
}

var hintActions = map[string]termcore.HintAction{
	"copy":        termcore.HintActionCopy,
	"paste":       termcore.HintActionPaste,
	"open":        termcore.HintActionOpen,
	"move_cursor": termcore.HintActionMoveCursor,
}

func buildTerminal(cfg *termconfig.Config, opts ...termcore.Option) (*termcore.Terminal, error) {
	base := []termcore.Option{
		termcore.WithSize(cfg.Rows, cfg.Cols),
		termcore.WithScrollback(cfg.ScrollbackLines),
		termcore.WithLogger(slog.Default()),
		termcore.WithSyncUpdateTimeout(time.Duration(cfg.SyncUpdateMS) * time.Millisecond),
	}

	if len(cfg.Hints) > 0 {
		specs := make([]termcore.HintSpec, 0, len(cfg.Hints))
		for _, h := range cfg.Hints {
			re, err := regexp.Compile(h.Pattern)
			if err != nil {
				return nil, fmt.Errorf("hint %q: %w", h.Name, err)
			}
			action, ok := hintActions[h.Action]
			if !ok {
				return nil, fmt.Errorf("hint %q: unknown action %q", h.Name, h.Action)
			}
			specs = append(specs, termcore.HintSpec{
				Name: h.Name, Pattern: re, Action: action,
				TrimTrailingPunct: h.TrimTrailingPunct, RequireScheme: h.RequireScheme,
			})
		}
		base = append(base, termcore.WithHintSpecs(specs))
	}

	base = append(base, opts...)
	return termcore.New(base...), nil
}

func buildTerminalWithRecorder(cfg *termconfig.Config, rec *reftest.Recorder) (*termcore.Terminal, error) {
	return buildTerminal(cfg, termcore.WithRecording(rec))
}
