package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Line prompts with plain text: one reply per line, numbered menus for
// choices. An empty reply accepts the default. End of input is an error
// rather than a silent default.
type Line struct {
	reader *bufio.Reader
	w      io.Writer
}

// NewLine returns a Line prompter reading r and writing w.
func NewLine(r io.Reader, w io.Writer) *Line {
	return &Line{reader: bufio.NewReader(r), w: w}
}

func (l *Line) readLine(what string) (string, error) {
	line, err := l.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading %s: %w", what, err)
	}
	return strings.TrimSpace(line), nil
}

// Input implements Prompter.
func (l *Line) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(l.w, "%s [%s]: ", cfg.Message, cfg.Default)
	reply, err := l.readLine("answer")
	if err != nil {
		return "", err
	}
	if reply == "" {
		reply = cfg.Default
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(reply); err != nil {
			return "", err
		}
	}
	return reply, nil
}

// Confirm implements Prompter.
func (l *Line) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	hint := "y/N"
	if cfg.Default {
		hint = "Y/n"
	}
	fmt.Fprintf(l.w, "%s [%s]: ", cfg.Message, hint)
	reply, err := l.readLine("confirmation")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(reply) {
	case "":
		return cfg.Default, nil
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid reply %q: answer y or n", reply)
}

// Select implements Prompter.
func (l *Line) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	fmt.Fprintf(l.w, "\n%s\n", cfg.Message)
	for i, item := range cfg.Options {
		fmt.Fprintf(l.w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(l.w, "Enter number [1-%d] (default %d): ", len(cfg.Options), cfg.DefaultIndex+1)

	reply, err := l.readLine("selection")
	if err != nil {
		return 0, err
	}
	if reply == "" {
		return cfg.DefaultIndex, nil
	}
	num, err := strconv.Atoi(reply)
	if err != nil || num < 1 || num > len(cfg.Options) {
		return 0, fmt.Errorf("invalid selection %q: choose 1-%d", reply, len(cfg.Options))
	}
	return num - 1, nil
}
