package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	trs "github.com/njchilds90/gotrs"
)

const (
	historyFile = ".trs_history"
	prompt      = "trs> "
	replHelp    = `Enter an expression to make it the current one. Entering another
expression checks that it follows from the current one.

  :hint           describe the next step
  :step           apply the next step
  :answer         rewrite to the final form
  :possibilities  list the ranked possibilities
  :help           show this text
  :quit           leave`
)

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl(cmd)
		},
	}
}

func (a *app) repl(cmd *cobra.Command) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	if isTerminal(os.Stdin) {
		a.println("Type :help for commands.")
	}
	current := ""
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			a.println("")
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			if quit := a.replCommand(line, &current); quit {
				return nil
			}
			continue
		}
		if _, err := trs.Parse(line); err != nil {
			_ = a.report(err)
			continue
		}
		if current != "" {
			v, err := a.svc.Validate(cmd.Context(), current, line)
			switch {
			case err != nil:
				_ = a.report(err)
				continue
			case v.Valid:
				a.println(a.style.ok.Render("ok"))
			case v.Exhausted:
				a.println(a.style.err.Render("could not decide within the search budget"))
				continue
			default:
				a.println(a.style.err.Render("does not follow from " + current))
				continue
			}
		}
		current = line
	}
}

// replCommand runs a :command and reports whether the session ends.
func (a *app) replCommand(line string, current *string) bool {
	name := strings.ToLower(strings.TrimPrefix(line, ":"))
	switch name {
	case "quit", "q", "exit":
		return true
	case "help", "h":
		a.println(replHelp)
		return false
	}
	if *current == "" {
		a.println(a.style.err.Render("no current expression"))
		return false
	}
	switch name {
	case "hint":
		hint, err := a.svc.Hint(*current)
		if err != nil {
			_ = a.report(err)
		} else if hint == "" {
			a.println("No further steps.")
		} else {
			a.println(a.style.hint.Render(hint))
		}
	case "step":
		st, ok, err := a.svc.Step(*current)
		if err != nil {
			_ = a.report(err)
		} else if ok {
			a.printStep(st)
			*current = st.Result
		} else {
			a.println("No further steps.")
		}
	case "answer":
		final, _, err := a.svc.Answer(*current, false)
		if err != nil {
			_ = a.report(err)
		} else {
			a.println(a.style.result.Render(final))
			*current = final
		}
	case "possibilities", "p":
		ps, err := a.svc.Possibilities(*current)
		if err != nil {
			_ = a.report(err)
		}
		for i, p := range ps {
			a.println(fmt.Sprintf("%2d. %s %s", i+1, a.style.hint.Render(p.Hint), a.style.rule.Render("("+p.Rule+")")))
		}
	default:
		a.println(a.style.err.Render("unknown command, type :help"))
	}
	return false
}
