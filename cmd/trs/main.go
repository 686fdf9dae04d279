// Command trs rewrites, explains and checks algebraic expressions.
//
//	trs answer "2/15 + 1/4"
//	trs hint "d/dx x^2"
//	trs validate "3a + a" "4a"
//	trs repl
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	trs "github.com/njchilds90/gotrs"
)

type app struct {
	configPath string
	logLevel   string
	svc        *trs.Service
	style      styles
	out        io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "trs",
		Short:         "Step-by-step rewriting of algebraic expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.AddCommand(
		a.possibilitiesCmd(),
		a.hintCmd(),
		a.stepCmd(),
		a.answerCmd(),
		a.validateCmd(),
		a.evalCmd(),
		a.replCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := trs.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	engine, err := cfg.Engine(trs.NewLogger(cfg.LogLevel, os.Stderr))
	if err != nil {
		return err
	}
	a.svc = trs.NewService(engine, cfg.Validator(engine))
	a.style = newStyles()
	return nil
}

func (a *app) println(s string) { fmt.Fprintln(a.out, s) }

func (a *app) possibilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "possibilities EXPR",
		Short: "List the ranked rewrite possibilities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := a.svc.Possibilities(args[0])
			if err != nil {
				return a.report(err)
			}
			for i, p := range ps {
				a.println(fmt.Sprintf("%2d. %s %s", i+1, a.style.hint.Render(p.Hint), a.style.rule.Render("("+p.Rule+")")))
			}
			return nil
		},
	}
}

func (a *app) hintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hint EXPR",
		Short: "Describe the suggested next step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, err := a.svc.Hint(args[0])
			if err != nil {
				return a.report(err)
			}
			if hint == "" {
				hint = "No further steps."
			}
			a.println(a.style.hint.Render(hint))
			return nil
		},
	}
}

func (a *app) stepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "step EXPR",
		Short: "Apply the suggested next step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ok, err := a.svc.Step(args[0])
			if err != nil {
				return a.report(err)
			}
			if !ok {
				a.println(a.style.result.Render(args[0]))
				return nil
			}
			a.printStep(st)
			return nil
		},
	}
}

func (a *app) answerCmd() *cobra.Command {
	var trace, implicit bool
	cmd := &cobra.Command{
		Use:   "answer EXPR",
		Short: "Rewrite to the final form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			final, steps, err := a.svc.Answer(args[0], implicit)
			if err != nil {
				return a.report(err)
			}
			if trace {
				for _, st := range steps {
					a.printStep(st)
				}
				return nil
			}
			a.println(a.style.result.Render(final))
			return nil
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "print every step")
	cmd.Flags().BoolVar(&implicit, "implicit", false, "list implicit steps separately")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate [FROM TO]",
		Short: "Check that FROM rewrites into TO, or check a derivation line by line",
		Long: "With two arguments, search a rewrite sequence from FROM to TO. With --file " +
			"(- for stdin), check that every line of the file follows from the one before.",
		Args: func(cmd *cobra.Command, args []string) error {
			if file == "" && len(args) != 2 {
				return errors.New("requires FROM and TO, or --file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				return a.validateFile(cmd, file)
			}
			v, err := a.svc.Validate(cmd.Context(), args[0], args[1])
			if err != nil {
				return a.report(err)
			}
			for _, st := range v.Path {
				a.printStep(st)
			}
			switch {
			case v.Valid:
				a.println(a.style.ok.Render("valid"))
				return nil
			case v.Exhausted:
				return a.report(errors.Errorf("undecided: search budget exhausted at depth %d", v.Depth))
			}
			return a.report(errors.New("invalid"))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "derivation file, one expression per line")
	return cmd
}

func (a *app) validateFile(cmd *cobra.Command, file string) error {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return a.report(err)
		}
		defer f.Close()
		r = f
	}
	var b strings.Builder
	sc := bufio.NewScanner(r)
	total := 0
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			total++
		}
		b.WriteString(sc.Text())
		b.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return a.report(err)
	}
	n, err := a.svc.ValidateLines(cmd.Context(), b.String())
	if err != nil {
		return a.report(err)
	}
	if total > 0 && n == total-1 {
		a.println(a.style.ok.Render(fmt.Sprintf("all %d steps valid", n)))
		return nil
	}
	return a.report(errors.Errorf("line %d does not follow from the line before", n+2))
}

func (a *app) evalCmd() *cobra.Command {
	var assignments []string
	cmd := &cobra.Command{
		Use:   "eval EXPR",
		Short: "Evaluate numerically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := parseAssignments(assignments)
			if err != nil {
				return a.report(err)
			}
			v, err := a.svc.Eval(args[0], env)
			if err != nil {
				return a.report(err)
			}
			a.println(a.style.result.Render(strconv.FormatFloat(v, 'g', -1, 64)))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "identifier value, e.g. --set x=2")
	return cmd
}

func parseAssignments(in []string) (map[string]float64, error) {
	env := make(map[string]float64, len(in))
	for _, s := range in {
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			return nil, errors.Errorf("invalid assignment %q, want name=value", s)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value of %s", name)
		}
		env[strings.TrimSpace(name)] = v
	}
	return env, nil
}

func (a *app) printStep(st trs.StepView) {
	if st.Hint != "" {
		a.println(a.style.hint.Render(st.Hint) + " " + a.style.rule.Render("("+st.Rule+")"))
	}
	a.println("  " + a.style.result.Render(st.Result))
}

// report prints err and returns it, so the exit status is non-zero.
func (a *app) report(err error) error {
	fmt.Fprintln(os.Stderr, a.style.err.Render(err.Error()))
	return err
}
