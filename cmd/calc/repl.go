package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/calc"
)

const (
	historyFile = ".calc_history"
	prompt      = "> "
)

const helpText = `Enter an expression to evaluate it. Commands apply to the current expression:
  :decimal  :rational  :mode   evaluate with decimals, with fractions, or toggle
  :inv   1/(x)     :sq    (x)**2     :sqrt  sqrt(x)
  :pct   (x)/100   :neg   -(x), or x again if already negated
  :frac  show the value as a fraction
  :ms    store in memory    :m+  add to memory
  :mr    recall memory      :mc  clear memory
  :help  show this text     :quit  exit`

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

// errQuit is returned by session.exec to end the session.
var errQuit = errors.New("quit")

// session is the state of an interactive calculator. The current expression
// and the memory are kept as text so that they evaluate exactly in either
// mode.
type session struct {
	ctx  *calc.Context
	mode calc.Mode
	// cur is the current expression, or empty if none has been entered.
	cur string
	// mem is the memory register, or empty if it is clear.
	mem string
}

func newSession(ctx *calc.Context, mode calc.Mode) *session {
	return &session{ctx: ctx, mode: mode}
}

// exec runs one line of input and returns the text to display.
func (s *session) exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	if !strings.HasPrefix(line, ":") {
		if _, err := calc.ParseString(line); err != nil {
			return "", err
		}
		s.cur = line
		return s.show()
	}
	switch cmd := strings.ToLower(line); cmd {
	case ":quit", ":q":
		return "", errQuit
	case ":help", ":h", ":?":
		return helpText, nil
	case ":decimal":
		return s.setMode(calc.ModeDecimal)
	case ":rational":
		return s.setMode(calc.ModeRational)
	case ":mode":
		if s.mode == calc.ModeDecimal {
			return s.setMode(calc.ModeRational)
		}
		return s.setMode(calc.ModeDecimal)
	case ":mc":
		s.mem = ""
		return "memory cleared", nil
	case ":mr":
		if s.mem == "" {
			s.cur = "0"
		} else {
			s.cur = s.mem
		}
		return s.show()
	case ":ms":
		if _, err := s.value(); err != nil {
			return "", err
		}
		s.mem = "(" + s.cur + ")"
		return "stored " + s.mem, nil
	case ":m+":
		if _, err := s.value(); err != nil {
			return "", err
		}
		if s.mem == "" {
			s.mem = "(" + s.cur + ")"
		} else {
			s.mem = "(" + s.mem + " + (" + s.cur + "))"
		}
		return "stored " + s.mem, nil
	case ":inv":
		return s.wrap("1/(", ")")
	case ":sq":
		return s.wrap("(", ")**2")
	case ":sqrt":
		return s.wrap("sqrt(", ")")
	case ":pct":
		return s.wrap("(", ")/100")
	case ":neg":
		if inner, ok := negated(s.cur); ok {
			s.cur = inner
			return s.show()
		}
		return s.wrap("-(", ")")
	case ":frac":
		v, err := s.value()
		if err != nil {
			return "", err
		}
		f, err := s.ctx.Fraction(v)
		if err != nil {
			return "", err
		}
		return f.String(), nil
	default:
		return "", fmt.Errorf("unknown command %s; type :help for commands", cmd)
	}
}

// value evaluates the current expression.
func (s *session) value() (calc.Value, error) {
	if s.cur == "" {
		return nil, errors.New("no expression")
	}
	e, err := calc.ParseString(s.cur)
	if err != nil {
		return nil, err
	}
	return s.ctx.Eval(e, s.mode)
}

// show evaluates and formats the current expression.
func (s *session) show() (string, error) {
	v, err := s.value()
	if err != nil {
		return "", err
	}
	return s.ctx.Format(v).String(), nil
}

func (s *session) setMode(m calc.Mode) (string, error) {
	s.mode = m
	if s.cur == "" {
		return m.String() + " mode", nil
	}
	return s.show()
}

// wrap surrounds the current expression and evaluates the result.
func (s *session) wrap(pre, post string) (string, error) {
	if s.cur == "" {
		return "", errors.New("no expression")
	}
	s.cur = pre + s.cur + post
	return s.show()
}

// negated returns the operand of an expression of the form -(x).
func negated(src string) (string, bool) {
	if !strings.HasPrefix(src, "-(") || !strings.HasSuffix(src, ")") {
		return "", false
	}
	inner := src[2 : len(src)-1]
	if _, err := calc.ParseString(inner); err != nil {
		// e.g. -(1)+(2)
		return "", false
	}
	return inner, true
}

// repl runs an interactive session on the terminal and returns the exit
// status.
func repl(s *session) int {
	fmt.Println("calc: " + s.mode.String() + " mode. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

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

	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			fmt.Println()
			return 0
		}
		out, err := s.exec(line)
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		switch {
		case errors.Is(err, errQuit):
			return 0
		case err != nil:
			fmt.Fprintln(os.Stderr, red(err.Error()))
		case out != "":
			fmt.Println(out)
		}
	}
}
