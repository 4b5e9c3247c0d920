package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"unicode"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/zephyrtronium/calc"
)

type options struct {
	Rational bool     `short:"r" help:"Evaluate with exact fractions instead of decimals."`
	Prec     uint     `short:"p" default:"50" help:"Precision in significant decimal digits."`
	MaxDen   int64    `name:"max-den" default:"1000" help:"Largest denominator of fractions approximating decimals and roots."`
	MaxBits  int      `name:"max-bits" default:"65536" help:"Size limit of numbers, in bits."`
	In       string   `help:"File with one expression per line, or - for stdin."`
	Echo     bool     `help:"Print parse trees."`
	Dump     bool     `help:"Print results as Go values."`
	Exprs    []string `arg:"" optional:"" help:"Expressions to evaluate. With no expressions and no input file, start an interactive session."`
}

func (o *options) validate() error {
	switch {
	case o.Prec == 0:
		return errors.New("precision must be positive")
	case o.MaxDen <= 0:
		return fmt.Errorf("maximum denominator (%d) must be positive", o.MaxDen)
	case o.MaxBits <= 0:
		return fmt.Errorf("size limit (%d) must be positive", o.MaxBits)
	}
	return nil
}

func main() {
	log.SetFlags(0)
	var cli options
	kctx := kong.Parse(&cli, kong.Description(`
Evaluate arithmetic with + - * / ** (or × ÷ ^), parentheses, and sqrt (or √).
Decimal mode computes with the given precision. Rational mode computes exactly
with fractions, approximating decimal literals and square roots with the
closest fraction whose denominator is at most --max-den.
`), kong.UsageOnError())
	kctx.FatalIfErrorf(cli.validate())

	ctx := calc.NewContext(calc.Prec(cli.Prec), calc.MaxDenominator(cli.MaxDen), calc.MaxBits(cli.MaxBits))
	mode := calc.ModeDecimal
	if cli.Rational {
		mode = calc.ModeRational
	}
	if cli.In == "" && len(cli.Exprs) == 0 {
		os.Exit(repl(newSession(ctx, mode)))
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	p := printer{w: out, ctx: ctx, mode: mode, echo: cli.Echo, dump: cli.Dump}
	if cli.In != "" {
		f, err := infile(cli.In)
		if err != nil {
			log.Fatal(err)
		}
		if err := p.lines(f); err != nil {
			out.Flush()
			log.Fatal(err)
		}
	}
	for _, arg := range cli.Exprs {
		e, err := calc.ParseString(arg)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		p.print(e)
	}
}

// printer evaluates and prints expressions.
type printer struct {
	w    io.Writer
	ctx  *calc.Context
	mode calc.Mode
	echo bool
	dump bool
}

// lines evaluates one expression per line of in. Blank lines are skipped, and
// a syntax error skips the rest of its line.
func (p *printer) lines(in io.RuneScanner) error {
	src := &lineReader{RuneScanner: in}
	for {
		// First check whether we're done with the input.
		r, _, err := src.ReadRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if unicode.IsSpace(r) {
			continue
		}
		src.UnreadRune()
		e, err := calc.Parse(src, calc.StopOn('\n'))
		if err != nil {
			if !errors.Is(err, calc.ErrSyntax) {
				return err
			}
			fmt.Fprintln(p.w, err)
			if err := src.skip(); err != nil {
				return err
			}
			continue
		}
		p.print(e)
	}
}

func (p *printer) print(e *calc.Expr) {
	if p.echo {
		fmt.Fprintf(p.w, "%v : ", e)
	}
	v, err := p.ctx.Eval(e, p.mode)
	if err != nil {
		fmt.Fprintln(p.w, err)
		return
	}
	r := p.ctx.Format(v)
	if p.dump {
		fmt.Fprintln(p.w, repr.String(r))
		return
	}
	fmt.Fprintln(p.w, r)
}

// lineReader tracks whether the last rune read ended a line.
type lineReader struct {
	io.RuneScanner
	nl bool
}

func (r *lineReader) ReadRune() (rune, int, error) {
	c, n, err := r.RuneScanner.ReadRune()
	r.nl = err == nil && c == '\n'
	return c, n, err
}

func (r *lineReader) UnreadRune() error {
	r.nl = false
	return r.RuneScanner.UnreadRune()
}

// skip discards the rest of the current line.
func (r *lineReader) skip() error {
	for !r.nl {
		if _, _, err := r.ReadRune(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
	return nil
}

func infile(name string) (io.RuneScanner, error) {
	if name == "-" {
		return bufio.NewReader(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return bufio.NewReader(f), nil
}
