package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/mcncl/jsonbee/internal/bencode"
	"github.com/mcncl/jsonbee/internal/config"
	"github.com/mcncl/jsonbee/internal/errors"
	"github.com/mcncl/jsonbee/internal/formatter"
	"github.com/mcncl/jsonbee/internal/models"
	"github.com/mcncl/jsonbee/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input     string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Output    string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config    string `help:"Path to config file. Defaults to the nearest .jsonbee.yml." short:"c" type:"path"`
	Format    string `help:"Input format for encode: auto, json, jsonc or yaml." short:"f"`
	Bytes     bool   `help:"Count string lengths in bytes instead of characters."`
	BoolAsInt bool   `help:"Encode true and false as i1e and i0e instead of failing." name:"bool-as-int"`
	LastWins  bool   `help:"Let a repeated dictionary key overwrite the earlier value instead of failing." name:"last-wins"`
	Pretty    bool   `help:"Indent JSON output." short:"p"`
	Color     string `help:"Colorize JSON output: auto, always or never."`
	Raw       bool   `help:"Do not append a newline to encoded output."`
	Debug     bool   `help:"Enable debug logging." short:"d"`

	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Encode EncodeCmd `cmd:"" help:"Convert a JSON (or JSONC/YAML) document to bencode."`
	Decode DecodeCmd `cmd:"" help:"Convert bencode to JSON."`
}

// Context holds the runtime context shared by the commands
type Context struct {
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer // nil selects os.Stdout
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	app := kong.Must(&CLI,
		kong.Name("jsonbee"),
		kong.Description("Convert between bencode and JSON"),
		kong.Vars{"version": "jsonbee version " + Version},
	)

	kctx, err := app.Parse(os.Args[1:])
	if err != nil {
		app.Errorf("%s", err)
		if parseErr, ok := err.(*kong.ParseError); ok {
			_ = parseErr.Context.PrintUsage(false)
		}
		os.Exit(1)
	}

	ctx, err := newContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := kctx.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// newContext loads configuration and sets up logging from the parsed flags
func newContext() (*Context, error) {
	cfg, err := config.LoadConfigWithFlags(CLI.Config, config.Flags{
		Format:    CLI.Format,
		Bytes:     CLI.Bytes,
		BoolAsInt: CLI.BoolAsInt,
		LastWins:  CLI.LastWins,
		Pretty:    CLI.Pretty,
		Color:     CLI.Color,
		Raw:       CLI.Raw,
		Debug:     CLI.Debug,
	})
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	return &Context{
		Config: cfg,
		Logger: newLogger(os.Stderr, cfg.Dev.Debug),
		Stdin:  os.Stdin,
		Stderr: os.Stderr,
	}, nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !formatter.IsTerminal(f)
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

// EncodeCmd converts a structured-data document to bencode
type EncodeCmd struct{}

// Run parses the input document and writes its bencode form
func (c *EncodeCmd) Run(ctx *Context) error {
	ir, err := parseInput(ctx)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("parsed input", "format", ir.Format, "root", models.KindOf(ir.Root).String())

	encoded, err := bencode.EncodeString(ir.Root, ctx.Config.EncodeOptions())
	if err != nil {
		return errors.NewEncodeError(inputName(), err)
	}
	ctx.Logger.Debug("encoded bencode", "bytes", len(encoded))

	if !ctx.Config.Output.Raw {
		encoded += "\n"
	}
	return writeOutput(ctx, encoded, false)
}

// DecodeCmd converts bencode to JSON
type DecodeCmd struct{}

// Run decodes the bencode input and writes it as JSON
func (c *DecodeCmd) Run(ctx *Context) error {
	data, err := readInput(ctx)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("read input", "bytes", len(data))

	value, err := decodeBencode(data, ctx.Config.DecodeOptions())
	if err != nil {
		return errors.NewDecodeError(inputName(), err)
	}

	colored := CLI.Output == "" && useColor(ctx)
	f := formatter.NewFormatter()
	f.Pretty = ctx.Config.Output.Pretty
	f.Indent = ctx.Config.Output.Indent
	f.Color = colored

	out, err := f.Format(value)
	if err != nil {
		return errors.NewOutputError("failed to render JSON", err)
	}
	ctx.Logger.Debug("decoded bencode", "root", models.KindOf(value).String(), "bytes", len(out))

	return writeOutput(ctx, out+"\n", colored)
}

// decodeBencode decodes a single value; trailing whitespace such as the
// newline at the end of a file is tolerated.
func decodeBencode(data []byte, opts bencode.Options) (models.JSONValue, error) {
	dec := bencode.NewDecoder(string(data), opts)
	value, err := dec.Decode()
	if err != nil {
		return nil, err
	}
	if err := dec.End(); err != nil {
		return nil, err
	}
	return value, nil
}

func useColor(ctx *Context) bool {
	if ctx.Stdout != nil {
		return ctx.Config.Output.Color == config.ColorAlways
	}
	return formatter.UseColor(ctx.Config.Output.Color, os.Stdout)
}

func inputName() string {
	if CLI.Input != "" {
		return CLI.Input
	}
	return "<stdin>"
}

// parseInput reads the document to encode from file or stdin
func parseInput(ctx *Context) (models.IntermediateRepresentation, error) {
	format := parser.Format(ctx.Config.Input.Format)
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input, format)
	}

	data, err := readInput(ctx)
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	return parser.ParseBytes(data, format)
}

// readInput reads all input from file or stdin
func readInput(ctx *Context) ([]byte, error) {
	if CLI.Input != "" {
		data, err := os.ReadFile(CLI.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", CLI.Input), errors.ErrFileNotFound)
			}
			return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", CLI.Input), err)
		}
		return data, nil
	}

	if ctx.Stdin == nil {
		return nil, errors.NewInputError("no input source", errors.ErrNoInput)
	}

	f, ok := ctx.Stdin.(*os.File)
	interactive := ok && formatter.IsTerminal(f)
	if interactive {
		fmt.Fprintln(ctx.Stderr, "Reading from stdin, press Ctrl+D (or Ctrl+Z on Windows) when done:")
	}

	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if interactive && len(data) == 0 {
		return nil, errors.NewInputError("nothing was typed", errors.ErrNoInput)
	}
	return data, nil
}

// writeOutput writes the result to file or stdout
func writeOutput(ctx *Context, result string, colored bool) error {
	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, []byte(result), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		ctx.Logger.Debug("wrote output", "path", CLI.Output)
		return nil
	}

	w := ctx.Stdout
	if w == nil {
		w = formatter.Stdout(colored)
	}
	if _, err := io.WriteString(w, result); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
