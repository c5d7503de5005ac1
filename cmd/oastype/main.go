package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	oastype "github.com/reoring/oastype"
	"github.com/reoring/oastype/formats"
	"github.com/reoring/oastype/logsink"
)

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1 // the value does not match its declared type or format
	exitUsage   = 2 // bad flags, unreadable config, schema or deployment defect
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "check":
		return checkCmd(args[1:], stdin, stdout, stderr)
	case "formats":
		return formatsCmd(args[1:], stdout, stderr)
	case "serve":
		return serveCmd(args[1:], stderr)
	default:
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "oastype CLI\n\nUsage:\n  oastype check -type T [-format F] [-value JSON] [-path /p] [-formats file] [-plugins dir] [-float64] [-v]\n  oastype formats [-formats file] [-plugins dir]\n  oastype serve [-addr :8080] [-formats file] [-plugins dir] [-float64] [-v]\n\nNotes:\n  - check reads the value from stdin when -value is omitted.\n  - Without -formats the built-in formats are used.")
}

// registryFlags are shared by every subcommand that needs formats.
type registryFlags struct {
	config  string
	plugins string
}

func (f *registryFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.config, "formats", "", "format configuration file (.yaml, .yml or .json)")
	fs.StringVar(&f.plugins, "plugins", "", "directory of Go plugins resolving deferred validators")
}

func (f *registryFlags) options() []formats.Option {
	if f.plugins == "" {
		return nil
	}
	return []formats.Option{formats.WithLoader(formats.PluginLoader{Dir: f.plugins})}
}

func (f *registryFlags) load() (*formats.Registry, error) {
	if f.config == "" {
		return formats.Default(f.options()...), nil
	}
	cfg, err := formats.LoadConfigFile(f.config)
	if err != nil {
		return nil, err
	}
	return cfg.Build(f.options()...)
}

func newLogger(w io.Writer, level zerolog.Level, verbose bool) zerolog.Logger {
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// decodeValue parses a JSON document keeping numbers as json.Number so that
// integers of any size survive.
func decodeValue(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return v, nil
}

// checkResult is the JSON document printed by check and returned by the
// validate endpoint.
type checkResult struct {
	OK          bool                 `json:"ok"`
	Issues      oastype.Issues       `json:"issues,omitempty"`
	Diagnostics []oastype.Diagnostic `json:"diagnostics,omitempty"`
}

func newCheckResult(c oastype.Check, res oastype.Result) checkResult {
	out := checkResult{OK: res.OK(), Diagnostics: res.Diagnostics}
	if res.Err != nil {
		iss, ok := oastype.IssueFrom(c.Path, res.Err)
		if !ok {
			iss = oastype.Issue{Path: c.Path, Code: oastype.CodeInvalidSchema, Message: res.Err.Error(), Cause: res.Err}
		}
		out.Issues = oastype.Issues{iss}
	}
	return out
}

func checkCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		reg      registryFlags
		typ      string
		format   string
		value    string
		path     string
		useFloat bool
		verbose  bool
	)
	reg.register(fs)
	fs.StringVar(&typ, "type", "", "declared type (object, array, boolean, number, integer, string)")
	fs.StringVar(&format, "format", "", "declared format")
	fs.StringVar(&value, "value", "", "JSON value to check (default: read stdin)")
	fs.StringVar(&path, "path", "/", "JSON Pointer reported in issues and diagnostics")
	fs.BoolVar(&useFloat, "float64", false, "accept integral floats as integer")
	fs.BoolVar(&verbose, "v", false, "log coercions and debug output to stderr")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if typ == "" {
		fs.Usage()
		return exitUsage
	}
	logger := newLogger(stderr, zerolog.WarnLevel, verbose)

	registry, err := reg.load()
	if err != nil {
		logger.Error().Err(err).Msg("loading formats failed")
		return exitUsage
	}

	var src io.Reader = stdin
	if value != "" {
		src = strings.NewReader(value)
	}
	v, err := decodeValue(src)
	if err != nil {
		logger.Error().Err(err).Msg("reading value failed")
		return exitUsage
	}

	opts := []oastype.Option{}
	if useFloat {
		opts = append(opts, oastype.WithNumberMode(oastype.NumberFloat64))
	}
	ev := oastype.New(registry, opts...)
	c := oastype.Check{Path: path, Value: v, Type: oastype.Type(typ), Format: format}
	res := ev.Evaluate(c)
	if verbose {
		oastype.Emit(logsink.New(logger, logsink.WithLevel(zerolog.DebugLevel)), res.Diagnostics)
	}

	if err := printJSON(stdout, newCheckResult(c, res)); err != nil {
		logger.Error().Err(err).Msg("writing result failed")
		return exitUsage
	}
	switch {
	case res.Err == nil:
		return exitOK
	case oastype.IsDataError(res.Err):
		return exitInvalid
	default:
		return exitUsage
	}
}

// formatEntry is one line of the formats listing.
type formatEntry struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Deferred bool   `json:"deferred,omitempty"`
	ID       string `json:"id,omitempty"`
}

func listFormats(r *formats.Registry) []formatEntry {
	regs := r.List()
	out := make([]formatEntry, 0, len(regs))
	for _, reg := range regs {
		out = append(out, formatEntry{
			Type:     reg.Type,
			Name:     reg.Name,
			Deferred: reg.Entry.IsDeferred(),
			ID:       reg.Entry.ID(),
		})
	}
	return out
}

func formatsCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("formats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		reg    registryFlags
		asJSON bool
	)
	reg.register(fs)
	fs.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	registry, err := reg.load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	entries := listFormats(registry)
	if asJSON {
		if err := printJSON(stdout, entries); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
		return exitOK
	}
	for _, e := range entries {
		kind := "func"
		if e.Deferred {
			kind = "deferred:" + e.ID
		}
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", e.Type, e.Name, kind)
	}
	return exitOK
}

func printJSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
