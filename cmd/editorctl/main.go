// editorctl drives a content session from the command line against the
// store configured for the server (STORE_BACKEND and friends).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"

	"github.com/BitOnUranus/base64/internal/config"
	"github.com/BitOnUranus/base64/internal/domain"
	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
	editorSvc "github.com/BitOnUranus/base64/internal/domain/services/editor"
	"github.com/BitOnUranus/base64/internal/repository"
	"github.com/BitOnUranus/base64/internal/service/editor"
	"github.com/BitOnUranus/base64/internal/service/editor/converter"
)

// app holds what every command needs. The store is opened lazily since
// ingest, encode, decode and snippets never touch it.
type app struct {
	cfg          *config.Config
	slot         string
	declaredType string
	logger       *slog.Logger
	catalog      *editor.Catalog
	converters   *converter.ConverterRegistry
	stdout       io.Writer
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	slot := flag.String("slot", cfg.DefaultSlot, "Slot to restore from and persist to")
	declaredType := flag.String("type", "", "Declared media type of the input file (default: from extension)")
	verbose := flag.Bool("v", false, "Debug logs on stderr")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, *slot, *declaredType, *verbose)
	if err != nil {
		fail(err)
	}

	args := flag.Args()[1:]
	switch flag.Arg(0) {
	case "ingest":
		err = a.cmdIngest(ctx, args)
	case "encode":
		err = a.cmdEncode(ctx, args)
	case "decode":
		err = a.cmdDecode(os.Stdin)
	case "save":
		err = a.cmdSave(ctx, args)
	case "insert":
		err = a.cmdInsert(ctx, args)
	case "show":
		err = a.cmdShow(ctx)
	case "export":
		err = a.cmdExport(ctx, args)
	case "snippets":
		err = a.cmdSnippets()
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `editorctl - ingest, encode and persist editor content
USAGE
  editorctl [flags] <command> [args]
COMMANDS
  ingest <file>       Print the canonical content of a .txt, .md, .html or .docx file
  encode <file>       Ingest a file and print its base64 encoding
  decode              Decode base64 from stdin and print the content
  save <file>         Ingest a file and persist it to the slot
  insert <id>...      Append catalog snippets to the saved content and persist
  show                Print the content restored from the slot
  export [-copy] [-format base64|markdown]
                      Print (and optionally copy) the saved content
  snippets            List the snippet catalog
FLAGS
`)
	flag.PrintDefaults()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "editorctl:", err)
	if domain.IsRetryable(err) {
		fmt.Fprintln(os.Stderr, "editorctl: storage error is transient, retry may succeed")
	}
	os.Exit(1)
}

func newApp(cfg *config.Config, slot, declaredType string, verbose bool) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := models.ValidateSlotName(slot); err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	catalog := editor.DefaultCatalog()
	if cfg.SnippetsFile != "" {
		var err error
		if catalog, err = editor.LoadCatalogFile(cfg.SnippetsFile); err != nil {
			return nil, err
		}
	}

	converters, err := converter.NewConverterRegistry(converter.Options{
		HTMLPolicy:     cfg.HTMLPolicy,
		RenderMarkdown: cfg.MarkdownMode == config.MarkdownHTML,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:          cfg,
		slot:         slot,
		declaredType: declaredType,
		logger:       logger,
		catalog:      catalog,
		converters:   converters,
		stdout:       os.Stdout,
	}, nil
}

// openSession opens the configured store and restores the slot. A missing
// slot leaves the session empty. With replace set, a slot that cannot be
// decoded is reported and left empty so the caller can overwrite it.
func (a *app) openSession(ctx context.Context, replace bool) (editorSvc.ContentSession, func(), error) {
	store, closeStore, err := repository.OpenContentStore(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}

	session, err := editor.NewContentSession(a.slot, store, a.converters, a.catalog, a.logger)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	if err := session.Restore(ctx); err != nil {
		if replace && errors.Is(err, domain.ErrDecode) {
			a.logger.Warn("slot content is corrupt and will be replaced", "slot", a.slot, "error", err)
			return session, closeStore, nil
		}
		closeStore()
		return nil, nil, fmt.Errorf("restore %s: %w", a.slot, err)
	}
	return session, closeStore, nil
}

// readUpload reads a local file the way the HTTP driver receives one.
func (a *app) readUpload(args []string) (*editorSvc.UploadedFile, error) {
	if len(args) != 1 {
		return nil, errors.New("expected exactly one file argument")
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return nil, err
	}
	return &editorSvc.UploadedFile{
		Name:         filepath.Base(args[0]),
		DeclaredType: a.declaredType,
		Content:      content,
	}, nil
}

func (a *app) convert(ctx context.Context, args []string) (string, error) {
	file, err := a.readUpload(args)
	if err != nil {
		return "", err
	}
	return a.converters.Convert(ctx, file)
}

func (a *app) cmdIngest(ctx context.Context, args []string) error {
	content, err := a.convert(ctx, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, content)
	return nil
}

func (a *app) cmdEncode(ctx context.Context, args []string) error {
	content, err := a.convert(ctx, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, editor.Encode(content))
	return nil
}

func (a *app) cmdDecode(in io.Reader) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	content, err := editor.Decode(models.EncodedContent(data))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, content)
	return nil
}

func (a *app) cmdSave(ctx context.Context, args []string) error {
	file, err := a.readUpload(args)
	if err != nil {
		return err
	}

	session, closeStore, err := a.openSession(ctx, true)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := session.IngestUpload(ctx, file); err != nil {
		return err
	}
	if err := session.Persist(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "saved %s to slot %s (%d chars)\n", file.Name, a.slot, len([]rune(session.State().Content)))
	return nil
}

func (a *app) cmdInsert(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return errors.New("expected at least one snippet id")
	}

	session, closeStore, err := a.openSession(ctx, false)
	if err != nil {
		return err
	}
	defer closeStore()

	for _, id := range ids {
		if err := session.InsertSnippet(id); err != nil {
			return err
		}
	}
	if err := session.Persist(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "inserted %d snippet(s) into slot %s\n", len(ids), a.slot)
	return nil
}

func (a *app) cmdShow(ctx context.Context) error {
	session, closeStore, err := a.openSession(ctx, false)
	if err != nil {
		return err
	}
	defer closeStore()

	state := session.State()
	if !state.IsLoaded {
		fmt.Fprintf(os.Stderr, "slot %s is empty\n", a.slot)
		return nil
	}
	fmt.Fprintln(a.stdout, state.Content)
	return nil
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	copyOut := fs.Bool("copy", false, "Also copy the result to the clipboard")
	format := fs.String("format", "base64", "Output format: base64|markdown")
	_ = fs.Parse(args)

	session, closeStore, err := a.openSession(ctx, false)
	if err != nil {
		return err
	}
	defer closeStore()

	var out string
	switch *format {
	case "base64":
		var encoded models.EncodedContent
		encoded, err = session.ExportEncoded()
		out = encoded.String()
	case "markdown":
		out, err = session.ExportMarkdown()
	default:
		return fmt.Errorf("unknown format %q (want base64 or markdown)", *format)
	}
	if errors.Is(err, domain.ErrNothingToExport) {
		fmt.Fprintf(os.Stderr, "slot %s is empty, nothing to export\n", a.slot)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, out)
	if *copyOut {
		if err := clipboard.WriteAll(out); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied to clipboard")
	}
	return nil
}

func (a *app) cmdSnippets() error {
	for _, s := range a.catalog.Items() {
		fmt.Fprintf(a.stdout, "%s\t%s\n", s.ID, s.Text)
	}
	return nil
}
