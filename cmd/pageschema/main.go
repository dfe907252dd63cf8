package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/logging/gologger"
	"github.com/goliatone/go-pagebuilder/internal/migrate"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/internal/validation"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

const usage = `usage: pageschema <command> [flags]

commands:
  check     validate a config_schema document for the template editor
  validate  validate page content against a config_schema
  migrate   rewrite page content into the nested section shape
`

// errInvalid marks a run that completed but found invalid input.
var errInvalid = errors.New("pageschema: input invalid")

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errInvalid):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "pageschema: %v\n", err)
		os.Exit(2)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("command required")
	}
	switch args[0] {
	case "check":
		return runCheck(args[1:], stdout, stderr)
	case "validate":
		return runValidate(args[1:], stdout, stderr)
	case "migrate":
		return runMigrate(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

type commonFlags struct {
	schemaPath string
	logLevel   string
	logFormat  string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.schemaPath, "schema", "", "Path to the template config_schema JSON document")
	fs.StringVar(&c.logLevel, "log-level", "", "Enable go-logger diagnostics at this level")
	fs.StringVar(&c.logFormat, "log-format", "console", "Diagnostics format: json, console or pretty")
}

func (c *commonFlags) logger() (interfaces.Logger, error) {
	if strings.TrimSpace(c.logLevel) == "" {
		return logging.NoOp(), nil
	}
	provider, err := gologger.NewProvider(gologger.Config{Level: c.logLevel, Format: c.logFormat})
	if err != nil {
		return nil, err
	}
	return logging.ModuleLogger(provider, "pagebuilder.cli"), nil
}

type loadedSchema struct {
	def    schema.TemplateConfigSchema
	raw    []byte
	issues []schema.Issue
}

func (c *commonFlags) loadSchema(logger interfaces.Logger) (loadedSchema, error) {
	if strings.TrimSpace(c.schemaPath) == "" {
		return loadedSchema{}, errors.New("-schema is required")
	}
	data, err := os.ReadFile(c.schemaPath)
	if err != nil {
		return loadedSchema{}, err
	}
	def, issues, err := schema.Parse(data)
	if err != nil {
		return loadedSchema{}, err
	}
	for _, issue := range issues {
		logger.Warn("cli.schema.issue", "path", issue.Path, "message", issue.Message)
	}
	return loadedSchema{def: def, raw: data, issues: issues}, nil
}

func loadContent(path string) (content.Content, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("-content is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := content.Content{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return doc, nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func runCheck(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pageschema check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	logger, err := common.logger()
	if err != nil {
		return err
	}
	loaded, err := common.loadSchema(logger)
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := json.Unmarshal(loaded.raw, &doc); err != nil {
		return fmt.Errorf("decode schema: %w", err)
	}
	problems := []string{}
	for _, issue := range loaded.issues {
		problems = append(problems, issue.String())
	}
	if err := schema.ValidateDocument(doc); err != nil {
		var docErr *schema.DocumentError
		if errors.As(err, &docErr) {
			for _, issue := range docErr.Issues {
				problems = append(problems, issue.String())
			}
		} else {
			return err
		}
	}
	if err := schema.ValidateDefinition(loaded.def); err != nil {
		problems = append(problems, err.Error())
	}

	if err := writeJSON(stdout, map[string]any{
		"isValid":  len(problems) == 0,
		"errors":   problems,
		"sections": len(loaded.def.Sections),
	}); err != nil {
		return err
	}
	if len(problems) > 0 {
		return errInvalid
	}
	return nil
}

func runValidate(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pageschema validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	contentPath := fs.String("content", "", "Path to the page content JSON document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	logger, err := common.logger()
	if err != nil {
		return err
	}
	loaded, err := common.loadSchema(logger)
	if err != nil {
		return err
	}
	doc, err := loadContent(*contentPath)
	if err != nil {
		return err
	}

	report := validation.NewEngine(validation.WithLogger(logger)).Validate(loaded.def, doc)
	if err := writeJSON(stdout, report); err != nil {
		return err
	}
	if !report.IsValid {
		return errInvalid
	}
	return nil
}

func runMigrate(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pageschema migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	contentPath := fs.String("content", "", "Path to the page content JSON document")
	outPath := fs.String("out", "", "Write canonical content here instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	logger, err := common.logger()
	if err != nil {
		return err
	}
	loaded, err := common.loadSchema(logger)
	if err != nil {
		return err
	}
	doc, err := loadContent(*contentPath)
	if err != nil {
		return err
	}

	result := migrate.NewMigrator(migrate.WithLogger(logger)).Canonicalize(loaded.def, doc)
	for _, change := range result.Changes {
		fmt.Fprintln(stderr, change.String())
	}
	for _, issue := range result.Issues {
		fmt.Fprintln(stderr, "warning:", issue.String())
	}

	if strings.TrimSpace(*outPath) == "" {
		return writeJSON(stdout, result.Content)
	}
	file, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	if err := writeJSON(file, result.Content); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
