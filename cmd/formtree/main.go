package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hanpama/formtree/internal/builder"
	"github.com/hanpama/formtree/internal/document"
	"github.com/hanpama/formtree/internal/eventbus"
	"github.com/hanpama/formtree/internal/form"
	"github.com/hanpama/formtree/internal/formproto"
	"github.com/hanpama/formtree/internal/formsdl"
	"github.com/hanpama/formtree/internal/otel"
	"github.com/hanpama/formtree/internal/palette"
)

const rootUsage = `formtree: form schema tree tools

USAGE:
  formtree <command> [flags]

COMMANDS:
  apply            Replay an edit script on a form document
  render           Print the outline of a form document
  validate         Check a form document's tree invariants
  palette          List the field templates of a palette
  compile-proto    Write the protobuf definition of form documents
  export-proto     Encode a form document as a protobuf message
  compile-sdl      Describe a form's submission as a GraphQL input type
  help             Show help for any command
`

const applyUsage = `apply FLAGS:
  -in <file>              Form document, .json or .yaml (default: empty form)
  -script <file>          Command script, .json or .yaml (required)
  -out <file>             Write the result to file (default: JSON on stdout)
  -palette <file>         Palette for commands naming an entry (default: built-in)
  -strict                 Reject unknown templates instead of inserting placeholders
  -log.level <level>      debug, info, warn or error (default: info)
  -log.format <format>    text or json (default: text)
  -otel.endpoint <addr>   OTLP collector endpoint
  -otel.service <name>    OpenTelemetry service name (default: formtree)
`

const renderUsage = `render FLAGS:
  -in <file>  Form document (required)
`

const validateUsage = `validate FLAGS:
  -in <file>  Form document (required)
  (Exits non-zero and lists every violation when the tree is invalid)
`

const paletteUsage = `palette FLAGS:
  -palette <file>  Palette file, .yaml, .json or .hcl (default: built-in)
`

const compileProtoUsage = `compile-proto FLAGS:
  -out <dir>  Output directory for the generated .proto file (required)
`

const exportProtoUsage = `export-proto FLAGS:
  -in <file>        Form document (required)
  -format <format>  json or binary (default: json)
  -out <file>       Write the message to file (default: stdout)
`

const compileSDLUsage = `compile-sdl FLAGS:
  -in <file>    Form document (required)
  -name <name>  Form name; the input type is <Name>Submission
                (default: the form heading, else the file name)
  -out <file>   Write SDL to file (default: stdout)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("formtree", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "apply":
		return cmdApply(cmdArgs)
	case "render":
		return cmdRender(cmdArgs)
	case "validate":
		return cmdValidate(cmdArgs)
	case "palette":
		return cmdPalette(cmdArgs)
	case "compile-proto":
		return cmdCompileProto(cmdArgs)
	case "export-proto":
		return cmdExportProto(cmdArgs)
	case "compile-sdl":
		return cmdCompileSDL(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "apply":
		fmt.Print(applyUsage)
	case "render":
		fmt.Print(renderUsage)
	case "validate":
		fmt.Print(validateUsage)
	case "palette":
		fmt.Print(paletteUsage)
	case "compile-proto":
		fmt.Print(compileProtoUsage)
	case "export-proto":
		fmt.Print(exportProtoUsage)
	case "compile-sdl":
		fmt.Print(compileSDLUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

func readDocument(path string) (*document.Document, error) {
	f, err := document.FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return document.Unmarshal(data, f)
}

func loadPalette(path string) (*palette.Palette, error) {
	if path == "" {
		return palette.Builtin(), nil
	}
	return palette.Load(path)
}

func cmdApply(args []string) error {
	inFile := ""
	scriptFile := ""
	outFile := ""
	paletteFile := ""
	strict := false
	logLevel := "info"
	logFormat := "text"
	otelEndpoint := ""
	otelService := "formtree"

	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&inFile, "in", inFile, "Form document")
	fs.StringVar(&scriptFile, "script", scriptFile, "Command script")
	fs.StringVar(&outFile, "out", outFile, "Output document")
	fs.StringVar(&paletteFile, "palette", paletteFile, "Palette file")
	fs.BoolVar(&strict, "strict", strict, "Reject unknown templates")
	fs.StringVar(&logLevel, "log.level", logLevel, "Log level")
	fs.StringVar(&logFormat, "log.format", logFormat, "Log format")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, applyUsage)
		return err
	}
	if scriptFile == "" {
		fmt.Fprint(os.Stderr, applyUsage)
		return fmt.Errorf("-script is required")
	}

	logger := newLogger(logLevel, logFormat, os.Stderr)
	ctx := context.Background()

	var nodes []*form.Node
	if inFile != "" {
		doc, err := readDocument(inFile)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		nodes = doc.Nodes
	}
	pal, err := loadPalette(paletteFile)
	if err != nil {
		return fmt.Errorf("load palette: %w", err)
	}

	scriptFormat, err := document.FormatOf(scriptFile)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(scriptFile)
	if err != nil {
		return err
	}
	cmds, err := builder.ParseScript(data, scriptFormat)
	if err != nil {
		return err
	}

	bus := eventbus.New()
	shutdown, err := otel.Setup(ctx, bus, otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	b := builder.New(
		builder.WithLogger(logger),
		builder.WithBus(bus),
		builder.WithStrict(strict),
		builder.WithPalette(pal),
		builder.WithNodes(nodes),
	)
	results, err := b.Replay(ctx, cmds)
	if err != nil {
		return err
	}
	for i, res := range results {
		if !res.Applied {
			logger.Warn("command had no effect", "index", i+1, "op", cmds[i].Op)
		}
	}

	doc := document.New(b.Nodes())
	if err := form.Validate(doc.Nodes); err != nil {
		return err
	}
	return writeDocument(doc, outFile)
}

func writeDocument(doc *document.Document, outFile string) error {
	f := document.FormatJSON
	if outFile != "" {
		var err error
		if f, err = document.FormatOf(outFile); err != nil {
			return err
		}
	}
	data, err := document.Marshal(doc, f)
	if err != nil {
		return err
	}
	if outFile == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(outFile, data, 0644)
}

func cmdRender(args []string) error {
	inFile := ""
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&inFile, "in", inFile, "Form document")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, renderUsage)
		return err
	}
	if inFile == "" {
		fmt.Fprint(os.Stderr, renderUsage)
		return fmt.Errorf("-in is required")
	}
	doc, err := readDocument(inFile)
	if err != nil {
		return err
	}
	fmt.Print(form.Render(doc.Nodes))
	return nil
}

func cmdValidate(args []string) error {
	inFile := ""
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&inFile, "in", inFile, "Form document")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, validateUsage)
		return err
	}
	if inFile == "" {
		fmt.Fprint(os.Stderr, validateUsage)
		return fmt.Errorf("-in is required")
	}
	doc, err := readDocument(inFile)
	if ve, ok := form.AsValidationError(err); ok {
		for _, v := range ve {
			fmt.Fprintf(os.Stderr, "%s: %s\n", v.NodeID, v.Message)
		}
		return fmt.Errorf("%s: %d violations", inFile, len(ve))
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s: ok, %d nodes\n", inFile, form.Count(doc.Nodes))
	return nil
}

func cmdPalette(args []string) error {
	paletteFile := ""
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&paletteFile, "palette", paletteFile, "Palette file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, paletteUsage)
		return err
	}
	pal, err := loadPalette(paletteFile)
	if err != nil {
		return err
	}
	for _, e := range pal.Entries() {
		fmt.Printf("%-12s %-10s %s\n", e.Name, e.Type, e.Label)
	}
	return nil
}

func cmdCompileProto(args []string) error {
	outDir := ""
	fs := flag.NewFlagSet("compile-proto", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&outDir, "out", outDir, "Output directory for the generated .proto file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileProtoUsage)
		return err
	}
	if outDir == "" {
		fmt.Fprint(os.Stderr, compileProtoUsage)
		return fmt.Errorf("-out is required")
	}
	fd, err := formproto.Build()
	if err != nil {
		return fmt.Errorf("build descriptor: %w", err)
	}
	if _, err := formproto.RenderDir(fd, outDir); err != nil {
		return fmt.Errorf("render proto: %w", err)
	}
	return nil
}

func cmdExportProto(args []string) error {
	inFile := ""
	format := "json"
	outFile := ""
	fs := flag.NewFlagSet("export-proto", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&inFile, "in", inFile, "Form document")
	fs.StringVar(&format, "format", format, "json or binary")
	fs.StringVar(&outFile, "out", outFile, "Output file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, exportProtoUsage)
		return err
	}
	if inFile == "" {
		fmt.Fprint(os.Stderr, exportProtoUsage)
		return fmt.Errorf("-in is required")
	}
	doc, err := readDocument(inFile)
	if err != nil {
		return err
	}
	fd, err := formproto.Build()
	if err != nil {
		return fmt.Errorf("build descriptor: %w", err)
	}

	var data []byte
	switch format {
	case "json":
		data, err = formproto.MarshalJSON(fd, doc.Nodes)
	case "binary":
		data, err = formproto.MarshalBinary(fd, doc.Nodes)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	if outFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outFile, data, 0644)
}

func cmdCompileSDL(args []string) error {
	inFile := ""
	name := ""
	outFile := ""
	fs := flag.NewFlagSet("compile-sdl", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&inFile, "in", inFile, "Form document")
	fs.StringVar(&name, "name", name, "Form name")
	fs.StringVar(&outFile, "out", outFile, "Write SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileSDLUsage)
		return err
	}
	if inFile == "" {
		fmt.Fprint(os.Stderr, compileSDLUsage)
		return fmt.Errorf("-in is required")
	}
	doc, err := readDocument(inFile)
	if err != nil {
		return err
	}
	if name == "" {
		name = formName(inFile, doc.Nodes)
	}
	sdl := formsdl.Render(formsdl.Build(name, doc.Nodes))
	if _, err := formsdl.Parse(name+".graphql", sdl); err != nil {
		return fmt.Errorf("generated SDL does not parse: %w", err)
	}
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}

// formName prefers the form heading and falls back to the file name.
func formName(path string, nodes []*form.Node) string {
	if len(nodes) > 0 && nodes[0].Type == form.KindHeading && nodes[0].Label != "" {
		return nodes[0].Label
	}
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
