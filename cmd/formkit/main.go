package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-formkit/internal/database"
	"github.com/goliatone/go-formkit/internal/store"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "fill":
		err = runFill(ctx, os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "import":
		err = runImport(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("formkit: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: formkit <command> [flags]

commands:
  fill      fill out a template interactively and save the result
  validate  check a template document for structural errors
  import    build a template from an OpenAPI operation`)
}

func runFill(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("fill", flag.ExitOnError)
	templatePath := flags.String("template", "", "template document (JSON or YAML)")
	dbPath := flags.String("db", "formkit.db", "sqlite database path")
	draft := flags.Bool("draft", false, "save as draft instead of submitting")
	userID := flags.String("user", "", "user id recorded in the audit trail")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *templatePath == "" {
		return fmt.Errorf("fill: -template is required")
	}

	tpl, err := loadTemplate(*templatePath)
	if err != nil {
		return err
	}
	if issues := validation.ValidateTemplate(tpl); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "  %s\n", issue.Error())
		}
		return fmt.Errorf("fill: template has %d structural error(s)", len(issues))
	}

	db, err := database.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	stores := store.New(db)

	if _, err := stores.Templates.Get(ctx, tpl.ID); err != nil {
		if _, err := stores.Templates.Create(ctx, tpl); err != nil {
			return err
		}
	}

	session := render.NewSession(tpl,
		render.WithInstanceStore(stores.Instances),
		render.WithUserID(*userID),
	)

	filler := &filler{session: session, prompter: surveyPrompter{}}
	if err := filler.run(ctx, *draft); err != nil {
		return err
	}
	return nil
}

func runValidate(args []string) error {
	flags := flag.NewFlagSet("validate", flag.ExitOnError)
	templatePath := flags.String("template", "", "template document (JSON or YAML)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *templatePath == "" {
		return fmt.Errorf("validate: -template is required")
	}

	tpl, err := loadTemplate(*templatePath)
	if err != nil {
		return err
	}

	issues := validation.ValidateTemplate(tpl)
	if len(issues) == 0 {
		fmt.Printf("%s: ok (%d sections, %d fields)\n", tpl.Name, len(tpl.Sections), tpl.FieldCount())
		return nil
	}
	for _, issue := range issues {
		fmt.Printf("  %s\n", issue.Error())
	}
	return fmt.Errorf("validate: %d structural error(s)", len(issues))
}

func runImport(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("import", flag.ExitOnError)
	source := flags.String("source", "", "OpenAPI document path")
	operation := flags.String("operation", "", "operationId to import")
	output := flags.String("output", "", "output file (stdout if empty)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *source == "" || *operation == "" {
		return fmt.Errorf("import: -source and -operation are required")
	}

	raw, err := os.ReadFile(*source)
	if err != nil {
		return fmt.Errorf("import: read source: %w", err)
	}

	tpl, err := openapi.New().Import(ctx, raw, *operation)
	if err != nil {
		return err
	}

	document, err := schema.Marshal(tpl)
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, document, 0o644); err != nil {
			return fmt.Errorf("import: write output: %w", err)
		}
		fmt.Printf("Template written to %s\n", *output)
		return nil
	}
	fmt.Println(string(document))
	return nil
}

func loadTemplate(path string) (schema.Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return schema.Template{}, fmt.Errorf("read template: %w", err)
	}
	return schema.Decode(raw)
}
