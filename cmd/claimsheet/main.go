// Claimsheet CLI runs the claim pipelines against local files.
//
// Usage:
//
//	claimsheet template --claims claims.csv [--out March]
//	claimsheet report --claims claims.csv --claim-ratio ratio.xlsx --benefits benefits.csv [--out March]
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/trace/noop"

	"claimsheet/internal/config"
	"claimsheet/internal/infrastructure"
	"claimsheet/internal/services"
	"claimsheet/internal/validation"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:      "claimsheet",
		Usage:     "Clean and consolidate insurance claim exports into Excel workbooks",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", config.Version, config.Commit, config.BuildTime),
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{config.EnvPrefix + "_LOGGING_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "dir",
				Value:   ".",
				Usage:   "Directory the workbook is written to",
				EnvVars: []string{config.EnvPrefix + "_OUTPUT_DIR"},
			},
		},
		Commands: []*cli.Command{
			templateCommand(),
			reportCommand(),
		},
	}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Workbook file name; .xlsx is appended when missing",
	}
}

func templateCommand() *cli.Command {
	return &cli.Command{
		Name:  "template",
		Usage: "Build the claim template workbook from a claim data export",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "claims",
				Aliases:  []string{"c"},
				Usage:    "Path to the claim data file (csv, xlsx or xls)",
				Required: true,
			},
			outFlag(),
		},
		Action: func(c *cli.Context) error {
			svc, files, err := setup(c)
			if err != nil {
				return err
			}
			claims, err := openUpload(files, services.FieldClaims, c.String("claims"))
			if err != nil {
				return err
			}
			defer claims.close()

			run, err := svc.Template(c.Context, services.TemplateRequest{Claims: claims.upload})
			if err != nil {
				return err
			}
			return finish(c, svc, run)
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Build the claim report workbook from claims, claim ratio and benefit exports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "claims",
				Aliases:  []string{"c"},
				Usage:    "Path to the claim data file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "claim-ratio",
				Aliases:  []string{"r"},
				Usage:    "Path to the claim ratio spreadsheet",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "benefits",
				Aliases:  []string{"b"},
				Usage:    "Path to the benefit data file",
				Required: true,
			},
			outFlag(),
		},
		Action: func(c *cli.Context) error {
			svc, files, err := setup(c)
			if err != nil {
				return err
			}

			var req services.ReportRequest
			for _, in := range []struct {
				field string
				path  string
				dst   **services.Upload
			}{
				{services.FieldClaims, c.String("claims"), &req.Claims},
				{services.FieldClaimRatio, c.String("claim-ratio"), &req.ClaimRatio},
				{services.FieldBenefits, c.String("benefits"), &req.Benefits},
			} {
				f, err := openUpload(files, in.field, in.path)
				if err != nil {
					return err
				}
				defer f.close()
				*in.dst = f.upload
			}

			run, err := svc.Report(c.Context, req)
			if err != nil {
				return err
			}
			return finish(c, svc, run)
		},
	}
}

type openedUpload struct {
	upload *services.Upload
	file   *os.File
}

func (o *openedUpload) close() { _ = o.file.Close() }

func openUpload(files *validation.FileValidator, field, path string) (*openedUpload, error) {
	if _, err := files.ValidateInputFile(field, path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", field, err)
	}
	return &openedUpload{
		upload: &services.Upload{Field: field, Filename: filepath.Base(path), Content: f},
		file:   f,
	}, nil
}

// setup builds the logger, the claims service and the file validator, and
// checks the output directory before any input is read.
func setup(c *cli.Context) (*services.ClaimsService, *validation.FileValidator, error) {
	logger := infrastructure.NewLogger(config.LoggingConfig{
		Level:  c.String("log-level"),
		Format: "text",
	}, os.Stderr)
	slog.SetDefault(logger)

	files := validation.NewFileValidator(logger)
	if err := files.ValidateOutputDirectory(c.String("dir")); err != nil {
		return nil, nil, err
	}

	svc := services.NewClaimsService(
		noop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
		nil,
		logger,
		config.DefaultDownloadName,
	)
	return svc, files, nil
}

func finish(c *cli.Context, svc *services.ClaimsService, run *services.Run) error {
	printRun(c.App.Writer, run)

	artifact, err := svc.Export(c.Context, run, c.String("out"))
	if err != nil {
		return err
	}

	path := filepath.Join(c.String("dir"), artifact.Name)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s (%d bytes)\n", path, len(artifact.Data))
	return nil
}

func printRun(w io.Writer, run *services.Run) {
	fmt.Fprintf(w, "Pipeline: %s\n", run.Pipeline)
	fmt.Fprintf(w, "Rows: %d loaded, %d retained, %d duplicates dropped, %d written\n",
		run.Counts.Loaded, run.Counts.Retained, run.Counts.Duplicates, run.Counts.Output)

	s := run.Summary
	fmt.Fprintf(w, "Summary: %d claims, billed %s, accepted %s, excess %s, unpaid %s\n",
		s.Claims, s.Billed.StringFixed(2), s.Accepted.StringFixed(2),
		s.ExcessTotal.StringFixed(2), s.Unpaid.StringFixed(2))

	if len(run.Diagnostics) == 0 {
		return
	}
	fmt.Fprintf(w, "Warnings (%d):\n", len(run.Diagnostics))
	for _, d := range run.Diagnostics {
		line := "  - " + d.Message
		if len(d.Values) > 0 {
			line += ": " + strings.Join(d.Values, ", ")
		}
		fmt.Fprintln(w, line)
	}
}
