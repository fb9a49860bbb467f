// Command wagesgen builds quarterly wages files from an employee workbook
// without running the web server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/csg33k/wages-generator/internal/adapters/sqldb"
	"github.com/csg33k/wages-generator/internal/adapters/wages"
	"github.com/csg33k/wages-generator/internal/adapters/xlsx"
	"github.com/csg33k/wages-generator/internal/config"
	"github.com/csg33k/wages-generator/internal/domain"
)

var version = "dev"

const usage = `usage: wagesgen <command> [arguments]

commands:
  generate <workbook.xlsx> [-year Y] [-quarter Q] [-batch B] [-out DIR] [-trailing] [-store]
  preview  <workbook.xlsx> [-batch B]
  template <path.xlsx>
  version
  help
`

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now); err != nil {
		fmt.Fprintln(os.Stderr, "wagesgen:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("see 'wagesgen help'")

func run(args []string, stdout io.Writer, now func() time.Time) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return errUsage
	}
	switch args[0] {
	case "generate":
		return generate(args[1:], stdout, now())
	case "preview":
		return preview(args[1:], stdout, now())
	case "template":
		if len(args) != 2 {
			return errUsage
		}
		return writeTemplate(args[1], stdout)
	case "version":
		fmt.Fprintln(stdout, "wagesgen", version)
		return nil
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

// parse splits a workbook path from the flags; the path may come before or
// after them.
func parse(fs *flag.FlagSet, args []string) (string, error) {
	var path string
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		path, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if path == "" && fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if path == "" {
		return "", fmt.Errorf("%s: workbook path required: %w", fs.Name(), errUsage)
	}
	return path, nil
}

func generate(args []string, stdout io.Writer, now time.Time) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	year := fs.Int("year", now.Year(), "filing year")
	quarter := fs.Int("quarter", (int(now.Month())-1)/3+1, "filing quarter (1-4)")
	batch := fs.String("batch", cfg.DefaultBatch, "batch number")
	out := fs.String("out", cfg.OutputDir, "output directory")
	trailing := fs.Bool("trailing", cfg.TrailingCRLF, "end the file with CRLF")
	store := fs.Bool("store", false, "record the run in the database")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}

	filename, err := wages.OutputFilename(*year, *quarter)
	if err != nil {
		return err
	}
	rows, err := readWorkbook(path)
	if err != nil {
		return err
	}
	b, err := wages.NormalizeBatch(*batch)
	if err != nil {
		return err
	}
	enc, err := encoder(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	records, err := enc.EncodeAll(ctx, rows, now, b)
	if err != nil {
		return err
	}

	dest := filepath.Join(*out, filename)
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := wages.WriteFile(f, records, *trailing); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d records to %s\n", len(records), dest)

	if !*store {
		return nil
	}
	content, err := os.ReadFile(dest)
	if err != nil {
		return err
	}
	run := &domain.Run{
		Filename:     filename,
		Batch:        b,
		Quarter:      fmt.Sprint(*quarter),
		RowCount:     len(records),
		TrailingCRLF: *trailing,
		Content:      content,
		Operator:     cfg.Operator.User,
		CreatedAt:    now.UTC(),
	}
	if err := storeRun(ctx, cfg, run); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "stored run %s\n", run.ID)
	return nil
}

func storeRun(ctx context.Context, cfg config.Config, run *domain.Run) error {
	repo, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer repo.Close()
	return repo.CreateRun(ctx, run)
}

// preview prints the field audit of the first record.
func preview(args []string, stdout io.Writer, now time.Time) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	batch := fs.String("batch", cfg.DefaultBatch, "batch number")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	rows, err := readWorkbook(path)
	if err != nil {
		return err
	}
	enc, err := encoder(cfg)
	if err != nil {
		return err
	}
	rec, err := enc.Encode(rows[0], now, *batch)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "row %d\n%q\n\n", rec.RowNumber, rec.Line)
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tFIELD\tEXPECTED\tACTUAL\tVALUE")
	for _, s := range rec.Fields {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%q\n", s.Index, s.Name, s.ExpectedLength, s.ActualLength(), s.Value)
	}
	return tw.Flush()
}

func writeTemplate(path string, stdout io.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := xlsx.WriteTemplate(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "wrote template to", path)
	return nil
}

func readWorkbook(path string) ([]domain.InputRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := xlsx.NewReader().ReadRows(context.Background(), f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, wages.ErrNoRows
	}
	return rows, nil
}

func encoder(cfg config.Config) (*wages.Encoder, error) {
	nf, err := wages.Locale(cfg.SalaryLocale)
	if err != nil {
		return nil, err
	}
	return wages.New(wages.WithFallbackLocale(nf)), nil
}
