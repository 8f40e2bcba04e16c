package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/spektr-org/dashboards/engine"
	"github.com/spektr-org/dashboards/export"
	"github.com/spektr-org/dashboards/grades"
	"github.com/spektr-org/dashboards/internal/config"
	"github.com/spektr-org/dashboards/internal/logger"
	"github.com/spektr-org/dashboards/sales"
	"github.com/spektr-org/dashboards/schema"
)

// Action carries the resolved configuration and output of one command.
type Action struct {
	cmd    *cobra.Command
	cfg    *config.Config
	out    io.Writer
	file   *os.File
	format string
	color  bool
	start  time.Time
}

func newAction(cmd *cobra.Command) (*Action, error) {
	a := &Action{cmd: cmd, start: time.Now()}

	cfg, err := config.Load(a.getString("config"))
	if err != nil {
		return nil, err
	}
	if a.changed("format") {
		cfg.Output.Format = a.getString("format")
	}
	if a.changed("log-level") {
		cfg.Log.Level = a.getString("log-level")
	}
	if a.changed("log-format") {
		cfg.Log.Format = a.getString("log-format")
	}
	if a.getBool("no-color") {
		cfg.Output.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a.cfg = cfg

	level, _ := logger.ParseLevel(cfg.Log.Level)
	logFormat, _ := logger.ParseFormat(cfg.Log.Format)
	logger.SetLevelAndFormat(level, logFormat)

	a.format = cfg.Output.Format
	a.out = os.Stdout
	if path := a.getString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create output file")
		}
		a.file = f
		a.out = f
	}
	a.color = cfg.Output.Color && a.file == nil && !color.NoColor
	return a, nil
}

func (a *Action) changed(name string) bool {
	return a.cmd.Flags().Changed(name)
}

func (a *Action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *Action) getInt(name string) int {
	result, _ := a.cmd.Flags().GetInt(name)
	return result
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

// Close closes the output file, if any, and logs the command duration.
// A command error takes precedence over a close error.
func (a *Action) Close(err *error) {
	if a.file != nil {
		if cerr := a.file.Close(); cerr != nil && *err == nil {
			*err = errors.Wrap(cerr, "failed to close output file")
		}
		if *err == nil {
			logger.Info("output written", "path", a.file.Name(), "format", a.format)
		}
	}
	logger.Debug("command finished", "command", a.cmd.Name(), "duration", time.Since(a.start), "ok", *err == nil)
}

// ============================================================================
// GRADES
// ============================================================================

func gradesDashboard(cmd *cobra.Command, args []string) (err error) {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}
	defer a.Close(&err)

	p := a.cfg.Grades
	if a.changed("grade") {
		p.Grades, _ = cmd.Flags().GetIntSlice("grade")
	}
	if a.changed("search") {
		p.Search = a.getString("search")
	}
	if a.changed("subject") {
		p.Subject = a.getString("subject")
	}
	if a.changed("threshold") {
		mode, err := engine.ParseMode(a.getString("threshold"))
		if err != nil {
			return err
		}
		p.Threshold = mode
	}
	if a.changed("sort") {
		order, err := engine.ParseOrder(a.getString("sort"))
		if err != nil {
			return err
		}
		p.Sort = order
	}
	if a.changed("hist-field") {
		p.HistogramField = a.getString("hist-field")
	}
	if a.changed("band-field") {
		p.BandField = a.getString("band-field")
	}
	if a.changed("where") {
		p.Where = a.getString("where")
	}

	book := grades.DefaultBook()
	if path := a.getString("roster"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "failed to read roster")
		}
		students, err := grades.ReadRoster(data)
		if err != nil {
			return err
		}
		book = grades.NewBook(students)
		logger.Info("roster loaded", "path", path, "students", book.Len())
	}

	view, err := grades.Run(book, p, engine.WithLogger(logger.WithDashboard("grades")))
	if err != nil {
		return err
	}

	if path := a.getString("export"); path != "" {
		table := export.StudentTable(view.Records, memory.NewGoAllocator())
		err := export.ToFile(table, path)
		table.Release()
		if err != nil {
			return errors.Wrap(err, "export failed")
		}
		logger.Info("records exported", "path", path, "rows", len(view.Records))
	}

	switch a.format {
	case "csv":
		return writeGradesCSV(a.out, view, a.getString("section"))
	case "text":
		writeGradesText(a.out, view, a.color)
		return nil
	}
	return writeJSON(a.out, view, a.format)
}

// ============================================================================
// SALES
// ============================================================================

func salesDashboard(cmd *cobra.Command, args []string) (err error) {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}
	defer a.Close(&err)

	seed := a.cfg.Sales.Seed
	if a.changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}

	p := a.cfg.Sales.Params
	if a.changed("product") {
		raw, _ := cmd.Flags().GetStringSlice("product")
		p.Products = make([]string, 0, len(raw))
		for _, s := range raw {
			prod, err := sales.ParseProduct(s)
			if err != nil {
				return err
			}
			p.Products = append(p.Products, prod)
		}
	}
	if a.getBool("no-products") {
		p.Products = []string{}
	}
	if a.changed("from") {
		p.MonthFrom = a.getInt("from")
	}
	if a.changed("to") {
		p.MonthTo = a.getInt("to")
	}
	if a.changed("top") {
		p.TopK = a.getInt("top")
	}
	for flag, axis := range map[string]*string{"scatter-x": &p.ScatterX, "scatter-y": &p.ScatterY} {
		if !a.changed(flag) {
			continue
		}
		prod, err := sales.ParseProduct(a.getString(flag))
		if err != nil {
			return errors.Wrapf(err, "--%s", flag)
		}
		*axis = prod
	}
	if a.changed("where") {
		p.Where = a.getString("where")
	}

	ledger := sales.NewLedger(seed)
	view, err := sales.Run(ledger, p, engine.WithLogger(logger.WithDashboard("sales")))
	if err != nil {
		return err
	}
	if view.CompareDisabled {
		logger.Warn("comparison views disabled", "products", len(p.Products))
	}

	switch a.format {
	case "csv":
		return writeSalesCSV(a.out, view, a.getString("section"))
	case "text":
		writeSalesText(a.out, view, a.color)
		return nil
	}
	return writeJSON(a.out, view, a.format)
}

// ============================================================================
// SCHEMA / VERSION
// ============================================================================

func showSchema(cmd *cobra.Command, args []string) (err error) {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}
	defer a.Close(&err)

	all := []schema.Config{grades.Schema, sales.Schema, sales.LocationSchema}
	selected := all
	if len(args) == 1 {
		selected = nil
		for _, s := range all {
			if s.Name == args[0] {
				selected = []schema.Config{s}
			}
		}
		if selected == nil {
			return errors.Errorf("unknown dataset %q (want grades, sales or locations)", args[0])
		}
	}

	switch a.format {
	case "csv", "text":
		for _, s := range selected {
			table := schemaTable(s)
			if a.format == "text" {
				writeTableText(a.out, table, a.color)
				continue
			}
			if err := writeTableCSV(a.out, table); err != nil {
				return err
			}
		}
		return nil
	}
	if len(selected) == 1 {
		return writeJSON(a.out, selected[0], a.format)
	}
	return writeJSON(a.out, selected, a.format)
}

func showVersion(cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "dashboards %s\n", version)
	return err
}
