package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/christopherklint97/timecard/internal/calendar"
	"github.com/christopherklint97/timecard/internal/config"
	"github.com/christopherklint97/timecard/internal/extract"
	"github.com/christopherklint97/timecard/internal/render"
	"github.com/christopherklint97/timecard/internal/store"
	"github.com/christopherklint97/timecard/internal/timesheet"
)

// PrimarySummary names primary sessions in calendar exports.
const PrimarySummary = "Delo"

// Result is the outcome of one document. Err is a *timesheet.DocumentError
// when processing failed.
type Result struct {
	Input     string
	Outputs   []string
	Period    timesheet.PeriodInfo
	Records   []*timesheet.DayRecord
	Secondary []*timesheet.DayRecord
	Err       error
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Summary struct {
	Results   []Result
	Succeeded int
	Failed    int
}

// OK reports whether at least one document was processed.
func (s Summary) OK() bool {
	return s.Succeeded > 0
}

// Add counts one document outcome.
func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
	if r.OK() {
		s.Succeeded++
	} else {
		s.Failed++
	}
}

// Processor runs the whole pipeline for one document at a time.
type Processor struct {
	cfg        config.Config
	secondary  timesheet.SecondaryConfig
	normalizer *timesheet.Normalizer
	aggregator *timesheet.Aggregator
	synth      *timesheet.Synthesizer
	extractor  *extract.Extractor
	renderer   *render.PDFRenderer
	db         *store.DB
	notifier   Notifier
	logger     *slog.Logger
}

// New validates cfg and builds a processor. db and notifier may be nil.
func New(cfg config.Config, src timesheet.Source, db *store.DB, notifier Notifier, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	sc, err := cfg.Synth()
	if err != nil {
		return nil, err
	}
	synth, err := timesheet.NewSynthesizer(sc, src)
	if err != nil {
		return nil, err
	}

	normalizer := timesheet.NewNormalizer(cfg.TableMarkers)
	return &Processor{
		cfg:        cfg,
		secondary:  cfg.Secondary(),
		normalizer: normalizer,
		aggregator: timesheet.NewAggregator(logger),
		synth:      synth,
		extractor:  extract.NewExtractor(normalizer.IsHeader, logger),
		renderer:   render.NewPDFRenderer(cfg.FontPath, logger),
		db:         db,
		notifier:   notifier,
		logger:     logger,
	}, nil
}

// ProcessFile converts one timesheet. An empty output writes
// <output_dir>/<base name>.pdf; otherwise secondary and companion files go
// next to output.
func (p *Processor) ProcessFile(ctx context.Context, path, output string) Result {
	res := p.process(ctx, path, output, false)
	var sum Summary
	sum.Add(res)
	p.finish(sum)
	return res
}

// ProcessFolder converts every PDF and XLSX file directly inside dir, in
// name order, into per-month folders below the output directory. A failed
// document does not stop the run; a cancelled context does.
func (p *Processor) ProcessFolder(ctx context.Context, dir string) (Summary, error) {
	inputs, err := listInputs(dir)
	if err != nil {
		return Summary{}, err
	}
	p.logger.Info("processing folder", "dir", dir, "files", len(inputs))

	var sum Summary
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			p.finish(sum)
			return sum, err
		}
		sum.Add(p.process(ctx, in, "", true))
	}

	p.finish(sum)
	return sum, nil
}

func listInputs(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input folder: %w", err)
	}
	var inputs []string
	for _, e := range entries {
		if e.IsDir() || !extract.Supported(e.Name()) {
			continue
		}
		inputs = append(inputs, filepath.Join(dir, e.Name()))
	}
	sort.Strings(inputs)
	return inputs, nil
}

func (p *Processor) process(ctx context.Context, path, output string, monthDirs bool) Result {
	res := Result{Input: path}
	fail := func(stage string, err error) Result {
		res.Err = timesheet.NewDocumentError(path, stage, err)
		p.logger.Error("document failed", "input", path, "stage", stage, "error", err)
		p.record(ctx, res)
		return res
	}

	p.logger.Info("processing", "input", path)

	doc, err := p.extractor.Open(path)
	if err != nil {
		return fail("extract", err)
	}

	info, err := timesheet.ResolvePeriod(doc.Text())
	if err != nil {
		return fail("period", err)
	}
	res.Period = info

	records := p.aggregator.Aggregate(p.normalizer.Normalize(doc.Grids()))
	if len(records) == 0 {
		return fail("table", timesheet.ErrNoTimesheetTable)
	}
	p.synth.SynthesizeAll(records)
	res.Records = records

	if output == "" {
		dir := p.cfg.OutputDir
		if monthDirs {
			dir = filepath.Join(dir, timesheet.MonthDir(info))
		}
		output = filepath.Join(dir, timesheet.BaseFilename(info, "")+".pdf")
	}
	outDir := filepath.Dir(output)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fail("render", fmt.Errorf("creating output directory: %w", err))
	}

	rep := render.BuildReport(info, records)
	if err := p.renderer.Render(ctx, rep, output); err != nil {
		return fail("render", err)
	}
	res.Outputs = append(res.Outputs, output)
	p.logger.Info("generated", "output", output)

	if err := p.companions(info, records, strings.TrimSuffix(output, filepath.Ext(output)), PrimarySummary, &res); err != nil {
		return fail("render", err)
	}

	if p.secondary.Active() {
		secondary := timesheet.Allocate(records, p.synth, p.secondary)
		res.Secondary = secondary

		base := filepath.Join(outDir, timesheet.BaseFilename(info, p.secondary.Name))
		secRep := render.BuildReport(info, secondary)
		secRep.Subtitle += " - " + p.secondary.Name
		if err := p.renderer.Render(ctx, secRep, base+".pdf"); err != nil {
			return fail("render", err)
		}
		res.Outputs = append(res.Outputs, base+".pdf")
		p.logger.Info("generated secondary", "output", base+".pdf")

		if err := p.companions(info, secondary, base, p.secondary.Name, &res); err != nil {
			return fail("render", err)
		}
	}

	p.record(ctx, res)
	return res
}

// companions writes the optional CSV and calendar files next to a report.
func (p *Processor) companions(info timesheet.PeriodInfo, records []*timesheet.DayRecord, base, summary string, res *Result) error {
	if p.cfg.WriteCSV {
		if err := writeFile(base+".csv", func(w io.Writer) error {
			return render.WriteCSV(w, info, records)
		}); err != nil {
			return err
		}
		res.Outputs = append(res.Outputs, base+".csv")
	}
	if p.cfg.WriteICS {
		if err := writeFile(base+".ics", func(w io.Writer) error {
			return calendar.Export(w, info, records, summary)
		}); err != nil {
			return err
		}
		res.Outputs = append(res.Outputs, base+".ics")
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return write(f)
}

// record stores the outcome in the history database. Storage problems are
// logged and never fail the document.
func (p *Processor) record(ctx context.Context, res Result) {
	if p.db == nil || !p.cfg.History {
		return
	}

	doc := &store.Document{
		Input:       res.Input,
		Employee:    res.Period.EmployeeName,
		Outputs:     res.Outputs,
		Status:      store.StatusOK,
		ProcessedAt: time.Now(),
	}
	if res.Period.Year != 0 {
		doc.Period = res.Period.Label()
	}
	if res.Err != nil {
		doc.Status = store.StatusFailed
		var de *timesheet.DocumentError
		if errors.As(res.Err, &de) {
			doc.Error = de.Err.Error()
		} else {
			doc.Error = res.Err.Error()
		}
	} else {
		doc.Days = append(store.DaysFromRecords(res.Records, false), store.DaysFromRecords(res.Secondary, true)...)
	}

	if _, err := p.db.InsertDocument(ctx, doc); err != nil {
		p.logger.Warn("saving history", "input", res.Input, "error", err)
	}
}

func (p *Processor) finish(sum Summary) {
	if p.db != nil && p.cfg.History {
		if err := p.db.SetState("last_run", time.Now().UTC().Format(time.RFC3339)); err != nil {
			p.logger.Warn("saving last run", "error", err)
		}
	}
	if p.notifier == nil || !p.cfg.Notify {
		return
	}
	msg := fmt.Sprintf("Processed %d of %d timesheets", sum.Succeeded, sum.Succeeded+sum.Failed)
	if err := p.notifier.Notify("timecard", msg); err != nil {
		p.logger.Warn("sending notification", "error", err)
	}
}
