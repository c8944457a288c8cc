package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/repricer/internal/adapters/fileio"
	"github.com/phenrril/repricer/internal/domain"
	"github.com/phenrril/repricer/internal/usecase"
)

type App struct {
	Cfg     Config
	Files   *fileio.Files
	Session *usecase.Session
	Out     io.Writer
}

func New(cfg Config) *App {
	return &App{
		Cfg:     cfg,
		Files:   fileio.New(),
		Session: usecase.NewSession(cfg.Session()),
		Out:     os.Stdout,
	}
}

// Options describes one batch run. Paths are file system paths; Output and
// Report may be empty.
type Options struct {
	Listing string
	Keepa   []string
	Costs   string
	Fees    string

	FeePct *float64
	Rows   string
	Op     *usecase.Operation

	Output string
	Report string
	Asins  bool
}

type Result struct {
	Process *usecase.ProcessReport
	Bulk    *usecase.BulkResult
	Output  string
}

// Run loads the files, processes them, applies the optional bulk operation
// and writes the export.
func (a *App) Run(opts Options) (*Result, error) {
	if opts.Listing == "" {
		return nil, fmt.Errorf("listing: %w", domain.ErrNoData)
	}
	s := a.Session

	var listing *domain.ListingTable
	err := readFile(opts.Listing, func(name string, r io.Reader) (err error) {
		listing, err = a.Files.LoadListing(name, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.LoadListing(listing)

	if opts.Asins {
		a.printAsins()
	}

	s.ClearIntelligence()
	for _, p := range opts.Keepa {
		err := readFile(p, func(name string, r io.Reader) error {
			t, err := a.Files.LoadIntelligence(name, r)
			if err != nil {
				return err
			}
			s.AddIntelligence(t)
			return nil
		})
		if err != nil {
			log.Warn().Err(err).Str("file", p).Msg("intelligence file skipped")
		}
	}

	if opts.Costs != "" {
		err := readFile(opts.Costs, func(name string, r io.Reader) error {
			t, err := a.Files.LoadCosts(name, r)
			if err != nil {
				return err
			}
			s.SetCosts(t)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if opts.Fees != "" {
		err := readFile(opts.Fees, func(name string, r io.Reader) error {
			t, err := a.Files.LoadFees(name, r)
			if err != nil {
				return err
			}
			s.SetFees(t)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if opts.FeePct != nil {
		if err := s.SetFeePct(*opts.FeePct); err != nil {
			return nil, err
		}
	}

	rep, err := s.Process()
	if err != nil {
		return nil, err
	}
	res := &Result{Process: rep}

	if opts.Op != nil {
		if strings.TrimSpace(opts.Rows) == "" {
			log.Warn().Str("op", opts.Op.String()).Msg("no rows selected, bulk operation changes nothing")
		}
		sel, err := usecase.ParseSelector(opts.Rows, s.Table())
		if err != nil {
			return res, err
		}
		br, err := s.Apply(sel, *opts.Op)
		if err != nil {
			return res, err
		}
		res.Bulk = &br
	}

	out, err := s.Export()
	if err != nil {
		return res, err
	}
	res.Output = a.outputPath(opts)
	if err := writeFile(res.Output, func(w io.Writer) error { return a.Files.WriteListing(w, out) }); err != nil {
		return res, err
	}
	log.Info().Str("file", res.Output).Int("rows", len(out.Rows)).Msg("listing exported")

	if opts.Report != "" {
		if err := writeFile(opts.Report, func(w io.Writer) error { return a.Files.WriteReport(w, s.Table()) }); err != nil {
			return res, err
		}
		log.Info().Str("file", opts.Report).Msg("report written")
	}
	return res, nil
}

func (a *App) outputPath(opts Options) string {
	if opts.Output != "" {
		return opts.Output
	}
	base := strings.TrimSuffix(filepath.Base(opts.Listing), filepath.Ext(opts.Listing))
	return filepath.Join(a.Cfg.OutputDir, base+"_aggiornato.csv")
}

func (a *App) printAsins() {
	byLocale := a.Session.AsinsByLocale()
	locales := make([]string, 0, len(byLocale))
	for l := range byLocale {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	for _, l := range locales {
		fmt.Fprintf(a.Out, "%s (%d): %s\n", l, len(byLocale[l]), strings.Join(byLocale[l], ","))
	}
}

func readFile(path string, fn func(name string, r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &domain.InvalidFileError{File: filepath.Base(path), Err: err}
	}
	defer f.Close()
	return fn(filepath.Base(path), f)
}

func writeFile(path string, fn func(w io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return errors.Join(err, f.Close())
	}
	return f.Close()
}
