// Package pipeline runs the full Customer 360 batch: ingest the three raw
// sources, normalize them, resolve identities, integrate, enrich, segment,
// and write the final CSV. Source-level problems degrade to warnings and
// fallback values; the batch itself fails only on internal errors.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/customer360-cli/internal/config"
	"github.com/sells-group/customer360-cli/internal/enrich"
	"github.com/sells-group/customer360-cli/internal/identity"
	"github.com/sells-group/customer360-cli/internal/ingest"
	"github.com/sells-group/customer360-cli/internal/integrate"
	"github.com/sells-group/customer360-cli/internal/normalize"
	"github.com/sells-group/customer360-cli/internal/output"
	"github.com/sells-group/customer360-cli/internal/profile"
	"github.com/sells-group/customer360-cli/internal/segment"
	"github.com/sells-group/customer360-cli/internal/store"
	"github.com/sells-group/customer360-cli/internal/table"
)

// Result summarizes a finished batch.
type Result struct {
	RunID      string
	Identities int
	Profiles   []profile.Report
	Warnings   []string
	OutputPath string
	Duration   time.Duration
}

// Pipeline wires the stages together. Store is optional; when nil the run
// is not recorded.
type Pipeline struct {
	cfg   *config.Config
	store store.Store

	normalizer *normalize.Normalizer
	enricher   *enrich.Enricher
	segmenter  *segment.Segmenter
}

// New builds a Pipeline from configuration.
func New(cfg *config.Config, st store.Store) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		store:      st,
		normalizer: normalize.New(cfg.Pipeline.DefaultRegion),
		enricher:   enrich.New(cfg.Pipeline.MinOrderValueForVIP),
		segmenter:  segment.New(cfg.Pipeline.ClusterCount),
	}
}

// Run executes the batch end to end and writes the Customer 360 CSV.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()

	var (
		runID string
		run   *store.Run
		err   error
	)
	if p.store != nil {
		run, err = p.store.CreateRun(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: record run start")
		}
		runID = run.ID
	}

	res, runErr := p.run(ctx)
	if runErr != nil {
		if p.store != nil {
			if ferr := p.store.FailRun(ctx, runID, runErr); ferr != nil {
				zap.L().Error("pipeline: record run failure", zap.Error(ferr))
			}
		}
		return nil, runErr
	}

	res.RunID = runID
	res.Duration = time.Since(started)
	if p.store != nil {
		err = p.store.CompleteRun(ctx, runID, store.RunResult{
			Identities: res.Identities,
			Profiles:   len(res.Profiles),
			Warnings:   res.Warnings,
			OutputPath: res.OutputPath,
		})
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: record run completion")
		}
	}

	zap.L().Info("pipeline: run complete",
		zap.String("run_id", runID),
		zap.Int("identities", res.Identities),
		zap.Int("warnings", len(res.Warnings)),
		zap.String("output", res.OutputPath),
		zap.Duration("duration", res.Duration))
	return res, nil
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	res := &Result{OutputPath: p.cfg.Output.Path}

	crmRaw, ecomRaw, webRaw := p.loadSources(res)
	res.Profiles = []profile.Report{
		profile.Describe(crmRaw, normalize.CRMAdapter.Name),
		profile.Describe(ecomRaw, normalize.EcommerceAdapter.Name),
		profile.Describe(webRaw, normalize.WebAdapter.Name),
	}

	var crm, ecom, web *table.Table
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		crm, err = p.normalizer.Clean(crmRaw, normalize.CRMAdapter)
		return err
	})
	g.Go(func() (err error) {
		ecom, err = p.normalizer.Clean(ecomRaw, normalize.EcommerceAdapter)
		return err
	})
	g.Go(func() (err error) {
		web, err = p.normalizer.Clean(webRaw, normalize.WebAdapter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: normalize sources")
	}

	drive, ix := identity.Resolve(
		identity.EmailSource{Name: normalize.CRMAdapter.Name, Table: crm, Column: normalize.CRMAdapter.EmailColumn},
		identity.EmailSource{Name: normalize.EcommerceAdapter.Name, Table: ecom, Column: normalize.EcommerceAdapter.EmailColumn},
		identity.EmailSource{Name: normalize.WebAdapter.Name, Table: web, Column: normalize.WebAdapter.EmailColumn},
	)
	res.Identities = ix.Len()
	if ix.Len() == 0 {
		res.Warnings = append(res.Warnings, "no valid emails found in any source; output will be empty")
	}

	p.noteUnusableSources(res, ecom, web)

	unified, err := integrate.Build(drive, crm, ecom, web)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: integrate sources")
	}

	enriched, err := p.enricher.Enrich(unified)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: enrich profiles")
	}

	segmented, err := p.segmenter.Segment(enriched)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: segment customers")
	}

	if err := output.Write(p.cfg.Output.Path, segmented); err != nil {
		return nil, eris.Wrap(err, "pipeline: write output")
	}
	return res, nil
}

// Profile loads the raw sources and returns their diagnostic reports
// without running the rest of the batch.
func (p *Pipeline) Profile(ctx context.Context) ([]profile.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: profile sources")
	}
	res := &Result{}
	crm, ecom, web := p.loadSources(res)
	reports := []profile.Report{
		profile.Describe(crm, normalize.CRMAdapter.Name),
		profile.Describe(ecom, normalize.EcommerceAdapter.Name),
		profile.Describe(web, normalize.WebAdapter.Name),
	}
	for _, r := range reports {
		r.Log()
	}
	return reports, nil
}

// loadSources reads the three raw inputs, converting any per-source load
// failure into a warning and an empty table.
func (p *Pipeline) loadSources(res *Result) (crm, ecom, web *table.Table) {
	crm = p.loadSource(res, p.cfg.Sources.CRMPath, normalize.CRMAdapter.Name)
	ecom = p.loadSource(res, p.cfg.Sources.EcommercePath, normalize.EcommerceAdapter.Name)
	web = p.loadSource(res, p.cfg.Sources.WebsiteLogsPath, normalize.WebAdapter.Name)
	return crm, ecom, web
}

func (p *Pipeline) loadSource(res *Result, path, source string) *table.Table {
	t, reason := ingest.LoadOrEmpty(path, source)
	if reason != "" {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %s", source, reason))
	}
	return t
}

// noteUnusableSources records a warning for each behavioral source that is
// present but missing the columns its aggregation needs. The integrator
// substitutes zero defaults for those sources.
func (p *Pipeline) noteUnusableSources(res *Result, ecom, web *table.Table) {
	if !ecom.Empty() && !ecom.HasColumns(integrate.RequiredEcommerceColumns...) {
		res.Warnings = append(res.Warnings,
			"ecommerce: missing required columns, using zero defaults for spend and order metrics")
	}
	if !web.Empty() && !web.HasColumns(integrate.RequiredWebColumns...) {
		res.Warnings = append(res.Warnings,
			"web: missing required columns, using zero defaults for engagement metrics")
	}
}
