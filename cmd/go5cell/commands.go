package main

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/catalog"
	"github.com/2x3systems/go5cell/lib5cell/census"
	"github.com/2x3systems/go5cell/lib5cell/gluing"
	"github.com/2x3systems/go5cell/lib5cell/pairing"
	"github.com/2x3systems/go5cell/lib5cell/searcher"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newPairingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pairings",
		Short: "List the canonical facet pairings on n pentachora",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newConfig(cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := censusOpts(v)
			if err != nil {
				return err
			}
			if opts.NumPentachora < 1 || opts.NumPentachora > go5cell.MaxPentachora {
				return errors.Wrapf(go5cell.ErrBadCensusParam, "pentachora must be in 1..%d", go5cell.MaxPentachora)
			}

			out := cmd.OutOrStdout()
			count := int64(0)
			pairing.FindAllPairings(opts.NumPentachora, opts.Boundary, opts.NumBdryFacets, func(fp *pairing.FacetPairing, autos []pairing.Iso) bool {
				count++
				fmt.Fprintf(out, "%s\t%d\n", fp.TextShort(), len(autos))
				return cmd.Context().Err() == nil
			})
			klog.Infof("%s %v pairings on %d pentachora", humanize.Comma(count), opts.Boundary, opts.NumPentachora)
			return cmd.Context().Err()
		},
	}
	addCensusFlags(cmd.Flags())
	return cmd
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func newCensusCmd() *cobra.Command {
	var (
		printOpts = go5cell.DefaultPrintOpts
		quiet     bool
	)
	cmd := &cobra.Command{
		Use:   "census",
		Short: "Enumerate every triangulation on n pentachora",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newConfig(cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := censusOpts(v)
			if err != nil {
				return err
			}

			head := go5cell.NewGluingStream()
			tail := head
			if opts.CatalogPath != "" {
				cat, err := catalog.Open(go5cell.CatalogOpts{DbPathName: opts.CatalogPath})
				if err != nil {
					return err
				}
				defer cat.Close()
				tail = tail.AddTo(cat)
			}
			if !quiet {
				tail = tail.Print(nopCloser{cmd.OutOrStdout()}, printOpts)
			}

			kept := make(chan int, 1)
			go func() {
				kept <- tail.PullAll()
			}()

			st, err := census.RunParallel(cmd.Context(), opts, func(gp *gluing.GluingPerms) bool {
				head.PushGluing(gp.ToGluing(opts.OrientableOnly))
				return true
			})
			head.Close()
			n := <-kept

			klog.Infof("census: %v", st)
			if opts.CatalogPath != "" {
				klog.Infof("census: %s new gluings stored in %s", humanize.Comma(int64(n)), opts.CatalogPath)
			}
			return err
		},
	}
	flags := cmd.Flags()
	addCensusFlags(flags)
	flags.Int(kDepth, 0, "split the search at this depth and spread it over --workers (0 for a serial run)")
	flags.Int(kWorkers, 1, "number of worker goroutines")
	flags.String(kCatalog, "", "store results in the catalog at this path")
	flags.BoolVarP(&quiet, "quiet", "q", false, "do not print results")
	flags.BoolVar(&printOpts.Pairing, "print-pairing", printOpts.Pairing, "print each result's facet pairing")
	flags.BoolVar(&printOpts.Indices, "print-indices", printOpts.Indices, "print each result's perm indices")
	flags.BoolVar(&printOpts.Desc, "print-desc", printOpts.Desc, "print each result's short form")
	return cmd
}

func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Store a census as partial searches to be finished by work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newConfig(cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := censusOpts(v)
			if err != nil {
				return err
			}
			if opts.CatalogPath == "" {
				return errors.Wrap(go5cell.ErrBadCatalogParam, "split needs --catalog")
			}

			cat, err := catalog.Open(go5cell.CatalogOpts{DbPathName: opts.CatalogPath})
			if err != nil {
				return err
			}
			defer cat.Close()
			if n := cat.NumFrontiers(); n > 0 {
				return errors.Wrapf(go5cell.ErrBadCatalogParam, "%s still holds %d frontiers; finish them with work first", opts.CatalogPath, n)
			}

			var putErr error
			st, err := census.Split(cmd.Context(), opts, opts.SplitDepth, func(f census.Frontier) bool {
				if f.Result != nil {
					cat.TryAddGluing(f.Result.ToGluing(opts.OrientableOnly))
					return true
				}
				putErr = cat.PutFrontier(f.ID, f.Tagged)
				return putErr == nil
			})
			if putErr != nil {
				return putErr
			}
			klog.Infof("split: %v", st)
			return err
		},
	}
	flags := cmd.Flags()
	addCensusFlags(flags)
	flags.Int(kDepth, 4, "number of matched facet pairs at which each search is cut")
	flags.String(kCatalog, "", "catalog to store frontiers in")
	return cmd
}

// workFrontiers resumes every frontier stored in cat, storing results and then deleting the frontier.
func workFrontiers(ctx context.Context, cat go5cell.Catalog, workers int) (done, found int64, err error) {
	if workers < 1 {
		workers = 1
	}
	grp, grpCtx := errgroup.WithContext(ctx)
	frontiers := make(chan census.Frontier, workers)

	grp.Go(func() error {
		defer close(frontiers)
		return cat.Frontiers(func(id uint64, tagged string) bool {
			select {
			case frontiers <- census.Frontier{ID: id, Tagged: tagged}:
				return true
			case <-grpCtx.Done():
				return false
			}
		})
	})

	var nDone, nFound atomic.Int64
	for w := 0; w < workers; w++ {
		grp.Go(func() error {
			for f := range frontiers {
				s, err := f.Searcher()
				if err != nil {
					return err
				}
				orientable := s.Opts().OrientableOnly
				s.Run(-1, func(s *searcher.Searcher) {
					if grpCtx.Err() != nil {
						s.Stop()
						return
					}
					if cat.TryAddGluing(s.Perms().ToGluing(orientable)) {
						nFound.Add(1)
					}
				})
				if grpCtx.Err() != nil {
					return grpCtx.Err()
				}
				if err = cat.DeleteFrontier(f.ID); err != nil {
					return err
				}
				nDone.Add(1)
			}
			return nil
		})
	}

	err = grp.Wait()
	return nDone.Load(), nFound.Load(), err
}

func newWorkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "work",
		Short: "Finish the partial searches stored by split",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newConfig(cmd.Flags())
			if err != nil {
				return err
			}
			path := v.GetString(kCatalog)
			if path == "" {
				return errors.Wrap(go5cell.ErrBadCatalogParam, "work needs --catalog")
			}

			cat, err := catalog.Open(go5cell.CatalogOpts{DbPathName: path})
			if err != nil {
				return err
			}
			defer cat.Close()

			done, found, err := workFrontiers(cmd.Context(), cat, v.GetInt(kWorkers))
			klog.Infof("work: %s frontiers finished, %s new gluings, %s frontiers left",
				humanize.Comma(done), humanize.Comma(found), humanize.Comma(cat.NumFrontiers()))
			return err
		},
	}
	flags := cmd.Flags()
	flags.Int(kWorkers, 1, "number of worker goroutines")
	flags.String(kCatalog, "", "catalog holding the frontiers")
	return cmd
}

func newPyCmd() *cobra.Command {
	var job pyJob
	cmd := &cobra.Command{
		Use:   "py [script.py]",
		Short: "Run a gpython script, inline source or a REPL with _py5cell loaded",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if job.src != "" {
					return errors.New("give either a script or -c, not both")
				}
				job.pathname = args[0]
			}
			return job.run()
		},
	}
	cmd.Flags().StringVarP(&job.src, "command", "c", "", "python source to run instead of a script")
	return cmd
}
