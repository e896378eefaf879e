package main

import (
	"path/filepath"
	"time"

	"github.com/go-python/gpython/py"
	"github.com/go-python/gpython/repl"
	"github.com/go-python/gpython/repl/cli"
	"github.com/plan-systems/klog"

	_ "github.com/2x3systems/go5cell/py5cell"
	_ "github.com/go-python/gpython/stdlib"
)

const replBanner = "import _py5cell\nprint('_py5cell', _py5cell.LIB_VERSION)\n"

// pyJob is one invocation of the py subcommand: a script path, inline source, or neither for a REPL.
type pyJob struct {
	pathname string
	src      string
}

func (job pyJob) run() error {
	ctx := py.NewContext(py.DefaultContextOpts())
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	var err error
	start := time.Now()
	switch {
	case job.src != "":
		_, err = py.RunSrc(ctx, job.src, "<cmdline>", nil)
	case job.pathname != "":
		var abs string
		if abs, err = filepath.Abs(job.pathname); err != nil {
			return err
		}
		klog.Infof("py: running %s", abs)
		// RunFile resolves its path against CurDir, never as an absolute path
		_, err = py.RunFile(ctx, filepath.Base(abs), py.CompileOpts{CurDir: filepath.Dir(abs)}, nil)
	default:
		replCtx := repl.New(ctx)
		if _, err = py.RunSrc(ctx, replBanner, "<banner>", replCtx.Module); err == nil {
			cli.RunREPL(replCtx)
		}
		return err
	}

	if err != nil {
		py.TracebackDump(err)
		return err
	}
	klog.V(1).Infof("py: finished in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
