package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(fset).ExecuteContext(ctx)
	stop()

	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(klogFlags *flag.FlagSet) *cobra.Command {
	root := &cobra.Command{
		Use:          "go5cell",
		Short:        "Census of 4-manifold triangulations built from pentachora",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&gConfigFile, "config", "", "config file (yaml, toml or json) supplying flag values")
	if klogFlags != nil {
		root.PersistentFlags().AddGoFlagSet(klogFlags)
	}
	cobra.OnInitialize(readConfigFile)

	root.AddCommand(
		newPairingsCmd(),
		newCensusCmd(),
		newSplitCmd(),
		newWorkCmd(),
		newPyCmd(),
	)
	return root
}
