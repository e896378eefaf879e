package main

import (
	"strings"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names double as config file keys and, upper-cased with a GO5CELL_ prefix, as env vars.
const (
	kNumPent    = "pentachora"
	kBoundary   = "boundary"
	kInternal   = "internal"
	kBdryFacets = "bdryfacets"
	kOrientable = "orientable"
	kFinite     = "finite"
	kDepth      = "depth"
	kWorkers    = "workers"
	kCatalog    = "catalog"
)

var (
	gConfigFile string
	gFileConfig map[string]interface{}
)

// readConfigFile runs once flags are parsed.
func readConfigFile() {
	if gConfigFile == "" {
		return
	}
	v := viper.New()
	v.SetConfigFile(gConfigFile)
	err := v.ReadInConfig()
	cobra.CheckErr(errors.Wrapf(err, "reading %s", gConfigFile))
	gFileConfig = v.AllSettings()
	klog.V(1).Infof("config: loaded %d settings from %s", len(gFileConfig), v.ConfigFileUsed())
}

// newConfig layers a subcommand's flags over env vars and the config file.
func newConfig(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	if gFileConfig != nil {
		if err := v.MergeConfigMap(gFileConfig); err != nil {
			return nil, err
		}
	}
	v.SetEnvPrefix("GO5CELL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	return v, nil
}

func addCensusFlags(flags *pflag.FlagSet) {
	def := go5cell.DefaultCensusOpts
	flags.IntP(kNumPent, "n", def.NumPentachora, "number of pentachora")
	flags.Bool(kBoundary, false, "visit pairings with boundary facets")
	flags.Bool(kInternal, false, "visit closed pairings (the default unless --boundary is given)")
	flags.Int(kBdryFacets, def.NumBdryFacets, "exact number of boundary facets (-1 for any)")
	flags.Bool(kOrientable, false, "only orientable triangulations")
	flags.Bool(kFinite, false, "only finite triangulations")
}

// censusOpts decodes the bound census settings.
func censusOpts(v *viper.Viper) (go5cell.CensusOpts, error) {
	opts := go5cell.DefaultCensusOpts
	opts.NumPentachora = v.GetInt(kNumPent)
	opts.NumBdryFacets = v.GetInt(kBdryFacets)
	opts.OrientableOnly = v.GetBool(kOrientable)
	opts.FiniteOnly = v.GetBool(kFinite)
	opts.SplitDepth = v.GetInt(kDepth)
	opts.CatalogPath = v.GetString(kCatalog)
	if v.IsSet(kWorkers) {
		opts.Workers = v.GetInt(kWorkers)
	}

	bdry, internal := v.GetBool(kBoundary), v.GetBool(kInternal)
	switch {
	case bdry && internal:
		opts.Boundary = go5cell.AnyBoundary
	case bdry:
		opts.Boundary = go5cell.BoundedOnly
	default:
		opts.Boundary = go5cell.ClosedOnly
	}
	if opts.NumBdryFacets > 0 && opts.Boundary == go5cell.ClosedOnly {
		return opts, errors.Wrap(go5cell.ErrBadCensusParam, "--bdryfacets needs --boundary")
	}
	return opts, nil
}
