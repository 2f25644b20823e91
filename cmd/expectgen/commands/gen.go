package commands

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/expectgen/expectgen"
	"github.com/expectgen/expectgen/internal/loader"
)

var (
	genVerify  bool
	genVerbose bool
)

var genCmd = &cobra.Command{
	Use:   "gen [packages...]",
	Short: "Generate extractor files for the unions in the given packages",
	Long: `Generate one <union>_expect.go file next to every //expectgen:union
declaration found in the named packages (./... by default).

With --verify, nothing is written; instead the command fails if any
generated file is missing or differs from what generation produces. Wire
that into CI to keep committed output honest.`,
	Args: cobra.ArbitraryArgs,
	RunE: runGen,
}

func init() {
	genCmd.Flags().BoolVar(&genVerify, "verify", false, "Verify generated files are up to date instead of writing them")
	genCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Enable debug logging")
}

func runGen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("verify") {
		genVerify = cfg.GetBool(cfgKeyVerify)
	}
	if !cmd.Flags().Changed("verbose") {
		genVerbose = cfg.GetBool(cfgKeyVerbose)
	}

	logger := zap.NewNop()
	if genVerbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}
	defer logger.Sync() //nolint:errcheck

	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	ctx := cmd.Context()
	l := loader.New(loader.WithLogger(logger.Sugar()))
	pkgs, err := l.Load(ctx, patterns...)
	if err != nil {
		return err
	}
	if len(pkgs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no tagged unions found")
		return nil
	}

	pipeline := expectgen.NewPipeline(expectgen.Extractors{})
	pipeline.AddPostprocessors(expectgen.GoFmt)

	var result *multierror.Error
	for _, pkg := range pkgs {
		fs, err := pipeline.GenerateFS(pkg.Unions...)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		if genVerify {
			if err := fs.Verify(ctx, pkg.Dir); err != nil {
				result = multierror.Append(result, err)
			}
			continue
		}

		if err := fs.Write(ctx, pkg.Dir); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		for _, f := range fs.AsFiles() {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/%s\n", pkg.Dir, f.RelativePath)
		}
	}

	return result.ErrorOrNil()
}
