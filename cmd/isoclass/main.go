// isoclass computes isogeny classes of elliptic curves over the rationals
// from the built-in curve catalog, and maintains a local database of
// computed classes.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xuluze/passagemath/catalog"
	"github.com/xuluze/passagemath/classdb"
	"github.com/xuluze/passagemath/ec"
	"github.com/xuluze/passagemath/isogeny"
	"github.com/xuluze/passagemath/logger"
)

var (
	flagConfig  string
	flagVerbose bool
	cfg         Config
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "isoclass",
		Short:         "compute isogeny classes of elliptic curves",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			var err error
			cfg, err = loadConfig(flagConfig)
			if err != nil {
				return err
			}
			if flagVerbose {
				cfg.Verbosity = "debug"
			}
			switch cfg.Verbosity {
			case "debug":
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			case "info":
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			default:
				logger.Disable()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path of a TOML configuration file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(computeCmd(), dbCmd())
	return root
}

func computeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compute <label | [a1,a2,a3,a4,a6]>",
		Short: "compute and print the isogeny class of a curve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := resolveCurve(args[0])
			if err != nil {
				return err
			}
			cls, err := isogeny.Compute(seed, catalog.Engine())
			if err != nil {
				return err
			}
			printClass(cmd, cls)
			return nil
		},
	}
}

func dbCmd() *cobra.Command {
	db := &cobra.Command{
		Use:   "db",
		Short: "manage the class database",
	}
	db.AddCommand(
		&cobra.Command{
			Use:   "import <label>...",
			Short: "compute classes and store them",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				classes := make(map[string]*isogeny.Class, len(args))
				for _, label := range args {
					seed, err := resolveCurve(label)
					if err != nil {
						return err
					}
					cls, err := isogeny.Compute(seed, catalog.Engine())
					if err != nil {
						return fmt.Errorf("computing %s: %w", label, err)
					}
					classes[label] = cls
				}
				store, err := classdb.Open(cfg.Database)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.Import(classes); err != nil {
					return err
				}
				cmd.Printf("stored %d classes in %s\n", len(classes), cfg.Database)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <label>",
			Short: "print a stored class",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := classdb.Open(cfg.Database)
				if err != nil {
					return err
				}
				defer store.Close()
				cls, err := store.Get(args[0])
				if err != nil {
					return err
				}
				printClass(cmd, cls)
				return nil
			},
		},
		&cobra.Command{
			Use:   "labels",
			Short: "list the stored labels",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := classdb.Open(cfg.Database)
				if err != nil {
					return err
				}
				defer store.Close()
				labels, err := store.Labels()
				if err != nil {
					return err
				}
				for _, l := range labels {
					cmd.Println(l)
				}
				return nil
			},
		},
	)
	return db
}

// resolveCurve accepts a catalog label or explicit a-invariants.
func resolveCurve(arg string) (ec.Curve, error) {
	if strings.HasPrefix(arg, "[") {
		return ec.ParseWeierstrass(arg)
	}
	return catalog.Curve(arg)
}

func printClass(cmd *cobra.Command, cls *isogeny.Class) {
	cmd.Printf("%d curves:\n", cls.Len())
	for i, c := range cls.Curves() {
		label, err := catalog.Label(c)
		if err != nil {
			label = "?"
		}
		cmd.Printf("  %d: %-6s %s\n", i+1, label, c)
	}
	cmd.Println("degree matrix:")
	for _, row := range cls.Matrix(true) {
		parts := make([]string, len(row))
		for j, v := range row {
			parts[j] = fmt.Sprintf("%d", v)
		}
		cmd.Printf("  [%s]\n", strings.Join(parts, " "))
	}
}
