package main

import (
	"context"
	"fmt"

	"github.com/hiprgen/rxngen/internal/bucket"
	"github.com/hiprgen/rxngen/internal/collator"
	"github.com/hiprgen/rxngen/internal/config"
	"github.com/hiprgen/rxngen/internal/logging"
	"github.com/hiprgen/rxngen/internal/reaction"
	"github.com/hiprgen/rxngen/internal/report"
	"github.com/hiprgen/rxngen/internal/store/sqlite"
	"github.com/hiprgen/rxngen/internal/treeconfig"
	"github.com/hiprgen/rxngen/internal/worker"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Enumerate and filter reactions from a bucketed species database",
	RunE:  runGenerate,
}

func init() {
	flags := generateCmd.Flags()
	flags.String("config", "", "path to a YAML config file")
	flags.String("bucket-db", "", "path to the bucket database (required)")
	flags.String("reaction-db", "", "path to write the reaction database (required)")
	flags.String("report", "", "path to write the decision-trace report (required)")
	flags.String("tree-config", "", "path to the TOML decision-tree config (required)")
	flags.String("log-file", "", "optional rotating log file path")
	flags.Bool("verbose", false, "enable verbose logging and progress output")
	flags.Int("workers", 0, "worker pool size (0 uses the configured default)")

	_ = generateCmd.MarkFlagRequired("bucket-db")
	_ = generateCmd.MarkFlagRequired("reaction-db")
	_ = generateCmd.MarkFlagRequired("report")
	_ = generateCmd.MarkFlagRequired("tree-config")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	configFile, _ := flags.GetString("config")
	bucketDB, _ := flags.GetString("bucket-db")
	reactionDB, _ := flags.GetString("reaction-db")
	reportPath, _ := flags.GetString("report")
	treeConfigPath, _ := flags.GetString("tree-config")
	logFile, _ := flags.GetString("log-file")
	verbose, _ := flags.GetBool("verbose")
	workers, _ := flags.GetInt("workers")

	if err := config.Initialize(configFile); err != nil {
		return err
	}
	if flags.Changed("verbose") {
		config.Set("verbose", verbose)
	}
	if flags.Changed("workers") {
		config.Set("number-of-processes", workers)
	}

	dispatch := config.LoadDispatch(bucketDB, reactionDB, reportPath, treeConfigPath, logFile)
	log := logging.New(dispatch.LogPath, dispatch.Verbose)

	log.Info("loading species", "bucket_db", dispatch.BucketDBPath)
	speciesStore, err := sqlite.LoadSpecies(dispatch.BucketDBPath)
	if err != nil {
		return fmt.Errorf("loading species: %w", err)
	}

	catalog, err := sqlite.OpenBucketReader(dispatch.BucketDBPath, log)
	if err != nil {
		return fmt.Errorf("opening bucket catalog: %w", err)
	}
	tables, err := catalog.Tables()
	catalog.Close()
	if err != nil {
		return fmt.Errorf("listing buckets: %w", err)
	}
	log.Info("discovered buckets", "count", len(tables))

	filterTree, loggingTree, err := treeconfig.Load(dispatch.TreeConfigPath)
	if err != nil {
		return fmt.Errorf("loading decision trees: %w", err)
	}

	store, err := sqlite.NewReactionStore(dispatch.ReactionDBPath, dispatch.CommitFreq)
	if err != nil {
		return fmt.Errorf("opening reaction store: %w", err)
	}

	rep, err := report.New(dispatch.ReportPath)
	if err != nil {
		store.Close()
		return fmt.Errorf("opening report: %w", err)
	}

	reactionCh := make(chan *reaction.Record, 1024)
	logCh := make(chan worker.Logged, 1024)

	queue := bucket.NewQueue(tables)
	pool := &worker.Pool{
		NumWorkers: dispatch.NumberOfProcesses,
		OpenBuckets: func() (bucket.Source, error) {
			return sqlite.OpenBucketReader(dispatch.BucketDBPath, log)
		},
		Species:     speciesStore,
		Params:      dispatch.Params,
		FilterTree:  filterTree,
		LoggingTree: loggingTree,
		Sink:        worker.Sink{Reactions: reactionCh, Logs: logCh},
		Log:         log,
	}

	ctx := context.Background()
	var g errgroup.Group
	g.Go(func() error {
		defer close(reactionCh)
		defer close(logCh)
		return pool.Run(ctx, queue)
	})

	coll := &collator.Collator{
		Store:           store,
		Report:          rep,
		Log:             log,
		NumberOfSpecies: speciesStore.Len(),
		FactorZero:      dispatch.FactorZero,
		FactorTwo:       dispatch.FactorTwo,
		FactorDuplicate: dispatch.FactorDuplicate,
		Verbose:         dispatch.Verbose,
	}
	result, err := coll.Run(ctx, reactionCh, logCh, g.Wait)
	if err != nil {
		return fmt.Errorf("collator: %w", err)
	}

	log.Info("generation finished", "reactions", result.ReactionCount)
	return nil
}
