package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/decision"
	"github.com/scoutline/scoutline/internal/directory"
	"github.com/scoutline/scoutline/internal/identity"
	"github.com/scoutline/scoutline/internal/input"
	"github.com/scoutline/scoutline/internal/logging"
	"github.com/scoutline/scoutline/internal/pipeline"
	"github.com/scoutline/scoutline/internal/store"
)

const defaultConfigPath = "scoutline.yaml"

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "scoutline",
		Short:         "Find decision makers at target companies and draft outreach messages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", defaultConfigPath, "Path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newCompaniesCmd(&flags), newPersonsCmd(&flags))
	return cmd
}

func newCompaniesCmd(flags *rootFlags) *cobra.Command {
	var inputPath, storePath string

	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Search each company for its top decision maker and record a drafted message",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer env.close()

			companies, err := input.ReadCompanies(inputPath)
			if err != nil {
				return err
			}
			if len(companies) == 0 {
				return fmt.Errorf("no companies in %s", inputPath)
			}
			env.log.Infow("batch starting", "mode", "companies", "items", len(companies))

			dst := env.companyStore
			if storePath != "" {
				dst = store.New(storePath)
			}
			known, err := loadKnown(dst)
			if err != nil {
				return err
			}

			client, err := directory.NewClient(env.cfg.Directory.BaseURL, env.cfg.Directory.APIKey)
			if err != nil {
				return err
			}
			fetcher := directory.NewFetcher(client, directory.FetcherConfig{
				PageSize:   env.cfg.Directory.PageSize,
				MaxResults: env.cfg.Directory.MaxResults,
				MaxPages:   env.cfg.Directory.MaxPages,
				PageDelay:  env.cfg.Directory.PageDelay.Std(),
			}, directory.NewSnapshotWriter(env.cfg.Data.Dir, time.Now()), env.log)

			runner := pipeline.NewRunner(fetcher, client, env.decisions, known, env.log, pipeline.Options{
				ItemDelay:    env.cfg.Pipeline.ItemDelay.Std(),
				EnrichMobile: env.cfg.Pipeline.EnrichMobile,
			})
			_, err = runner.RunCompanies(cmd.Context(), companies, dst)
			return err
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "CSV file listing company names (required)")
	cmd.Flags().StringVar(&storePath, "store", "", "Override the output store path")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newPersonsCmd(flags *rootFlags) *cobra.Command {
	var inputPath, storePath string

	cmd := &cobra.Command{
		Use:   "persons",
		Short: "Draft an outreach message for each named person",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer env.close()

			persons, err := input.ReadPersons(inputPath)
			if err != nil {
				return err
			}
			if len(persons) == 0 {
				return fmt.Errorf("no persons in %s", inputPath)
			}
			env.log.Infow("batch starting", "mode", "persons", "items", len(persons))

			dst := env.personStore
			if storePath != "" {
				dst = store.New(storePath)
			}
			known, err := loadKnown(dst)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, nil, env.decisions, known, env.log, pipeline.Options{
				ItemDelay: env.cfg.Pipeline.ItemDelay.Std(),
			})
			_, err = runner.RunPersons(cmd.Context(), persons, dst)
			return err
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "CSV file listing company_name,full_name[,position] rows (required)")
	cmd.Flags().StringVar(&storePath, "store", "", "Override the output store path")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// runEnv holds the dependencies every subcommand shares.
type runEnv struct {
	cfg          config.Config
	log          *zap.SugaredLogger
	decisions    decision.Service
	companyStore *store.Store
	personStore  *store.Store
}

func (e *runEnv) close() {
	_ = e.log.Sync()
}

// setup loads config, starts the run logger, and builds the decision
// service. The directory client is built per command: person mode works
// without a directory credential.
func setup(cmd *cobra.Command, flags *rootFlags) (*runEnv, error) {
	explicit := cmd.Flags().Changed("config") || cmd.InheritedFlags().Changed("config")
	cfg, err := config.Load(flags.configPath, explicit)
	if err != nil {
		return nil, err
	}

	log, err := logging.NewRun(flags.verbose)
	if err != nil {
		return nil, err
	}

	decisions, err := decision.NewGemini(cmd.Context(), decision.Config{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	return &runEnv{
		cfg:          cfg,
		log:          log,
		decisions:    decisions,
		companyStore: store.New(cfg.Data.CompanyStore),
		personStore:  store.New(cfg.Data.PersonStore),
	}, nil
}

func loadKnown(st *store.Store) (*identity.Known, error) {
	ids, err := st.LoadKnownIdentities()
	if err != nil {
		return nil, fmt.Errorf("load existing store %s: %w", st.Path(), err)
	}
	return identity.NewKnown(ids), nil
}
