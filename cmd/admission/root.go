package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pctclasses/admission-form/internal/client"
	"github.com/pctclasses/admission-form/internal/config"
	"github.com/pctclasses/admission-form/internal/pipeline"
	"github.com/pctclasses/admission-form/internal/upload"
)

// app carries the shared wiring every subcommand needs.
type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	client   *client.PublicClient
	pipeline *pipeline.Pipeline
	uploads  *upload.Adapter
}

func newRootCommand() *cobra.Command {
	var (
		a       app
		verbose bool
	)

	root := &cobra.Command{
		Use:           "admission",
		Short:         "Submit, fetch and print PCT admission application forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
			if !verbose {
				logger = logger.Level(zerolog.WarnLevel)
			}

			api := client.New(cfg.APIBaseURL, logger)

			a = app{
				cfg:      cfg,
				logger:   logger,
				client:   api,
				pipeline: pipeline.New(api, logger),
				uploads:  upload.NewAdapter(api, logger),
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSubmitCommand(&a),
		newFetchCommand(&a),
		newRenderCommand(&a),
		newUploadCommand(&a),
	)
	return root
}
