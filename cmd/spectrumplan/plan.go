package main

import (
	"context"
	"fmt"
	"os"
	"spectra/pkg/loader"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// planFile describes the spectra of one file plus the user constraints.
type planFile struct {
	Periods       int     `yaml:"periods"`
	Channels      int     `yaml:"channels"`
	Indices       []int64 `yaml:"indices"`
	loader.Config `yaml:",inline"`
}

func loadPlanFile(path string) (*planFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	pf := &planFile{}
	if err = yaml.Unmarshal(data, pf); err != nil {
		return nil, fmt.Errorf("parse plan file: %w", err)
	}
	return pf, nil
}

func planCmd() *cobra.Command {
	var (
		path     string
		logLevel string
		dryRead  bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the load blocks selected from a plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)

			pf, err := loadPlanFile(path)
			if err != nil {
				return err
			}
			plan, err := loader.NewPlan(&pf.Config, pf.Indices, pf.Periods, pf.Channels)
			if err != nil {
				return err
			}
			blocks := plan.LoadBlocks()
			monitors := plan.MonitorLoadBlocks()
			for _, b := range append(blocks, monitors...) {
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
			log.Infof("%d spectra in %d blocks, %d separate monitors",
				plan.Spectra.NumberOfSpectra(), len(blocks), plan.Monitors.NumberOfSpectra())
			if !dryRead {
				return nil
			}

			d, err := loader.NewDispatcher(pf.Workers)
			if err != nil {
				return err
			}
			defer d.Close()
			reads := append(loader.Coalesce(blocks), loader.Coalesce(monitors)...)
			return d.Dispatch(cmd.Context(), reads, logReader{})
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "plan.yaml", "plan description")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	cmd.Flags().BoolVar(&dryRead, "dry-read", false, "dispatch the blocks to a reader that only logs them")
	return cmd
}

type logReader struct{}

func (logReader) ReadBlock(ctx context.Context, b loader.LoadBlock) error {
	log.WithFields(log.Fields{
		"spectra":  b.Spectra.String(),
		"file":     b.FileIndex,
		"ws":       b.WorkspaceIndex,
		"monitor":  b.Monitor,
		"channels": b.Channels,
	}).Info("read")
	return nil
}
