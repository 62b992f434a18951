package cmd

import (
	"context"
	"fmt"

	"github.com/shipward/shipward/internal/config"
	"github.com/shipward/shipward/internal/deploy"
	"github.com/shipward/shipward/internal/runlog"
)

func runCleanup() error {
	defaults, err := config.LoadDefaults()
	if err != nil {
		return err
	}

	var params *config.CleanupParams
	if IsInteractive() {
		params, err = collectCleanupParams(NewPrompter(), defaults)
	} else {
		params, err = cleanupParamsFromDefaults(defaults)
	}
	if err != nil {
		return err
	}

	log, err := runlog.New("")
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Run log: %s", log.Path())
	log.Info("Tearing down %s on %s@%s", params.Identity, params.User, params.Host)

	c := deploy.NewCleaner(params, log)
	c.SetVerbose(IsVerbose())
	if err := c.Run(context.Background()); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	return nil
}

func cleanupParamsFromDefaults(defaults *config.Defaults) (*config.CleanupParams, error) {
	if defaults.RepoURL == "" {
		return nil, fmt.Errorf("no saved defaults; run cleanup interactively")
	}
	identity, err := config.DeriveIdentity(defaults.RepoURL)
	if err != nil {
		return nil, err
	}

	params := &config.CleanupParams{
		User:     defaults.User,
		Host:     defaults.Host,
		KeyPath:  defaults.KeyPath,
		Identity: identity,
	}
	return params, params.Validate()
}
