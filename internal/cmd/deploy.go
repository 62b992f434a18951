package cmd

import (
	"context"
	"fmt"

	"github.com/shipward/shipward/internal/config"
	"github.com/shipward/shipward/internal/deploy"
	"github.com/shipward/shipward/internal/runlog"
	"github.com/shipward/shipward/internal/security"
)

func runDeploy() error {
	defaults, err := config.LoadDefaults()
	if err != nil {
		return err
	}

	var params *config.Params
	if IsInteractive() {
		params, err = collectParams(NewPrompter(), defaults)
	} else {
		params, err = paramsFromDefaults(defaults)
	}
	if err != nil {
		return err
	}

	log, err := runlog.New("")
	if err != nil {
		return err
	}
	defer log.Close()

	log.SetMask(func(s string) string {
		return security.MaskToken(s, params.Token)
	})
	log.Info("Run log: %s", log.Path())
	log.Info("Deploying %s to %s@%s (TLS: %s)",
		params.Identity, params.User, params.Host, params.TLS)

	o := deploy.NewOrchestrator(params, log)
	o.SetVerbose(IsVerbose())
	if err := o.Run(context.Background()); err != nil {
		return fmt.Errorf("deployment failed: %w", err)
	}

	// Remember this run's answers for the next one
	defaults.FromParams(params)
	if err := config.SaveDefaults(defaults); err != nil {
		log.Warn("Could not save defaults: %v", err)
	}

	return nil
}
