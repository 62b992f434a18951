package deploy

import (
	"context"
	"fmt"

	"github.com/shipward/shipward/internal/config"
)

// stepProbe checks that the application answers on its port and that the
// proxy answers on its public port. A failing probe is a warning, not a
// gate: some applications legitimately have no HTTP root, so a refused
// probe does not prove a broken deployment.
func (o *Orchestrator) stepProbe(ctx context.Context) error {
	appProbe := fmt.Sprintf("curl -sf -o /dev/null -m 10 http://localhost:%d/", o.targetPort())
	o.probe(ctx, "application", appProbe)

	proxyProbe := "curl -sf -o /dev/null -m 10 http://localhost/"
	if o.params.TLS != config.TLSNone {
		// Self-signed certs will not verify; -k keeps the probe about
		// liveness, not trust
		proxyProbe = "curl -skf -o /dev/null -m 10 https://localhost/"
	}
	o.probe(ctx, "proxy", proxyProbe)

	return nil
}

func (o *Orchestrator) probe(ctx context.Context, name, cmd string) {
	result, err := o.exec.Exec(ctx, cmd)
	if err != nil {
		o.log.Warn("%s probe could not run: %v", name, err)
		return
	}
	if !result.OK() {
		o.log.Warn("%s did not respond (exit %d); the deployment may still be starting", name, result.ExitCode)
		return
	}
	o.log.Info("%s responded", name)
}
