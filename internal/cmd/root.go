package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"

	// Global flags
	verbose     bool
	cleanupFlag bool
	yesFlag     bool // CI/CD: take every answer from saved defaults and env
)

var rootCmd = &cobra.Command{
	Use:   "shipward",
	Short: "Deploy a containerized application to a single host over SSH",
	Long: `Shipward deploys a git-hosted containerized application to one
remote host: it fetches the source, syncs it to the host, builds and
starts the containers, fronts them with nginx and optional TLS, and
validates the result.

Modes:
  shipward             Forward deployment (interactive prompts)
  shipward --cleanup   Tear down everything a deployment created

TLS strategies:
  1. none          Plain HTTP
  2. self-signed   Certificate generated on the host
  3. letsencrypt   Certificate issued by Let's Encrypt (needs a public domain)

CI/CD environment variables:
  SHIPWARD_TOKEN                Repository access token
  SHIPWARD_SSH_KEY              SSH private key content
  SHIPWARD_KNOWN_HOSTS          SSH known_hosts content
  SHIPWARD_SKIP_HOST_KEY_CHECK  Skip host key verification (true/false)`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&cleanupFlag, "cleanup", false, "Tear down an existing deployment instead of deploying")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Echo every remote command before it runs")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Non-interactive: answer prompts from saved defaults (CI/CD mode)")

	rootCmd.SetVersionTemplate(`Shipward {{.Version}}
`)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if cleanupFlag {
		return runCleanup()
	}
	return runDeploy()
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// IsYesMode returns true if --yes flag is set (CI/CD mode)
func IsYesMode() bool {
	return yesFlag
}
