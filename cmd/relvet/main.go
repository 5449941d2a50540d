// Command relvet verifies an Apache release candidate: it downloads the
// staged source archive and its signature artifacts, checks checksums
// and the GPG signature against the published KEYS file, compares the
// archive with the git tree at the expected revision, and runs the
// project's build.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const disclaimer = `This tool is provided as a convenience to automate some steps
of verifying a release candidate. It does not take over the responsibilities
of a (P)PMC in part or in full.`

var exitCode int

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if exitCode == 0 {
			exitCode = 2
		}
	}
	os.Exit(exitCode)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "relvet",
		Short:         "Verify an Apache release candidate",
		Long:          "relvet downloads a staged source release, verifies its checksum and GPG\nsignature, compares it against the git tree it claims to be built from,\nand runs the project's build and tests.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := runVerify(cmd, opts)
			exitCode = code
			return err
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.project, "project", "", "project name (default \"zipkin\")")
	flags.StringVar(&opts.module, "module", "", "module name, for projects with per-module releases")
	flags.StringVar(&opts.version, "version", "", "version of the release candidate to verify")
	flags.StringVar(&opts.signingKey, "gpg-key", "", "ID of the GPG key used to sign the release")
	flags.StringVar(&opts.revision, "git-hash", "", "git hash of the commit the release is built from")
	flags.StringVar(&opts.tier, "repo", "", "repository tier the candidate is staged in: dev, release, or test (default \"dev\")")
	flags.BoolVar(&opts.incubating, "incubating", true, "whether the project is in incubation, which affects naming conventions")
	flags.StringVar(&opts.archiveTemplate, "zipname-template", "", "format of the expected .zip filename; supports the same placeholders as --sourcedir-template")
	flags.StringVar(&opts.sourceDirTemplate, "sourcedir-template", "", "format of the expected top-level directory in the source archive")
	flags.StringVar(&opts.repoTemplate, "github-reponame-template", "", "format of the project's GitHub repository name")
	flags.StringVar(&opts.buildCommand, "build-and-test-command", "", "replace the built-in build heuristics with this command, run in the extracted source directory")
	flags.StringVar(&opts.localConfig, "config", "", "path to a local .yml file to load options from")
	flags.StringVar(&opts.remoteConfig, "remote-config", "", "remote file to load options from: a full HTTP(S) URL or a PROJECT/MODULE slug resolved against the preset repository (default $PROJECT/$MODULE)")

	return cmd
}

type options struct {
	verbose           bool
	project           string
	module            string
	version           string
	signingKey        string
	revision          string
	tier              string
	incubating        bool
	archiveTemplate   string
	sourceDirTemplate string
	repoTemplate      string
	buildCommand      string
	localConfig       string
	remoteConfig      string
}
