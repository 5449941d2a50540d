package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/relvet/internal/check"
	"github.com/ZebulonRouseFrantzich/relvet/internal/config"
	"github.com/ZebulonRouseFrantzich/relvet/internal/execute"
	"github.com/ZebulonRouseFrantzich/relvet/internal/fetch"
	"github.com/ZebulonRouseFrantzich/relvet/internal/logging"
	"github.com/ZebulonRouseFrantzich/relvet/internal/release"
	"github.com/ZebulonRouseFrantzich/relvet/internal/state"
	"github.com/ZebulonRouseFrantzich/relvet/internal/ui"
)

// runVerify executes one verification run. The returned code is the
// process exit status: 0 when every check passes, 1 when the report
// contains problems, 2 for configuration errors before any check runs.
func runVerify(cmd *cobra.Command, opts *options) (int, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logging.New(opts.verbose)
	if err != nil {
		return 2, fmt.Errorf("init logging: %w", err)
	}
	defer log.Sync() //nolint:errcheck // best-effort flush

	cfg, err := resolveConfig(ctx, cmd, opts)
	if err != nil {
		return 2, err
	}
	log.Debugw("resolved config", "project", cfg.Project, "module", cfg.Module, "version", cfg.Version, "tier", cfg.Tier)

	headerMsg := "Verifying release candidate for " + cfg.Project
	if cfg.Module != "" {
		headerMsg += "/" + cfg.Module
	}
	headerMsg += " " + cfg.Version
	fmt.Println(ui.Header(headerMsg))
	fmt.Println(ui.Notice(disclaimer))

	workDir, err := os.MkdirTemp("", "relvet-*")
	if err != nil {
		return 2, fmt.Errorf("create working directory: %w", err)
	}
	fmt.Println("Working directory: " + workDir)

	st, err := state.New(state.State{
		Project:           cfg.Project,
		Module:            cfg.Module,
		Version:           cfg.Version,
		WorkDir:           workDir,
		Incubating:        *cfg.Incubating,
		SigningKey:        cfg.SigningKey,
		Revision:          cfg.Revision,
		ArchiveTemplate:   cfg.ArchiveTemplate,
		SourceDirTemplate: cfg.SourceDirTemplate,
		RepoTemplate:      cfg.RepoTemplate,
		BuildCommand:      cfg.BuildCommand,
	})
	if err != nil {
		return 2, err
	}

	baseURL := fetch.BaseURL(cfg.Tier, cfg.Project, *cfg.Incubating)
	log.Debugw("distribution mirror", "base_url", baseURL)

	downloader := fetch.NewDownloader(log)
	fmt.Println(ui.Step("Downloading release"))
	if err := downloader.FetchRelease(ctx, baseURL, st); err != nil {
		return 2, fmt.Errorf("download release: %w", err)
	}
	fmt.Println(ui.Step("Downloading KEYS file"))
	if err := downloader.FetchKeys(ctx, baseURL, st); err != nil {
		// The KEYS checks report the missing file; the run continues.
		log.Warnw("KEYS file not fetched", "error", err)
	}

	catalog := &release.Catalog{Runner: &execute.ShellRunner{}}
	runner := &check.Runner{}
	report := runner.Run(ctx, st, catalog.Checks())

	fmt.Print(check.Render(report))
	if report.ProblemCount() == 0 {
		fmt.Println(ui.Good("Everything seems to be in order."))
		return 0, nil
	}
	fmt.Println(ui.Bad(fmt.Sprintf("Found %d potential problems.", report.ProblemCount())))
	return 1, nil
}

// resolveConfig merges the configuration layers in increasing
// precedence: built-in defaults, local file, remote preset, CLI flags.
func resolveConfig(ctx context.Context, cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg := config.Default()

	if opts.localConfig != "" {
		local, err := config.LoadFile(opts.localConfig)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Merge(local)
	}

	// The remote preset defaults to the project/module pair, when both
	// are known at this point.
	reference := opts.remoteConfig
	isDefault := false
	if reference == "" {
		project := firstNonEmpty(opts.project, cfg.Project)
		module := firstNonEmpty(opts.module, cfg.Module)
		if project != "" && module != "" {
			reference = project + "/" + module
			isDefault = true
		}
	}
	if reference != "" {
		remote, err := config.LoadRemote(ctx, fetch.DefaultUserAgent, reference, isDefault)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Merge(remote)
	}

	cfg.Merge(cliLayer(cmd, opts))

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// cliLayer builds the top configuration layer from flags the user
// actually set, so unset flags never mask file-provided values.
func cliLayer(cmd *cobra.Command, opts *options) config.Config {
	layer := config.Config{
		Project:           opts.project,
		Module:            opts.module,
		Version:           opts.version,
		Tier:              opts.tier,
		ArchiveTemplate:   opts.archiveTemplate,
		SourceDirTemplate: opts.sourceDirTemplate,
		RepoTemplate:      opts.repoTemplate,
		SigningKey:        opts.signingKey,
		Revision:          opts.revision,
		BuildCommand:      opts.buildCommand,
		Verbose:           opts.verbose,
	}
	if cmd.Flags().Changed("incubating") {
		incubating := opts.incubating
		layer.Incubating = &incubating
	}
	return layer
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
