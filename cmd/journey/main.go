package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	journey "github.com/mynaturejourney/journey/pkg"
	"github.com/mynaturejourney/journey/pkg/config"
	pkgdb "github.com/mynaturejourney/journey/pkg/db"
	"github.com/mynaturejourney/journey/pkg/utils"
)

var (
	dbPath   string
	walMode  bool
	syncMode string
	apiURL   string
	envFile  string

	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "journey",
	Short:         "Log and browse your national park trips from the terminal.",
	Version:       fmt.Sprintf("v%s", journey.Version),
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for journey.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(journey completion bash)

  Zsh:
    $ journey completion zsh > "${fpath[1]}/_journey"

  Fish:
    $ journey completion fish > ~/.config/fish/completions/journey.fish

  PowerShell:
    PS> journey completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of journey",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(journey.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the local session store",
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Create or upgrade the local session store schema",
	Long: `Opens the SQLite session store (--db, JOURNEY_DB or the OS default location)
and brings the sessiondb component up to the current schema version.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path, err := utils.ResolveAndEnsureDBPath(cfg.DBPath)
		if err != nil {
			return err
		}

		fmt.Printf("Upgrading sessiondb component in database at: %s (WAL: %t, Sync: %s)\n", path, walMode, syncMode)

		dbConn, err := pkgdb.OpenDBConnection(path, walMode, syncMode)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion)
	},
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the local session store (default: JOURNEY_DB or the OS data directory)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", true, "Enable SQLite WAL (Write-Ahead Logging) mode")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API base URL (default: JOURNEY_API_URL or "+config.DefaultAPIURL+")")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load; a missing file is ignored")

	dbCmd.AddCommand(dbUpgradeCmd)

	initAuthCmd()
	initTripsCmd()
	initPhotosCmd()
	initTimelinesCmd()
	initProfileCmd()
	initUsersCmd()
	initMapCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd,
		authCmd, tripsCmd, photosCmd, timelinesCmd, profileCmd, usersCmd,
		geocodeCmd, mapCmd, tuiCmd, wizardCmd, mcpCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describeError(err))
		os.Exit(1)
	}
}
