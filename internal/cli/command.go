package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/turktranslate/internal"
	"codeberg.org/snonux/turktranslate/internal/journal"
)

// Handlers run the subcommands. A nil handler makes its command a no-op.
type Handlers struct {
	Publish func(ctx context.Context, phraseFile string) error
	Review  func(ctx context.Context, taskFile string) error
	Balance func(ctx context.Context) error
	History func(ctx context.Context) error
	Models  func(ctx context.Context) error
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, h Handlers) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "turktranslate",
		Short: "Crowdsourced sentence translation on Mechanical Turk",
		Long: `turktranslate publishes chatbot sentence translation tasks to Amazon
Mechanical Turk and reviews the answers workers submit.

Examples:
  turktranslate publish demo_usersays_en.json --reward 0.05
  turktranslate publish demo_usersays_en.json --languages ko,fr --max-tasks 10
  turktranslate review demo_tasks_ko.json         # Ask for every assignment
  turktranslate review demo_tasks_ko.json --yes   # Approve everything
  turktranslate review demo_tasks_ko.json --judge openai
  turktranslate balance`,
		Version:      internal.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ResolveFlags(flags)
			// models --judge is not bound to viper
			if f := cmd.Flags().Lookup("judge"); f != nil && f.Changed {
				flags.Judge = f.Value.String()
			}
			return nil
		},
	}

	setupFlags(rootCmd, flags)

	publishCmd := &cobra.Command{
		Use:   "publish PHRASEFILE",
		Short: "Publish translation tasks for every target language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if h.Publish == nil {
				return nil
			}
			return h.Publish(cmd.Context(), args[0])
		},
	}
	setupPublishFlags(publishCmd, flags)

	reviewCmd := &cobra.Command{
		Use:   "review TASKFILE",
		Short: "Review submitted assignments and collect accepted answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if h.Review == nil {
				return nil
			}
			return h.Review(cmd.Context(), args[0])
		},
	}
	setupReviewFlags(reviewCmd, flags)

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the requester account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if h.Balance == nil {
				return nil
			}
			return h.Balance(cmd.Context())
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recently published tasks and review decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if h.History == nil {
				return nil
			}
			return h.History(cmd.Context())
		},
	}
	historyCmd.Flags().IntVarP(&flags.Limit, "limit", "n", flags.Limit, "Number of entries to show")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List the models available to the judge provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if h.Models == nil {
				return nil
			}
			return h.Models(cmd.Context())
		},
	}
	modelsCmd.Flags().StringVar(&flags.Judge, "judge", "", "Judge provider: openai, gemini or ollama (default openai)")

	rootCmd.AddCommand(publishCmd, reviewCmd, balanceCmd, historyCmd, modelsCmd)

	bindFlagsToViper(rootCmd, publishCmd, reviewCmd)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	defaultJournal := flags.Journal
	if defaultJournal == "" {
		defaultJournal = journal.DefaultPath()
	}

	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.turktranslate.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.Profile, "profile", "", "AWS shared credentials profile")
	cmd.PersistentFlags().StringVar(&flags.Journal, "journal", defaultJournal, "Journal database file")
	cmd.PersistentFlags().BoolVar(&flags.NoJournal, "no-journal", false, "Do not record runs in the journal")
}

func setupPublishFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVar(&flags.Reward, "reward", flags.Reward, "Reward per assignment in USD (default from MTURK_REWARD)")
	cmd.Flags().DurationVar(&flags.Expiration, "expiration", flags.Expiration, "How long tasks stay available to workers")
	cmd.Flags().IntVar(&flags.MinApproval, "min-approval", flags.MinApproval, "Minimum worker approval rate in percent")
	cmd.Flags().IntVar(&flags.MaxTasks, "max-tasks", flags.MaxTasks, "Maximum tasks per language (0 publishes every phrase)")
	cmd.Flags().IntVar(&flags.MaxAssignments, "max-assignments", flags.MaxAssignments, "Workers per task")
	cmd.Flags().StringVar(&flags.Languages, "languages", flags.Languages, "Comma separated target languages (default ko,ru,fr,it,es,pt)")
	cmd.Flags().StringVar(&flags.TaskURL, "task-url", flags.TaskURL, "Translation page shown to workers")
}

func setupReviewFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Approve every submitted assignment without asking")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "With --yes, reject answers with entity problems")
	cmd.Flags().StringVar(&flags.Judge, "judge", "", "Let a model decide: openai, gemini or ollama")
	cmd.Flags().StringVar(&flags.JudgeModel, "judge-model", "", "Model used by the judge (provider default if empty)")
}

func bindFlagsToViper(root, publish, review *cobra.Command) {
	viper.BindPFlag("mturk.profile", root.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("journal.path", root.PersistentFlags().Lookup("journal"))
	viper.BindPFlag("journal.disabled", root.PersistentFlags().Lookup("no-journal"))

	viper.BindPFlag("mturk.reward", publish.Flags().Lookup("reward"))
	viper.BindPFlag("publish.expiration", publish.Flags().Lookup("expiration"))
	viper.BindPFlag("publish.min_approval", publish.Flags().Lookup("min-approval"))
	viper.BindPFlag("publish.max_tasks", publish.Flags().Lookup("max-tasks"))
	viper.BindPFlag("publish.max_assignments", publish.Flags().Lookup("max-assignments"))
	viper.BindPFlag("publish.languages", publish.Flags().Lookup("languages"))
	viper.BindPFlag("publish.task_url", publish.Flags().Lookup("task-url"))

	viper.BindPFlag("review.strict", review.Flags().Lookup("strict"))
	viper.BindPFlag("judge.provider", review.Flags().Lookup("judge"))
	viper.BindPFlag("judge.model", review.Flags().Lookup("judge-model"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".turktranslate" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".turktranslate")
	}

	// Environment variables
	viper.SetEnvPrefix("TURKTRANSLATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The marketplace settings keep their historical names
	viper.BindEnv("mturk.endpoint", "MTURK_ENDPOINT")
	viper.BindEnv("mturk.preview", "MTURK_PREVIEW")
	viper.BindEnv("mturk.reward", "MTURK_REWARD")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ResolveFlags overlays explicitly set flags, environment and config file
// values onto flags. Keys nobody set keep the flag defaults.
func ResolveFlags(flags *Flags) {
	if viper.IsSet("mturk.profile") {
		flags.Profile = viper.GetString("mturk.profile")
	}
	if viper.IsSet("journal.path") {
		flags.Journal = viper.GetString("journal.path")
	}
	if viper.IsSet("journal.disabled") {
		flags.NoJournal = viper.GetBool("journal.disabled")
	}
	if viper.IsSet("mturk.reward") {
		flags.Reward = viper.GetString("mturk.reward")
	}
	if viper.IsSet("publish.expiration") {
		flags.Expiration = viper.GetDuration("publish.expiration")
	}
	if viper.IsSet("publish.min_approval") {
		flags.MinApproval = viper.GetInt("publish.min_approval")
	}
	if viper.IsSet("publish.max_tasks") {
		flags.MaxTasks = viper.GetInt("publish.max_tasks")
	}
	if viper.IsSet("publish.max_assignments") {
		flags.MaxAssignments = viper.GetInt("publish.max_assignments")
	}
	if viper.IsSet("publish.languages") {
		flags.Languages = viper.GetString("publish.languages")
	}
	if viper.IsSet("publish.task_url") {
		flags.TaskURL = viper.GetString("publish.task_url")
	}
	if viper.IsSet("review.strict") {
		flags.Strict = viper.GetBool("review.strict")
	}
	if viper.IsSet("judge.provider") {
		flags.Judge = viper.GetString("judge.provider")
	}
	if viper.IsSet("judge.model") {
		flags.JudgeModel = viper.GetString("judge.model")
	}
}

// GetEndpoint returns the marketplace endpoint override, empty for production
func GetEndpoint() string {
	return viper.GetString("mturk.endpoint")
}

// GetPreviewURL returns the worker preview page used for batch links
func GetPreviewURL() string {
	if url := viper.GetString("mturk.preview"); url != "" {
		return url
	}
	return "https://www.mturk.com/mturk/preview"
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("judge.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("judge.gemini_key")
}

// GetOllamaHost returns the Ollama server URL, empty for the default
func GetOllamaHost() string {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = viper.GetString("judge.ollama_host")
	}
	if host != "" && !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return host
}
