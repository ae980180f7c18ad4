package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pbaille/council/internal/api"
	"github.com/pbaille/council/internal/archive"
	"github.com/pbaille/council/internal/assign"
	"github.com/pbaille/council/internal/classifier"
	"github.com/pbaille/council/internal/command"
	"github.com/pbaille/council/internal/config"
	"github.com/pbaille/council/internal/consensus"
	"github.com/pbaille/council/internal/doctor"
	"github.com/pbaille/council/internal/historian"
	"github.com/pbaille/council/internal/prompt"
	"github.com/pbaille/council/internal/store"
)

var baseDir string

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "council",
		Short: "Multi-advisor consultation sessions with memory",
	}

	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "base data directory (default ~/.council)")

	rootCmd.AddCommand(topicCmd())
	rootCmd.AddCommand(assignCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(promptCmd())
	rootCmd.AddCommand(synthesisPromptCmd())
	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(historianCmd())
	rootCmd.AddCommand(similarityCmd())
	rootCmd.AddCommand(archiveCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(doctorCmd())
	rootCmd.AddCommand(tipCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(baseDir)
}

func getStore(cfg *config.Config) (*store.Store, error) {
	return store.New(cfg.SessionsDir)
}

// emit writes the machine-readable result to stdout. Every subcommand speaks
// JSON so the orchestration layer can drive the CLI directly.
func emit(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func readStdinJSON(v any) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse stdin JSON: %w", err)
	}
	return nil
}

func topicCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topic [question]",
		Short: "Classify a question into a topic category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return emit(classifier.Classify(cfg.Catalog, strings.Join(args, " ")))
		},
	}
}

func assignCmd() *cobra.Command {
	var (
		topic    string
		personas string
		fun      bool
		seats    int
	)

	cmd := &cobra.Command{
		Use:   "assign [question]",
		Short: "Assign personas to council seats",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if seats == 0 {
				seats = cfg.Seats
			}

			var names []string
			for _, name := range strings.Split(personas, ",") {
				if name = strings.TrimSpace(name); name != "" {
					names = append(names, name)
				}
			}

			result, err := assign.New(cfg.Catalog, nil).Assign(assign.Request{
				Question: strings.Join(args, " "),
				Topic:    topic,
				Personas: names,
				Fun:      fun,
				Seats:    seats,
			})
			if err != nil {
				return err
			}
			return emit(result)
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "explicit topic category")
	cmd.Flags().StringVar(&personas, "personas", "", "comma-separated persona names")
	cmd.Flags().BoolVar(&fun, "fun", false, "swap one seat for a wildcard persona")
	cmd.Flags().IntVar(&seats, "seats", 0, "number of seats")
	return cmd
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [raw command]",
		Short: "Parse a raw /council invocation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return emit(command.Parse(cfg.Catalog, strings.Join(args, " ")))
		},
	}
}

func promptCmd() *cobra.Command {
	var (
		persona          string
		priorContext     string
		extraContext     string
		followUp         bool
		previousPosition string
		otherPositions   string
		synthesis        string
		userFollowUp     string
	)

	cmd := &cobra.Command{
		Use:   "prompt [question]",
		Short: "Build the prompt for one advisor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := cfg.Catalog.Lookup(persona)
			if err != nil {
				return err
			}
			text, err := prompt.Advisor(prompt.AdvisorInput{
				Persona:           p,
				Question:          strings.Join(args, " "),
				PriorContext:      priorContext,
				Context:           extraContext,
				FollowUp:          followUp,
				PreviousPosition:  previousPosition,
				OtherPositions:    otherPositions,
				MediatorSynthesis: synthesis,
				UserFollowUp:      userFollowUp,
			})
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&persona, "persona", "", "persona name (required)")
	cmd.Flags().StringVar(&priorContext, "prior-context", "", "historian context block")
	cmd.Flags().StringVar(&extraContext, "context", "", "extra context for the question")
	cmd.Flags().BoolVar(&followUp, "follow-up", false, "build a follow-up round prompt")
	cmd.Flags().StringVar(&previousPosition, "previous-position", "", "advisor's previous position")
	cmd.Flags().StringVar(&otherPositions, "other-positions", "", "other advisors' positions")
	cmd.Flags().StringVar(&synthesis, "synthesis", "", "mediator synthesis from the previous round")
	cmd.Flags().StringVar(&userFollowUp, "user-follow-up", "", "the user's follow-up message")
	_ = cmd.MarkFlagRequired("persona")
	return cmd
}

// synthesisPromptCmd reads the full round payload from stdin rather than
// flags; response texts are too large to pass on a command line.
func synthesisPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "synthesis-prompt",
		Short: "Build the mediator prompt from a round payload on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in struct {
				Question     string            `json:"question"`
				Responses    map[string]any    `json:"responses"`
				Personas     map[string]string `json:"personas"`
				Labels       map[string]string `json:"labels"`
				PriorContext string            `json:"prior_context"`
				StatusLine   string            `json:"status_line"`
			}
			if err := readStdinJSON(&in); err != nil {
				return err
			}
			if len(in.Responses) == 0 {
				return fmt.Errorf("responses are required")
			}
			fmt.Println(prompt.Synthesis(prompt.SynthesisInput{
				Question:     in.Question,
				Responses:    store.NormalizeSeatMap(in.Responses),
				Personas:     in.Personas,
				Labels:       in.Labels,
				PriorContext: in.PriorContext,
				StatusLine:   in.StatusLine,
				Tip:          prompt.RandomTip(nil),
			}))
			return nil
		},
	}
}

func historianCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "historian [question]",
		Short: "Find past sessions relevant to a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, err := getStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := historian.Retrieve(s, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return emit(result)
		},
	}
}

func similarityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "similarity",
		Short: "Score consensus across a seat→response map on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			var responses map[string]any
			if err := readStdinJSON(&responses); err != nil {
				return err
			}
			if len(responses) < 2 {
				return fmt.Errorf("at least two responses are required")
			}
			texts := map[string]string{}
			for seat, value := range store.NormalizeSeatMap(responses) {
				if text, ok := value.(string); ok {
					texts[seat] = text
				}
			}
			return emit(consensus.Score(texts))
		},
	}
}

func archiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive [session-id]",
		Short: "Export a session to Markdown and mark it archived",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, err := getStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			path, err := archive.New(s, cfg.ArchiveDir).Export(args[0])
			if err != nil {
				return err
			}
			return emit(map[string]string{"path": path})
		},
	}
}

func agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "Report which advisor CLIs are on PATH",
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(doctor.CheckPath())
		},
	}
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run the full health check: advisor CLIs and data directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return emit(doctor.Check(cmd.Context(), cfg.SessionsDir, cfg.ArchiveDir))
		},
	}
}

func tipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Print a random usage tip",
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(map[string]string{"tip": prompt.RandomTip(nil)})
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, err := getStore(cfg)
			if err != nil {
				return err
			}
			// The store stays open for the lifetime of the server.

			server := api.New(
				cfg.Catalog,
				s,
				assign.New(cfg.Catalog, nil),
				archive.New(s, cfg.ArchiveDir),
				nil,
				addr,
			)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "server address")
	return cmd
}
