package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/council/internal/domain"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage stored council sessions",
	}
	cmd.AddCommand(sessionCreateCmd())
	cmd.AddCommand(sessionLoadCmd())
	cmd.AddCommand(sessionAppendCmd())
	cmd.AddCommand(sessionListCmd())
	cmd.AddCommand(sessionRateCmd())
	cmd.AddCommand(sessionOutcomeCmd())
	return cmd
}

func sessionCreateCmd() *cobra.Command {
	var (
		topic        string
		question     string
		priorContext string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session record",
		Long: `Create a new session record. An optional JSON object on stdin supplies
the seat maps: {"personas": {"seat_1": ...}, "labels": {"seat_1": ...}}.`,
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

			var seatMaps struct {
				Personas map[string]string `json:"personas"`
				Labels   map[string]string `json:"labels"`
			}
			if stdinHasData(cmd) {
				if err := readStdinJSON(&seatMaps); err != nil {
					return err
				}
			}

			session, err := s.Create(topic, question, seatMaps.Personas, seatMaps.Labels, priorContext)
			if err != nil {
				return err
			}
			return emit(session)
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "short topic (defaults to the question)")
	cmd.Flags().StringVar(&question, "question", "", "the question being consulted on (required)")
	cmd.Flags().StringVar(&priorContext, "prior-context", "", "historian context block")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

func sessionLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load [session-id]",
		Short: "Load a session, normalizing any legacy shapes",
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

			session, err := s.Load(args[0])
			if err != nil {
				return err
			}
			return emit(session)
		},
	}
}

func sessionAppendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "append [session-id]",
		Short: "Append a round (JSON object on stdin) to a session",
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

			var round domain.Round
			if err := readStdinJSON(&round); err != nil {
				return err
			}
			number, err := s.AppendRound(args[0], round)
			if err != nil {
				return err
			}
			return emit(map[string]int{"round": number})
		},
	}
}

func sessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recent first",
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

			summaries, err := s.List()
			if err != nil {
				return err
			}
			return emit(map[string]any{"sessions": summaries})
		},
	}
}

func sessionRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate [session-id] [1-5]",
		Short: "Rate how useful a session was",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a number: %s", args[1])
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, err := getStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SetRating(args[0], rating); err != nil {
				return err
			}
			return emit(map[string]any{"id": args[0], "rating": rating})
		},
	}
}

func sessionOutcomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outcome [session-id] [status] [note...]",
		Short: "Record what happened after the council's advice",
		Args:  cobra.MinimumNArgs(2),
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

			outcome, err := s.SetOutcome(args[0], args[1], strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			return emit(outcome)
		},
	}
}

// stdinHasData reports whether stdin is a pipe rather than a terminal.
// Session create takes its optional seat maps this way.
func stdinHasData(cmd *cobra.Command) bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
