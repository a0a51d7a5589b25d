package cli

import (
	"github.com/spf13/cobra"
)

func newRoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Round lifecycle commands",
	}

	cmd.AddCommand(newRoundStartCmd())
	cmd.AddCommand(newRoundCurrentCmd())
	cmd.AddCommand(newRoundScoreCmd())
	cmd.AddCommand(newRoundResultsCmd())
	cmd.AddCommand(newRoundFinishCmd())

	return cmd
}

func newRoundStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start the next round (room creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := requirePlayerID()
			if err != nil {
				return err
			}

			req := map[string]string{"player_id": playerID}
			var result AdvanceResult
			if err := client.Post("/api/v1/rooms/"+args[0]+"/rounds", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoundCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current <code>",
		Short: "Show the room's active round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Round
			if err := client.Get("/api/v1/rooms/"+args[0]+"/rounds/current", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoundScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <code> <round-id>",
		Short: "Score a round once both answers are in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoundResult
			if err := client.Post("/api/v1/rooms/"+args[0]+"/rounds/"+args[1]+"/results", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoundResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <code> <round-id>",
		Short: "Show a scored round's results",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoundResult
			if err := client.Get("/api/v1/rooms/"+args[0]+"/rounds/"+args[1]+"/results", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoundFinishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish <code>",
		Short: "End the game and accrue lifetime stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := requirePlayerID()
			if err != nil {
				return err
			}

			req := map[string]string{"player_id": playerID}
			if err := client.Post("/api/v1/rooms/"+args[0]+"/finish", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game finished")
			return nil
		},
	}
}

func newAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <code> <word>",
		Short: "Submit an answer to the room's active round",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := requirePlayerID()
			if err != nil {
				return err
			}

			req := map[string]string{"player_id": playerID, "answer": args[1]}
			var result Answer
			if err := client.Post("/api/v1/rooms/"+args[0]+"/answers", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
