package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"apartmentiq-workers/internal/paywall"
)

type gateReport struct {
	SessionID      string           `json:"sessionId"`
	PaywallOpen    bool             `json:"paywallOpen"`
	Trigger        *paywall.Trigger `json:"trigger,omitempty"`
	RemainingViews int              `json:"remainingViews"`
	AIScoreAllowed map[string]bool  `json:"aiScoreAllowed,omitempty"`
	State          paywall.State    `json:"state"`
}

func newGateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Replay property views and feature checks against a paywall session",
		Long: "Loads the session (in memory, or from Redis with --redis), applies unlocks, " +
			"plan activation, property views and AI score checks in that order, and prints the result.",
		Args: cobra.NoArgs,
		RunE: runGate,
	}
	cmd.Flags().String("session", "", "session id (a random one when empty)")
	cmd.Flags().StringSlice("views", nil, "property ids viewed, in order")
	cmd.Flags().StringSlice("ai-score", nil, "property ids whose AI score is requested")
	cmd.Flags().StringSlice("unlock", nil, "property ids unlocked before the views")
	cmd.Flags().String("plan", "", "activate this plan before the views")
	cmd.Flags().Int("limit", 0, "free view limit (paywall.free_view_limit when 0)")
	cmd.Flags().Bool("reset", false, "reset the session before replaying")
	cmd.Flags().String("redis", "", "redis address; state is kept in memory when empty")
	return cmd
}

func runGate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	sessionID, _ := flags.GetString("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	limit, _ := flags.GetInt("limit")
	if limit == 0 {
		limit = cfg.Paywall.FreeViewLimit
	}

	var store paywall.Store = paywall.NewMemoryStore()
	if addr, _ := flags.GetString("redis"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()
		store = paywall.NewRedisStore(client, cfg.Paywall.KeyPrefix, 0)
	}

	ctx := context.Background()
	gate := paywall.Load(ctx, sessionID, paywall.Options{
		FreeViewLimit: limit,
		Store:         store,
		Logger:        newLogger(cmd),
	})
	defer gate.Wait()

	if reset, _ := flags.GetBool("reset"); reset {
		gate.ResetPaywallState(ctx)
	}
	unlocks, _ := flags.GetStringSlice("unlock")
	for _, id := range unlocks {
		gate.UnlockProperty(ctx, id)
	}
	if plan, _ := flags.GetString("plan"); plan != "" {
		gate.ActivatePlan(ctx, plan)
	}
	views, _ := flags.GetStringSlice("views")
	for _, id := range views {
		gate.TrackPropertyView(ctx, id)
	}

	report := gateReport{SessionID: sessionID}
	aiScore, _ := flags.GetStringSlice("ai-score")
	if len(aiScore) > 0 {
		report.AIScoreAllowed = make(map[string]bool, len(aiScore))
		for _, id := range aiScore {
			if id == "" {
				return fmt.Errorf("empty property id in --ai-score")
			}
			report.AIScoreAllowed[id] = gate.TrackAIScoreAccess(ctx, id)
		}
	}

	report.PaywallOpen = gate.IsPaywallOpen()
	report.Trigger = gate.CurrentTrigger()
	report.RemainingViews = gate.RemainingViews()
	report.State = gate.Snapshot()
	return writeJSON(cmd, report)
}
