// ABOUTME: Sync subcommands for pushing offline changes and inspecting state.
// ABOUTME: Remote mode pushes to the REST service; the charm backend syncs its KV store.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/coursetrack/internal/charm"
	"github.com/harper/coursetrack/internal/config"
	"github.com/harper/coursetrack/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push offline changes",
	Long: `Push courses changed while the remote service was unreachable, then
reload. With the charm backend the local snapshot is also synced to the
charm server.

Commands:
  status  - Show sync configuration and pending changes
  repair  - Repair the local charm KV files
  reset   - Drop the local charm KV copy (server data is kept)

Examples:
  coursetrack sync
  coursetrack sync status`,
	Annotations: map[string]string{annotationLazyLoad: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		pusher, err := currentPusher()
		if err != nil {
			return err
		}
		return reported(pres.Sync(cmd.Context(), pusher))
	},
}

var syncStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show sync status",
	Annotations: map[string]string{annotationNoView: "true", annotationLazyLoad: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Sync Status")
		fmt.Println(strings.Repeat("-", 40))
		fmt.Printf("Config:    %s\n", config.Path())
		fmt.Printf("Mode:      %s\n", cfg.Mode)
		fmt.Printf("Backend:   %s\n", cfg.Backend)

		if syncer != nil {
			fmt.Printf("Remote:    %s/%s\n", cfg.APIBaseURL, cfg.Endpoint)
			plan, err := syncer.Pending(cmd.Context())
			if err != nil {
				fmt.Printf("Status:    %s\n", color.RedString("unreachable"))
				fmt.Println(ui.Info("Changes are kept locally until the service is back."))
			} else {
				fmt.Printf("Status:    %s\n", color.GreenString("reachable"))
				fmt.Printf("Pending:   %d new, %d updated\n", len(plan.Create), len(plan.Update))
			}
		}

		if charmClient != nil {
			fmt.Println()
			fmt.Printf("Charm:     %s\n", valueOrNone(cfg.CharmHost))
			if last := charmClient.LastSyncTime(); !last.IsZero() {
				fmt.Printf("Last sync: %s\n", last.Local().Format("2006-01-02 15:04"))
			}
			user, err := charmClient.User()
			if err == nil && user != nil {
				fmt.Printf("User ID:   %s\n", user.CharmID)
				fmt.Printf("Name:      %s\n", valueOrNone(user.Name))
			} else {
				fmt.Printf("Link:      %s\n", color.YellowString("not linked"))
			}
		}
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:         "repair",
	Short:       "Repair the local charm KV store",
	Annotations: map[string]string{annotationNoView: "true", annotationLazyLoad: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := requireCharm()
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		fmt.Println("Repairing database...")
		report, err := client.Repair(force)
		if err != nil {
			return fmt.Errorf("repair failed: %w", err)
		}
		if report.WalCheckpointed {
			fmt.Println("  ✓ WAL checkpointed")
		}
		if report.ShmRemoved {
			fmt.Println("  ✓ SHM file removed")
		}
		if report.Vacuumed {
			fmt.Println("  ✓ Database vacuumed")
		}
		if !report.IntegrityOK {
			color.Yellow("\n⚠ Repair completed but integrity issues remain")
			fmt.Println("Consider running 'coursetrack sync reset'")
			return nil
		}
		color.Green("\n✓ Database repaired successfully")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:         "reset",
	Short:       "Reset the local charm KV copy",
	Long:        `Remove the local charm KV data. The next run pulls the snapshot from the charm server again.`,
	Annotations: map[string]string{annotationLazyLoad: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := requireCharm()
		if err != nil {
			return err
		}
		if !view.Confirm("Reset local sync data? Server data is kept.") {
			fmt.Println("Aborted.")
			return nil
		}
		if err := client.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		color.Green("✓ Local sync data reset")
		return nil
	},
}

func requireCharm() (*charm.Client, error) {
	if charmClient == nil {
		return nil, fmt.Errorf("the %s backend does not sync through charm", cfg.Backend)
	}
	return charmClient, nil
}

// charmPusher syncs the charm KV store and reports the collection size.
type charmPusher struct {
	client *charm.Client
}

func (p charmPusher) Push(context.Context) (int, error) {
	if err := p.client.Sync(); err != nil {
		return 0, err
	}
	return courseStore.Len(), nil
}

type pusherFunc func(context.Context) (int, error)

func (f pusherFunc) Push(ctx context.Context) (int, error) { return f(ctx) }

func currentPusher() (pusherFunc, error) {
	switch {
	case syncer != nil && charmClient != nil:
		return func(ctx context.Context) (int, error) {
			n, err := syncer.Push(ctx)
			if err != nil {
				return n, err
			}
			_, err = charmPusher{charmClient}.Push(ctx)
			return n, err
		}, nil
	case syncer != nil:
		return syncer.Push, nil
	case charmClient != nil:
		return charmPusher{charmClient}.Push, nil
	default:
		return nil, fmt.Errorf("nothing to sync: local mode with the %s backend", cfg.Backend)
	}
}

// valueOrNone returns "(not set)" if the string is empty.
func valueOrNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func init() {
	syncRepairCmd.Flags().Bool("force", false, "repair even if the integrity check fails")

	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	rootCmd.AddCommand(syncCmd)
}
