package arg

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"skillrise/api/client"
	"skillrise/api/config"
)

var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Replay a navigation script through the tracker against the API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		steps, err := parseScript(f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		tracking, err := config.LoadTracking(trackingPath)
		if err != nil {
			return err
		}

		path := slotPath
		if path == "" {
			path = client.DefaultSlotPath()
		}

		identity := client.NewStaticIdentity(token)
		clock := &virtualClock{start: time.Now()}
		tracker := client.NewTracker(identity, client.NewHTTPSender(serverURL, identity), client.Options{
			Routes:              tracking.Routes,
			MinFlushSeconds:     tracking.MinFlushSeconds,
			HeartbeatInterval:   tracking.HeartbeatInterval,
			HeartbeatMinSeconds: tracking.HeartbeatMinSeconds,
			Clock:               clock,
			Slot:                client.NewPendingSlot(path),
		})

		tracker.Recover()
		replay(tracker, clock, steps)
		tracker.Wait()

		fmt.Fprintf(cmd.OutOrStdout(), "replayed %d steps against %s\n", len(steps), serverURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
