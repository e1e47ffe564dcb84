// Command roundhold-client is a headless reference client: it opens a
// websocket to a Roundhold server, queues for a match, and prints every
// MatchEvent it receives. With --auto-ack it also acknowledges every
// RoundResult so it can drive a full match end-to-end without a human,
// useful for manual protocol exercising.
package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"roundhold/internal/transport"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr     string
		identity string
		autoAck  bool
	)

	cmd := &cobra.Command{
		Use:   "roundhold-client",
		Short: "Connect to a Roundhold server and print match events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(addr, identity, autoAck)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "ws://127.0.0.1:42069/roundhold", "server websocket URL")
	cmd.Flags().StringVar(&identity, "identity", "", "client identity to present to QueueForMatch")
	cmd.Flags().BoolVar(&autoAck, "auto-ack", true, "automatically RoundAck every RoundResult")

	return cmd
}

func run(addr, identity string, autoAck bool) error {
	u, err := url.Parse(addr)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	queuePayload, _ := json.Marshal(transport.QueueForMatchPayload{ClientIdentity: identity})
	if err := conn.WriteJSON(transport.Frame{Kind: transport.FrameQueueForMatch, Payload: queuePayload}); err != nil {
		return err
	}

	for {
		var f transport.Frame
		if err := conn.ReadJSON(&f); err != nil {
			return fmt.Errorf("connection closed: %w", err)
		}

		switch f.Kind {
		case transport.FrameEvent:
			var ev transport.EventPayload
			if err := json.Unmarshal(f.Payload, &ev); err != nil {
				continue
			}
			fmt.Printf("[%s] event: %s %s\n", time.Now().Format(time.RFC3339), ev.Kind, string(ev.Data))
			if autoAck && ev.Kind == "RoundResult" {
				ackPayload, _ := json.Marshal(transport.RoundAckPayload{})
				_ = conn.WriteJSON(transport.Frame{Kind: transport.FrameRoundAck, Payload: ackPayload})
			}
		case transport.FrameResponse:
			var resp transport.ResponsePayload
			_ = json.Unmarshal(f.Payload, &resp)
			fmt.Printf("[%s] response: success=%v error=%s\n", time.Now().Format(time.RFC3339), resp.Success, resp.Error)
		}
	}
}
