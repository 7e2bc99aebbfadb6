package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Inspect topics",
}

var topicGetCmd = &cobra.Command{
	Use:   "get <tid>",
	Short: "Show a topic's fields and category index placement",
	Long: `Fetches a topic by id and prints its moderation-relevant fields along
with which of its category's indices currently contain it, and at what score.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tid := args[0]

		s, err := connect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer s.close(ctx)

		topic, err := s.topics.Get(ctx, tid)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to fetch topic: %v\n", err)
			os.Exit(1)
		}
		if topic == nil {
			fmt.Fprintf(os.Stderr, "Topic %q not found.\n", tid)
			os.Exit(1)
		}

		fmt.Printf("Topic:        %s\n", topic.TID)
		fmt.Printf("Category:     %s\n", topic.CID)
		fmt.Printf("Owner:        %s\n", topic.UID)
		fmt.Printf("Title:        %s\n", topic.Title)
		fmt.Printf("Deleted:      %t\n", topic.Deleted)
		fmt.Printf("Locked:       %t\n", topic.Locked)
		fmt.Printf("Pinned:       %t\n", topic.Pinned)
		fmt.Printf("Scheduled:    %t\n", topic.Scheduled)
		if topic.PinExpiry > 0 {
			fmt.Printf("Pin expiry:   %s\n", time.UnixMilli(topic.PinExpiry).UTC().Format(time.RFC3339))
		}
		if topic.OldCID != "" {
			fmt.Printf("Moved from:   %s\n", topic.OldCID)
		}
		fmt.Printf("Posts:        %d\n", topic.PostCount)
		fmt.Printf("Votes:        %d\n", topic.Votes())

		fmt.Println("\nIndex placement:")
		keys := []string{
			fmt.Sprintf("cid:%s:tids", topic.CID),
			fmt.Sprintf("cid:%s:tids:create", topic.CID),
			fmt.Sprintf("cid:%s:tids:pinned", topic.CID),
			fmt.Sprintf("cid:%s:tids:posts", topic.CID),
			fmt.Sprintf("cid:%s:tids:votes", topic.CID),
			fmt.Sprintf("cid:%s:tids:lastposttime", topic.CID),
			fmt.Sprintf("cid:%s:uid:%s:tids", topic.CID, topic.UID),
		}
		for _, key := range keys {
			score, ok, err := s.sets.Score(ctx, key, topic.TID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to read index %s: %v\n", key, err)
				os.Exit(1)
			}
			if ok {
				fmt.Printf("  %-40s score=%g\n", key, score)
			} else {
				fmt.Printf("  %-40s -\n", key)
			}
		}
	},
}

func init() {
	topicCmd.AddCommand(topicGetCmd)
	rootCmd.AddCommand(topicCmd)
}
