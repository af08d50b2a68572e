package main

import (
	"fmt"

	"github.com/jonathan/jobboard/internal/feed"
	"github.com/jonathan/jobboard/internal/postings"
	"github.com/spf13/cobra"
)

var (
	feedQuery     string
	feedMinExp    int
	feedSkills    []string
	feedDismissed []string
	feedPage      int
	feedPageSize  int
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse the filtered job feed",
	Long: `Fetch every posting from the backend, apply the search, experience and
skill filters, drop dismissed postings and print one page. When the backend is
unreachable the built-in sample postings are shown with a notice.`,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().StringVarP(&feedQuery, "query", "q", "", "Search title, description and skills")
	feedCmd.Flags().IntVar(&feedMinExp, "exp", -1, "Minimum years of experience")
	feedCmd.Flags().StringSliceVar(&feedSkills, "skill", nil, "Required skill, any of (repeatable)")
	feedCmd.Flags().StringSliceVar(&feedDismissed, "dismiss", nil, "Posting id to hide (repeatable)")
	feedCmd.Flags().IntVar(&feedPage, "page", 1, "Page number, starting at 1")
	feedCmd.Flags().IntVar(&feedPageSize, "page-size", 0, "Postings per page (default from config or 9)")

	rootCmd.AddCommand(feedCmd)
}

// feedActions translates the feed flags into reducer actions.
// The page is set last so filter changes do not reset it.
func feedActions(cmd *cobra.Command) []feed.Action {
	var actions []feed.Action
	if feedQuery != "" {
		actions = append(actions, feed.SetQuery(feedQuery))
	}
	if cmd.Flags().Changed("exp") {
		actions = append(actions, feed.SetMinExperience(feedMinExp))
	}
	if len(feedSkills) > 0 {
		actions = append(actions, feed.SetSkills(feedSkills...))
	}
	for _, id := range feedDismissed {
		actions = append(actions, feed.Dismiss(id))
	}
	return append(actions, feed.GoToPage(feedPage))
}

func runFeed(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("exp") && feedMinExp < 0 {
		return fmt.Errorf("--exp must be non-negative, got %d", feedMinExp)
	}
	if feedPageSize < 0 {
		return fmt.Errorf("--page-size must be non-negative, got %d", feedPageSize)
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	client, err := s.newClient()
	if err != nil {
		return err
	}

	state := feed.NewState()
	for _, action := range feedActions(cmd) {
		if state, err = feed.Reduce(state, action); err != nil {
			return err
		}
	}

	size := s.PageSize
	if cmd.Flags().Changed("page-size") {
		size = feedPageSize
	}

	listing := postings.NewLoader(client, s.logger).Load(cmd.Context())
	s.printer.PrintFeedPage(feed.View(listing.Posts, state, size), listing.Notice)
	return nil
}
