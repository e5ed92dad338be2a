package cli

import (
	"fmt"
	"io"
	"strings"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/config"
	"syntax_feed_backend/internal/feed"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var lessonCount int

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print the feed layout",
	Long:  `Builds the feed from the configured content and prints one line per item.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		var cat *catalog.Catalog
		if cfg.Content.Path != "" {
			cat, err = catalog.LoadDir(cfg.Content.Path)
		} else {
			cat, err = catalog.Default()
		}
		if err != nil {
			return err
		}

		lessons := cat.Lessons()
		if lessonCount > 0 && lessonCount < len(lessons) {
			lessons = lessons[:lessonCount]
		}
		items := feed.Build(lessons, cat.Quizzes(), cat.Ads(), cfg.Feed.Layout())
		printLayout(cmd.OutOrStdout(), items)
		return nil
	},
}

func init() {
	feedCmd.Flags().IntVar(&lessonCount, "lessons", 0, "number of lessons to include, 0 for all")
}

func printLayout(w io.Writer, items []feed.Item) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()

	counts := map[feed.Kind]int{}
	fmt.Fprintf(w, "%s\n", cyan("=== Feed Layout ==="))
	for i, it := range items {
		counts[it.Kind]++
		label := string(it.Kind)
		switch it.Kind {
		case feed.KindLesson:
			label = green(label)
		case feed.KindQuiz:
			label = yellow(label)
		case feed.KindAd:
			label = magenta(label)
		}
		fmt.Fprintf(w, "%3d  %-6s  %s\n", i, label, oneLine(it.Title()))
	}
	fmt.Fprintf(w, "\n%d items: %d lessons, %d quizzes, %d ads\n",
		len(items), counts[feed.KindLesson], counts[feed.KindQuiz], counts[feed.KindAd])
}

// oneLine folds quiz code blocks and other multi-line titles onto one line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
