package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tokamak-network/frontend-deploy/internal/consts"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"github.com/tokamak-network/frontend-deploy/pkg/services"
)

var (
	revisionsApp    string
	revisionsEnv    string
	revisionsFrom   string
	revisionsOffset int
	revisionsLimit  int
	revisionsSort   string
)

var revisionsCmd = &cobra.Command{
	Use:   "revisions",
	Short: "List recorded revisions of an app",
	Run:   runRevisions,
}

func init() {
	revisionsCmd.Flags().StringVarP(&revisionsApp, "app", "a", "", "App name")
	revisionsCmd.Flags().StringVarP(&revisionsEnv, "env", "e", "", "Only this environment")
	revisionsCmd.Flags().StringVar(&revisionsFrom, "from", "", "Only revisions created at or after this date (2006-01-02 or RFC3339)")
	revisionsCmd.Flags().IntVar(&revisionsOffset, "offset", 0, "Skip this many revisions")
	revisionsCmd.Flags().IntVarP(&revisionsLimit, "limit", "n", entities.DefaultRevisionLimit, "Maximum number of revisions")
	revisionsCmd.Flags().StringVar(&revisionsSort, "sort", string(entities.RevisionSortByCreated), "Sort order: created or id")
	_ = revisionsCmd.MarkFlagRequired("app")
}

func runRevisions(cmd *cobra.Command, args []string) {
	filter, err := buildRevisionFilter(revisionsEnv, revisionsFrom, revisionsOffset, revisionsLimit, revisionsSort)
	if err != nil {
		exitError("%v", err)
	}

	c := initContext()
	defer c.Close()

	revisions, err := services.NewRevisionService(c.DB).ListRevisions(context.Background(), revisionsApp, filter)
	if err != nil && !errors.Is(err, entities.ErrNoRevisions) {
		exitError("failed to list revisions: %v", err)
	}
	printRevisions(os.Stdout, revisions)
}

func buildRevisionFilter(env, from string, offset, limit int, sort string) (entities.RevisionFilter, error) {
	filter := entities.RevisionFilter{Offset: offset, Limit: limit}

	if env != "" {
		parsed, err := entities.ParseDeployEnv(env)
		if err != nil {
			return filter, err
		}
		filter.Env = parsed
	}

	if from != "" {
		createdFrom, err := parseDate(from)
		if err != nil {
			return filter, err
		}
		filter.CreatedFrom = &createdFrom
	}

	switch entities.RevisionSort(sort) {
	case entities.RevisionSortByCreated, entities.RevisionSortByID:
		filter.Sort = entities.RevisionSort(sort)
	default:
		return filter, fmt.Errorf("unknown sort %q", sort)
	}
	return filter, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t.UTC(), nil
}

func printRevisions(w io.Writer, revisions []*entities.RevisionSummary) {
	if len(revisions) == 0 {
		fmt.Fprintln(w, consts.NoRevisions)
		return
	}

	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	for _, rev := range revisions {
		yellow.Fprintf(w, "%-8s", rev.CommitSHA)
		fmt.Fprintf(w, " %-10s %s ", rev.DeployEnv, rev.RecordCreated.Format(time.DateTime))
		statusColor(rev.Status).Fprintf(w, "%-7s", rev.Status)
		if rev.Tag != "" {
			cyan.Fprintf(w, " (%s)", rev.Tag)
		}
		fmt.Fprintf(w, " %s <%s>\n", rev.CommitMessage, rev.CommitAuthor)
	}
}

func statusColor(status entities.RevisionStatus) *color.Color {
	switch status {
	case entities.RevisionStatusSuccess:
		return color.New(color.FgGreen)
	case entities.RevisionStatusFailed:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgWhite)
	}
}
