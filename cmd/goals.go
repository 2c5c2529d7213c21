package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/goals"
	"github.com/theirongolddev/billu/internal/model"
	"github.com/theirongolddev/billu/internal/store"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagGoalName     string
	flagGoalTarget   float64
	flagGoalDate     string
	flagGoalIn       int
	flagGoalCategory string
	flagGoalSaved    float64
	flagPreset       int
	flagPlanAmount   float64
	flagPlanSchedule string
)

const dateLayout = "2006-01-02"

var goalsCmd = &cobra.Command{
	Use:     "goals",
	Aliases: []string{"goal"},
	Short:   "List savings goals and their progress",
	RunE:    runGoalsList,
}

var goalsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a savings goal (interactive when flags are omitted)",
	Args:  cobra.NoArgs,
	RunE:  runGoalsAdd,
}

var goalsContributeCmd = &cobra.Command{
	Use:   "contribute ID [AMOUNT]",
	Short: "Add money to a goal",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runGoalsContribute,
}

var goalsRemoveCmd = &cobra.Command{
	Use:     "remove ID",
	Aliases: []string{"rm"},
	Short:   "Delete a goal and its contributions",
	Args:    cobra.ExactArgs(1),
	RunE:    runGoalsRemove,
}

var goalsPlanCmd = &cobra.Command{
	Use:   "plan ID",
	Short: "Project when a recurring contribution completes a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsPlan,
}

var goalsHistoryCmd = &cobra.Command{
	Use:   "history ID",
	Short: "List contributions made to a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsHistory,
}

func init() {
	goalsAddCmd.Flags().StringVar(&flagGoalName, "name", "", "Goal name")
	goalsAddCmd.Flags().Float64Var(&flagGoalTarget, "target", 0, "Target amount")
	goalsAddCmd.Flags().StringVar(&flagGoalDate, "date", "", "Target date (YYYY-MM-DD)")
	goalsAddCmd.Flags().IntVar(&flagGoalIn, "in", 0, "Target date as months from today (instead of --date)")
	goalsAddCmd.Flags().StringVar(&flagGoalCategory, "category", string(goals.CategoryEmergency), "Goal category")
	goalsAddCmd.Flags().Float64Var(&flagGoalSaved, "saved", 0, "Amount already saved")

	goalsContributeCmd.Flags().IntVarP(&flagPreset, "preset", "p", 0, "Use contribution preset N (1-based) instead of AMOUNT")

	goalsPlanCmd.Flags().Float64Var(&flagPlanAmount, "amount", 0, "Amount per contribution (default: the monthly amount needed)")
	goalsPlanCmd.Flags().StringVar(&flagPlanSchedule, "schedule", "0 9 1 * *", "Cron schedule of contributions")

	goalsCmd.AddCommand(goalsAddCmd, goalsContributeCmd, goalsRemoveCmd, goalsPlanCmd, goalsHistoryCmd)
	rootCmd.AddCommand(goalsCmd)
}

func runGoalsList(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	all, err := st.LoadGoals()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("\n  No goals yet.")
		fmt.Println("  Create one with `billu goals add`.")
		return nil
	}

	portfolio, err := goals.Summarize(all, time.Now())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SAVINGS GOALS  %s saved", cli.FormatPercent(portfolio.Progress))))
	fmt.Println()

	rows := make([][]string, 0, len(portfolio.Goals)+3)
	for _, s := range portfolio.Goals {
		left := cli.FormatMonths(s.MonthsRemaining)
		monthly := cli.FormatMoney(s.MonthlyNeeded)
		if s.State == model.GoalCompleted {
			left, monthly = "done", "-"
		}
		rows = append(rows, []string{
			shortID(s.Goal.ID),
			s.Goal.Name,
			goals.CategoryName(s.Goal.Category),
			cli.FormatMoney(s.Goal.CurrentAmount),
			cli.FormatMoney(s.Goal.TargetAmount),
			cli.FormatPercent(s.Progress),
			left,
			monthly,
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"", "Total", fmt.Sprintf("%d done", portfolio.Completed),
		cli.FormatMoney(portfolio.TotalSaved),
		cli.FormatMoney(portfolio.TotalTarget),
		cli.FormatPercent(portfolio.Progress),
		"", "",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Goal", "Category", "Saved", "Target", "Progress", "Left", "Monthly"},
		Rows:    rows,
	}))
	return nil
}

func runGoalsAdd(cmd *cobra.Command, _ []string) error {
	now := time.Now()
	in := goals.GoalInput{
		Name:         flagGoalName,
		TargetAmount: flagGoalTarget,
		Category:     flagGoalCategory,
	}

	switch {
	case flagGoalIn > 0:
		in.TargetDate = now.AddDate(0, flagGoalIn, 0)
	case flagGoalDate != "":
		d, err := time.ParseInLocation(dateLayout, flagGoalDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", flagGoalDate)
		}
		in.TargetDate = d
	}

	saved := flagGoalSaved
	if in.Name == "" || in.TargetAmount <= 0 || in.TargetDate.IsZero() {
		if cmd.Flags().NFlag() > 0 && in.Name != "" {
			return errors.New("--name, --target, and --date (or --in) are required together")
		}
		if err := goalForm(&in, &saved, now); err != nil {
			return err
		}
	}

	g, err := goals.NewGoal(in, now, nil)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if saved > 0 {
		funded, err := goals.RecordContribution(g, saved)
		if err != nil {
			return err
		}
		err = st.AddContribution(funded, model.Contribution{GoalID: g.ID, Amount: funded.CurrentAmount, At: now})
		if err != nil {
			return fmt.Errorf("saving goal: %w", err)
		}
		g = funded
	} else if err := st.SaveGoal(g); err != nil {
		return fmt.Errorf("saving goal: %w", err)
	}
	log.WithField("goal", g.ID).Info("created goal")

	status, err := goals.Describe(g, now)
	if err != nil {
		return err
	}
	fmt.Printf("\n  Created %q (%s)\n", g.Name, shortID(g.ID))
	fmt.Printf("  Target %s by %s, %s a month to get there.\n\n",
		cli.FormatMoney(g.TargetAmount), cli.FormatDate(g.TargetDate), cli.FormatMoney(status.MonthlyNeeded))
	return nil
}

// goalForm asks for the goal fields interactively.
func goalForm(in *goals.GoalInput, saved *float64, now time.Time) error {
	target := ""
	if in.TargetAmount > 0 {
		target = strconv.FormatFloat(in.TargetAmount, 'f', -1, 64)
	}
	date := now.AddDate(1, 0, 0).Format(dateLayout)
	if !in.TargetDate.IsZero() {
		date = in.TargetDate.Format(dateLayout)
	}
	savedStr := ""

	catOpts := make([]huh.Option[string], 0, len(goals.Categories))
	for _, c := range goals.Categories {
		catOpts = append(catOpts, huh.NewOption(c.Name, string(c.ID)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Goal name").
				Placeholder("Emergency Fund").
				Value(&in.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(catOpts...).
				Value(&in.Category),
			huh.NewInput().
				Title("Target amount").
				Value(&target).
				Validate(func(s string) error {
					v, err := parseAmount(s)
					if err != nil || v <= 0 {
						return errors.New("enter an amount above zero")
					}
					return nil
				}),
			huh.NewInput().
				Title("Target date").
				Description("YYYY-MM-DD").
				Value(&date).
				Validate(func(s string) error {
					if _, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local); err != nil {
						return errors.New("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Already saved").
				Description("Optional").
				Value(&savedStr).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if v, err := parseAmount(s); err != nil || v < 0 {
						return errors.New("enter an amount of zero or more")
					}
					return nil
				}),
		),
	).WithShowHelp(true)

	if err := form.Run(); err != nil {
		return fmt.Errorf("goal form: %w", err)
	}

	in.TargetAmount, _ = parseAmount(target)
	in.TargetDate, _ = time.ParseInLocation(dateLayout, strings.TrimSpace(date), time.Local)
	if strings.TrimSpace(savedStr) != "" {
		*saved, _ = parseAmount(savedStr)
	}
	return nil
}

func runGoalsContribute(_ *cobra.Command, args []string) error {
	amount, err := contributionAmount(args[1:], flagPreset, cfg.Goals.Presets)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	g, err := findGoal(st, args[0])
	if err != nil {
		return err
	}

	updated, err := goals.RecordContribution(g, amount)
	if err != nil {
		return err
	}
	applied := updated.CurrentAmount - g.CurrentAmount
	if applied <= 0 {
		fmt.Printf("\n  %q is already fully funded.\n\n", g.Name)
		return nil
	}

	if err := st.AddContribution(updated, model.Contribution{GoalID: g.ID, Amount: applied, At: time.Now()}); err != nil {
		return fmt.Errorf("saving contribution: %w", err)
	}
	log.WithFields(logrus.Fields{"goal": g.ID, "amount": applied}).Info("recorded contribution")

	progress, _ := goals.Progress(updated)
	fmt.Println()
	fmt.Printf("  Added %s to %q", cli.FormatMoney(applied), g.Name)
	if applied < amount {
		fmt.Printf(" (capped at the target)")
	}
	fmt.Println()
	fmt.Printf("  %s  %s of %s\n\n",
		cli.RenderProgressBar(progress, 30),
		cli.FormatMoney(updated.CurrentAmount), cli.FormatMoney(updated.TargetAmount))
	if goals.State(updated) == model.GoalCompleted {
		fmt.Println("  Goal reached!")
		fmt.Println()
	}
	return nil
}

// contributionAmount resolves the amount from the positional argument or
// a 1-based preset index.
func contributionAmount(args []string, preset int, presets []float64) (float64, error) {
	if preset > 0 {
		if len(args) > 0 {
			return 0, errors.New("give either AMOUNT or --preset, not both")
		}
		if preset > len(presets) {
			return 0, fmt.Errorf("preset %d does not exist (%d configured)", preset, len(presets))
		}
		return presets[preset-1], nil
	}
	if len(args) == 0 {
		return 0, errors.New("AMOUNT is required without --preset")
	}
	v, err := parseAmount(args[0])
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("amount must be above zero, got %s", args[0])
	}
	return v, nil
}

func runGoalsRemove(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	g, err := findGoal(st, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteGoal(g.ID); err != nil {
		return fmt.Errorf("removing goal: %w", err)
	}
	fmt.Printf("\n  Removed %q\n\n", g.Name)
	return nil
}

func runGoalsPlan(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	g, err := findGoal(st, args[0])
	if err != nil {
		return err
	}

	now := time.Now()
	amount := flagPlanAmount
	if amount <= 0 {
		amount = goals.MonthlyContributionNeeded(g, now)
	}
	if amount <= 0 {
		return errors.New("goal is due or funded; pass --amount to project a plan")
	}

	proj, err := goals.ProjectCompletion(g, goals.Plan{Amount: amount, Schedule: flagPlanSchedule}, now)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PLAN  %s", g.Name)))
	fmt.Println()

	rows := [][]string{
		{"Contribution", cli.FormatMoney(amount)},
		{"Schedule", flagPlanSchedule},
		{"Target", fmt.Sprintf("%s by %s", cli.FormatMoney(g.TargetAmount), cli.FormatDate(g.TargetDate))},
		{"---"},
	}
	if proj.Reached {
		verdict := "on track"
		if !proj.OnTrack {
			verdict = "after the target date"
		}
		rows = append(rows,
			[]string{"Completes", cli.FormatDate(proj.CompletedAt)},
			[]string{"Contributions", formatNumber(int64(proj.Contributions))},
			[]string{"Verdict", verdict},
		)
	} else {
		rows = append(rows,
			[]string{"Completes", fmt.Sprintf("not within %d contributions", goals.MaxPlanContributions)},
			[]string{"Would reach", cli.FormatMoney(proj.FinalAmount)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Plan", ""}, Rows: rows}))
	return nil
}

func runGoalsHistory(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	g, err := findGoal(st, args[0])
	if err != nil {
		return err
	}
	contribs, err := st.Contributions(g.ID)
	if err != nil {
		return err
	}
	if len(contribs) == 0 {
		fmt.Printf("\n  No contributions to %q yet.\n\n", g.Name)
		return nil
	}

	rows := make([][]string, 0, len(contribs)+2)
	var total float64
	for _, c := range contribs {
		total += c.Amount
		rows = append(rows, []string{cli.FormatDate(c.At), cli.FormatMoney(c.Amount)})
	}
	rows = append(rows, []string{"---"}, []string{"Total", cli.FormatMoney(total)})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   g.Name,
		Headers: []string{"Date", "Amount"},
		Rows:    rows,
	}))
	return nil
}

func findGoal(st *store.Store, ref string) (model.Goal, error) {
	all, err := st.LoadGoals()
	if err != nil {
		return model.Goal{}, err
	}
	return matchGoal(all, ref)
}

// matchGoal resolves ref as an exact ID, a unique ID prefix, or a
// case-insensitive name.
func matchGoal(all []model.Goal, ref string) (model.Goal, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Goal{}, errors.New("goal ID is required")
	}

	var matches []model.Goal
	for _, g := range all {
		if g.ID == ref {
			return g, nil
		}
		if strings.HasPrefix(g.ID, ref) || strings.EqualFold(g.Name, ref) {
			matches = append(matches, g)
		}
	}

	switch len(matches) {
	case 0:
		return model.Goal{}, fmt.Errorf("goal %q: %w", ref, store.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return model.Goal{}, fmt.Errorf("goal %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseAmount accepts "1000", "1,000.50", or "1_000".
func parseAmount(s string) (float64, error) {
	clean := strings.NewReplacer(",", "", "_", "", " ", "").Replace(strings.TrimSpace(s))
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}
