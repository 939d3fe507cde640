package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/clientmgr/internal/constants"
	"github.com/julianstephens/clientmgr/internal/models"
	"github.com/julianstephens/clientmgr/internal/utils"
)

type TimelineListCmd struct {
	ClientID string `arg:"" help:"Client ID."`
}

func (cmd *TimelineListCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	c, err := getClient(ctx, cmd.ClientID)
	if err != nil {
		return err
	}

	ctx.println(titleStyle.Render("Timeline · " + c.Name))
	ctx.println(field("Final deadline", deadlineLabel(ctx, c.FinalDeadline)))
	ctx.println()

	if len(c.Timeline) == 0 {
		ctx.println("No stages planned.")
		return nil
	}
	for _, s := range c.Timeline {
		end := s.EndDate
		if s.Status != models.StageCompleted && utils.IsDeadlineSoon(s.EndDate, ctx.now()) {
			end = warnStyle.Render(end)
		}
		ctx.printf("%-14s  %-12s  %s → %s  %3dd  %-12s  %s\n",
			s.ID, s.Stage, s.StartDate, end, s.DurationDays(), s.Status, s.Notes)
	}
	return nil
}

type TimelineAddCmd struct {
	ClientID string `arg:"" help:"Client ID."`
	Stage    string `help:"Discovery, Design, Development, Testing, Launch or Maintenance." default:"Discovery"`
	Start    string `help:"Start date (YYYY-MM-DD). Defaults to today."`
	End      string `help:"End date (YYYY-MM-DD). Defaults to a week after the start."`
	Status   string `help:"Planned, In Progress, Completed or Delayed." default:"Planned"`
	Notes    string `help:"Optional notes."`
}

func (cmd *TimelineAddCmd) Validate() error {
	if _, err := models.ParseStage(cmd.Stage); err != nil {
		return err
	}
	if _, err := models.ParseStageStatus(cmd.Status); err != nil {
		return err
	}
	if err := optionalDate(cmd.Start); err != nil {
		return err
	}
	return optionalDate(cmd.End)
}

func (cmd *TimelineAddCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	c, err := getClient(ctx, cmd.ClientID)
	if err != nil {
		return err
	}

	stage, err := models.ParseStage(cmd.Stage)
	if err != nil {
		return err
	}
	status, err := models.ParseStageStatus(cmd.Status)
	if err != nil {
		return err
	}

	start := strings.TrimSpace(cmd.Start)
	if start == "" {
		start = utils.Today(ctx.now())
	}
	end := strings.TrimSpace(cmd.End)
	if end == "" {
		startDate, err := utils.ParseDate(start)
		if err != nil {
			return err
		}
		end = utils.AddDays(startDate, constants.DefaultStageDays)
	}

	s := models.TimelineStage{
		Stage:     stage,
		StartDate: start,
		EndDate:   end,
		Status:    status,
		Notes:     strings.TrimSpace(cmd.Notes),
	}
	if err := s.Validate(); err != nil {
		return err
	}
	s = c.AddStage(s, ctx.now())

	if err := saveClient(ctx, &c); err != nil {
		return err
	}
	ctx.printf("✓ Added %s stage to %s (%s → %s, id %s)\n", s.Stage, c.Name, s.StartDate, s.EndDate, s.ID)
	return nil
}

type TimelineRemoveCmd struct {
	ClientID string `arg:"" help:"Client ID."`
	StageID  string `arg:"" help:"Stage ID."`
}

func (cmd *TimelineRemoveCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	c, err := getClient(ctx, cmd.ClientID)
	if err != nil {
		return err
	}

	if !c.RemoveStage(cmd.StageID) {
		return fmt.Errorf("stage %q not found for %s", cmd.StageID, c.Name)
	}
	if err := saveClient(ctx, &c); err != nil {
		return err
	}
	ctx.printf("✓ Removed stage %s from %s\n", cmd.StageID, c.Name)
	return nil
}

type TimelineDeadlineCmd struct {
	ClientID string `arg:"" help:"Client ID."`
	Date     string `arg:"" optional:"" help:"New final deadline (YYYY-MM-DD)."`
	Clear    bool   `help:"Remove the final deadline."`
}

func (cmd *TimelineDeadlineCmd) Validate() error {
	if cmd.Clear && cmd.Date != "" {
		return fmt.Errorf("pass either a date or --clear, not both")
	}
	if !cmd.Clear && cmd.Date == "" {
		return fmt.Errorf("a date is required (or use --clear)")
	}
	return nil
}

func (cmd *TimelineDeadlineCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	c, err := getClient(ctx, cmd.ClientID)
	if err != nil {
		return err
	}

	if err := c.SetFinalDeadline(cmd.Date); err != nil {
		return err
	}
	if err := saveClient(ctx, &c); err != nil {
		return err
	}

	if c.FinalDeadline == "" {
		ctx.printf("✓ Cleared the final deadline of %s\n", c.Name)
		return nil
	}
	ctx.printf("✓ Final deadline of %s set to %s (%d days left)\n",
		c.Name, c.FinalDeadline, utils.DaysRemaining(c.FinalDeadline, ctx.now()))
	return nil
}
