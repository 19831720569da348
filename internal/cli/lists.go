package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/balancedraw/internal/plane"
)

// ListOptions holds flags for the blacklist and whitelist commands.
type ListOptions struct {
	*RootOptions
	Target TargetOptions
}

// ListResult is the blacklist/whitelist command payload.
type ListResult struct {
	Engine        string   `json:"engine"`
	List          string   `json:"list"`
	Action        string   `json:"action"`
	Entries       []string `json:"entries"`
	WhitelistOnly bool     `json:"whitelist_only"`
	Pool          []string `json:"pool"`
}

const (
	listBlacklist = "blacklist"
	listWhitelist = "whitelist"
)

// NewBlacklistCommand creates the blacklist command.
func NewBlacklistCommand(rootOpts *RootOptions) *cobra.Command {
	return newListCommand(rootOpts, listBlacklist,
		"Exclude ids from drawing",
		`Manage ids that are never drawn. Blacklisted ids must belong to the
target; anything else is ignored. Changes take effect immediately and are
saved.

Examples:
  balancedraw blacklist add 4 7 --range 1:10
  balancedraw blacklist add 1:1 2:3 --grid 3x4
  balancedraw blacklist list --range 1:10`,
		[]string{"set", "add", "remove", "clear", "list"})
}

// NewWhitelistCommand creates the whitelist command.
func NewWhitelistCommand(rootOpts *RootOptions) *cobra.Command {
	return newListCommand(rootOpts, listWhitelist,
		"Always keep ids in the candidate pool",
		`Manage ids that always join the candidate pool. Ids outside the target
extend it. "only on" restricts drawing to the whitelist.

Examples:
  balancedraw whitelist add 50 51 --range 1:49
  balancedraw whitelist only on --range 1:49
  balancedraw whitelist remove 50 --range 1:49`,
		[]string{"set", "add", "remove", "clear", "list", "only"})
}

func newListCommand(rootOpts *RootOptions, list, short, long string, actions []string) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s <%s> [ids...]", list, strings.Join(actions, "|")),
		Short:         short,
		Long:          long,
		ValidArgs:     actions,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, list, args[0], args[1:], cmd)
		},
	}

	addTargetFlags(cmd, &opts.Target)
	return cmd
}

func runList(opts *ListOptions, list, action string, args []string, cmd *cobra.Command) error {
	if err := checkListArgs(list, action, args); err != nil {
		_ = opts.formatter(cmd).Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}

	return withSession(cmd, opts.RootOptions, &opts.Target, func(ctx context.Context, s *session) error {
		if action != "list" {
			if err := applyList(s, list, action, args); err != nil {
				_ = s.formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "invalid ids", err)
			}
			if err := s.save(ctx); err != nil {
				return err
			}
		}

		entries := s.eng.Blacklist()
		if list == listWhitelist {
			entries = s.eng.Whitelist()
		}
		result := ListResult{
			Engine:        s.eng.ID(),
			List:          list,
			Action:        action,
			Entries:       s.labels(entries),
			WhitelistOnly: s.eng.WhitelistOnly(),
			Pool:          s.labels(s.eng.Pool()),
		}

		if opts.Format == "json" {
			return s.formatter.Success(result)
		}
		s.formatter.Printf("%s: %s\n", list, strings.Join(result.Entries, " "))
		if list == listWhitelist {
			s.formatter.Printf("whitelist-only: %t\n", result.WhitelistOnly)
		}
		s.formatter.VerboseLog("pool: %s", strings.Join(result.Pool, " "))
		return nil
	})
}

func checkListArgs(list, action string, args []string) error {
	switch action {
	case "set", "add", "remove":
		if len(args) == 0 {
			return fmt.Errorf("%s %s needs at least one id", list, action)
		}
	case "clear", "list":
		if len(args) > 0 {
			return fmt.Errorf("%s %s takes no ids", list, action)
		}
	case "only":
		if list != listWhitelist {
			return fmt.Errorf("unknown %s action %q", list, action)
		}
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return fmt.Errorf("whitelist only takes on or off")
		}
	default:
		return fmt.Errorf("unknown %s action %q", list, action)
	}
	return nil
}

// applyList mutates the session engine. Grid targets take ROW:COL cells
// and go through the plane's coordinate checks.
func applyList(s *session, list, action string, args []string) error {
	if action == "only" {
		s.eng.SetWhitelistOnly(args[0] == "on")
		return nil
	}

	if s.plane != nil {
		positions, err := plane.ParsePositions(args)
		if err != nil {
			return err
		}
		applyPlaneList(s.plane, list, action, positions)
		return nil
	}

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	e := s.eng
	switch list + " " + action {
	case "blacklist set":
		e.SetBlacklist(ids)
	case "blacklist add":
		e.AddToBlacklist(ids)
	case "blacklist remove":
		e.RemoveFromBlacklist(ids)
	case "blacklist clear":
		e.ClearBlacklist()
	case "whitelist set":
		e.SetWhitelist(ids)
	case "whitelist add":
		e.AddToWhitelist(ids)
	case "whitelist remove":
		e.RemoveFromWhitelist(ids)
	case "whitelist clear":
		e.ClearWhitelist()
	}
	return nil
}

func applyPlaneList(p *plane.Plane, list, action string, positions []plane.Position) {
	switch list + " " + action {
	case "blacklist set":
		p.SetBlacklist(positions)
	case "blacklist add":
		p.AddToBlacklist(positions)
	case "blacklist remove":
		p.RemoveFromBlacklist(positions)
	case "blacklist clear":
		p.ClearBlacklist()
	case "whitelist set":
		p.SetWhitelist(positions)
	case "whitelist add":
		p.AddToWhitelist(positions)
	case "whitelist remove":
		p.RemoveFromWhitelist(positions)
	case "whitelist clear":
		p.ClearWhitelist()
	}
}
