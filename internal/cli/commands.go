package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/school-news-site/internal/models"
	"github.com/school-news-site/internal/service"
	"github.com/school-news-site/internal/site"
)

type appFunc func() *App
type printerFunc func(cmd *cobra.Command) *Printer

var errNoMigrator = errors.New("migrations are not available for this backend")

func newMigrateCmd(app appFunc, printer printerFunc) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and seed the publishing code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if a.Migrator == nil {
				return errNoMigrator
			}
			p := printer(cmd)

			if down {
				if err := a.Migrator.MigrateDown(); err != nil {
					return err
				}
				p.Success("Rolled back last migration")
				return nil
			}

			if err := a.Migrator.RunMigrations(); err != nil {
				return err
			}
			p.Success("Schema is up to date")

			seeded, err := a.Services.Credential.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if seeded {
				p.Success("Publishing code created")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back the last migration instead")
	return cmd
}

func newCodeCmd(app appFunc, printer printerFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Show or rotate the publishing code",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the active publishing code",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				code, err := app().Services.Credential.CurrentCode(cmd.Context())
				if err != nil {
					return notSeededHint(err)
				}
				printer(cmd).Value("Publishing code", code)
				return nil
			},
		},
		&cobra.Command{
			Use:   "verify <code>",
			Short: "Check whether a code is the active publishing code",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				code, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid code %q: must be a number up to 4294967295", args[0])
				}
				ok, err := app().Services.Credential.Verify(cmd.Context(), uint32(code))
				if err != nil {
					return notSeededHint(err)
				}
				p := printer(cmd)
				if !ok {
					p.Warning("Code %d is not the active code", code)
					return nil
				}
				p.Success("Code %d is valid", code)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rotate",
			Short: "Replace the publishing code and announce it",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				code, err := app().Services.Credential.Rotate(cmd.Context())
				if err != nil {
					return notSeededHint(err)
				}
				printer(cmd).Success("New publishing code: %d", code)
				return nil
			},
		},
		&cobra.Command{
			Use:   "resend",
			Short: "Announce the active publishing code again",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				hook, err := a.Services.Credential.HookURL(cmd.Context())
				if err != nil {
					return notSeededHint(err)
				}
				p := printer(cmd)
				if hook == "" {
					p.Warning("No webhook configured, nothing will be sent")
					return nil
				}
				if err := a.Services.Credential.Resend(cmd.Context()); err != nil {
					return err
				}
				p.Success("Code sent")
				return nil
			},
		},
	)
	return cmd
}

func newHookCmd(app appFunc, printer printerFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Show or change the webhook receiving new codes",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the webhook url",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				hook, err := app().Services.Credential.HookURL(cmd.Context())
				if err != nil {
					return notSeededHint(err)
				}
				p := printer(cmd)
				if hook == "" {
					p.Warning("No webhook configured")
					return nil
				}
				p.Value("Webhook", hook)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <url>",
			Short: "Set the webhook url, or clear it with an empty string",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				hook := args[0]
				if hook != "" {
					if err := checkHookURL(hook); err != nil {
						return err
					}
				}
				if err := app().Services.Credential.SetHookURL(cmd.Context(), hook); err != nil {
					return notSeededHint(err)
				}
				if hook == "" {
					printer(cmd).Success("Webhook cleared")
				} else {
					printer(cmd).Success("Webhook set")
				}
				return nil
			},
		},
	)
	return cmd
}

func newStatusCmd(app appFunc, printer printerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show stored content counts and the webhook state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			articles, papers, err := a.Services.Content.Counts(cmd.Context())
			if err != nil {
				return err
			}
			p := printer(cmd)
			p.Value("Articles", articles)
			p.Value("Papers", papers)

			hook, err := a.Services.Credential.HookURL(cmd.Context())
			switch {
			case errors.Is(err, service.ErrNotSeeded):
				p.Warning("No publishing code yet, run `newsctl migrate`")
			case err != nil:
				return err
			case hook == "":
				p.Warning("No webhook configured, new codes are not announced")
			default:
				p.Success("Codes are announced to the webhook")
			}
			return nil
		},
	}
}

func newPapersCmd(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "papers",
		Short: "List newspapers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			papers, err := app().Services.Content.ListPapers(cmd.Context())
			if err != nil {
				return err
			}

			table := NewTable(cmd.OutOrStdout(), []string{"ID", "NAME", "FEATURED", "LOGO"})
			for _, p := range papers {
				table.AddRow([]string{p.ID, p.Name, strconv.FormatUint(p.FeaturedIssue, 10), p.Logo})
			}
			table.Render()
			return nil
		},
	}
}

func newArticlesCmd(app appFunc) *cobra.Command {
	var (
		paper  string
		issue  uint64
		column uint8
	)

	cmd := &cobra.Command{
		Use:   "articles",
		Short: "List articles, optionally narrowed to a paper, issue and column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter models.ArticleFilter
			if cmd.Flags().Changed("paper") {
				filter.Paper = &paper
			}
			if cmd.Flags().Changed("issue") {
				filter.Issue = &issue
			}
			if cmd.Flags().Changed("column") {
				if column > models.ColumnRight {
					return fmt.Errorf("column must be 0, 1 or 2")
				}
				filter.Column = &column
			}

			articles, err := app().Services.Content.ListArticles(cmd.Context(), filter)
			if err != nil {
				return err
			}

			table := NewTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "AUTHOR", "PAPER", "ISSUE", "COLUMN", "SORT", "DATE"})
			for _, a := range articles {
				table.AddRow([]string{
					a.ID,
					a.Title,
					a.Author,
					a.Paper,
					strconv.FormatUint(a.Issue, 10),
					columnName(a.Column),
					strconv.Itoa(int(a.SortNum)),
					site.FormatDate(a.Date),
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&paper, "paper", "", "paper id")
	cmd.Flags().Uint64Var(&issue, "issue", 0, "issue number")
	cmd.Flags().Uint8Var(&column, "column", 0, "column (0 headline, 1 left, 2 right)")
	return cmd
}

func columnName(column uint8) string {
	switch column {
	case models.ColumnHeadline:
		return "headline"
	case models.ColumnLeft:
		return "left"
	case models.ColumnRight:
		return "right"
	default:
		return strconv.Itoa(int(column))
	}
}

func checkHookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid webhook url %q: must be an http or https url", raw)
	}
	return nil
}

func notSeededHint(err error) error {
	if errors.Is(err, service.ErrNotSeeded) {
		return fmt.Errorf("%w: run `newsctl migrate` first", err)
	}
	return err
}
