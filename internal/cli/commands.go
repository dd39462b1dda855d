package cli

import (
	"context"
	goerrors "errors"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/idbridge/pkg/connector/registry"
	"github.com/ajitpratap0/idbridge/pkg/converter"
	"github.com/ajitpratap0/idbridge/pkg/errors"
	"github.com/ajitpratap0/idbridge/pkg/logger"
	"github.com/ajitpratap0/idbridge/pkg/output"
)

// Operation names used in failure messages
const (
	opTest   = "connection test"
	opCreate = "person creation"
	opSearch = "person search"
	opUpdate = "person update"
	opDelete = "person deletion"
)

// Search limits
const (
	queryLimit   = 10
	listingLimit = 100
)

const argsUsage = "<system> [uid] [name] [key=value ...]"

// runFunc performs one operation against an open session
type runFunc func(ctx context.Context, s *session, w *output.Writer) error

// operation adapts fn to a cobra RunE. validate runs before any
// configuration is read; every failure is reported as "<op> failed: <err>".
func (a *App) operation(op string, validate func(Invocation) error, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		inv, err := ParseInvocation(args)
		if err == nil && validate != nil {
			err = validate(inv)
		}
		if err != nil {
			return &operationError{operation: op, err: err}
		}

		ctx := context.WithValue(cmd.Context(), logger.OperationKey, op)
		ctx = context.WithValue(ctx, logger.ConnectorKey, inv.System)

		s, err := a.open(ctx, inv)
		if err != nil {
			return &operationError{operation: op, err: err}
		}
		defer a.close(s)

		w := output.NewWriter(a.Stdout)
		runErr := fn(ctx, s, w)
		if err := w.Flush(); err != nil && runErr == nil {
			runErr = err
		}
		if runErr != nil {
			var exit *exitError
			if goerrors.As(runErr, &exit) {
				return runErr
			}
			s.log.Debug("operation failed", zap.Error(runErr))
			return &operationError{operation: op, err: runErr}
		}
		return nil
	}
}

func requireUID(op string) func(Invocation) error {
	return func(inv Invocation) error {
		if inv.UID == "" {
			return errors.Validation("uid", op)
		}
		return nil
	}
}

func (a *App) newTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test " + argsUsage,
		Short: "Check connectivity and credentials",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.operation(opTest, nil, func(ctx context.Context, s *session, w *output.Writer) error {
			if !s.connector.TestConnection(ctx) {
				w.Line("Test failed")
				return &exitError{code: 1}
			}
			w.Line("Test successful")
			return nil
		}),
	}
}

func (a *App) newCreateCommand() *cobra.Command {
	validate := func(inv Invocation) error {
		if inv.Name == "" {
			return errors.Validation("name", opCreate)
		}
		return nil
	}

	return &cobra.Command{
		Use:   "create " + argsUsage,
		Short: "Create a person and print it with its new id",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.operation(opCreate, validate, func(ctx context.Context, s *session, w *output.Writer) error {
			person := converter.FromAttributes(s.inv.CreateAttributes())
			result, err := s.connector.CreatePerson(ctx, person)
			if err != nil {
				return err
			}
			s.log.Info("person created", zap.String("id", result.ID))

			lookup, err := s.connector.GetPerson(ctx, result.ID)
			if err != nil {
				return err
			}
			if lookup.Found {
				w.Person(lookup.Person, result.ID)
			} else {
				w.Person(converter.FromRecord(result.Record), result.ID)
			}
			return nil
		}),
	}
}

// sysIDPattern matches ServiceNow style hex identifiers
var sysIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// isIdentifier reports whether uid addresses one object rather than a query
func isIdentifier(uid string) bool {
	if _, err := strconv.ParseInt(uid, 10, 64); err == nil {
		return true
	}
	return sysIDPattern.MatchString(uid)
}

func (a *App) newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search " + argsUsage,
		Short: "Get a person by id, search by query, or list persons",
		Long: `With an identifier as uid, prints that person. With any other uid, prints up to
10 persons whose name, first name or email contains it. Without a uid (or with
__ACCOUNT__), prints up to 100 persons. Listings are separated by "---" lines.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.operation(opSearch, nil, func(ctx context.Context, s *session, w *output.Writer) error {
			uid := s.inv.UID
			switch {
			case uid != "" && uid != AccountPlaceholder && isIdentifier(uid):
				lookup, err := s.connector.GetPerson(ctx, uid)
				if err != nil {
					return err
				}
				if lookup.Found {
					w.Person(lookup.Person, uid)
				}
				return nil

			case uid != "" && uid != AccountPlaceholder:
				persons, err := s.connector.SearchPersons(ctx, uid, queryLimit)
				if err != nil {
					return err
				}
				w.Linef("Found %d persons matching '%s'", len(persons), uid)
				w.Persons(persons)
				return nil

			default:
				persons, err := s.connector.SearchPersons(ctx, "", listingLimit)
				if err != nil {
					return err
				}
				w.Linef("Found %d total persons", len(persons))
				w.Persons(persons)
				return nil
			}
		}),
	}
}

func (a *App) newUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update " + argsUsage,
		Short: "Apply the given attributes to a person",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.operation(opUpdate, requireUID(opUpdate), func(ctx context.Context, s *session, w *output.Writer) error {
			updated, err := s.connector.UpdatePerson(ctx, s.inv.UID, converter.FromAttributes(s.inv.Attributes))
			if err != nil {
				return err
			}
			w.Person(updated, s.inv.UID)
			return nil
		}),
	}
}

func (a *App) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete " + argsUsage,
		Short: "Delete a person",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.operation(opDelete, requireUID(opDelete), func(ctx context.Context, s *session, w *output.Writer) error {
			if err := s.connector.DeletePerson(ctx, s.inv.UID); err != nil {
				return err
			}
			w.Linef("Person %s deleted successfully", s.inv.UID)
			return nil
		}),
	}
}

func (a *App) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available connectors",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available Connectors:")
			for _, name := range registry.ListAvailable() {
				info, err := registry.GetConnectorInfo(name)
				if err != nil {
					fmt.Fprintf(out, "  - %s\n", name)
					continue
				}
				fmt.Fprintf(out, "  - %s (v%s): %s [auth: %s]\n",
					info.Name, info.Version, info.Description, strings.Join(info.AuthModes, ", "))
			}
		},
	}
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "idbridge v%s\n", Version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
