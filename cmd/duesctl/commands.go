package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	duesapp "github.com/clube/backend/internal/application/dues"
	"github.com/clube/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// duesRunner is the part of the dues service the CLI drives
type duesRunner interface {
	Generate(ctx context.Context, tenantID uuid.UUID, req duesapp.GenerateDuesRequest) (*duesapp.GenerateDuesResponse, error)
	RefreshOverdue(ctx context.Context, tenantID uuid.UUID) (*duesapp.RefreshOverdueResponse, error)
}

// tenantFinder resolves a club given by code
type tenantFinder interface {
	FindByCode(ctx context.Context, code string) (*identity.Tenant, error)
}

var errUsage = errors.New("usage")

// run executes one subcommand and writes its summary line to out
func run(ctx context.Context, args []string, out io.Writer, dues duesRunner, tenants tenantFinder) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "generate":
		fs := flag.NewFlagSet("generate", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		tenant := fs.String("tenant", "", "club ID or code")
		months := fs.Int("months", 0, "months to generate, 1-12 (default: configured lookahead)")
		affiliation := fs.String("affiliation", "", "only members of this affiliation")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		tenantID, err := resolveTenant(ctx, *tenant, tenants)
		if err != nil {
			return err
		}
		req := duesapp.GenerateDuesRequest{Months: *months}
		if *affiliation != "" {
			id, err := uuid.Parse(*affiliation)
			if err != nil {
				return fmt.Errorf("invalid -affiliation %q: %w", *affiliation, err)
			}
			req.AffiliationID = &id
		}
		resp, err := dues.Generate(ctx, tenantID, req)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "created=%d ignored=%d\n", resp.Created, resp.Ignored)
		return err

	case "refresh":
		fs := flag.NewFlagSet("refresh", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		tenant := fs.String("tenant", "", "club ID or code")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		tenantID, err := resolveTenant(ctx, *tenant, tenants)
		if err != nil {
			return err
		}
		resp, err := dues.RefreshOverdue(ctx, tenantID)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "updated=%d\n", resp.Updated)
		return err
	}

	return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
}

func resolveTenant(ctx context.Context, value string, tenants tenantFinder) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, errors.New("-tenant is required")
	}
	if id, err := uuid.Parse(value); err == nil {
		return id, nil
	}
	tenant, err := tenants.FindByCode(ctx, value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("club %q: %w", value, err)
	}
	return tenant.ID, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: duesctl <command> [flags]

Commands:
  generate -tenant <id|code> [-months N] [-affiliation <id>]
        Create the monthly dues of every billable member.
        Prints "created=X ignored=Y".
  refresh -tenant <id|code>
        Mark pending dues past their due date as overdue.
        Prints "updated=Z".

Configuration is read the same way as the API server (config.toml, .env, CLUBE_* variables).`)
}
