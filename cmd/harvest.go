package cmd

import (
	"context"
	"fmt"
	"time"

	"pns-snapshot/core/harvest"
	"pns-snapshot/feature/accounts"
	"pns-snapshot/feature/newaccounts"
	"pns-snapshot/feature/pnsinfo"
	"pns-snapshot/feature/registrations"
	"pns-snapshot/feature/subdomains"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// harvestResult is what a harvest job hands back for persistence.
type harvestResult struct {
	doc      any
	entities int
	requests int
}

type harvestFunc func(ctx context.Context, a *app, obs harvest.Observer) (*harvestResult, error)

// clearFrom names a stored all_accounts artifact to derive accounts_clear from.
var clearFrom string

// harvestCmd is the parent command for all harvest operations.
var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest a snapshot from the PNS subgraph",
	Long: `Harvest walks one query family to completion and writes the result as a
timestamped JSON artifact. Every run is recorded in the run ledger with the last
completed offset, so a failed run reports where it stopped.`,
}

var harvestAccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Harvest all accounts with their domains (all_accounts)",
	RunE:  harvestRunE(accounts.KindAll, harvestAccounts),
}

var harvestAccountsClearCmd = &cobra.Command{
	Use:   "accounts-clear",
	Short: "Harvest the ids of accounts owning at least one domain (accounts_clear)",
	Long: `Harvest the ids of accounts owning at least one domain.

Examples:
  # Harvest from the subgraph
  harvest accounts-clear

  # Derive from a stored snapshot without querying
  harvest accounts-clear --from all_accounts1669365039.json`,
	RunE: harvestRunE(accounts.KindClear, harvestAccountsClear),
}

var harvestNewAccountsCmd = &cobra.Command{
	Use:   "new-accounts",
	Short: "Harvest accounts bucketed by domain age (all_new_accounts)",
	RunE:  harvestRunE(newaccounts.Kind, harvestNewAccounts),
}

var harvestPnsInfoCmd = &cobra.Command{
	Use:   "pns-info",
	Short: "Harvest the token list and new-subdomain events (pns_info)",
	RunE:  harvestRunE(pnsinfo.Kind, harvestPnsInfo),
}

var harvestRecordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Harvest registration records keyed by domain (records)",
	RunE:  harvestRunE(registrations.Kind, harvestRecords),
}

var harvestDomainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Dump every subdomain from the connection endpoint (domains)",
	RunE:  harvestRunE(subdomains.Kind, harvestDomains),
}

func init() {
	harvestAccountsClearCmd.Flags().StringVar(&clearFrom, "from", "", "Derive from a stored all_accounts artifact instead of harvesting")

	harvestCmd.AddCommand(
		harvestAccountsCmd,
		harvestAccountsClearCmd,
		harvestNewAccountsCmd,
		harvestPnsInfoCmd,
		harvestRecordsCmd,
		harvestDomainsCmd,
	)
	RootCmd.AddCommand(harvestCmd)
}

func harvestRunE(kind string, fn harvestFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.logger.Sync()
		return runHarvest(cmd.Context(), a, kind, fn)
	}
}

// runHarvest executes fn under the run deadline and writes its document as a
// kind artifact. No artifact is written when fn fails.
func runHarvest(ctx context.Context, a *app, kind string, fn harvestFunc) error {
	if timeout := a.cfg.Harvest.RunTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tracker, err := a.ledger.Track(ctx, kind, a.metrics, a.logger)
	if err != nil {
		return err
	}
	takenAt := time.Now()

	res, err := fn(ctx, a, tracker)
	if err != nil {
		return tracker.Fail(err)
	}

	art, err := a.store.Save(ctx, kind, takenAt, res.doc)
	if err != nil {
		return tracker.Fail(fmt.Errorf("failed to write %s artifact: %w", kind, err))
	}
	return tracker.Succeed(art.Name, res.entities, res.requests)
}

func harvestAccounts(ctx context.Context, a *app, obs harvest.Observer) (*harvestResult, error) {
	svc := accounts.NewService(a.querier(""), a.cfg.Accounts, a.logger)
	all, res, err := svc.Harvest(ctx, obs)
	if err != nil {
		return nil, err
	}
	return &harvestResult{doc: all, entities: all.AccountsNum, requests: res.Requests}, nil
}

func harvestAccountsClear(ctx context.Context, a *app, obs harvest.Observer) (*harvestResult, error) {
	var all *accounts.AllAccounts
	requests := 0
	if clearFrom != "" {
		all = &accounts.AllAccounts{}
		if err := a.store.Load(ctx, clearFrom, all); err != nil {
			return nil, err
		}
		a.logger.Info("Deriving clear list from stored snapshot", zap.String("artifact", clearFrom))
	} else {
		svc := accounts.NewService(a.querier(""), a.cfg.Accounts, a.logger)
		harvested, res, err := svc.Harvest(ctx, obs)
		if err != nil {
			return nil, err
		}
		all, requests = harvested, res.Requests
	}
	ids := all.Clear()
	return &harvestResult{doc: ids, entities: len(ids.Accounts), requests: requests}, nil
}

func harvestNewAccounts(ctx context.Context, a *app, obs harvest.Observer) (*harvestResult, error) {
	svc := newaccounts.NewService(a.querier(""), a.cfg.NewAccounts, a.logger)
	out, res, err := svc.Harvest(ctx, obs)
	if err != nil {
		return nil, err
	}
	return &harvestResult{doc: out, entities: out.OldAccountsNum + out.NewAccountsNum, requests: res.Requests}, nil
}

func harvestPnsInfo(ctx context.Context, a *app, obs harvest.Observer) (*harvestResult, error) {
	info, requests, err := pnsinfo.NewService(a.querier(""), a.cfg.PnsInfo, a.logger).Harvest(ctx, obs)
	if err != nil {
		return nil, err
	}
	return &harvestResult{doc: info, entities: len(info.TokenList) + len(info.NewSubdomain), requests: requests}, nil
}

func harvestRecords(ctx context.Context, a *app, obs harvest.Observer) (*harvestResult, error) {
	records, requests, err := registrations.NewService(a.querier(""), a.cfg.Registrations, a.logger).Harvest(ctx, obs)
	if err != nil {
		return nil, err
	}
	return &harvestResult{doc: records, entities: len(records), requests: requests}, nil
}

func harvestDomains(ctx context.Context, a *app, obs harvest.Observer) (*harvestResult, error) {
	nodes, requests, err := subdomains.NewService(a.querier(a.cfg.Subdomains.Endpoint), a.cfg.Subdomains, a.logger).Harvest(ctx, obs)
	if err != nil {
		return nil, err
	}
	return &harvestResult{doc: nodes, entities: len(nodes), requests: requests}, nil
}
