package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	ultradns "github.com/jfk9w-go/libdns-ultradns"
)

var (
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show API server status",
		Args:  cobra.NoArgs,
		RunE: run("status", func(ctx context.Context, _ []string) (*ultradns.Result, error) {
			return client.Status(ctx)
		}),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show API server version",
		Args:  cobra.NoArgs,
		RunE: run("version", func(ctx context.Context, _ []string) (*ultradns.Result, error) {
			return client.Version(ctx)
		}),
	}

	accountsCmd = &cobra.Command{
		Use:   "accounts",
		Short: "List accounts of the current user",
		Args:  cobra.NoArgs,
		RunE: run("accounts", func(ctx context.Context, _ []string) (*ultradns.Result, error) {
			return client.GetAccountDetails(ctx)
		}),
	}

	batchCmd = &cobra.Command{
		Use:   "batch FILE",
		Short: "Send a JSON list of {method, uri, body} requests as one batch",
		Args:  cobra.ExactArgs(1),
		RunE: run("batch", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return nil, err
			}

			var requests []ultradns.BatchRequest
			if err := json.Unmarshal(data, &requests); err != nil {
				return nil, errors.Wrap(err, "parse batch file")
			}

			return client.Batch(ctx, requests...)
		}),
	}
)

var listFlags ultradns.ListOptions

func addListFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringToStringVarP(&listFlags.Query, "query", "q", nil, "filter terms, e.g. name=example")
	f.StringVar(&listFlags.Sort, "sort", "", "sort field")
	f.BoolVar(&listFlags.Reverse, "reverse", false, "reverse sort order")
	f.IntVar(&listFlags.Offset, "offset", 0, "page offset")
	f.IntVar(&listFlags.Limit, "limit", 0, "page size")
	f.StringVar(&listFlags.Cursor, "cursor", "", "page cursor (v3 endpoints)")
}

var zoneFlags struct {
	account string
	master  string
	tsigKey string
	tsigVal string
	v3      bool
	file    string
	output  string
	get     bool
}

var (
	zonesCmd = &cobra.Command{
		Use:   "zones",
		Short: "Manage zones",
	}

	zonesListCmd = &cobra.Command{
		Use:   "list",
		Short: "List zones",
		Args:  cobra.NoArgs,
		RunE: run("zones.list", func(ctx context.Context, _ []string) (*ultradns.Result, error) {
			switch {
			case zoneFlags.v3:
				return client.ListZonesV3(ctx, &listFlags)
			case zoneFlags.account != "":
				return client.ListZonesOfAccount(ctx, zoneFlags.account, &listFlags)
			default:
				return client.ListZones(ctx, &listFlags)
			}
		}),
	}

	zonesGetCmd = &cobra.Command{
		Use:   "get ZONE",
		Short: "Show zone metadata",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.get", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			if zoneFlags.v3 {
				return client.GetZoneMetadataV3(ctx, args[0])
			}

			return client.GetZoneMetadata(ctx, args[0])
		}),
	}

	zonesCreateCmd = &cobra.Command{
		Use:   "create ZONE",
		Short: "Create a primary zone, empty or from --file or --master",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.create", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			switch {
			case zoneFlags.file != "":
				data, err := os.ReadFile(zoneFlags.file)
				if err != nil {
					return nil, err
				}

				return client.CreatePrimaryZoneByUpload(ctx, zoneFlags.account, args[0], data)
			case zoneFlags.master != "":
				return client.CreatePrimaryZoneByAXFR(ctx, zoneFlags.account, args[0], zoneFlags.master, zoneFlags.tsigKey, zoneFlags.tsigVal)
			default:
				return client.CreatePrimaryZone(ctx, zoneFlags.account, args[0])
			}
		}),
	}

	zonesCreateSecondaryCmd = &cobra.Command{
		Use:   "create-secondary ZONE",
		Short: "Create a secondary zone transferred from --master",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.create_secondary", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.CreateSecondaryZone(ctx, zoneFlags.account, args[0], zoneFlags.master, zoneFlags.tsigKey, zoneFlags.tsigVal)
		}),
	}

	zonesNameServersCmd = &cobra.Command{
		Use:   "nameservers ZONE PRIMARY [BACKUP [SECOND_BACKUP]]",
		Short: "Replace transfer name servers of a secondary zone",
		Args:  cobra.RangeArgs(2, 4),
		RunE: run("zones.nameservers", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			ips := make([]string, 3)
			copy(ips, args[1:])
			return client.EditSecondaryNameServer(ctx, args[0], ips[0], ips[1], ips[2])
		}),
	}

	zonesDeleteCmd = &cobra.Command{
		Use:   "delete ZONE",
		Short: "Delete a zone",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.delete", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.DeleteZone(ctx, args[0])
		}),
	}

	zonesTransferCmd = &cobra.Command{
		Use:   "transfer ZONE",
		Short: "Force a secondary zone transfer",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.transfer", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.ForceAXFR(ctx, args[0])
		}),
	}

	zonesConvertCmd = &cobra.Command{
		Use:   "convert ZONE",
		Short: "Convert a secondary zone to primary",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.convert", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.ConvertZone(ctx, args[0])
		}),
	}

	zonesResignCmd = &cobra.Command{
		Use:   "resign ZONE",
		Short: "Re-sign a DNSSEC zone",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.resign", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.ResignZone(ctx, args[0])
		}),
	}

	zonesSnapshotCmd = &cobra.Command{
		Use:   "snapshot ZONE",
		Short: "Show the zone snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.snapshot", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.GetSnapshot(ctx, args[0])
		}),
	}

	zonesSnapshotCreateCmd = &cobra.Command{
		Use:   "create ZONE",
		Short: "Take a zone snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.snapshot.create", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.CreateSnapshot(ctx, args[0])
		}),
	}

	zonesSnapshotRestoreCmd = &cobra.Command{
		Use:   "restore ZONE",
		Short: "Restore the zone from its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.snapshot.restore", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.RestoreSnapshot(ctx, args[0])
		}),
	}

	zonesHealthCheckCmd = &cobra.Command{
		Use:   "healthcheck ZONE [TIMESTAMP]",
		Short: "Start a health check, or show the one started at TIMESTAMP",
		Args:  cobra.RangeArgs(1, 2),
		RunE: run("zones.healthcheck", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			if len(args) == 2 {
				return client.GetHealthCheck(ctx, args[0], args[1])
			}

			return client.CreateHealthCheck(ctx, args[0])
		}),
	}

	zonesDanglingCmd = &cobra.Command{
		Use:   "dangling ZONE",
		Short: "Start a dangling CNAME check, or show the latest one with --get",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.dangling", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			if zoneFlags.get {
				return client.GetDanglingCNAMECheck(ctx, args[0])
			}

			return client.CreateDanglingCNAMECheck(ctx, args[0])
		}),
	}

	zonesExportCmd = &cobra.Command{
		Use:   "export ZONE",
		Short: "Export a zone in BIND format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client.ExportZone(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if zoneFlags.output != "" {
				return os.WriteFile(zoneFlags.output, data, 0o644)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	zonesWebForwardsCmd = &cobra.Command{
		Use:   "webforwards ZONE",
		Short: "List web forwards of a zone",
		Args:  cobra.ExactArgs(1),
		RunE: run("zones.webforwards", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.ListWebForwards(ctx, args[0])
		}),
	}

	zonesWebForwardCreateCmd = &cobra.Command{
		Use:   "create ZONE FROM TO [TYPE]",
		Short: "Create a web forward, HTTP_301_REDIRECT by default",
		Args:  cobra.RangeArgs(3, 4),
		RunE: run("zones.webforwards.create", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			forwardType := ultradns.ForwardHTTP301
			if len(args) > 3 {
				forwardType = args[3]
			}

			return client.CreateWebForward(ctx, args[0], args[1], args[2], forwardType)
		}),
	}

	zonesWebForwardDeleteCmd = &cobra.Command{
		Use:   "delete ZONE GUID",
		Short: "Delete a web forward",
		Args:  cobra.ExactArgs(2),
		RunE: run("zones.webforwards.delete", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.DeleteWebForward(ctx, args[0], args[1])
		}),
	}
)

var rrSetFlags struct {
	ttl    int
	rdOpts ultradns.RDPoolOptions
	pools  bool
}

var (
	rrsetsCmd = &cobra.Command{
		Use:   "rrsets",
		Short: "Manage resource record sets",
	}

	rrsetsListCmd = &cobra.Command{
		Use:   "list ZONE [TYPE [OWNER]]",
		Short: "List RRSets",
		Args:  cobra.RangeArgs(1, 3),
		RunE: run("rrsets.list", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			switch {
			case rrSetFlags.pools:
				return client.ListRDPools(ctx, args[0])
			case len(args) == 3:
				return client.ListRRSetsByTypeOwner(ctx, args[0], args[1], args[2], &listFlags)
			case len(args) == 2:
				return client.ListRRSetsByType(ctx, args[0], args[1], &listFlags)
			default:
				return client.ListRRSets(ctx, args[0], &listFlags)
			}
		}),
	}

	rrsetsCreateCmd = &cobra.Command{
		Use:   "create ZONE TYPE OWNER RDATA...",
		Short: "Create an RRSet",
		Args:  cobra.MinimumNArgs(4),
		RunE: run("rrsets.create", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.CreateRRSet(ctx, args[0], args[1], args[2], rrSetFlags.ttl, args[3:]...)
		}),
	}

	rrsetsEditCmd = &cobra.Command{
		Use:   "edit ZONE TYPE OWNER RDATA...",
		Short: "Replace an RRSet",
		Args:  cobra.MinimumNArgs(4),
		RunE: run("rrsets.edit", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.EditRRSet(ctx, args[0], args[1], args[2], rrSetFlags.ttl, args[3:], nil)
		}),
	}

	rrsetsPatchCmd = &cobra.Command{
		Use:   "patch ZONE TYPE OWNER RDATA...",
		Short: "Update RRSet data keeping its TTL",
		Args:  cobra.MinimumNArgs(4),
		RunE: run("rrsets.patch", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.EditRRSetRData(ctx, args[0], args[1], args[2], args[3:], nil)
		}),
	}

	rrsetsDeleteCmd = &cobra.Command{
		Use:   "delete ZONE TYPE OWNER",
		Short: "Delete an RRSet",
		Args:  cobra.ExactArgs(3),
		RunE: run("rrsets.delete", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.DeleteRRSet(ctx, args[0], args[1], args[2])
		}),
	}

	rrsetsPoolCmd = &cobra.Command{
		Use:   "pool ZONE OWNER RDATA...",
		Short: "Create a resource distribution pool",
		Args:  cobra.MinimumNArgs(3),
		RunE: run("rrsets.pool", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.CreateRDPool(ctx, args[0], args[1], rrSetFlags.ttl, args[2:], rrSetFlags.rdOpts)
		}),
	}
)

var (
	tasksCmd = &cobra.Command{
		Use:   "tasks",
		Short: "Inspect background tasks",
	}

	tasksListCmd = &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: run("tasks.list", func(ctx context.Context, _ []string) (*ultradns.Result, error) {
			return client.ListTasks(ctx, &listFlags)
		}),
	}

	tasksWaitCmd = &cobra.Command{
		Use:   "wait TASK_ID",
		Short: "Wait for a task and show its result",
		Args:  cobra.ExactArgs(1),
		RunE: run("tasks.wait", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.WaitForTask(ctx, args[0])
		}),
	}

	tasksResultCmd = &cobra.Command{
		Use:   "result TASK_ID",
		Short: "Show the result of a finished task",
		Args:  cobra.ExactArgs(1),
		RunE: run("tasks.result", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.GetTaskResult(ctx, args[0])
		}),
	}

	tasksClearCmd = &cobra.Command{
		Use:   "clear TASK_ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: run("tasks.clear", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.ClearTask(ctx, args[0])
		}),
	}

	tasksGetCmd = &cobra.Command{
		Use:   "get TASK_ID",
		Short: "Show task status",
		Args:  cobra.ExactArgs(1),
		RunE: run("tasks.get", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			return client.Do(ctx, &ultradns.Request{Method: http.MethodGet, Path: "/v1/tasks/" + url.PathEscape(args[0])})
		}),
	}
)

var reportFlags struct {
	from  string
	to    string
	limit int
}

var (
	reportsCmd = &cobra.Command{
		Use:   "reports",
		Short: "Request and fetch DNS resolution reports",
	}

	reportsNXDomainCmd = &cobra.Command{
		Use:   "nxdomain ZONE...",
		Short: "Request an advanced NXDOMAIN report",
		Args:  cobra.MinimumNArgs(1),
		RunE: run("reports.nxdomain", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			start, end, err := reportRange()
			if err != nil {
				return nil, err
			}

			result, err := client.CreateAdvancedNXDomainReport(ctx, start, end, args, reportFlags.limit)
			if err != nil || !flags.wait {
				return result, err
			}

			return waitReport(ctx, result)
		}),
	}

	reportsZoneVolumeCmd = &cobra.Command{
		Use:   "zone-volume ACCOUNT",
		Short: "Request a zone query volume report",
		Args:  cobra.ExactArgs(1),
		RunE: run("reports.zone_volume", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			start, end, err := reportRange()
			if err != nil {
				return nil, err
			}

			result, err := client.CreateZoneQueryVolumeReport(ctx, start, end, map[string]any{"accountName": args[0]}, nil, 0, reportFlags.limit)
			if err != nil || !flags.wait {
				return result, err
			}

			return waitReport(ctx, result)
		}),
	}

	reportsProjectedCmd = &cobra.Command{
		Use:   "projected ACCOUNT",
		Short: "Request a projected query volume report",
		Args:  cobra.ExactArgs(1),
		RunE: run("reports.projected", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			result, err := client.CreateProjectedQueryVolumeReport(ctx, args[0], nil)
			if err != nil || !flags.wait {
				return result, err
			}

			return waitReport(ctx, result)
		}),
	}

	reportsGetCmd = &cobra.Command{
		Use:   "get REQUEST_ID",
		Short: "Fetch report results",
		Args:  cobra.ExactArgs(1),
		RunE: run("reports.get", func(ctx context.Context, args []string) (*ultradns.Result, error) {
			if flags.wait {
				return client.WaitForReport(ctx, args[0])
			}

			return client.GetReportResults(ctx, args[0])
		}),
	}
)

func reportRange() (time.Time, time.Time, error) {
	end := time.Now()
	if reportFlags.to != "" {
		var err error
		if end, err = time.Parse(time.DateOnly, reportFlags.to); err != nil {
			return time.Time{}, time.Time{}, errors.Wrap(err, "parse --to")
		}
	}

	start := end.AddDate(0, 0, -7)
	if reportFlags.from != "" {
		var err error
		if start, err = time.Parse(time.DateOnly, reportFlags.from); err != nil {
			return time.Time{}, time.Time{}, errors.Wrap(err, "parse --from")
		}
	}

	return start, end, nil
}

func waitReport(ctx context.Context, result *ultradns.Result) (*ultradns.Result, error) {
	requestID, err := ultradns.ReportRequestID(result)
	if err != nil {
		return nil, err
	}

	log.Info("ultradns.waiting_report", zap.String("request_id", requestID))
	return client.WaitForReport(ctx, requestID)
}

func init() {
	for _, cmd := range []*cobra.Command{zonesListCmd, rrsetsListCmd, tasksListCmd} {
		addListFlags(cmd)
	}

	zonesListCmd.Flags().StringVar(&zoneFlags.account, "account", "", "list zones of a single account")
	zonesListCmd.Flags().BoolVar(&zoneFlags.v3, "v3", false, "use cursor based paging")
	zonesGetCmd.Flags().BoolVar(&zoneFlags.v3, "v3", false, "use the v3 endpoint")

	for _, cmd := range []*cobra.Command{zonesCreateCmd, zonesCreateSecondaryCmd} {
		f := cmd.Flags()
		f.StringVar(&zoneFlags.account, "account", "", "account name")
		f.StringVar(&zoneFlags.master, "master", "", "primary name server IP")
		f.StringVar(&zoneFlags.tsigKey, "tsig-key", "", "TSIG key name")
		f.StringVar(&zoneFlags.tsigVal, "tsig-value", "", "TSIG key secret")
		_ = cmd.MarkFlagRequired("account")
	}

	zonesCreateCmd.Flags().StringVarP(&zoneFlags.file, "file", "f", "", "BIND zone file to upload")
	zonesCreateCmd.MarkFlagsMutuallyExclusive("file", "master")
	_ = zonesCreateSecondaryCmd.MarkFlagRequired("master")

	zonesExportCmd.Flags().StringVarP(&zoneFlags.output, "file", "f", "", "write the zone to a file instead of stdout")
	zonesDanglingCmd.Flags().BoolVar(&zoneFlags.get, "get", false, "show the latest check instead of starting one")

	zonesSnapshotCmd.AddCommand(zonesSnapshotCreateCmd, zonesSnapshotRestoreCmd)
	zonesWebForwardsCmd.AddCommand(zonesWebForwardCreateCmd, zonesWebForwardDeleteCmd)
	zonesCmd.AddCommand(zonesListCmd, zonesGetCmd, zonesCreateCmd, zonesCreateSecondaryCmd, zonesNameServersCmd,
		zonesDeleteCmd, zonesTransferCmd, zonesConvertCmd, zonesResignCmd, zonesSnapshotCmd, zonesHealthCheckCmd, zonesDanglingCmd,
		zonesExportCmd, zonesWebForwardsCmd)

	for _, cmd := range []*cobra.Command{rrsetsCreateCmd, rrsetsEditCmd, rrsetsPoolCmd} {
		cmd.Flags().IntVar(&rrSetFlags.ttl, "ttl", 300, "TTL in seconds")
	}

	rrsetsListCmd.Flags().BoolVar(&rrSetFlags.pools, "pools", false, "list resource distribution pools only")
	rrsetsPoolCmd.Flags().StringVar(&rrSetFlags.rdOpts.Order, "order", "", "ROUND_ROBIN, FIXED or RANDOM")
	rrsetsPoolCmd.Flags().BoolVar(&rrSetFlags.rdOpts.IPv6, "ipv6", false, "create an AAAA pool")
	rrsetsPoolCmd.Flags().StringVar(&rrSetFlags.rdOpts.Description, "description", "", "pool description")
	rrsetsCmd.AddCommand(rrsetsListCmd, rrsetsCreateCmd, rrsetsEditCmd, rrsetsPatchCmd, rrsetsDeleteCmd, rrsetsPoolCmd)

	tasksCmd.AddCommand(tasksListCmd, tasksGetCmd, tasksWaitCmd, tasksResultCmd, tasksClearCmd)

	for _, cmd := range []*cobra.Command{reportsNXDomainCmd, reportsZoneVolumeCmd} {
		f := cmd.Flags()
		f.StringVar(&reportFlags.from, "from", "", "start date, YYYY-MM-DD, a week before --to by default")
		f.StringVar(&reportFlags.to, "to", "", "end date, YYYY-MM-DD, today by default")
		f.IntVar(&reportFlags.limit, "limit", 0, "maximum number of rows")
	}

	reportsCmd.AddCommand(reportsNXDomainCmd, reportsZoneVolumeCmd, reportsProjectedCmd, reportsGetCmd)
}
