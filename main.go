// ABOUTME: Entry point for the Broker Adda client
// ABOUTME: Loads config, opens the session store and routes to CLI, TUI or MCP commands
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/cli"
	"github.com/harperreed/adda/config"
	"github.com/harperreed/adda/session"
)

func main() {
	g, args, err := parseGlobals(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if g.showVersion {
		fmt.Printf("adda version %s\n", cli.Version)
		os.Exit(0)
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	if err := run(args, g.configPath, g.storeKind); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			printUsage()
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.Message(err))
		os.Exit(1)
	}
}

type globals struct {
	showVersion bool
	configPath  string
	storeKind   string
}

// parseGlobals parses flags up to the command name and returns the rest;
// subcommands parse their own flags. Unknown global flags are an error.
func parseGlobals(argv []string) (globals, []string, error) {
	var g globals
	fs := flag.NewFlagSet("adda", flag.ContinueOnError)
	fs.BoolVar(&g.showVersion, "version", false, "Show version and exit")
	fs.StringVar(&g.configPath, "config", "", "Config file (default: ~/.config/adda/config.json)")
	fs.StringVar(&g.storeKind, "store", "", "Session store: sqlite, badger or memory")
	fs.Usage = printUsage

	if err := fs.Parse(argv); err != nil {
		return g, nil, err
	}
	return g, fs.Args(), nil
}

func run(args []string, configPath, storeKind string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath, ".env")
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if storeKind != "" {
		cfg.Store = storeKind
	}

	// stdout belongs to command output and the MCP stdio stream.
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.Level(),
		ReportTimestamp: true,
		Prefix:          "adda",
	})
	log.SetDefault(logger)

	store, closer, err := cli.OpenStore(cfg, cfg.Store)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	logger.Debug("session store opened", "store", cfg.Store)

	sess := session.NewManager(store, logger)
	client := api.NewClient(sess,
		api.WithBaseURL(cfg.APIBaseURL),
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithLogger(logger),
		api.WithUserAgent("adda/"+cli.Version),
	)
	app := cli.NewApp(client, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Run(ctx, app, args)
}

func printUsage() {
	fmt.Printf(`adda v%s - Broker Adda client

USAGE:
  adda [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --config <path>        Config file (default: ~/.config/adda/config.json)
  --store <kind>         Session store: sqlite, badger or memory (default: sqlite)

COMMANDS:
  tui                    Interactive terminal interface
  mcp                    Start MCP server for Claude Desktop
  dashboard              Terminal dashboard of your leads and listings
  auth                   Log in, register, log out
  profile                Show and complete your broker profile
  leads                  Manage and share leads
  properties             Manage property listings
  regions                Browse regions
  brokers                Browse brokers
  notifications          Read notifications
  ratings                Rate brokers
  places                 Address autocomplete
  viz                    Visualizations
  legal                  Terms of service and privacy policy

AUTH COMMANDS:
  adda auth login           Send an OTP and log in
    --phone <phone>           10-digit mobile number (prompted if omitted)
    --otp <otp>               OTP (prompted if omitted)
    --send-only               Only send the OTP; finish with 'auth verify'
    --resend                  Ask for a fresh OTP

  adda auth verify          Finish a login started with --send-only
    --phone <phone>           10-digit mobile number (required)
    --otp <otp>               6-digit OTP (required)

  adda auth register        Create an account
    --name <name>             Full name (required)
    --email <email>           Email address (required)
    --phone <phone>           10-digit mobile number (required)

  adda auth logout          Clear the stored session
  adda auth whoami          Show the stored session

PROFILE COMMANDS:
  adda profile show         Show your profile
  adda profile complete     Fill in your profile
    --name, --email, --firm, --license, --address, --city, --state
    --regions <ids>           Comma-separated region IDs
    --specializations <list>  Comma-separated specializations
    --years <n>               Years of experience
    --image, --aadhar, --pan  Document files to upload
  adda profile check-email <email>  Check whether an email is taken

LEAD COMMANDS:
  adda leads list           List your leads
    --status <status>         Filter by status
    --search <text>           Search by customer name or phone
    --requirement <need>      Buy, Rent or Sell
    --type <type>             Property type
    --region <id>             Region ID
    --all                     Leads from every broker
    --page <n>, --limit <n>   Paging (default limit: 20)

  adda leads transferred    Leads shared with you (same filters)
  adda leads show <id>      Show a lead and its transfers
  adda leads add            Create a lead
    --name <name>             Customer name (required)
    --phone <phone>           Customer phone (required)
    --region <id>             Primary region ID (required)

  adda leads update [flags] <id>  Update a lead
    Note: flags must come before the lead ID

  adda leads delete <id>    Delete a lead
  adda leads share [flags] <id>  Share a lead
    --to <ids>                Comma-separated broker IDs
    --region <id>             Share with every broker in a region
    --all                     Share with all brokers
    --notes <text>            Notes for the receiving brokers

  adda leads metrics        Lead counts
    --broker <id>             Broker ID (default: you)

PROPERTY COMMANDS:
  adda properties list      List properties
    --mine                    Only your listings
    --status, --type, --region, --city, --search
    --min-price <n>, --max-price <n>
  adda properties show <id> Show a property
  adda properties add       List a property
    --image <file>            Photo to upload (repeatable)
  adda properties delete <id>  Delete a listing

OTHER COMMANDS:
  adda regions list | show <id> | nearest [--limit n] <lat> <lng>
  adda brokers list | show <id>
  adda notifications list [--unread] | read <id>... | read-all
  adda ratings add --stars <1-5> [--review <text>] <broker-id>
  adda ratings list <broker-id>
  adda places search <text> | details <place-id>
  adda viz transfers [--scope mine|received|both] [--output file.dot]
  adda legal terms | privacy

ENVIRONMENT:
  ADDA_API_URL, ADDA_PLACES_API_KEY, ADDA_STORE, ADDA_DATA_DIR,
  ADDA_LOG_LEVEL, ADDA_SEARCH_DEBOUNCE_MS, ADDA_REQUEST_TIMEOUT_SECONDS
`, cli.Version)
}
