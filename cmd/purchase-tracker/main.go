package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"purchase-tracker/internal/config"
	"purchase-tracker/internal/logger"
)

const usageLine = "Usage: purchase-tracker new-store OUTFILE | update-store INFILE OUTFILE | show FILE | export-sqlite FILE DB | serve FILE | receipt FILE INDEX PNG"

const helpText = usageLine + `

new-store OUTFILE
    Starts an empty list of orders, asks for one order and saves the list to
    OUTFILE. Fails if OUTFILE already exists.

update-store INFILE OUTFILE
    Reads the orders saved in INFILE, prints them, asks for one more order and
    saves the whole list to OUTFILE. INFILE must exist and OUTFILE must not.
    INFILE is never modified; passing the same file twice is refused.
    Example: purchase-tracker update-store file.bin new_file.bin

show FILE
    Prints every order saved in FILE.

export-sqlite FILE DB
    Copies the orders in FILE into the SQLite database DB, replacing any
    earlier export of the same file.

serve FILE
    Serves the orders in FILE read-only over HTTP on SERVE_ADDR.

receipt FILE INDEX PNG
    Writes a QR code summarising order INDEX of FILE to PNG.

Only files written by new-store or update-store can be read. If you have no
such file yet, run new-store to create one.
`

var errUsage = errors.New("wrong arguments")

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log, err := setup(cfg, envErr, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "purchase-tracker: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log, os.Args[1:])
	stop()

	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, usageLine)
		fmt.Fprintln(os.Stderr, "Run 'purchase-tracker --help' for more information")
	}
	if err != nil {
		log.Error("MAIN", err.Error())
		log.Close()
		os.Exit(1)
	}
	log.Close()
}

// setup builds the logger from cfg and reports how the environment was
// loaded. envErr is the result of loading .env.
func setup(cfg *config.Config, envErr error, terminal io.Writer) (*logger.Logger, error) {
	log, err := logger.NewLogger(logger.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level, Terminal: terminal})
	if err != nil {
		return nil, err
	}
	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}
	return log, nil
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help", "-h", "--help":
		fmt.Print(helpText)
		return nil
	case "new-store":
		if len(rest) != 1 {
			return errUsage
		}
		return newStore(ctx, cfg, log, rest[0])
	case "update-store":
		if len(rest) != 2 {
			return errUsage
		}
		return updateStore(ctx, cfg, log, rest[0], rest[1])
	case "show":
		if len(rest) != 1 {
			return errUsage
		}
		return show(log, rest[0])
	case "export-sqlite":
		if len(rest) != 2 {
			return errUsage
		}
		return exportSQLite(ctx, log, rest[0], rest[1])
	case "serve":
		if len(rest) != 1 {
			return errUsage
		}
		return serve(ctx, cfg, log, rest[0])
	case "receipt":
		if len(rest) != 3 {
			return errUsage
		}
		return writeReceipt(cfg, log, rest[0], rest[1], rest[2])
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}
