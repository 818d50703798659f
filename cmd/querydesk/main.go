package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/tagfilterdb/querydesk/pkg/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cmd.ErrQueryFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		stop()
		os.Exit(1)
	}
}
