package main

import (
	"context"
	"fmt"
	"time"

	"taller/internal/config"
	"taller/internal/infra"
	"taller/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newDLQCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspecciona la cola de correos fallidos",
	}

	var limit int64
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista los trabajos en la DLQ de correo",
		RunE: func(cmd *cobra.Command, args []string) error {
			return conRedis(cmd.Context(), func(ctx context.Context, rdb *redis.Client) error {
				entradas, err := worker.ListDLQ(ctx, rdb, worker.QueueEmail, limit)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(entradas) == 0 {
					fmt.Fprintln(w, "DLQ vacía")
					return nil
				}
				for _, e := range entradas {
					fmt.Fprintf(w, "%s  %s  intentos=%d  %s\n",
						e.FailedAt.Format(time.RFC3339), e.JobType, e.Attempts, e.Reason)
				}
				return nil
			})
		},
	}
	list.Flags().Int64Var(&limit, "limit", 20, "máximo de entradas")

	requeue := &cobra.Command{
		Use:   "requeue",
		Short: "Devuelve todos los trabajos de la DLQ a la cola de correo",
		RunE: func(cmd *cobra.Command, args []string) error {
			return conRedis(cmd.Context(), func(ctx context.Context, rdb *redis.Client) error {
				n, err := worker.RequeueDLQ(ctx, rdb, worker.QueueEmail)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d trabajos reencolados\n", n)
				return nil
			})
		},
	}

	cmd.AddCommand(list, requeue)
	return cmd
}

func conRedis(ctx context.Context, fn func(context.Context, *redis.Client) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	return fn(ctx, rdb)
}
