package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"image-drop/internal/config"
	"image-drop/internal/server"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "imagedrop",
		Short: "Authenticated image upload server",
		Long: "imagedrop accepts one Basic-authenticated image upload per request,\n" +
			"stores it under a generated name and serves stored images back.\n\n" +
			"Without a subcommand it behaves like \"imagedrop serve\".",
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newHashPasswordCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the upload server",
		Long:  "Load .env if present, read the configuration from the environment and serve until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("service=imagedrop msg=%q err=%v", "dotenv_failed", err)
			return err
		}
	}

	cfg, err := config.New()
	if err != nil {
		log.Printf("service=imagedrop msg=%q err=%v", "config_invalid", err)
		return err
	}

	logger := server.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server_error", nil, err)
		return err
	}
	logger.Info("shutdown_complete", nil)
	return nil
}

func newHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for BA_PASSWORD_HASH",
		Long: "Hash a password with bcrypt for use as BA_PASSWORD_HASH.\n" +
			"The password is read from the first line of stdin when no argument is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, args)
			if err != nil {
				return err
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return err
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")

	return cmd
}

func readPassword(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		if args[0] == "" {
			return "", errors.New("password must not be empty")
		}
		return args[0], nil
	}

	sc := bufio.NewScanner(cmd.InOrStdin())
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errors.New("no password on stdin")
	}

	password := strings.TrimRight(sc.Text(), "\r")
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "imagedrop %s (commit %s)\n", version, commit)
		},
	}
}
