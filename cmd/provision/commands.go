package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"lists-ms/infrastructure/config"
	"lists-ms/infrastructure/di"
	"lists-ms/infrastructure/persistence/schema"
	"lists-ms/pkg/auth"
)

// ValidFormats defines the allowed output formats
var ValidFormats = []string{"text", "json", "yaml"}

// RootOptions holds global flags for all commands
type RootOptions struct {
	Format  string
	Verbose bool
}

// tableProvisioner is satisfied by *schema.Provisioner
type tableProvisioner interface {
	Create(ctx context.Context, wait time.Duration) error
	Delete(ctx context.Context) error
	Describe(ctx context.Context) ([]schema.TableStatus, error)
}

type provisionerFactory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (tableProvisioner, error)

func newProvisioner(ctx context.Context, cfg *config.Config, logger *zap.Logger) (tableProvisioner, error) {
	awsCfg, err := di.ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := di.ProvideDynamoDBClient(awsCfg, cfg)
	return schema.NewProvisioner(client, di.ProvideTables(cfg), logger), nil
}

// NewRootCommand creates the provisioning CLI
func NewRootCommand(factory provisionerFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Manage the Lists and Tasks tables",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range ValidFormats {
				if f == opts.Format {
					return nil
				}
			}
			return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newCreateCommand(opts, factory))
	cmd.AddCommand(newDeleteCommand(opts, factory))
	cmd.AddCommand(newDescribeCommand(opts, factory))
	cmd.AddCommand(newTokenCommand(opts))

	return cmd
}

func newCreateCommand(opts *RootOptions, factory provisionerFactory) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create any missing table and index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvisioner(cmd, opts, factory, func(ctx context.Context, p tableProvisioner) error {
				if err := p.Create(ctx, wait); err != nil {
					return err
				}
				return describe(ctx, cmd.OutOrStdout(), opts.Format, p)
			})
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 2*time.Minute, "how long to wait for new tables to become ACTIVE (0 disables)")

	return cmd
}

func newDeleteCommand(opts *RootOptions, factory provisionerFactory) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete both tables and all their data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to delete tables without --yes")
			}
			return withProvisioner(cmd, opts, factory, func(ctx context.Context, p tableProvisioner) error {
				return p.Delete(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm deletion")

	return cmd
}

func newDescribeCommand(opts *RootOptions, factory provisionerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Show table status, item counts and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvisioner(cmd, opts, factory, func(ctx context.Context, p tableProvisioner) error {
				return describe(ctx, cmd.OutOrStdout(), opts.Format, p)
			})
		},
	}
}

func newTokenCommand(opts *RootOptions) *cobra.Command {
	var (
		userID string
		email  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is required to mint tokens")
			}

			gen, err := auth.NewJWTGenerator(auth.JWTConfig{
				SecretKey: cfg.JWTSecret,
				Issuer:    cfg.JWTIssuer,
				Audience:  cfg.JWTAudience,
			}, ttl)
			if err != nil {
				return err
			}
			token, err := gen.GenerateToken(userID, email)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), opts.Format, map[string]string{"user": userID, "token": token}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, token)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id placed in the sub claim")
	cmd.Flags().StringVar(&email, "email", "", "optional email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func withProvisioner(cmd *cobra.Command, opts *RootOptions, factory provisionerFactory, fn func(context.Context, tableProvisioner) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if opts.Verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer func() { _ = logger.Sync() }()

	p, err := factory(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	return fn(cmd.Context(), p)
}

func describe(ctx context.Context, w io.Writer, format string, p tableProvisioner) error {
	statuses, err := p.Describe(ctx)
	if err != nil {
		return err
	}

	return render(w, format, statuses, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TABLE\tSTATUS\tITEMS\tINDEXES")
		for _, s := range statuses {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%v\n", s.Name, s.Status, s.Items, s.Indexes)
		}
		return tw.Flush()
	})
}

func render(w io.Writer, format string, v interface{}, text func(io.Writer) error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return text(w)
	}
}
