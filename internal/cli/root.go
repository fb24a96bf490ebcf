package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/api/option"

	"wastechart/internal/config"
	"wastechart/internal/core"
	"wastechart/internal/log"
	"wastechart/internal/render"
	"wastechart/internal/services"
	"wastechart/internal/wasteapi"
)

const ErrorBindingFlag = "unable to bind flag"

// Options carries dependencies the command tree cannot build from flags alone.
type Options struct {
	// SheetsOptions replace the service account credentials of publish-sheet.
	SheetsOptions []option.ClientOption
}

// app is the state shared by wastectl subcommands.
type app struct {
	v      *viper.Viper
	opts   Options
	logger *log.Logger
}

// NewRootCommand builds the wastectl command tree. Flags are bound to a
// private viper instance that also reads WASTE_API_* and LOG_LEVEL from
// the environment.
func NewRootCommand(opts Options) *cobra.Command {
	a := &app{v: viper.New(), opts: opts}

	root := &cobra.Command{
		Use:           "wastectl",
		Short:         "Fetch, chart and export monthly waste records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("base-url", config.DefaultWasteAPIBaseURL, "Base URL of the waste records API")
	flags.StringP("username", "u", "admin", "API login username")
	flags.StringP("password", "p", "admin123", "API login password")
	flags.Duration("timeout", 30*time.Second, "Timeout for each API call")
	flags.StringP("log-level", "l", "info", "Log level (debug|info|warn|error)")

	envs := map[string]string{
		"base-url":  "WASTE_API_BASE_URL",
		"username":  "WASTE_API_USERNAME",
		"password":  "WASTE_API_PASSWORD",
		"timeout":   "WASTE_API_TIMEOUT",
		"log-level": "LOG_LEVEL",
	}
	for name, env := range envs {
		if err := a.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			log.New(log.DefaultConfig()).Error(ErrorBindingFlag, log.FieldError, err)
		}
		_ = a.v.BindEnv(name, env)
	}
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.fetchCommand(),
		a.renderCommand(),
		a.exportCommand(),
		a.publishSheetCommand(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	level, err := log.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.logger = log.New(log.Config{
		Level:     level,
		Format:    "text",
		Component: log.ComponentCLI,
		Output:    cmd.ErrOrStderr(),
	})

	return validateBaseURL(a.v.GetString("base-url"))
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("base URL cannot be empty")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL scheme %q", u.Scheme)
	}
	return nil
}

// service builds the fetch/render pipeline from the bound flags. CLI renders
// never publish events.
func (a *app) service() *services.ChartService {
	client := wasteapi.New(wasteapi.Config{
		BaseURL:  a.v.GetString("base-url"),
		Username: a.v.GetString("username"),
		Password: a.v.GetString("password"),
		Timeout:  a.v.GetDuration("timeout"),
	})
	return services.NewChartService(client, render.New(render.DefaultWidth, render.DefaultHeight), nil, a.logger)
}

func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().Int("month", 0, "Month (1-12)")
	cmd.Flags().Int("year", 0, "Year")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("year")
}

func periodFromFlags(cmd *cobra.Command) (core.Period, error) {
	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")
	p := core.Period{Month: month, Year: year}
	if err := p.Validate(); err != nil {
		return core.Period{}, fmt.Errorf("%w: month=%d year=%d", err, month, year)
	}
	return p, nil
}
