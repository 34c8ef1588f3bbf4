package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"fund-projection/config"
	"fund-projection/domain"
	httpLayer "fund-projection/http"
	"fund-projection/logging"
	"fund-projection/report"
	"fund-projection/repository"
	"fund-projection/service"
)

// app holds the wired services shared by every command.
type app struct {
	cfg         config.Config
	log         *logrus.Logger
	closers     []io.Closer
	money       report.MoneyFormatter
	projections *service.ProjectionService
	explainer   *service.ExplanationService
	comparisons *service.ComparisonService
	goals       *service.GoalService
}

func newApp(c *cli.Context) (*app, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return nil, err
	}

	money, err := report.NewMoneyFormatter(cfg.Currency)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: logger, closers: []io.Closer{logCloser}, money: money}

	var cache repository.CacheRepository
	if cfg.Cache.RedisAddr != "" {
		redisCache := repository.NewRedisCache(repository.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.Cache.TTL,
		})
		if err := redisCache.Ping(c.Context); err != nil {
			// The cache is an optimization; keep serving without it.
			logger.WithError(err).Warn("redis unavailable, using in-memory cache")
			redisCache.Close()
			cache = repository.NewMemoryCache()
		} else {
			cache = redisCache
			a.closers = append(a.closers, redisCache)
		}
	} else {
		cache = repository.NewMemoryCache()
	}

	repo := repository.NewProjectionRepositoryMemory(cfg.Cache.HistorySize)
	a.projections = service.NewProjectionService(repo, cache, logger, cfg.MaxYears)
	a.explainer = service.NewExplanationService(service.ExplanationOptions{
		APIKey:  cfg.Explanation.APIKey,
		URL:     cfg.Explanation.URL,
		Model:   cfg.Explanation.Model,
		Timeout: cfg.Explanation.Timeout,
	}, logger)
	a.comparisons = service.NewComparisonService(a.projections, a.explainer)
	a.goals = service.NewGoalService(a.projections)

	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

// planFlags returns fresh flag values; cli flags keep parse state and must
// not be shared between commands.
func planFlags(extra ...cli.Flag) []cli.Flag {
	return append(extra,
		&cli.IntFlag{Name: "years", Aliases: []string{"y"}, Usage: "investment period in years", Required: true},
		&cli.Float64Flag{Name: "rate", Aliases: []string{"r"}, Usage: "annual interest rate in percent"},
		&cli.StringFlag{Name: "tier", Aliases: []string{"t"}, Usage: "market variance: Low, Medium or High", Value: string(domain.VarianceLow)},
	)
}

func main() {
	cliApp := &cli.App{
		Name:  "fundprojection",
		Usage: "project a monthly savings plan under compound interest and scripted market shocks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{config.PathEnv}},
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: runServe,
			},
			{
				Name:  "project",
				Usage: "project one savings plan",
				Flags: planFlags(
					&cli.Float64Flag{Name: "deposit", Aliases: []string{"d"}, Usage: "monthly deposit", Required: true},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "table, json or pdf", Value: "table"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to file instead of stdout"},
					&cli.BoolFlag{Name: "explain", Usage: "append a narrative summary"},
				),
				Action: runProject,
			},
			{
				Name:  "compare",
				Usage: "compare the plan across every variance tier",
				Flags: planFlags(
					&cli.Float64Flag{Name: "deposit", Aliases: []string{"d"}, Usage: "monthly deposit", Required: true},
					&cli.BoolFlag{Name: "explain", Usage: "append a narrative summary"},
				),
				Action: runCompare,
			},
			{
				Name:  "goal",
				Usage: "find the monthly deposit that reaches a target fund value",
				Flags: planFlags(
					&cli.Float64Flag{Name: "target", Usage: "target fund value", Required: true},
				),
				Action: runGoal,
			},
			{
				Name:   "shocks",
				Usage:  "print the scripted market shock schedule",
				Action: runShocks,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func planParams(c *cli.Context) (domain.SimulationParameters, error) {
	tier, ok := domain.ParseVarianceTier(c.String("tier"))
	if !ok {
		return domain.SimulationParameters{}, fmt.Errorf("%w: unknown variance tier %q", service.ErrInvalidParameters, c.String("tier"))
	}
	return domain.SimulationParameters{
		InvestmentPeriodYears:     c.Int("years"),
		MonthlyDeposit:            c.Float64("deposit"),
		AnnualInterestRatePercent: c.Float64("rate"),
		VarianceTier:              tier,
	}, nil
}

func runServe(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	rateLimiter := httpLayer.NewRateLimiter(a.cfg.RateLimit.Capacity, a.cfg.RateLimit.Window)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.Handlers{
		Projection: httpLayer.NewProjectionHandler(a.projections, a.explainer, a.money, a.log),
		Comparison: httpLayer.NewComparisonHandler(a.comparisons, a.log),
		Goal:       httpLayer.NewGoalHandler(a.goals, a.log),
	}, rateLimiter, a.log)

	server := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.log.WithField("addr", server.Addr).Info("projection API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("starting server: %w", err)
	case <-quit:
		a.log.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		a.log.WithError(err).Error("error during server shutdown")
	}

	a.log.Info("server exited")
	return nil
}

func outputWriter(c *cli.Context) (io.Writer, func() error, error) {
	path := c.String("output")
	if path == "" {
		return c.App.Writer, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func runProject(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	params, err := planParams(c)
	if err != nil {
		return err
	}
	result, err := a.projections.CalculateProjection(c.Context, params)
	if err != nil {
		return err
	}

	w, closeOutput, err := outputWriter(c)
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "json":
		response := domain.ProjectionResponse{SimulationResult: result}
		if c.Bool("explain") {
			response.Explanation = a.explainer.ExplainProjection(c.Context, params, result)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(response)
	case "pdf":
		var pdf []byte
		if pdf, err = report.GenerateProjectionPDF(params, result, a.money); err == nil {
			_, err = w.Write(pdf)
		}
	case "table":
		err = printProjection(w, a.money, result)
		if err == nil && c.Bool("explain") {
			_, err = fmt.Fprintf(w, "\n%s\n", a.explainer.ExplainProjection(c.Context, params, result))
		}
	default:
		err = fmt.Errorf("unknown format %q", c.String("format"))
	}

	if closeErr := closeOutput(); err == nil {
		err = closeErr
	}
	return err
}

func printProjection(w io.Writer, money report.MoneyFormatter, result domain.SimulationResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tDeposits\tFund Value\tGain\tGrowth %\t")
	for _, r := range result.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t\n",
			r.Month, money.Format(r.AccumulatedDeposits), money.Format(r.FundValue),
			money.Format(r.InterestGainedThisMonth), r.MonthlyGrowthPercent)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal interest earned: %s\nAverage annual growth rate: %.2f%%\n",
		money.Format(result.TotalInterestEarned), result.AverageAnnualGrowthRate)
	return err
}

func runCompare(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	params, err := planParams(c)
	if err != nil {
		return err
	}
	comparison, err := a.comparisons.CompareTiers(c.Context, params, c.Bool("explain"))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Tier\tFinal Value\tInterest\tGrowth %/yr\tWorst Month\tWorst %\t")
	for _, o := range comparison.Outcomes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%.2f\t\n",
			o.Tier, a.money.Format(o.FinalFundValue), a.money.Format(o.TotalInterestEarned),
			o.AverageAnnualGrowthRate, o.WorstMonth, o.WorstMonthGrowthPercent)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\nBest tier: %s, spread %s\n", comparison.BestTier, a.money.Format(comparison.FinalValueSpread))
	if comparison.Explanation != "" {
		fmt.Fprintf(c.App.Writer, "\n%s\n", comparison.Explanation)
	}
	return nil
}

func runGoal(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	params, err := planParams(c)
	if err != nil {
		return err
	}
	result, err := a.goals.RecommendDeposit(c.Context, domain.GoalInput{
		TargetFundValue:           c.Float64("target"),
		InvestmentPeriodYears:     params.InvestmentPeriodYears,
		AnnualInterestRatePercent: params.AnnualInterestRatePercent,
		VarianceTier:              params.VarianceTier,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Required monthly deposit: %s\n%s\n", a.money.Format(result.RequiredMonthlyDeposit), result.Reason)
	return nil
}

func runShocks(c *cli.Context) error {
	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Event\tTier\tMonths\tImpact / Month")
	for _, w := range service.ShockSchedule() {
		fmt.Fprintf(tw, "%s\t%s\t%d-%d\t%+.2f%%\n", w.Event, w.Tier, w.FirstMonth, w.LastMonth, w.ImpactPercent)
	}
	return tw.Flush()
}
