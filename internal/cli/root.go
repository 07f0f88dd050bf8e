package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"everpeak/internal/brief"
	"everpeak/internal/config"
	"everpeak/internal/display"
	"everpeak/internal/listener"
	"everpeak/internal/llm_client"
	"everpeak/internal/logger"
	"everpeak/internal/mission"
	"everpeak/internal/recommend"
	"everpeak/internal/session"
)

var (
	configPath string
	backend    string
	model      string
	cfg        *config.Config
)

type missionFlags struct {
	missionType string
	temp        int
	duration    int
	equipment   string
}

func (f *missionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.missionType, "type", string(mission.Recon), "mission type (Recon, Defense, Arctic, Rescue)")
	cmd.Flags().IntVar(&f.temp, "temp", mission.DefaultTemperatureC, "ambient temperature in °C (-50..50)")
	cmd.Flags().IntVar(&f.duration, "duration", mission.DefaultDurationHours, "mission duration in hours (1..72)")
	cmd.Flags().StringVar(&f.equipment, "equipment", "", "equipment loadout, e.g. \"2 drones, 1 radio\"")
}

func (f *missionFlags) parameters() (mission.Parameters, error) {
	p := mission.Defaults()
	t, err := mission.ParseType(f.missionType)
	if err != nil {
		return p, err
	}
	if err := p.SetType(t); err != nil {
		return p, err
	}
	p.SetTemperature(f.temp)
	p.SetDuration(f.duration)
	p.SetEquipment(f.equipment)
	return p, p.Validate()
}

func newRecommender() (*recommend.Client, error) {
	cc := cfg.ClientConfig()
	if backend != "" {
		cc.Backend = backend
	}
	if model != "" {
		cc.Model = model
	}
	p, err := llm_client.New(cc)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("LLM backend ready", zap.String("backend", p.Name()), zap.Bool("api_key_set", cc.APIKey != ""))
	return recommend.NewClient(llm_client.WithLogging(p, logger.Log), cc.Model, logger.Log), nil
}

var rootCmd = &cobra.Command{
	Use:          "planner",
	Short:        "EverPeak tactical energy planner",
	Long:         `Collects mission parameters, asks a generative model for a tactical energy briefing, and shows the recommended EverPeak configuration.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		return logger.Init(cfg.Log.File, cfg.Log.Level)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := newRecommender()
		if err != nil {
			return err
		}
		if err := listener.Init(); err != nil {
			return fmt.Errorf("failed to init terminal input: %w", err)
		}
		defer listener.Close()

		var console *Console
		orch := session.New(rec,
			session.WithLogger(logger.Log),
			session.WithObserver(func(id string, st session.State) { console.Observe(id, st) }),
		)
		console = NewConsole(context.Background(), orch, listener.AsyncPrintln)

		// Graceful shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-c
			orch.Close()
			fmt.Println("\nGoodbye!")
			os.Exit(0)
		}()

		listener.AsyncPrintln("Tactical Energy Planner v2.0 (type 'help' for commands, 'exit' to quit)")
		console.Handle(Command{Name: CmdOpen})

		for {
			inputText, ok := listener.GetInput()
			if !ok {
				orch.Close()
				fmt.Println("Goodbye!")
				return nil
			}
			if inputText == "" {
				continue
			}
			command, err := ParseCommand(inputText)
			if err != nil {
				listener.AsyncPrintln(err.Error())
				if errors.Is(err, ErrUnknownCommand) {
					listener.AsyncPrintln(helpText)
				}
				continue
			}
			if console.Handle(command) {
				fmt.Println("Goodbye!")
				return nil
			}
		}
	},
}

func newBriefCmd() *cobra.Command {
	var f missionFlags
	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Print the compiled brief without calling the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.parameters()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), display.FormatBrief(brief.Compile(p)))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the product catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), display.FormatCatalog(brief.DefaultCatalog()))
			return nil
		},
	}
}

// ErrBriefingFailed is returned by plan when the attempt resolved to a Failure.
var ErrBriefingFailed = errors.New("briefing failed")

func newPlanCmd() *cobra.Command {
	var (
		f       missionFlags
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate one briefing and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.parameters()
			if err != nil {
				return err
			}
			rec, err := newRecommender()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return runPlan(ctx, rec, p, func(s string) { fmt.Fprintln(cmd.OutOrStdout(), s) })
		},
	}
	f.register(cmd)
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall deadline for the request (0 = transport default)")
	return cmd
}

func runPlan(ctx context.Context, rec session.Recommender, p mission.Parameters, out func(string)) error {
	orch := session.New(rec, session.WithLogger(logger.Log))
	s := orch.Open()
	defer orch.Close()

	if err := s.SetType(p.Type); err != nil {
		return err
	}
	if _, err := s.SetTemperature(p.TemperatureC); err != nil {
		return err
	}
	if _, err := s.SetDuration(p.DurationHours); err != nil {
		return err
	}
	if err := s.SetEquipment(p.Equipment); err != nil {
		return err
	}

	done, err := s.Submit(ctx)
	if err != nil {
		return err
	}
	<-done

	st := s.State()
	out(display.FormatState(s.ID(), st))
	if r, ok := st.(session.Resolved); ok {
		if f, ok := r.Outcome.(recommend.Failure); ok {
			return fmt.Errorf("%w: %s", ErrBriefingFailed, f.Kind)
		}
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "LLM backend override (gemini, genai, ollama)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model override")
	rootCmd.AddCommand(newBriefCmd(), newCatalogCmd(), newPlanCmd())
}

func Execute() error {
	return rootCmd.Execute()
}
