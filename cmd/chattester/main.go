package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chat-tester/config"
	"chat-tester/internal/auth"
	"chat-tester/internal/launcher"
	"chat-tester/internal/runner"
	"chat-tester/internal/storage"
	"chat-tester/internal/suite"
	"chat-tester/log"
	apperrors "chat-tester/pkg/errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	exitPassed  = 0
	exitFailed  = 1
	exitAborted = 2
)

type options struct {
	configPath   string
	initDB       bool
	showVersion  bool
	showDiagnose bool
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	code := exitPassed
	cmd := newRootCommand(&code)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitAborted
	}
	return code
}

func newRootCommand(code *int) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "chattester",
		Short:         "Smoke test a chat groups and messages API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.SetConfigPath(opts.configPath)
			if opts.showVersion || opts.showDiagnose {
				handleInfoFlags(opts)
				return nil
			}
			*code = runTester(cmd.Context(), opts)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to the config file")
	flags.BoolVar(&opts.initDB, "init-db", false, "create the chat tables before running")
	flags.BoolVar(&opts.showVersion, "version", false, "print version information")
	flags.BoolVar(&opts.showDiagnose, "diagnose", false, "print runtime diagnostics")
	return cmd
}

func runTester(parent context.Context, opts *options) int {
	log.InitLogger()
	defer log.GetLogger().Sync()
	log.WithRun(uuid.NewString())

	if !config.LoadConfig() {
		return exitAborted
	}
	if err := config.CheckConfig(); err != nil {
		log.GetLogger().Error("config check failed", zap.Error(err))
		return exitAborted
	}
	if err := config.LoadEnvFile(); err != nil {
		log.GetLogger().Warn("env file not loaded", zap.Error(err))
	}

	token, err := auth.Resolve(auth.Source{
		Token:     config.Conf.Auth.Token,
		SecretEnv: config.Conf.Auth.SecretEnv,
		UserID:    config.Conf.Auth.UserID,
		Username:  config.Conf.Auth.Username,
	})
	if err != nil {
		log.GetLogger().Error("no usable token", zap.Error(err), zap.String("detail", apperrors.GetDetail(err)))
		return exitAborted
	}

	store, err := openStore(opts.initDB)
	if err != nil {
		log.GetLogger().Error("database unavailable", zap.Error(err))
		return exitAborted
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Conf.Launcher.Enabled {
		server, err := launcher.Start(ctx, launcher.Options{
			Command:      config.Conf.Launcher.Command,
			Args:         config.Conf.Launcher.Args,
			Dir:          config.Conf.Launcher.Dir,
			Addr:         config.Conf.Server.Addr(),
			BaseURL:      config.Conf.Server.BaseURL(),
			StartupDelay: config.Conf.Launcher.StartupDelay(),
			ReadyTimeout: config.Conf.Launcher.ReadyTimeout(),
			StopGrace:    config.Conf.Launcher.StopGrace(),
		})
		if err != nil {
			log.GetLogger().Error("server launch failed", zap.Error(err), zap.String("hint", apperrors.GetDetail(err)))
			return exitAborted
		}
		defer func() {
			if err := server.Stop(); err != nil {
				log.GetLogger().Error("server did not stop cleanly", zap.Error(err))
			}
		}()
	}

	s := suite.New(
		runner.New(config.Conf.Server.BaseURL(), config.Conf.Server.HTTPTimeout()),
		store,
		suite.NewReporter(os.Stdout),
		suite.Options{
			Fixtures:     config.Conf.Fixtures,
			Token:        token,
			InvalidToken: config.Conf.Auth.InvalidToken,
		},
	)
	summary, err := s.Run(ctx)
	if err != nil {
		log.GetLogger().Error("run aborted", zap.Error(err), zap.Int("code", apperrors.GetCode(err)))
		return exitAborted
	}
	if !summary.Passed() {
		return exitFailed
	}
	return exitPassed
}

func openStore(initDB bool) (*storage.Store, error) {
	if !initDB {
		return storage.Open(config.Conf.Database.Path)
	}
	store, err := storage.Create(config.Conf.Database.Path)
	if err != nil {
		return nil, err
	}
	if err = store.EnsureSchema(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// loadExistingConfig reads the config file for diagnostics without writing a
// default one.
func loadExistingConfig() error {
	path, err := config.EffectivePath()
	if err != nil {
		return err
	}
	if _, err = os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	_, err = config.LoadOrCreateConfig()
	return err
}
