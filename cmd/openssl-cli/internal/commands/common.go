package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/MGTheTrain/managed-openssl/internal/app"
	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/MGTheTrain/managed-openssl/internal/infrastructure/native/backend"
	"github.com/MGTheTrain/managed-openssl/internal/openssl"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/config"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/logger"
)

// ConfigFileEnv names the environment variable holding the optional config file path.
const ConfigFileEnv = config.EnvPrefix + "_CONFIG"

// environment is what every command handler needs from the process setup.
type environment struct {
	cfg    *config.Config
	logger logger.Logger
	lib    native.Library
	rt     *openssl.Runtime
}

func setupEnvironment() (*environment, error) {
	cfg, err := config.InitializeConfig(os.Getenv(ConfigFileEnv))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.InitLogger(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	lib, err := backend.NewLibrary(&cfg.Native)
	if err != nil {
		return nil, fmt.Errorf("failed to create native library: %w", err)
	}

	rt, err := openssl.NewRuntime(lib, loggerInstance, &cfg.Stream)
	if err != nil {
		return nil, fmt.Errorf("failed to create runtime: %w", err)
	}

	return &environment{cfg: cfg, logger: loggerInstance, lib: lib, rt: rt}, nil
}

// trackLeaks runs fn and reports native objects it left allocated. Backends without
// allocation tracking run fn unchecked.
func (env *environment) trackLeaks(fn func()) {
	before, ok := app.LiveObjects(env.lib)
	if !ok {
		fn()
		return
	}

	fn()

	after, _ := app.LiveObjects(env.lib)
	if leaked := leakedKinds(before, after); leaked != "" {
		env.logger.Warn("Leaked native objects: ", leaked)
	}
}

func leakedKinds(before, after map[string]int) string {
	var parts []string
	for kind, n := range after {
		if d := n - before[kind]; d > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", kind, d))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
